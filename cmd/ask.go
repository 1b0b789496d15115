package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func askCMD(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.printDisabled(cmd.ErrOrStderr())

			id, err := a.store.Create(ctx)
			if err != nil {
				return err
			}
			return a.answer(ctx, id, strings.Join(args, " "), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
