package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgPath string
	debug   bool
}

func NewRootCMD() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "grocer",
		Short:         "Grocery shopping assistant for Vietnamese retailers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "config file (default searches ./config and .)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "debug logging")

	root.AddCommand(serveCMD(opts), chatCMD(opts), askCMD(opts), retailersCMD(opts))
	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := NewRootCMD().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
