package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/mohammad-safakhou/grocer/config"
	"github.com/spf13/cobra"
)

func retailersCMD(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retailers",
		Short: "List the retailer sites searched",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.cfgPath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tURL\tHOST")
			for _, r := range cfg.Retailers {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.URL, config.NormalizeHost(r.URL))
			}
			return tw.Flush()
		},
	}
}
