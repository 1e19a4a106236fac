package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Workers int
}

// NewRootCommand creates the root command for the minicon CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "minicon",
		Short: "View-based query rewriting with MiniCon",
		Long: `Rewrites a conjunctive query into unions of conjunctive queries over
a set of views. Rewritings can be ranked by per-view preferences and
enumerated best first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Workers < 0 {
				return errors.Newf("invalid --workers %d: must not be negative", opts.Workers)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "stream rewriting events to stderr and print the MCD table")
	cmd.PersistentFlags().IntVar(&opts.Workers, "workers", 0, "worker goroutines (0 = number of CPUs)")

	cmd.AddCommand(NewRewriteCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))

	return cmd
}
