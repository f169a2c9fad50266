// Command catalogctl inspects the storefront catalog from a terminal: it runs
// navigation queries against the live collaborators, normalizes parameter
// bags, prints taxonomy ids and issues development tokens.
package main

import (
	"fmt"
	"os"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/spf13/cobra"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operate the storefront catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfg == nil {
				cfg = config.LoadEnv()
			}
		},
	}
	root.AddCommand(newQueryCmd(), newParamsCmd(), newHashCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
