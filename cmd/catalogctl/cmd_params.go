package main

import (
	"fmt"

	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params <query>",
		Short: "Normalize a navigation parameter bag",
		Long: `Decodes a parameter bag the way the storefront does, dropping malformed
values, and prints the canonical encoding of the resulting state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := navigation.DecodeQuery(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), navigation.Encode(state).Encode())
			return nil
		},
	}
}
