package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		roles []string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Issue a development bearer token signed with JWT_SECRET_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return errors.New("ttl must be positive")
			}
			token, err := auth.NewVerifier(cfg.JWT.SecretKey).Issue(args[0], roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role to grant, repeatable (e.g. ADMIN)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
