package main

import (
	"fmt"
	"time"

	"storyteller/internal/authutils"
	"storyteller/internal/config"

	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID  string
		ttl     time.Duration
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 token for the story gate (development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAuthConfig(envFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.TokenTTL
			}
			token, err := authutils.IssueToken(userID, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id placed in the userId claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&envFile, "env", ".env", "optional .env file")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
