package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/auth"
	"github.com/xenking/novexa-store/internal/domain/user"
	"github.com/xenking/novexa-store/internal/storage/postgres"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}
	cmd.AddCommand(newTokenIssueCmd())
	return cmd
}

func newTokenIssueCmd() *cobra.Command {
	var (
		profile user.Profile
		name    string
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Create the user if needed and print a new API token for it",
		Long: `Create the user record on first use, then mint an API token bound to it.
The raw token is printed once; only its keyed hash is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if profile.ID == "" || profile.Email == "" {
				return errors.New("--user-id and --email are required")
			}
			ctx := cmd.Context()
			lg := newLogger()
			defer func() { _ = lg.Sync() }()

			cfg, pool, err := openStore(ctx, lg)
			if err != nil {
				return err
			}
			defer pool.Close()

			// Sync is not an admin operation, so no guard is needed.
			users := user.NewService(postgres.NewUserRepository(pool), nil, user.Policy{})
			u, err := users.Sync(ctx, profile)
			if err != nil {
				return err
			}

			tokens := auth.NewService(postgres.NewTokenRepository(pool), []byte(cfg.TokenPepper))
			raw, err := tokens.Issue(ctx, u.ID, u.Email, name)
			if err != nil {
				return err
			}
			lg.Info("Issued API token", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))

			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	cmd.Flags().StringVar(&profile.ID, "user-id", "", "user id")
	cmd.Flags().StringVar(&profile.Email, "email", "", "user e-mail")
	cmd.Flags().StringVar(&profile.FirstName, "first-name", "", "first name for a new user")
	cmd.Flags().StringVar(&profile.LastName, "last-name", "", "last name for a new user")
	cmd.Flags().StringVar(&name, "name", "storectl", "token label")
	return cmd
}
