package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/db"
	"yrhacks/hackbot/internal/db/repositories"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets := config.LoadSecrets()
			if secrets.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			gdb, err := db.InitPostgresORM(secrets.DatabaseURL)
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
			return nil
		},
	}
}

func apiKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys used by the bot process",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Issue a new active API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets := config.LoadSecrets()
			if secrets.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			sdb, err := db.InitPostgres(secrets.DatabaseURL)
			if err != nil {
				return err
			}
			defer sdb.Close()

			key, err := repositories.NewApiKeysRepo(sdb).Create(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "New API Key:", key)
			return nil
		},
	})
	return cmd
}

func tokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage service tokens",
	}
	create := &cobra.Command{
		Use:   "create <subject>",
		Short: "Sign a bearer token for a service account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := config.LoadSecrets().JWTSecret
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			token, err := auth.IssueServiceToken(secret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	create.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	cmd.AddCommand(create)
	return cmd
}
