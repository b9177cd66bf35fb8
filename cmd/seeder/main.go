//cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/unclebandit/acme-customers-backend/internal/config"
	"github.com/unclebandit/acme-customers-backend/internal/db"
	"github.com/unclebandit/acme-customers-backend/internal/logger"
	"github.com/unclebandit/acme-customers-backend/internal/paramstore"
	"github.com/unclebandit/acme-customers-backend/internal/repository"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "seeder",
		Short:        "Schema and demo data tooling for the customers database",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, lg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			applied, err := db.Migrate(cmd.Context(), conn)
			if err != nil {
				return err
			}
			for _, name := range applied {
				lg.Info().Str("file", name).Msg("migration applied")
			}
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo customers with contact infos and orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}

			conn, lg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			repo := &repository.CustomerRepository{DB: conn}
			for _, c := range demoCustomers(count) {
				if err := repo.Create(cmd.Context(), &c); err != nil {
					return fmt.Errorf("seed %s: %w", c.Email, err)
				}
				lg.Info().Int("customer_id", c.ID).Str("email", c.Email).Msg("seeded customer")
			}

			fmt.Println("Database seeding completed successfully!")
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of customers to insert")
	return cmd
}

// connect resolves the connection string the same way the server does.
func connect(ctx context.Context) (*sql.DB, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	lg := logger.Init(cfg.LogLevel, true)

	var store paramstore.Store
	if !cfg.IsDevelopment() {
		if store, err = paramstore.NewSSMStore(ctx, cfg.AWSRegion); err != nil {
			return nil, lg, err
		}
	}

	dsn := cfg.DSN()
	if store != nil {
		dsn, err = store.GetParameter(ctx, cfg.ParameterName(cfg.ParameterStore.ConnectionStringParameterName))
		if err != nil {
			return nil, lg, fmt.Errorf("resolve connection string: %w", err)
		}
	}

	conn, err := db.Open(ctx, dsn, lg)
	if err != nil {
		return nil, lg, err
	}
	return conn, lg, nil
}
