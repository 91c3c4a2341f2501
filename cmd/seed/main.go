package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/shipmarket/internal/logging"
	"github.com/dmitrijs2005/shipmarket/internal/seed"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

const dsnEnv = "SHIPMARKET_DATABASE_DSN"

var globalFlags = struct {
	dsn      string
	file     string
	logLevel string
	migrate  bool
}{}

func main() {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Manage demo fixtures in the shipmarket database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&globalFlags.dsn, "dsn", os.Getenv(dsnEnv), "Postgres DSN (env "+dsnEnv+")")
	root.PersistentFlags().StringVarP(&globalFlags.file, "file", "f", "", "fixtures YAML file (defaults to the embedded set)")
	root.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "info", "log level")
	root.PersistentFlags().BoolVar(&globalFlags.migrate, "migrate", true, "apply migrations before seeding")

	root.AddCommand(
		command("populate", "Insert fixture rows", func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
			return s.Populate(ctx, f)
		}),
		command("clear", "Delete all fixture-managed rows", func(ctx context.Context, s *seed.Seeder, _ *seed.Fixtures) error {
			return s.Clear(ctx)
		}),
		command("reset", "Clear and populate in one transaction", func(ctx context.Context, s *seed.Seeder, f *seed.Fixtures) error {
			return s.Reset(ctx, f)
		}),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func command(use, short string, run func(context.Context, *seed.Seeder, *seed.Fixtures) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			fixtures, err := loadFixtures()
			if err != nil {
				return err
			}

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := logging.NewJSON(os.Stdout, logging.ParseLevel(globalFlags.logLevel))
			return run(ctx, seed.New(db, logger.With("command", use)), fixtures)
		},
	}
}

func loadFixtures() (*seed.Fixtures, error) {
	if globalFlags.file == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(globalFlags.file)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}

func open(ctx context.Context) (*sql.DB, error) {
	if globalFlags.dsn == "" {
		return nil, fmt.Errorf("database DSN required (--dsn or %s)", dsnEnv)
	}

	db, err := sql.Open("pgx", globalFlags.dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if globalFlags.migrate {
		if err := repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		log.Printf("migrations applied")
	}
	return db, nil
}
