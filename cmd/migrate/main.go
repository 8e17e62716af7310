package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dirFlag string
		s       settings
	)

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the borrow event store schema",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			s = resolveSettings(dirFlag)
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), s.LogLevel))
		},
	}
	root.PersistentFlags().StringVar(&dirFlag, "dir", "", "migrations directory (default $MIGRATIONS_DIR or db/migrations)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), s.DSN, func(db *sql.DB) error {
					if err := goose.UpContext(cmd.Context(), db, s.Dir); err != nil {
						return fmt.Errorf("apply migrations: %w", err)
					}
					slog.Info("migrations applied", "dir", s.Dir)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), s.DSN, func(db *sql.DB) error {
					if err := goose.DownContext(cmd.Context(), db, s.Dir); err != nil {
						return fmt.Errorf("roll back migration: %w", err)
					}
					slog.Info("migration rolled back", "dir", s.Dir)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the status of every migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), s.DSN, func(db *sql.DB) error {
					return goose.StatusContext(cmd.Context(), db, s.Dir)
				})
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a new SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := goose.Create(nil, s.Dir, args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				return nil
			},
		},
	)
	return root
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return logger.New(logger.Config{
		Writer: w,
		Level:  level,
		Format: "text",
	})
}

var errMissingDSN = errors.New("DB_DSN is required")

func withDB(ctx context.Context, dsn string, fn func(db *sql.DB) error) error {
	if dsn == "" {
		return errMissingDSN
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect %s: %w", config.RedactDSN(dsn), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(db)
}
