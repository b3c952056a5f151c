// Command migrate manages the PostgreSQL schema.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SnoopySong/nexaweb/internal/config"
	"github.com/SnoopySong/nexaweb/internal/logging"
	"github.com/SnoopySong/nexaweb/internal/migrate"
	"github.com/SnoopySong/nexaweb/internal/repository"
)

var migrationDir string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "差分マイグレーションを適用",
	Long: `migrate applies pending *.up.sql files from the migrations directory
and records them in schema_migrations.

Subcommands:
  reset   全テーブルを DROP し、集約スキーマで再作成
  fresh   全テーブルを DROP し、全マイグレーションを順番に適用
  status  適用状況を表示`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), runUp)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all tables and recreate them from the consolidated schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			if err := m.DropAll(ctx); err != nil {
				return err
			}
			n, err := m.ApplyConsolidated(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("consolidated schema applied, %d migrations marked\n", n)
			return nil
		})
	},
}

var freshCmd = &cobra.Command{
	Use:   "fresh",
	Short: "Drop all tables and apply every migration in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			if err := m.DropAll(ctx); err != nil {
				return err
			}
			return runUp(ctx, m)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			st, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range st {
				mark := "pending"
				if s.Applied {
					mark = "applied"
				}
				fmt.Printf("%-8s %s\n", mark, s.Name)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationDir, "dir", "", "migrations directory (default: ./migrations or ../migrations)")
	rootCmd.AddCommand(resetCmd, freshCmd, statusCmd)
}

func runUp(ctx context.Context, m *migrate.Migrator) error {
	applied, err := m.Up(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Println("all migrations already applied")
	} else {
		fmt.Printf("%d migrations applied\n", len(applied))
	}
	return nil
}

func findMigrationDir() string {
	if migrationDir != "" {
		return migrationDir
	}
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		return "../migrations"
	}
	return "migrations"
}

func withMigrator(ctx context.Context, fn func(context.Context, *migrate.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DBDriver != config.DriverPostgres {
		return fmt.Errorf("migrate only targets postgres; the %s store creates its schema on open", cfg.DBDriver)
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	return fn(ctx, migrate.New(pool, os.DirFS(findMigrationDir())))
}

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"))
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.Fatal("migrate failed", "error", err)
	}
}
