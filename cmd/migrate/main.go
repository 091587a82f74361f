package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agrotrace/backend/internal/infrastructure/config"
	"github.com/agrotrace/backend/internal/infrastructure/logger"
	"github.com/agrotrace/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

type options struct {
	path     string
	logLevel string
	log      *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the agrotrace PostgreSQL schema",
		Long: `Applies the SQL migrations under migrations/ to the database named by
DATABASE_URL. Without --path the migrations embedded in the binary are used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(logger.Config{Level: opts.logLevel, Format: "console", Output: "stdout"})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.path, "path", "", "migrations directory (default: embedded migrations)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		migratorCmd(opts, &cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
		}, func(m *migration.Migrator, _ []string) error {
			return m.Up()
		}),
		migratorCmd(opts, &cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
		}, func(m *migration.Migrator, _ []string) error {
			return m.Down()
		}),
		migratorCmd(opts, &cobra.Command{
			Use:   "steps N",
			Short: "Apply N migrations (negative N rolls back)",
			Args:  cobra.ExactArgs(1),
		}, func(m *migration.Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		}),
		migratorCmd(opts, &cobra.Command{
			Use:   "goto VERSION",
			Short: "Migrate up or down to VERSION",
			Args:  cobra.ExactArgs(1),
		}, func(m *migration.Migrator, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(version))
		}),
		migratorCmd(opts, &cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			Args:  cobra.NoArgs,
		}, func(m *migration.Migrator, _ []string) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				opts.log.Info("No migrations applied")
				return nil
			}
			opts.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		}),
		migratorCmd(opts, &cobra.Command{
			Use:   "force VERSION",
			Short: "Set the version without running migrations (repairs a dirty database)",
			Args:  cobra.ExactArgs(1),
		}, func(m *migration.Migrator, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.Force(version)
		}),
		createCmd(opts),
		listCmd(opts),
	)
	return root
}

// migratorCmd binds run to cmd, opening the database and migrator first
func migratorCmd(opts *options, cmd *cobra.Command, run func(*migration.Migrator, []string) error) *cobra.Command {
	cmd.RunE = func(_ *cobra.Command, args []string) error {
		m, err := opts.openMigrator()
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				opts.log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()
		return run(m, args)
	}
	return cmd
}

func createCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME [DESCRIPTION]",
		Short: "Create the next numbered up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(opts.migrationsDir(), args[0], description)
			if err != nil {
				return err
			}
			opts.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the migrations found in the migrations directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := migration.ListMigrations(opts.migrationsDir())
			if err != nil {
				return err
			}
			for _, name := range names {
				cmd.Println(name)
			}
			return nil
		},
	}
}

// migrationsDir is the directory used by create and list
func (o *options) migrationsDir() string {
	if o.path != "" {
		return o.path
	}
	return defaultMigrationsPath
}

func (o *options) openMigrator() (*migration.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	driver, err := cfg.Database.Driver()
	if err != nil {
		return nil, err
	}
	if driver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations target PostgreSQL; the %s schema is created by the server at startup", driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if o.path == "" {
		return migration.New(db, o.log)
	}
	abs, err := filepath.Abs(o.path)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	o.log.Info("Using migrations directory", zap.String("path", abs))
	return migration.NewFromPath(db, abs, o.log)
}
