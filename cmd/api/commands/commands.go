package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/Yash-Thio/IETE-ToDo/internal/adapters/identity"
	"github.com/Yash-Thio/IETE-ToDo/internal/adapters/repository"
	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/database"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/server"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

const shutdownTimeout = 15 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Remindify API server",
		Long:  "Start the Remindify API server with Google sign-in, the list and task API and the dashboard views",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion(cmd)
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}

	userCmd.AddCommand(&cobra.Command{
		Use:   "id <email>",
		Short: "Print the user ID derived from an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := entities.UserIDFromEmail(args[0])
			if id == "" {
				return errors.New("email is required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	return userCmd
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import lists and tasks from a YAML file",
		Long:  "Import lists and tasks for one user from a YAML document. The whole document is validated before anything is written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			file, _ := cmd.Flags().GetString("file")
			if strings.TrimSpace(email) == "" || file == "" {
				return errors.New("--email and --file are required")
			}
			return runImport(cmd, email, file)
		},
	}

	importCmd.Flags().String("email", "", "Owner's email address (required)")
	importCmd.Flags().String("file", "", "Path to the YAML document (required)")

	return importCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Remindify version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", cfg.App.Name, cfg.App.Version)
			return nil
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Auth.Validate(); err != nil {
		return fmt.Errorf("invalid auth configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Errorw("Failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	srv, err := server.New(cfg, db, appLogger, identity.NewGoogleProvider(cfg.Auth))
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	if cfg.App.IsProduction() && !cfg.Auth.CookieSecure {
		appLogger.Warnw("Session cookies are not marked Secure in production", "setting", "auth.cookie_secure")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Infow("Starting Remindify API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"database", db.Driver(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorw("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
		return err
	}
	appLogger.Infow("Server stopped")
	return nil
}

func openMigrator() (*migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	m, err := db.Migrator()
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func runMigration(cmd *cobra.Command, direction string) error {
	m, err := openMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	out := cmd.OutOrStdout()
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(out, "No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(out, "Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion(cmd *cobra.Command) error {
	m, err := openMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	out := cmd.OutOrStdout()
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(out, "Current migration version: %d\n", version)
	fmt.Fprintf(out, "Dirty: %t\n", dirty)
	return nil
}

func runImport(cmd *cobra.Command, email, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	userRepo := repository.NewUserRepository(db.DB)
	listRepo := repository.NewListRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)

	user, err := ensureUser(ctx, userRepo, email)
	if err != nil {
		return err
	}

	aggregator := services.NewTaskAggregator(listRepo, taskRepo, appLogger, nil, services.AggregatorConfig{
		QueryTimeout: cfg.Gateway.QueryTimeout,
		Location:     loc,
	})
	importer := services.NewImporter(services.NewListService(listRepo, appLogger), aggregator, appLogger)

	result, err := importer.ImportYAML(ctx, user.ID, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lists and %d tasks for %s\n", result.Lists, result.Tasks, user.Email)
	return nil
}

// ensureUser returns the user for email, creating the row if the person has
// never signed in.
func ensureUser(ctx context.Context, repo ports.UserRepository, email string) (*entities.User, error) {
	email = strings.TrimSpace(email)
	id := entities.UserIDFromEmail(email)

	user, err := repo.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &entities.User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
