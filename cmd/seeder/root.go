package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/locvowork/employee_training_dashboard/internal/bootstrap"
	"github.com/locvowork/employee_training_dashboard/internal/config"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
	"github.com/locvowork/employee_training_dashboard/internal/repository"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seeder",
		Short:         "Seed and maintain employee training data on the backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newSeedModulesCmd(),
		newImportCmd(),
		newLookupCmd(),
		newExportCmd(),
		newServeCmd(),
	)
	return cmd
}

func execute() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.ErrorLog(ctx, err, "command failed")
		os.Exit(1)
	}
}

// connect loads the environment and wires the services against the backend.
func connect(ctx context.Context) (*bootstrap.Services, error) {
	if err := config.LoadEnvConfig(); err != nil {
		return nil, err
	}
	cfg := config.DefaultEnvConfig
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)

	client, err := repository.NewClient(repository.ClientConfig{
		BaseURL:        cfg.BACKEND_BASE_URL,
		SearchPath:     cfg.BACKEND_SEARCH_PATH,
		Timeout:        cfg.REQUEST_TIMEOUT,
		CSRFCookieName: cfg.CSRF_COOKIE_NAME,
		CSRFToken:      cfg.CSRF_TOKEN,
	})
	if err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "using backend %s", cfg.BACKEND_BASE_URL)
	return bootstrap.NewServices(client, nil, cfg.IMPORT_WORKERS), nil
}
