package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/locvowork/employee_training_dashboard/internal/bootstrap"
	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
	"github.com/locvowork/employee_training_dashboard/internal/service"
)

type commandOutput struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
}

func newSeedModulesCmd() *cobra.Command {
	var (
		catalogPath string
		prune       bool
		apply       bool
	)

	cmd := &cobra.Command{
		Use:   "seed-modules",
		Short: "Create or update the training module catalog on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			modules, err := domain.LoadTrainingModules(catalogPath)
			if err != nil {
				return err
			}
			svc, err := connect(cmd.Context())
			if err != nil {
				return err
			}

			start := time.Now()
			report, err := service.NewCatalogService(svc.Catalog).Sync(cmd.Context(), modules, prune, !apply)
			if err != nil {
				return err
			}
			return writeJSON(commandOutput{
				Command:    "seed-modules",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     report,
			})
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (default: built-in catalog)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete backend modules missing from the catalog")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply changes (default dry-run)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create employees from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			imports := svc.Import
			if workers > 0 {
				imports = service.NewImportService(svc.Employees, svc.Save, nil, nil, workers)
			}

			start := time.Now()
			report, err := imports.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			failures := make([]string, 0, len(report.Failures))
			for _, fl := range report.Failures {
				failures = append(failures, fl.Error())
			}
			if err := writeJSON(commandOutput{
				Command:    "import",
				DurationMS: time.Since(start).Milliseconds(),
				Result: map[string]any{
					"created":  report.Created,
					"updated":  report.Updated,
					"warnings": report.Warnings,
					"failures": failures,
				},
			}); err != nil {
				return err
			}
			if len(report.Failures) > 0 {
				return fmt.Errorf("%d line(s) failed", len(report.Failures))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent saves (default: IMPORT_WORKERS)")
	return cmd
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <emp_no>",
		Short: "Print an employee with all training data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			agg, err := svc.Search.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(agg)
		},
	}
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <emp_no>",
		Short: "Write an employee's training card as xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			data, name, err := svc.Export.TrainingCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.InfoLog(cmd.Context(), "training card written to %s", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: training_card_<emp_no>.xlsx)")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.NewApp()
			if err := app.Initialize(cmd.Context()); err != nil {
				return err
			}
			return app.Run()
		},
	}
}
