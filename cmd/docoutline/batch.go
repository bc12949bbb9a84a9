package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/pipeline"
)

func newBatchCmd(configPath *string) *cobra.Command {
	var (
		input, output, schemaPath string
		workers                   int
		strict                    bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Write one outline JSON file per document in the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputDir = input
			}
			if flags.Changed("output") {
				cfg.OutputDir = output
			}
			if flags.Changed("schema") {
				cfg.SchemaPath = schemaPath
			}
			if flags.Changed("workers") && workers > 0 {
				cfg.WorkerCount = workers
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log := newLogger(os.Stdout, cfg)
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := newWorker(ctx, cfg, log)
			if err != nil {
				return err
			}

			log.Info("starting batch",
				"input", cfg.InputDir,
				"output", cfg.OutputDir,
				"workers", cfg.WorkerCount,
			)
			report, err := pipeline.RunBatch(ctx, w, pipeline.BatchOptions{
				InputDir:   cfg.InputDir,
				OutputDir:  cfg.OutputDir,
				Extensions: cfg.Extensions,
				Workers:    cfg.WorkerCount,
			})
			if err != nil {
				log.Error("batch failed", "error", err)
				return err
			}
			for _, f := range report.Failures {
				log.Warn("document failed", "filename", f.Filename, "phase", f.Phase, "error", f.Error)
			}
			if strict && report.Failed > 0 {
				return &exitError{code: 2, err: fmt.Errorf("%d of %d documents failed", report.Failed, report.Total)}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&input, "input", "", "input directory or URL (overrides INPUT_DIR)")
	f.StringVar(&output, "output", "", "output directory or URL (overrides OUTPUT_DIR)")
	f.StringVar(&schemaPath, "schema", "", "JSON Schema the outlines must satisfy (default built-in)")
	f.IntVar(&workers, "workers", 0, "documents processed concurrently (overrides WORKER_COUNT)")
	f.BoolVar(&strict, "strict", false, "exit with status 2 when any document fails")
	return cmd
}
