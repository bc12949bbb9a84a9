// Command docoutline extracts the title and heading outline of documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/schema"
	"github.com/dgallion1/docoutline/internal/store"
)

var version = "dev"

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		fmt.Fprintln(os.Stderr, "docoutline:", err)
		os.Exit(code)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "docoutline",
		Short:         "Extract document titles and heading outlines as JSON",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $DOCOUTLINE_CONFIG)")

	root.AddCommand(
		newBatchCmd(&configPath),
		newServeCmd(&configPath),
		newMCPCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// newWorker wires storage, schema validation and classification into a
// pipeline worker.
func newWorker(ctx context.Context, cfg config.Config, log *slog.Logger) (*pipeline.Worker, error) {
	st := store.New(nil)

	var (
		v   *schema.Validator
		err error
	)
	if cfg.SchemaPath == "" {
		v, err = schema.Default()
	} else {
		v, err = schema.Load(ctx, st.FS(), cfg.SchemaPath)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("output schema loaded", "schema", v.Name())

	classifier := outline.DefaultClassifier().WithBoilerplate(cfg.Boilerplate...)
	asm := outline.NewAssembler(classifier, v)
	return pipeline.NewWorker(st, asm, pipeline.NewStats(cfg.JobTTL), log), nil
}
