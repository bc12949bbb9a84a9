package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/store"
)

// Worker turns one document into one outline. It keeps no per-job state
// and may be shared by any number of goroutines.
type Worker struct {
	store     *store.Store
	assembler *outline.Assembler
	stats     *Stats
	log       *slog.Logger
	backoff   func(int) time.Duration
}

func NewWorker(st *store.Store, asm *outline.Assembler, stats *Stats, log *slog.Logger) *Worker {
	if asm == nil {
		asm = outline.NewAssembler(nil, nil)
	}
	return &Worker{
		store:     st,
		assembler: asm,
		stats:     stats,
		log:       log,
		backoff:   Backoff,
	}
}

// Stats returns the processing stats the worker records into, if any.
func (w *Worker) Stats() *Stats {
	return w.stats
}

// Process runs read, parse, classify, validate and write for a job. Failures
// are recorded on the job and never returned.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		job.setElapsed(elapsed)
		if w.stats != nil {
			w.stats.Record(elapsed, job.Snapshot().Status == StatusCompleted)
		}
	}()

	// Phase 1: Read
	data := job.FileData()
	if data == nil && job.SourceURL != "" {
		job.SetStatus(StatusReading, "reading")
		err := withRetry(ctx, log, w.backoff, "read", func() error {
			var err error
			data, err = w.store.Read(ctx, job.SourceURL)
			return err
		})
		if err != nil {
			log.Error("read failed", "error", err)
			job.Fail("reading", err)
			return
		}
	}
	job.SetContentHash(ContentHashHex(data))

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("parsing", err)
		return
	}
	src, err := parseDocument(p, data, job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.Fail("parsing", fmt.Errorf("parse: %w", err))
		return
	}
	log.Debug("parsed document", "pages", src.Pages, "blocks", len(src.Blocks))

	// Phase 3: Classify
	job.SetStatus(StatusClassifying, "classifying")
	doc := w.assembler.Build(src, job.Filename)

	// Phase 4: Validate
	job.SetStatus(StatusValidating, "validating")
	if err := w.assembler.Validate(doc); err != nil {
		log.Error("validation failed", "error", err)
		job.Fail("validating", err)
		return
	}

	// Phase 5: Write
	if job.OutputURL != "" {
		job.SetStatus(StatusWriting, "writing")
		err := withRetry(ctx, log, w.backoff, "write", func() error {
			return w.store.WriteDocument(ctx, job.OutputURL, doc)
		})
		if err != nil {
			log.Error("write failed", "output", job.OutputURL, "error", err)
			job.Fail("writing", err)
			return
		}
	}

	job.SetDocument(doc)
	job.SetStatus(StatusCompleted, "done")
	log.Info("document processed",
		"title", doc.Title,
		"headings", len(doc.Outline),
		"output", job.OutputURL,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// parseDocument runs p and converts a parser panic into an error.
func parseDocument(p parser.Parser, data []byte, filename string) (src *doctree.Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return p.Parse(bytes.NewReader(data), filename)
}
