package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgallion1/docoutline/internal/store"
)

// BatchOptions selects the documents of one batch run.
type BatchOptions struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	Workers    int
}

// Failure describes one document that produced no output.
type Failure struct {
	Filename string `json:"filename"`
	Phase    string `json:"phase"`
	Error    string `json:"error"`
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []Failure     `json:"failures"`
	Elapsed   time.Duration `json:"-"`
}

// RunBatch writes one outline per document found in opts.InputDir, with at
// most opts.Workers documents in flight. Per-document failures are reported,
// not returned; the error is non-nil only when the input cannot be listed or
// ctx ends before every document was started.
func RunBatch(ctx context.Context, w *Worker, opts BatchOptions) (BatchReport, error) {
	start := time.Now()
	report := BatchReport{Failures: []Failure{}}

	urls, err := w.store.ListDocuments(ctx, opts.InputDir, opts.Extensions)
	if err != nil {
		return report, err
	}
	report.Total = len(urls)
	if len(urls) == 0 {
		w.log.Warn("no documents found", "input", opts.InputDir, "extensions", opts.Extensions)
		return report, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make(chan *Job, len(urls))
	sem := make(chan struct{}, workers)
	launched := 0

submit:
	for _, u := range urls {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break submit
		}
		name := store.BaseName(u)
		job := NewJob(name)
		job.SourceURL = u
		job.OutputURL = store.OutputURL(opts.OutputDir, name)
		launched++
		go func(job *Job) {
			defer func() { <-sem }()
			w.Process(ctx, job)
			results <- job
		}(job)
	}

	for range launched {
		snap := (<-results).Snapshot()
		if snap.Status == StatusCompleted {
			report.Succeeded++
			continue
		}
		report.Failed++
		msg := "unknown error"
		if len(snap.Errors) > 0 {
			msg = snap.Errors[len(snap.Errors)-1]
		}
		report.Failures = append(report.Failures, Failure{Filename: snap.Filename, Phase: snap.Phase, Error: msg})
	}
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Filename < report.Failures[j].Filename
	})
	report.Elapsed = time.Since(start)

	w.log.Info("batch complete",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration_ms", report.Elapsed.Milliseconds(),
	)

	if launched < len(urls) {
		return report, fmt.Errorf("batch interrupted after %d of %d documents: %w", launched, len(urls), ctx.Err())
	}
	return report, nil
}
