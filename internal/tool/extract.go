// Package tool exposes outline extraction as an MCP tool.
package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/store"
)

// MetadataExtractOutline describes the extract_outline tool.
var MetadataExtractOutline = &mcp.Tool{
	Name: "extract_outline",
	Description: "Extract the title and heading outline of a document. " +
		"Supported formats: pdf, docx, markdown, html, txt. " +
		"Headings are inferred from font size and returned in reading order, " +
		"each with a level (H1 is the largest), its text and its 1-based page number.",
}

// InputExtractOutline is the input for the ExtractOutline tool.
type InputExtractOutline struct {
	Path string `json:"path" jsonschema:"Path or URL of the document to outline"`
}

// OutputHeading is one outline entry.
type OutputHeading struct {
	Level string `json:"level" jsonschema:"Heading level: H1, H2, ..."`
	Text  string `json:"text"`
	Page  int    `json:"page" jsonschema:"1-based page number"`
}

// OutputExtractOutline is the output for the ExtractOutline tool.
type OutputExtractOutline struct {
	Title   string          `json:"title"`
	Outline []OutputHeading `json:"outline"`
}

// Outliner runs documents named by tool calls through a pipeline worker.
type Outliner struct {
	worker *pipeline.Worker
}

func NewOutliner(w *pipeline.Worker) *Outliner {
	return &Outliner{worker: w}
}

// ExtractOutline reads the document at input.Path and returns its outline.
func (o *Outliner) ExtractOutline(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractOutline) (*mcp.CallToolResult, OutputExtractOutline, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, OutputExtractOutline{}, fmt.Errorf("path is required")
	}

	job := pipeline.NewJob(store.BaseName(path))
	job.SourceURL = path
	o.worker.Process(ctx, job)

	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		return nil, OutputExtractOutline{}, fmt.Errorf("%s failed: %s", snap.Phase, strings.Join(snap.Errors, "; "))
	}
	return nil, toOutput(snap.Document), nil
}

func toOutput(doc *doctree.Document) OutputExtractOutline {
	out := OutputExtractOutline{
		Title:   doc.Title,
		Outline: make([]OutputHeading, 0, len(doc.Outline)),
	}
	for _, e := range doc.Outline {
		out.Outline = append(out.Outline, OutputHeading{
			Level: e.Level.String(),
			Text:  e.Text,
			Page:  e.Page,
		})
	}
	return out
}

// NewServer returns an MCP server with the outline tools registered.
func NewServer(o *Outliner, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "docoutline", Version: version}, nil)
	mcp.AddTool(srv, MetadataExtractOutline, o.ExtractOutline)
	return srv
}
