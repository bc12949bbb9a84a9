// Package schema validates assembled documents against a JSON Schema.
package schema

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/viant/afs"

	"github.com/dgallion1/docoutline/internal/doctree"
)

//go:embed output_schema.json
var builtinSchema []byte

// Validator checks documents against one resolved schema. It is immutable
// after construction and safe for concurrent use.
type Validator struct {
	name     string
	resolved *jsonschema.Resolved
}

// Default returns a validator for the built-in output schema.
func Default() (*Validator, error) {
	return Compile(builtinSchema, "builtin")
}

// Load reads a schema from a local path or any URL afs understands.
func Load(ctx context.Context, fs afs.Service, location string) (*Validator, error) {
	ok, err := fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("stat schema %s: %w", location, err)
	}
	if !ok {
		return nil, fmt.Errorf("schema %s: not found", location)
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", location, err)
	}
	return Compile(data, location)
}

// Compile parses and resolves a schema document.
func Compile(data []byte, name string) (*Validator, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	// Draft-04 schemas using only core keywords validate the same under
	// 2020-12, which the resolver assumes when no version is declared.
	if isDraft04(s.Schema) {
		s.Schema = ""
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema %s: %w", name, err)
	}
	return &Validator{name: name, resolved: resolved}, nil
}

// Name identifies where the schema came from.
func (v *Validator) Name() string {
	return v.name
}

// Validate checks the JSON encoding of doc against the schema.
func (v *Validator) Validate(doc *doctree.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks raw JSON against the schema.
func (v *Validator) ValidateJSON(data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("decode instance: %w", err)
	}
	return v.resolved.Validate(instance)
}

func isDraft04(version string) bool {
	return strings.Contains(version, "json-schema.org/draft-04/")
}
