package outline

import (
	"fmt"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Validator checks an assembled document against the output contract.
type Validator interface {
	Validate(doc *doctree.Document) error
}

// Assembler combines title inference and heading classification into the
// final document record.
type Assembler struct {
	classifier *Classifier
	validator  Validator
}

// NewAssembler returns an Assembler. A nil classifier uses the defaults; a
// nil validator skips validation.
func NewAssembler(c *Classifier, v Validator) *Assembler {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Assembler{classifier: c, validator: v}
}

// Build derives the title and outline for one parsed source without
// validating the result.
func (a *Assembler) Build(src *doctree.Source, filename string) *doctree.Document {
	blocks := BuildBlocks(src)

	var meta string
	if src != nil {
		meta = src.Title
	}

	doc := &doctree.Document{
		Title:   resolveTitle(meta, blocks, filename),
		Outline: a.classifier.Build(blocks),
	}
	if doc.Outline == nil {
		doc.Outline = []doctree.OutlineEntry{}
	}
	return doc
}

// Validate runs the configured validator, if any.
func (a *Assembler) Validate(doc *doctree.Document) error {
	if a.validator == nil {
		return nil
	}
	if err := a.validator.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// Assemble builds and validates the document for one parsed source. A
// document that fails validation is not returned.
func (a *Assembler) Assemble(src *doctree.Source, filename string) (*doctree.Document, error) {
	doc := a.Build(src, filename)
	if err := a.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Assemble is a convenience wrapper using the default classifier.
func Assemble(src *doctree.Source, filename string, v Validator) (*doctree.Document, error) {
	return NewAssembler(nil, v).Assemble(src, filename)
}
