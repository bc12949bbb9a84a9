// Package store reads input documents and writes outline files through
// viant/afs, so inputs and outputs may live on local disk, in memory
// (mem://) or on any storage afs has a connector for.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// ErrInputMissing is returned when the input location does not exist.
var ErrInputMissing = errors.New("input location does not exist")

// Store wraps an afs service.
type Store struct {
	fs afs.Service
}

// New returns a Store backed by fs, or by a fresh afs service when fs is nil.
func New(fs afs.Service) *Store {
	if fs == nil {
		fs = afs.New()
	}
	return &Store{fs: fs}
}

// FS exposes the underlying service.
func (s *Store) FS() afs.Service {
	return s.fs
}

// Normalize turns a relative or absolute OS path into a file:// URL and
// leaves URLs with a scheme untouched.
func Normalize(location string) (string, error) {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		abs, err := filepath.Abs(norm)
		if err != nil {
			return "", fmt.Errorf("absolute path for %s: %w", location, err)
		}
		norm = abs
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm, nil
}

// ListDocuments returns the URLs of the files directly under dir whose
// extension is in exts, sorted by file name. An empty exts accepts every file.
func (s *Store) ListDocuments(ctx context.Context, dir string, exts []string) ([]string, error) {
	norm, err := Normalize(dir)
	if err != nil {
		return nil, err
	}

	ok, err := s.fs.Exists(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrInputMissing)
	}

	objects, err := s.fs.List(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = true
	}

	type entry struct{ name, url string }
	var entries []entry
	for _, o := range objects {
		if o.IsDir() {
			continue
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(path.Ext(o.Name()))] {
			continue
		}
		entries = append(entries, entry{name: o.Name(), url: o.URL()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = e.url
	}
	return urls, nil
}

// Read downloads the content at URL.
func (s *Store) Read(ctx context.Context, URL string) ([]byte, error) {
	norm, err := Normalize(URL)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.DownloadWithURL(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", URL, err)
	}
	return data, nil
}

// WriteDocument stores doc as indented JSON at URL.
func (s *Store) WriteDocument(ctx context.Context, URL string, doc *doctree.Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	norm, err := Normalize(URL)
	if err != nil {
		return err
	}
	if err := s.fs.Upload(ctx, norm, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", URL, err)
	}
	return nil
}

// EncodeDocument renders doc with two-space indentation, unescaped
// non-ASCII and HTML characters, and a trailing newline.
func EncodeDocument(doc *doctree.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// OutputURL returns the location of the outline file for filename.
func OutputURL(outDir, filename string) string {
	name := Stem(filename) + ".json"
	if url.Scheme(outDir, "") == "" {
		return filepath.Join(outDir, name)
	}
	return url.Join(outDir, name)
}

// BaseName returns the last path element of URL.
func BaseName(URL string) string {
	return path.Base(url.Path(URL))
}

// Stem returns the base name of filename without its extension.
func Stem(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	return strings.TrimSuffix(base, path.Ext(base))
}
