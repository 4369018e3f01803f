// Package filesystem reads ISRO batch files from a local directory.
//
// Each *.json file in the directory is one source batch. The file stem is
// the category, so spacecrafts.json holds spacecraft records.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.BatchSource = (*Source)(nil)

// BatchExt is the extension of batch files.
const BatchExt = ".json"

// Source is a driven.BatchSource over a directory of JSON files.
type Source struct {
	dir string
}

// New creates a source for dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the corpus directory.
func (s *Source) Dir() string {
	return s.dir
}

// List returns the batch files in name order. Hidden files and
// subdirectories are ignored.
func (s *Source) List(ctx context.Context) ([]domain.BatchRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: corpus directory %s", domain.ErrNotFound, s.dir)
		}
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var refs []domain.BatchRef
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isBatchFile(name) {
			continue
		}
		refs = append(refs, domain.BatchRef{Name: name, Category: CategoryOf(name)})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Read returns the raw bytes of a batch file.
func (s *Source) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || filepath.Base(name) != name || !isBatchFile(name) {
		return nil, fmt.Errorf("%w: batch name %q", domain.ErrInvalidInput, name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: batch %s", domain.ErrNotFound, name)
		}
		return nil, err
	}
	return data, nil
}

// CategoryOf returns the category for a batch file name.
func CategoryOf(name string) domain.Category {
	base := filepath.Base(name)
	return domain.Category(base[:len(base)-len(filepath.Ext(base))])
}

func isBatchFile(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), BatchExt)
}
