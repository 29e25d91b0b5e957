package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads the product list from a JSON file, the default
// deployment mode.
type FileSource struct {
	Path string
}

// NewFileSource builds a source over a products JSON file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load parses the file. Products without an explicit id get their
// 1-based position, which keeps keyboard numbers and ids aligned for
// hand-written files.
func (s *FileSource) Load(_ context.Context) ([]Product, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", s.Path, err)
	}
	for i := range products {
		if products[i].ID == 0 {
			products[i].ID = i + 1
		}
	}
	return products, nil
}
