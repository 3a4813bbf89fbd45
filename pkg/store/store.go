// Package store persists output documents.
//
// The CLI writes documents to disk with [FileStore]. Deployments that collect
// runs centrally use [MongoStore], which inserts each document into a
// MongoDB collection together with its name and creation time.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/anchortile/pkg/errors"
)

// Store saves named documents.
type Store interface {
	Save(ctx context.Context, name string, doc map[string]any) error
	Close(ctx context.Context) error
}

// FileStore writes each document as indented JSON under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns where name is stored.
func (s *FileStore) Path(name string) string { return filepath.Join(s.dir, name) }

// Save writes doc to dir/name. name must be a bare filename.
func (s *FileStore) Save(_ context.Context, name string, doc map[string]any) error {
	if err := errors.ValidateFilename(name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
