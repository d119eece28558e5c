// Package dataset saves and reloads the pre-normalization record set, so a
// gathered inventory can be re-rendered without touching the directory again.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"f0oster/adreport/activedirectory"
)

// Scope prefixes the dataset file name per report scope.
type Scope string

const (
	ScopeForest Scope = "forest"
	ScopeDomain Scope = "domain"
)

// ErrMissingDataset indicates a load for a scope that was never saved. The
// scope is skipped with a warning; other scopes proceed.
var ErrMissingDataset = errors.New("dataset not found")

// FileStore keeps one JSON file per scope under a base directory, named
// forest_<base>.json / domain_<base>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(scope Scope, base string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.json", scope, base))
}

// Save writes the raw record set for a scope.
func (s *FileStore) Save(scope Scope, base string, records []*activedirectory.DirectoryRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	path := s.path(scope, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved record set. The pipeline resumes at
// normalization with the result.
func (s *FileStore) Load(scope Scope, base string) ([]*activedirectory.DirectoryRecord, error) {
	path := s.path(scope, base)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingDataset)
		}
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var records []*activedirectory.DirectoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return records, nil
}
