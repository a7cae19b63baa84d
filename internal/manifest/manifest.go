// Package manifest persists the record of which source files have been
// embedded, when, and which vector IDs resulted. The on-disk form is a
// pretty-printed UTF-8 JSON object, fully rewritten on every mutation.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Record is the persisted state for one processed file.
type Record struct {
	// Modified is the file's modification time at processing, RFC 3339.
	Modified time.Time `json:"modified"`
	// Vectors are the IDs of every vector inserted for this file version.
	Vectors []string `json:"vectors"`
	// Name repeats the file name for readability of the manifest file.
	Name string `json:"name"`
}

// Manifest maps a source file name to its record. Records are keyed
// strictly by file name; the modification time lives inside the record.
type Manifest map[string]Record

// Store loads and saves a Manifest at a fixed path.
type Store struct {
	path string
}

// NewStore creates a manifest store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the manifest from disk. A missing file yields an empty
// manifest, not an error.
func (s *Store) Load() (Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// Save rewrites the manifest file in full.
func (s *Store) Save(m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}
