// Package adapters holds concrete implementations of the shell's ports.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore implements ports.HistoryStore on the local filesystem: one JSON
// file at a fixed per-user location.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore. An empty path defaults to
// ~/.cozmo_cli_history.json (falling back to the working directory when the
// home directory is unknown).
func NewFileStore(path string) *FileStore {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".cozmo_cli_history.json")
	}
	return &FileStore{Path: path}
}

// Save writes the full history. The parent directory is created if needed.
func (f *FileStore) Save(ctx context.Context, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("ensuring history directory: %w", err)
	}
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// Load reads the history; a missing file is an empty history, not an error.
func (f *FileStore) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshaling history: %w", err)
	}
	return lines, nil
}
