package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"panelshell/internal/panels"
)

const (
	// StateDirEnv is the env var override for the ~/.panelshell base (for testing).
	StateDirEnv = "PANELSHELL_STATE_DIR"
	// DefaultStateBase is the default state directory under the user's home.
	DefaultStateBase = ".panelshell"
	// DefaultLayoutName is the layout used when none is named.
	DefaultLayoutName = "default"
)

// Store reads and writes layout records.
// Layout: ~/.panelshell/layouts/<name>.json
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at the user's home + DefaultStateBase,
// or at the path in PANELSHELL_STATE_DIR if set.
func NewStore() (*Store, error) {
	base := os.Getenv(StateDirEnv)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, DefaultStateBase)
	}
	return &Store{baseDir: base}, nil
}

// NewStoreAt creates a store rooted at dir.
func NewStoreAt(dir string) *Store {
	return &Store{baseDir: dir}
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// LayoutPath returns the file path for a layout by name.
func (s *Store) LayoutPath(name string) string {
	// Normalize: lowercase, replace spaces with hyphens
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	if normalized == "" {
		normalized = DefaultLayoutName
	}
	return filepath.Join(s.baseDir, "layouts", normalized+".json")
}

// Load reads a layout. A missing file yields ok=false and no error. Comments
// and trailing commas are accepted so layouts can be hand-edited.
func (s *Store) Load(name string) (info panels.LayoutInfo, ok bool, err error) {
	path := s.LayoutPath(name)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return panels.LayoutInfo{}, false, nil
	}
	if err != nil {
		return panels.LayoutInfo{}, false, fmt.Errorf("read layout %q: %w", path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(b), &info); err != nil {
		return panels.LayoutInfo{}, false, fmt.Errorf("parse layout %q: %w", path, err)
	}
	return info, true, nil
}

// Save writes a layout atomically (temp file + rename).
func (s *Store) Save(name string, info panels.LayoutInfo) error {
	path := s.LayoutPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".layout-*.json")
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save layout: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// Delete removes a saved layout. Missing layouts are not an error.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.LayoutPath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
