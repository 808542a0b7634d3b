package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/reviewbridge/reviewbridge/logger"
)

const fileName = "skills-manifest.json"

// Manifest records every skill directory reviewbridge has installed and the
// version that last wrote them. Paths are unique; order carries no meaning.
type Manifest struct {
	InstalledPaths   []string `json:"installedPaths"`
	ExtensionVersion string   `json:"extensionVersion"`
}

// HasPath reports whether the manifest already tracks the given directory.
func (m *Manifest) HasPath(path string) bool {
	for _, p := range m.InstalledPaths {
		if p == path {
			return true
		}
	}
	return false
}

// AddPath appends the directory to the tracked set. Returns false if it was
// already present.
func (m *Manifest) AddPath(path string) bool {
	if m.HasPath(path) {
		return false
	}
	m.InstalledPaths = append(m.InstalledPaths, path)
	return true
}

// Store persists the manifest at a fixed path. Construct with NewStore so
// tests can point it at a temporary directory.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// DefaultPath returns the per-user manifest location, outside any workspace.
// REVIEWBRIDGE_HOME overrides the base directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("REVIEWBRIDGE_HOME"); dir != "" {
		return filepath.Join(dir, fileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".reviewbridge", fileName), nil
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted manifest. An absent or unreadable file and a
// parse failure all mean the same thing: start fresh with an empty manifest.
// Load never fails.
func (s *Store) Load() Manifest {
	m := Manifest{
		InstalledPaths: []string{},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debugf("Manifest not readable at %s: %v", s.path, err)
		}
		return m
	}

	if err := json.Unmarshal(data, &m); err != nil {
		logger.Debugf("Manifest at %s is not valid JSON, starting fresh: %v", s.path, err)
		return Manifest{InstalledPaths: []string{}}
	}

	if m.InstalledPaths == nil {
		m.InstalledPaths = []string{}
	}
	return m
}

// Save overwrites the manifest file with a pretty-printed rendering,
// creating the containing directory first. The write is not atomic; Load
// tolerates a torn file.
func (s *Store) Save(m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}

// Remove deletes the manifest file and prunes its directory when that leaves
// it empty. Missing files are fine.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	// Only removed when empty; failure just means it is still in use.
	_ = os.Remove(filepath.Dir(s.path))
	return nil
}
