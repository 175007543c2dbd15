// Package session persists the authenticated identity across runs.
//
// The session is a single JSON record under the XDG state directory
// (~/.local/state/hc/session.json). Restoring is trust-on-read: a stored
// session is used without server re-validation, and a stale or revoked
// one only surfaces when a later API call fails.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// FileName is the session record's file name inside the state dir.
const FileName = "session.json"

// DefaultPath returns the XDG state path for the session record, or ""
// when no home directory can be determined.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "hc", FileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "hc", FileName)
}

// Store reads and writes the session record at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store bound to the given path. An empty path falls
// back to DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes the session, overwriting any prior one.
func (s *Store) Save(sess model.Session) error {
	if s.path == "" {
		return fmt.Errorf("session: cannot determine state directory")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshaling: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing: %w", err)
	}
	return nil
}

// Load returns the stored session, or nil when none is stored.
func (s *Store) Load() (*model.Session, error) {
	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: reading: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: parsing: %w", err)
	}
	return &sess, nil
}

// Clear removes the stored session. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clearing: %w", err)
	}
	return nil
}
