// Package auth keeps the logged-in session on disk and reads JWT claims.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SessionFile is the stored session filename inside the config directory.
const SessionFile = "session.json"

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in (run: sprintboard login)")

// Session is what login writes and every later command reads.
type Session struct {
	APIURL  string      `json:"api_url"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
	SavedAt time.Time   `json:"saved_at"`
}

// Store reads and writes the session file in one directory.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, SessionFile)
}

// Load reads the session. A missing file yields ErrNoSession.
func (s *Store) Load() (Session, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("invalid %s: %w", SessionFile, err)
	}
	if sess.Token == "" {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(), data, 0600)
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
