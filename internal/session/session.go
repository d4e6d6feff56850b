// Package session persists the importer's login state between invocations:
// the API token and the takhtit identifier, one plain-text file each.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"mushafctl/internal/config"
)

// ErrNoToken is returned when an operation needs a session token and none is
// cached.
var ErrNoToken = errors.New("not logged in: run 'mushafctl login <api_url>' first")

// ErrNoTakhtitID is returned when an operation needs a takhtit identifier and
// none is cached.
var ErrNoTakhtitID = errors.New("no takhtit cached: run 'mushafctl create-takhtit <api_url>' first")

// Session is the state loaded at startup and threaded through commands.
// Either field may be empty when the corresponding file is absent.
type Session struct {
	Token     string
	TakhtitID string
}

// RequireToken fails fast when the session has no token.
func (s Session) RequireToken() error {
	if s.Token == "" {
		return ErrNoToken
	}
	return nil
}

// RequireTakhtitID fails fast when the session has no takhtit identifier.
func (s Session) RequireTakhtitID() error {
	if s.TakhtitID == "" {
		return ErrNoTakhtitID
	}
	return nil
}

// Store reads and writes the two cache files. Writes are whole-file
// overwrites, last writer wins.
type Store struct {
	tokenFile   string
	takhtitFile string
}

// NewStore builds a Store over the configured cache paths.
func NewStore(cfg config.Settings) *Store {
	return &Store{tokenFile: cfg.TokenFile, takhtitFile: cfg.TakhtitFile}
}

// Load reads whatever state exists on disk. Missing files are not errors;
// they leave the matching field empty.
func (s *Store) Load() (Session, error) {
	token, err := readTrimmed(s.tokenFile)
	if err != nil {
		return Session{}, fmt.Errorf("read token cache: %w", err)
	}

	id, err := readTrimmed(s.takhtitFile)
	if err != nil {
		return Session{}, fmt.Errorf("read takhtit cache: %w", err)
	}
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return Session{}, fmt.Errorf("cached takhtit id %q is not a UUID; remove %s and run create-takhtit again", id, s.takhtitFile)
		}
	}

	return Session{Token: token, TakhtitID: id}, nil
}

// SaveToken overwrites the cached token.
func (s *Store) SaveToken(token string) error {
	if err := os.WriteFile(s.tokenFile, []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// SaveTakhtitID overwrites the cached takhtit identifier.
func (s *Store) SaveTakhtitID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("takhtit id %q is not a UUID: %w", id, err)
	}
	if err := os.WriteFile(s.takhtitFile, []byte(id), 0o600); err != nil {
		return fmt.Errorf("save takhtit id: %w", err)
	}
	return nil
}

// TakhtitFile reports where the takhtit identifier is cached, for status
// output after create-takhtit.
func (s *Store) TakhtitFile() string {
	return s.takhtitFile
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
