package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/simp-lee/soundmint/internal/domain"
)

// Session holds the signed-in user's token. It is hydrated from a token file
// and cleared on logout.
type Session struct {
	path string
	now  func() time.Time

	mu    sync.RWMutex
	state sessionFile
}

type sessionFile struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *domain.User `json:"user,omitempty"`
}

// NewSession creates an empty session persisted at path. An empty path keeps
// the session in memory only.
func NewSession(path string) *Session {
	return &Session{path: path, now: time.Now}
}

// Hydrate loads the token file. A missing file or an expired token leaves the
// session signed out.
func (s *Session) Hydrate() error {
	if s.path == "" {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	var state sessionFile
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if state.ExpiresAt > 0 && !s.now().Before(time.Unix(state.ExpiresAt, 0)) {
		return nil
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Set stores a freshly issued token and persists it.
func (s *Session) Set(token string, expiresAt int64, user *domain.User) error {
	state := sessionFile{Token: token, ExpiresAt: expiresAt, User: user}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear signs out and removes the token file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.state = sessionFile{}
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}
