package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"chargehub/pkg/client"
)

// SessionUser is the locally persisted account projection.
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type sessionFile struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// SessionStore holds the login session: the current user, the bearer token,
// and a single JSON file persisting both. Token and user live in one file so
// logout clears them with one unlink, never leaving a half-torn-down session.
type SessionStore struct {
	api  *client.Client
	path string

	user    *SessionUser
	token   string
	lastErr string
}

// NewSessionStore builds a session store persisting to path.
func NewSessionStore(api *client.Client, path string) *SessionStore {
	return &SessionStore{api: api, path: path}
}

// User returns the logged-in user, nil when logged out.
func (s *SessionStore) User() *SessionUser {
	return s.user
}

// Authenticated reports whether a session is active.
func (s *SessionStore) Authenticated() bool {
	return s.token != ""
}

// Err returns the message of the last failed operation.
func (s *SessionStore) Err() string {
	return s.lastErr
}

// Restore loads a persisted session from disk, if any, and installs its token
// on the API client. A missing file means no prior session and is not an error.
func (s *SessionStore) Restore() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	var persisted sessionFile
	if err := json.Unmarshal(data, &persisted); err != nil {
		return false, fmt.Errorf("session: corrupt session file: %w", err)
	}
	if persisted.Token == "" {
		return false, nil
	}

	s.token = persisted.Token
	s.user = &persisted.User
	s.api.SetToken(persisted.Token)
	return true, nil
}

// Register creates an account and starts a session with its token.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) error {
	result, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.lastErr = errMessage(err, "registration failed")
		return err
	}
	return s.establish(result)
}

// Login authenticates and starts a session.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.lastErr = errMessage(err, "login failed")
		return err
	}
	return s.establish(result)
}

// Logout revokes the token on the server and removes the persisted session.
// Local state is cleared even when the server call fails, so a dead server
// cannot pin a session on the client.
func (s *SessionStore) Logout(ctx context.Context) error {
	revokeErr := s.api.Logout(ctx)

	s.user = nil
	s.token = ""
	s.lastErr = ""
	s.api.SetToken("")

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return revokeErr
}

func (s *SessionStore) establish(result *client.AuthResult) error {
	s.user = &SessionUser{ID: result.ID, Name: result.Name, Email: result.Email}
	s.token = result.Token
	s.lastErr = ""
	s.api.SetToken(result.Token)

	data, err := json.Marshal(sessionFile{Token: result.Token, User: *s.user})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func errMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
