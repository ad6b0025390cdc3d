package browse

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
)

const (
	RolePublic = "public"
	RoleAdmin  = "admin"
)

// Actor is the current identity. A session always holds one; an
// unauthenticated session holds the guest actor, never a zero-value
// surprise for callers.
type Actor struct {
	Username           string `json:"username"`
	Role               string `json:"role"`
	CanAccessPortfolio bool   `json:"can_access_portfolio"`
}

func Guest() Actor {
	return Actor{Role: RolePublic}
}

func (a Actor) IsGuest() bool {
	return a.Role != RoleAdmin
}

// AuthError carries the human-readable login failure message, already
// localized by the server or by the unreachable-server fallback.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return e.Detail
}

const serverUnreachableDetail = "فشل الاتصال بالخادم."

// Session keeps the actor in memory and mirrors it to a JSON file so a
// restart resumes where the user left off. A missing or unreadable
// file degrades to the guest actor.
type Session struct {
	mu     sync.RWMutex
	path   string
	client *Client
	actor  Actor
}

func NewSession(path string, client *Client) *Session {
	s := &Session{path: path, client: client, actor: Guest()}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var stored Actor
	if err := json.Unmarshal(data, &stored); err != nil || stored.Role == "" {
		return s
	}
	s.actor = stored
	return s
}

func (s *Session) Current() Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actor
}

func (s *Session) IsGuest() bool {
	return s.Current().IsGuest()
}

// Login authenticates against the backend. On failure the stored actor
// is left untouched and the returned error is always an *AuthError.
func (s *Session) Login(ctx context.Context, username, password string) (Actor, error) {
	actor, err := s.client.Login(ctx, username, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			return Actor{}, &AuthError{Detail: apiErr.Detail}
		}
		return Actor{}, &AuthError{Detail: serverUnreachableDetail}
	}

	s.mu.Lock()
	s.actor = actor
	s.mu.Unlock()
	s.persist(actor)

	return actor, nil
}

// Logout resets to the guest actor and clears the persisted state
// before returning. The server call is best-effort.
func (s *Session) Logout(ctx context.Context) {
	if s.client != nil {
		_ = s.client.Logout(ctx)
	}

	s.mu.Lock()
	s.actor = Guest()
	s.mu.Unlock()

	_ = os.Remove(s.path)
}

func (s *Session) persist(actor Actor) {
	data, err := json.Marshal(actor)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}
