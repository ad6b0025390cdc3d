package browse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestSessionMissingFileFallsBackToGuest(t *testing.T) {
	s := NewSession(sessionPath(t), nil)

	actor := s.Current()
	if actor.Role != RolePublic {
		t.Fatalf("role = %q, want public", actor.Role)
	}
	if actor.CanAccessPortfolio {
		t.Fatalf("guest actor has the portfolio capability")
	}
	if !s.IsGuest() {
		t.Fatalf("fresh session is not a guest")
	}
}

func TestSessionCorruptFileFallsBackToGuest(t *testing.T) {
	path := sessionPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewSession(path, nil)
	if got := s.Current().Role; got != RolePublic {
		t.Fatalf("role = %q, want public", got)
	}
}

func TestSessionRehydratesFromFile(t *testing.T) {
	path := sessionPath(t)
	if err := os.WriteFile(path, []byte(`{"username":"admin","role":"admin","can_access_portfolio":true}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewSession(path, nil)
	actor := s.Current()
	if actor.Username != "admin" || actor.Role != RoleAdmin || !actor.CanAccessPortfolio {
		t.Fatalf("rehydrated actor = %+v", actor)
	}
}

func TestLoginSuccessPersistsActor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","user":{"username":"admin","role":"admin","can_access_portfolio":true}}`))
	}))
	defer srv.Close()

	path := sessionPath(t)
	s := NewSession(path, NewClient(srv.URL, srv.Client()))

	actor, err := s.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if actor.Role != RoleAdmin {
		t.Fatalf("actor = %+v", actor)
	}

	reloaded := NewSession(path, nil)
	if got := reloaded.Current(); got.Username != "admin" || !got.CanAccessPortfolio {
		t.Fatalf("persisted actor = %+v", got)
	}
}

func TestLoginFailureKeepsStoredActor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"اسم المستخدم أو كلمة المرور غير صحيحة"}`))
	}))
	defer srv.Close()

	path := sessionPath(t)
	if err := os.WriteFile(path, []byte(`{"username":"viewer","role":"admin","can_access_portfolio":false}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewSession(path, NewClient(srv.URL, srv.Client()))

	_, err := s.Login(context.Background(), "admin", "wrong")
	authErr, ok := err.(*AuthError)
	if !ok {
		t.Fatalf("expected *AuthError, got %T (%v)", err, err)
	}
	if authErr.Detail != "اسم المستخدم أو كلمة المرور غير صحيحة" {
		t.Fatalf("detail = %q", authErr.Detail)
	}

	if got := s.Current(); got.Username != "viewer" {
		t.Fatalf("failed login replaced the stored actor: %+v", got)
	}
}

func TestLoginUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewSession(sessionPath(t), NewClient(srv.URL, nil))

	_, err := s.Login(context.Background(), "admin", "secret")
	authErr, ok := err.(*AuthError)
	if !ok {
		t.Fatalf("expected *AuthError, got %T", err)
	}
	if authErr.Detail != serverUnreachableDetail {
		t.Fatalf("detail = %q", authErr.Detail)
	}
	if !s.IsGuest() {
		t.Fatalf("failed login changed the actor")
	}
}

func TestLogoutResetsToGuestAndClearsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/login":
			w.Write([]byte(`{"status":"success","user":{"username":"admin","role":"admin","can_access_portfolio":true}}`))
		case "/api/logout":
			w.Write([]byte(`{"status":"success"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	path := sessionPath(t)
	s := NewSession(path, NewClient(srv.URL, srv.Client()))

	if _, err := s.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	s.Logout(context.Background())

	if !s.IsGuest() {
		t.Fatalf("logout did not reset to guest")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("logout left the session file behind")
	}
}
