package users

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/base64pro/ratil-app/internal/auth"
	"github.com/base64pro/ratil-app/internal/models"
)

type stubRepo struct {
	users map[string]models.User
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]models.User)}
}

func (r *stubRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *stubRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *stubRepo) Create(_ context.Context, user models.User) error {
	r.users[user.Username] = user
	return nil
}

func (r *stubRepo) UpdatePassword(_ context.Context, username, passwordHash string) (bool, error) {
	user, ok := r.users[username]
	if !ok {
		return false, nil
	}
	user.PasswordHash = passwordHash
	r.users[username] = user
	return true, nil
}

func (r *stubRepo) Delete(_ context.Context, username string) (bool, error) {
	if _, ok := r.users[username]; !ok {
		return false, nil
	}
	delete(r.users, username)
	return true, nil
}

func seedUser(t *testing.T, repo *stubRepo, username, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.users[username] = models.User{
		ID:           username,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "admin", "secret123", models.UserRoleAdmin)
	svc := NewService(repo, time.UTC)

	if _, err := svc.Login(context.Background(), "admin", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(newStubRepo(), time.UTC)

	if _, err := svc.Login(context.Background(), "ghost", "whatever"); err != ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "admin", "secret123", models.UserRoleAdmin)
	svc := NewService(repo, time.UTC)

	user, err := svc.Login(context.Background(), "admin", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "admin" || user.Role != models.UserRoleAdmin {
		t.Fatalf("user = %+v", user)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "viewer", "secret123", models.UserRoleViewer)
	svc := NewService(repo, time.UTC)

	_, err := svc.Create(context.Background(), CreateRequest{Username: "viewer", Password: "another1"})
	if err != ErrUsernameTaken {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestCreateDefaultsToViewerRole(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, time.UTC)

	user, err := svc.Create(context.Background(), CreateRequest{Username: "sara", Password: "secret123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != models.UserRoleViewer {
		t.Fatalf("role = %q", user.Role)
	}
	if user.CanAccessPortfolio {
		t.Fatalf("new user unexpectedly holds the portfolio capability")
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "sara", "secret123", models.UserRoleViewer)
	svc := NewService(repo, time.UTC)

	err := svc.ChangePassword(context.Background(), "sara", ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpass1",
	})
	if err != ErrWrongPassword {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
}

func TestChangePasswordSuccess(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "sara", "secret123", models.UserRoleViewer)
	svc := NewService(repo, time.UTC)

	err := svc.ChangePassword(context.Background(), "sara", ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newpass1",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(context.Background(), "sara", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "sara", "secret123"); err != ErrInvalidCredentials {
		t.Fatalf("old password still accepted")
	}
}

func TestDeleteAdminProtected(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "admin", "secret123", models.UserRoleAdmin)
	svc := NewService(repo, time.UTC)

	if err := svc.Delete(context.Background(), "admin"); err != ErrAdminProtected {
		t.Fatalf("err = %v, want ErrAdminProtected", err)
	}
	if _, ok := repo.users["admin"]; !ok {
		t.Fatalf("admin user was deleted")
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	svc := NewService(newStubRepo(), time.UTC)

	if err := svc.Delete(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
