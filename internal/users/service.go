package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/base64pro/ratil-app/internal/auth"
	"github.com/base64pro/ratil-app/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWrongPassword      = errors.New("current password does not match")
	ErrAdminProtected     = errors.New("admin user cannot be deleted")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.User, error) {
	username := strings.TrimSpace(req.Username)

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleViewer
	}

	now := time.Now().In(s.location)
	user := models.User{
		ID:                 primitive.NewObjectID().Hex(),
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		CanAccessPortfolio: req.CanAccessPortfolio,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, username string, req ChangePasswordRequest) error {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	updated, err := s.repo.UpdatePassword(ctx, user.Username, hash)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "admin" {
		return ErrAdminProtected
	}

	deleted, err := s.repo.Delete(ctx, username)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
