package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/base64pro/ratil-app/internal/models"
)

var ErrNotFound = errors.New("client not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (models.Client, error) {
	now := time.Now().In(s.location)
	client := models.Client{
		ID:            primitive.NewObjectID().Hex(),
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (models.Client, error) {
	set := bson.M{
		"name":          strings.TrimSpace(req.Name),
		"contactPerson": strings.TrimSpace(req.ContactPerson),
		"phone":         strings.TrimSpace(req.Phone),
		"email":         strings.TrimSpace(req.Email),
		"address":       strings.TrimSpace(req.Address),
		"updatedAt":     time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Client{}, ErrNotFound
		}
		return models.Client{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
