package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/base64pro/ratil-app/internal/cache"
	"github.com/base64pro/ratil-app/internal/models"
)

var (
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrItemNotFound        = errors.New("content item not found")
)

const (
	subsCachePrefix  = "content:subs:"
	itemsCachePrefix = "content:items:"
)

// MediaRemover deletes a stored file given its public URL. Deleting
// content must not orphan uploads.
type MediaRemover interface {
	Remove(fileURL string) error
}

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	media    MediaRemover
	location *time.Location
}

func NewService(repo Repository, store cache.Cache, cacheTTL time.Duration, media MediaRemover, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		cache:    store,
		cacheTTL: cacheTTL,
		media:    media,
		location: location,
	}
}

// ListSubcategories serves from cache when possible. The cache entry is
// dropped by every subcategory mutation, which is what keeps public
// browsing fresh after admin edits.
func (s *Service) ListSubcategories(ctx context.Context, category string) ([]models.Subcategory, error) {
	key := subsCachePrefix + category
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var subs []models.Subcategory
		if err := json.Unmarshal(data, &subs); err == nil {
			return subs, nil
		}
	}

	subs, err := s.repo.ListSubcategories(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(subs); err == nil {
		_ = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return subs, nil
}

func (s *Service) CreateSubcategory(ctx context.Context, category string, req SubcategoryRequest) (models.Subcategory, error) {
	sub := models.Subcategory{
		ID:           primitive.NewObjectID().Hex(),
		Name:         strings.TrimSpace(req.Name),
		CategoryName: category,
		CreatedAt:    time.Now().In(s.location),
	}
	if err := s.repo.CreateSubcategory(ctx, sub); err != nil {
		return models.Subcategory{}, err
	}
	s.invalidateSubs(ctx, category)
	return sub, nil
}

func (s *Service) UpdateSubcategory(ctx context.Context, category, id string, req SubcategoryRequest) (models.Subcategory, error) {
	set := bson.M{"name": strings.TrimSpace(req.Name)}
	updated, err := s.repo.UpdateSubcategory(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Subcategory{}, ErrSubcategoryNotFound
		}
		return models.Subcategory{}, err
	}
	s.invalidateSubs(ctx, category)
	return updated, nil
}

// DeleteSubcategory cascades: the subcategory's items and their stored
// media go with it.
func (s *Service) DeleteSubcategory(ctx context.Context, category, id string) (models.Subcategory, error) {
	id = strings.TrimSpace(id)
	sub, err := s.repo.GetSubcategory(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Subcategory{}, ErrSubcategoryNotFound
		}
		return models.Subcategory{}, err
	}

	items, err := s.repo.DeleteItemsBySubcategory(ctx, id)
	if err != nil {
		return models.Subcategory{}, err
	}
	for _, item := range items {
		_ = s.media.Remove(item.MediaURL)
	}
	s.invalidateItems(ctx, id)

	deleted, err := s.repo.DeleteSubcategory(ctx, id)
	if err != nil {
		return models.Subcategory{}, err
	}
	if !deleted {
		return models.Subcategory{}, ErrSubcategoryNotFound
	}
	s.invalidateSubs(ctx, category)
	return sub, nil
}

// ListItems returns an empty list for an unknown subcategory rather
// than an error; only a failed fetch is an error to the caller.
func (s *Service) ListItems(ctx context.Context, subcategoryID, query string) ([]models.ContentItem, error) {
	subcategoryID = strings.TrimSpace(subcategoryID)
	query = strings.TrimSpace(query)

	key := itemsCachePrefix + subcategoryID + ":" + query
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var items []models.ContentItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	if _, err := s.repo.GetSubcategory(ctx, subcategoryID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.ContentItem{}, nil
		}
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, subcategoryID, query)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return items, nil
}

func (s *Service) CreateItem(ctx context.Context, subcategoryID string, req ItemUpsert) (models.ContentItem, error) {
	subcategoryID = strings.TrimSpace(subcategoryID)
	if _, err := s.repo.GetSubcategory(ctx, subcategoryID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ContentItem{}, ErrSubcategoryNotFound
		}
		return models.ContentItem{}, err
	}

	item := models.ContentItem{
		ID:            primitive.NewObjectID().Hex(),
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		MediaURL:      req.MediaURL,
		SubcategoryID: subcategoryID,
		CreatedAt:     time.Now().In(s.location),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return models.ContentItem{}, err
	}
	s.invalidateItems(ctx, subcategoryID)
	return item, nil
}

// UpdateItem keeps the stored media when the request carries none, and
// removes the replaced file when it does.
func (s *Service) UpdateItem(ctx context.Context, id string, req ItemUpsert) (models.ContentItem, error) {
	id = strings.TrimSpace(id)
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ContentItem{}, ErrItemNotFound
		}
		return models.ContentItem{}, err
	}

	set := bson.M{
		"title":       strings.TrimSpace(req.Title),
		"description": strings.TrimSpace(req.Description),
	}
	if req.MediaURL != "" {
		set["mediaUrl"] = req.MediaURL
	}

	updated, err := s.repo.UpdateItem(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ContentItem{}, ErrItemNotFound
		}
		return models.ContentItem{}, err
	}

	if req.MediaURL != "" && existing.MediaURL != "" && existing.MediaURL != req.MediaURL {
		_ = s.media.Remove(existing.MediaURL)
	}
	s.invalidateItems(ctx, existing.SubcategoryID)
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) (models.ContentItem, error) {
	id = strings.TrimSpace(id)
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ContentItem{}, ErrItemNotFound
		}
		return models.ContentItem{}, err
	}

	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return models.ContentItem{}, err
	}
	if !deleted {
		return models.ContentItem{}, ErrItemNotFound
	}
	_ = s.media.Remove(item.MediaURL)
	s.invalidateItems(ctx, item.SubcategoryID)
	return item, nil
}

// AdminListItems flattens every item with its category and subcategory
// names, the shape the admin dashboard table consumes.
func (s *Service) AdminListItems(ctx context.Context) ([]AdminItem, error) {
	items, err := s.repo.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}

	subsByID := make(map[string]models.Subcategory)
	for category := range models.ContentCategories {
		subs, err := s.repo.ListSubcategories(ctx, category)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			subsByID[sub.ID] = sub
		}
	}

	rows := make([]AdminItem, 0, len(items))
	for _, item := range items {
		sub := subsByID[item.SubcategoryID]
		rows = append(rows, AdminItem{
			ID:              item.ID,
			Title:           item.Title,
			Description:     item.Description,
			MediaURL:        item.MediaURL,
			Category:        sub.CategoryName,
			SubcategoryID:   item.SubcategoryID,
			SubcategoryName: sub.Name,
		})
	}
	return rows, nil
}

func (s *Service) invalidateSubs(ctx context.Context, category string) {
	_ = s.cache.Delete(ctx, subsCachePrefix+category)
}

// invalidateItems drops every cached item list for the subcategory,
// one entry per search term.
func (s *Service) invalidateItems(ctx context.Context, subcategoryID string) {
	_ = s.cache.DeleteByPrefix(ctx, itemsCachePrefix+subcategoryID+":")
}
