package portfolio

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
	"github.com/base64pro/ratil-app/internal/clients"
	"github.com/base64pro/ratil-app/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("portfolio category not found")
	ErrItemNotFound     = errors.New("portfolio item not found")
)

const categoriesCacheKey = "portfolio:categories"

type MediaRemover interface {
	Remove(fileURL string) error
}

type Service struct {
	repo     Repository
	clients  clients.Repository
	cache    cache.Cache
	cacheTTL time.Duration
	media    MediaRemover
	location *time.Location
}

func NewService(repo Repository, clientRepo clients.Repository, store cache.Cache, cacheTTL time.Duration, media MediaRemover, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		clients:  clientRepo,
		cache:    store,
		cacheTTL: cacheTTL,
		media:    media,
		location: location,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]models.PortfolioCategory, error) {
	if data, ok, err := s.cache.Get(ctx, categoriesCacheKey); err == nil && ok {
		var cats []models.PortfolioCategory
		if err := json.Unmarshal(data, &cats); err == nil {
			return cats, nil
		}
	}

	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cats); err == nil {
		_ = s.cache.Set(ctx, categoriesCacheKey, data, s.cacheTTL)
	}
	return cats, nil
}

func (s *Service) CreateCategory(ctx context.Context, req CategoryRequest) (models.PortfolioCategory, error) {
	cat := models.PortfolioCategory{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().In(s.location),
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return models.PortfolioCategory{}, err
	}
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return cat, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (models.PortfolioCategory, error) {
	set := bson.M{"name": strings.TrimSpace(req.Name)}
	updated, err := s.repo.UpdateCategory(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PortfolioCategory{}, ErrCategoryNotFound
		}
		return models.PortfolioCategory{}, err
	}
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteCategory(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return nil
}

// ListItems runs the composed filter and resolves client and category
// names onto each item, the join the gallery cards need.
func (s *Service) ListItems(ctx context.Context, filter ItemFilter) ([]ItemView, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.ClientID = strings.TrimSpace(filter.ClientID)
	filter.CategoryID = strings.TrimSpace(filter.CategoryID)

	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	clientNames, err := s.clientNames(ctx)
	if err != nil {
		return nil, err
	}
	categoryNames, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			PortfolioItem: item,
			Client:        NameRef{ID: item.ClientID, Name: clientNames[item.ClientID]},
			Category:      NameRef{ID: item.CategoryID, Name: categoryNames[item.CategoryID]},
		})
	}
	return views, nil
}

func (s *Service) CreateItem(ctx context.Context, req ItemUpsert) (ItemView, error) {
	item := models.PortfolioItem{
		ID:          primitive.NewObjectID().Hex(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FileURL:     req.FileURL,
		UploadDate:  time.Now().In(s.location),
		ClientID:    strings.TrimSpace(req.ClientID),
		CategoryID:  strings.TrimSpace(req.CategoryID),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return ItemView{}, err
	}
	return s.view(ctx, item)
}

func (s *Service) UpdateItem(ctx context.Context, id string, req ItemUpsert) (ItemView, error) {
	id = strings.TrimSpace(id)
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ItemView{}, ErrItemNotFound
		}
		return ItemView{}, err
	}

	set := bson.M{
		"title":       strings.TrimSpace(req.Title),
		"description": strings.TrimSpace(req.Description),
		"clientId":    strings.TrimSpace(req.ClientID),
		"categoryId":  strings.TrimSpace(req.CategoryID),
	}
	if req.FileURL != "" {
		set["fileUrl"] = req.FileURL
	}

	updated, err := s.repo.UpdateItem(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ItemView{}, ErrItemNotFound
		}
		return ItemView{}, err
	}

	if req.FileURL != "" && existing.FileURL != "" && existing.FileURL != req.FileURL {
		_ = s.media.Remove(existing.FileURL)
	}
	return s.view(ctx, updated)
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrItemNotFound
		}
		return err
	}

	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	_ = s.media.Remove(item.FileURL)
	return nil
}

func (s *Service) view(ctx context.Context, item models.PortfolioItem) (ItemView, error) {
	view := ItemView{
		PortfolioItem: item,
		Client:        NameRef{ID: item.ClientID},
		Category:      NameRef{ID: item.CategoryID},
	}
	if client, err := s.clients.Get(ctx, item.ClientID); err == nil {
		view.Client.Name = client.Name
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return view, nil
	}
	for _, cat := range cats {
		if cat.ID == item.CategoryID {
			view.Category.Name = cat.Name
			break
		}
	}
	return view, nil
}

func (s *Service) clientNames(ctx context.Context) (map[string]string, error) {
	list, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) categoryNames(ctx context.Context) (map[string]string, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}
	return names, nil
}
