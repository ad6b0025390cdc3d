package portfolio

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/base64pro/ratil-app/internal/models"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]models.PortfolioCategory, error)
	CreateCategory(ctx context.Context, cat models.PortfolioCategory) error
	UpdateCategory(ctx context.Context, id string, set bson.M) (models.PortfolioCategory, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	ListItems(ctx context.Context, filter ItemFilter) ([]models.PortfolioItem, error)
	GetItem(ctx context.Context, id string) (models.PortfolioItem, error)
	CreateItem(ctx context.Context, item models.PortfolioItem) error
	UpdateItem(ctx context.Context, id string, set bson.M) (models.PortfolioItem, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
}

// itemQuery translates a filter into the mongo query, dropping every
// inactive dimension so the database only sees real constraints.
func itemQuery(filter ItemFilter) bson.M {
	query := bson.M{}
	if filter.Query != "" {
		regex := bson.M{"$regex": filter.Query, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}
	}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.CategoryID != "" {
		query["categoryId"] = filter.CategoryID
	}

	dateRange := bson.M{}
	if filter.Start != nil {
		dateRange["$gte"] = *filter.Start
	}
	if filter.End != nil {
		// End is an inclusive calendar day.
		dateRange["$lt"] = filter.End.AddDate(0, 0, 1)
	}
	if len(dateRange) > 0 {
		query["uploadDate"] = dateRange
	}

	return query
}

type MongoRepository struct {
	categories *mongo.Collection
	items      *mongo.Collection
}

func NewRepository(categories, items *mongo.Collection) *MongoRepository {
	return &MongoRepository{categories: categories, items: items}
}

func (r *MongoRepository) ListCategories(ctx context.Context) ([]models.PortfolioCategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cats := make([]models.PortfolioCategory, 0)
	for cursor.Next(ctx) {
		var cat models.PortfolioCategory
		if err := cursor.Decode(&cat); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *MongoRepository) CreateCategory(ctx context.Context, cat models.PortfolioCategory) error {
	_, err := r.categories.InsertOne(ctx, cat)
	return err
}

func (r *MongoRepository) UpdateCategory(ctx context.Context, id string, set bson.M) (models.PortfolioCategory, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.PortfolioCategory
	if err := r.categories.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.PortfolioCategory{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListItems(ctx context.Context, filter ItemFilter) ([]models.PortfolioItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	cursor, err := r.items.Find(ctx, itemQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.PortfolioItem, 0)
	for cursor.Next(ctx) {
		var item models.PortfolioItem
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetItem(ctx context.Context, id string) (models.PortfolioItem, error) {
	var item models.PortfolioItem
	err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) CreateItem(ctx context.Context, item models.PortfolioItem) error {
	_, err := r.items.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateItem(ctx context.Context, id string, set bson.M) (models.PortfolioItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.PortfolioItem
	if err := r.items.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.PortfolioItem{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteItem(ctx context.Context, id string) (bool, error) {
	res, err := r.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
