package content

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/base64pro/ratil-app/internal/models"
)

type Repository interface {
	ListSubcategories(ctx context.Context, category string) ([]models.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (models.Subcategory, error)
	CreateSubcategory(ctx context.Context, sub models.Subcategory) error
	UpdateSubcategory(ctx context.Context, id string, set bson.M) (models.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) (bool, error)

	ListItems(ctx context.Context, subcategoryID, query string) ([]models.ContentItem, error)
	ListAllItems(ctx context.Context) ([]models.ContentItem, error)
	GetItem(ctx context.Context, id string) (models.ContentItem, error)
	CreateItem(ctx context.Context, item models.ContentItem) error
	UpdateItem(ctx context.Context, id string, set bson.M) (models.ContentItem, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
	DeleteItemsBySubcategory(ctx context.Context, subcategoryID string) ([]models.ContentItem, error)
}

type MongoRepository struct {
	subs  *mongo.Collection
	items *mongo.Collection
}

func NewRepository(subs, items *mongo.Collection) *MongoRepository {
	return &MongoRepository{subs: subs, items: items}
}

func (r *MongoRepository) ListSubcategories(ctx context.Context, category string) ([]models.Subcategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.subs.Find(ctx, bson.M{"categoryName": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := make([]models.Subcategory, 0)
	for cursor.Next(ctx) {
		var sub models.Subcategory
		if err := cursor.Decode(&sub); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *MongoRepository) GetSubcategory(ctx context.Context, id string) (models.Subcategory, error) {
	var sub models.Subcategory
	err := r.subs.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	return sub, err
}

func (r *MongoRepository) CreateSubcategory(ctx context.Context, sub models.Subcategory) error {
	_, err := r.subs.InsertOne(ctx, sub)
	return err
}

func (r *MongoRepository) UpdateSubcategory(ctx context.Context, id string, set bson.M) (models.Subcategory, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Subcategory
	if err := r.subs.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.Subcategory{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteSubcategory(ctx context.Context, id string) (bool, error) {
	res, err := r.subs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListItems(ctx context.Context, subcategoryID, query string) ([]models.ContentItem, error) {
	filter := bson.M{"subcategoryId": subcategoryID}
	if query != "" {
		regex := bson.M{"$regex": query, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.ContentItem, 0)
	for cursor.Next(ctx) {
		var item models.ContentItem
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

func (r *MongoRepository) ListAllItems(ctx context.Context) ([]models.ContentItem, error) {
	cursor, err := r.items.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.ContentItem, 0)
	for cursor.Next(ctx) {
		var item models.ContentItem
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

func (r *MongoRepository) GetItem(ctx context.Context, id string) (models.ContentItem, error) {
	var item models.ContentItem
	err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository) CreateItem(ctx context.Context, item models.ContentItem) error {
	_, err := r.items.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateItem(ctx context.Context, id string, set bson.M) (models.ContentItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.ContentItem
	if err := r.items.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.ContentItem{}, err
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

// DeleteItemsBySubcategory removes the subcategory's items and returns
// them so the caller can clean up their stored media.
func (r *MongoRepository) DeleteItemsBySubcategory(ctx context.Context, subcategoryID string) ([]models.ContentItem, error) {
	items, err := r.ListItems(ctx, subcategoryID, "")
	if err != nil {
		return nil, err
	}
	if _, err := r.items.DeleteMany(ctx, bson.M{"subcategoryId": subcategoryID}); err != nil {
		return nil, err
	}
	return items, nil
}
