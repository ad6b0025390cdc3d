package clients

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/base64pro/ratil-app/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Client, error)
	Get(ctx context.Context, id string) (models.Client, error)
	Create(ctx context.Context, client models.Client) error
	Update(ctx context.Context, id string, set bson.M) (models.Client, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context) ([]models.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Client, 0)
	for cursor.Next(ctx) {
		var client models.Client
		if err := cursor.Decode(&client); err != nil {
			return nil, err
		}
		items = append(items, client)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (models.Client, error) {
	var client models.Client
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	return client, err
}

func (r *MongoRepository) Create(ctx context.Context, client models.Client) error {
	_, err := r.col.InsertOne(ctx, client)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (models.Client, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Client
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.Client{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
