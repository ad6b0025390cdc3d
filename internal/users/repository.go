package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/base64pro/ratil-app/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error)
	Delete(ctx context.Context, username string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.User, 0)
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		items = append(items, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	return user, err
}

func (r *MongoRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *MongoRepository) UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": bson.M{
		"passwordHash": passwordHash,
	}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, username string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
