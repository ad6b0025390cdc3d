package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Users               *mongo.Collection
	Subcategories       *mongo.Collection
	ContentItems        *mongo.Collection
	Clients             *mongo.Collection
	PortfolioCategories *mongo.Collection
	PortfolioItems      *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Users:               db.Collection("users"),
		Subcategories:       db.Collection("subcategories"),
		ContentItems:        db.Collection("content_items"),
		Clients:             db.Collection("clients"),
		PortfolioCategories: db.Collection("portfolio_categories"),
		PortfolioItems:      db.Collection("portfolio_items"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Subcategories.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "categoryName", Value: 1}, {Key: "name", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.ContentItems.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "subcategoryId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.PortfolioItems.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "uploadDate", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "categoryId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
