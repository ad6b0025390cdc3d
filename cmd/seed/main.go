package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/base64pro/ratil-app/internal/auth"
	"github.com/base64pro/ratil-app/internal/config"
	"github.com/base64pro/ratil-app/internal/db"
	"github.com/base64pro/ratil-app/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("seed admin: ADMIN_PASSWORD missing")
	}
	if err := seedAdminUser(ctx, cols, cfg.AdminUser, password, cfg.Timezone); err != nil {
		log.Fatalf("seed admin error for %s: %v", cfg.AdminUser, err)
	}

	categories := []string{"هويات بصرية", "حملات اعلانية", "تنظيم فعاليات"}
	for _, name := range categories {
		if err := seedPortfolioCategory(ctx, cols, name, cfg.Timezone); err != nil {
			log.Fatalf("seed portfolio category error for %s: %v", name, err)
		}
	}

	log.Println("seed completed")
}

func seedAdminUser(ctx context.Context, cols *db.Collections, username, password string, loc *time.Location) error {
	if username == "" || password == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	update := bson.M{
		"$set": bson.M{
			"passwordHash":       hash,
			"role":               models.UserRoleAdmin,
			"canAccessPortfolio": true,
			"updatedAt":          now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"username":  username,
			"createdAt": now,
		},
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"username": username}, update, options.Update().SetUpsert(true))
	return err
}

func seedPortfolioCategory(ctx context.Context, cols *db.Collections, name string, loc *time.Location) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"name":      name,
			"createdAt": time.Now().In(loc),
		},
	}
	_, err := cols.PortfolioCategories.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	return err
}
