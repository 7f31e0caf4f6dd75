package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().
				SetName("userName_unique").
				SetUnique(true),
		},
	}

	log.Println("EnsureUserIndexes: creating email_unique and userName_unique indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_index"),
		},
		{
			Keys:    bson.D{{Key: "orderStatus", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_createdAt_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating user_id and status indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	// one cart line per user and product detail
	cartIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "productDetail", Value: 1}},
		Options: options.Index().
			SetName("user_productDetail_unique").
			SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating user_productDetail_unique index")
	_, err := indexes.CreateOne(ctx, cartIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureReviewIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("reviews").Indexes()

	reviewIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "idAccount", Value: 1}, {Key: "productId", Value: 1}},
		Options: options.Index().SetName("idAccount_productId_index"),
	}

	log.Println("EnsureReviewIndexes: creating idAccount_productId_index")
	_, err := indexes.CreateOne(ctx, reviewIndex)
	if err != nil {
		log.Println("EnsureReviewIndexes: index error:", err)
		return err
	}
	return nil
}
