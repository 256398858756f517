package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureUserIndexes creates the unique constraints signup relies on.
// A race between two concurrent signups for the same email or phone is
// resolved here, at write time, not by application locking.
func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	phoneIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "phoneNumber", Value: 1}},
		Options: options.Index().
			SetName("phoneNumber_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"phoneNumber": bson.M{
					"$exists": true,
					"$type":   "string",
				},
			}),
	}

	log.Println("EnsureUserIndexes: creating email_unique and phoneNumber_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{emailIndex, phoneIndex})
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: user indexes created")
	return nil
}

// EnsureCouponIndexes enforces coupon code uniqueness.
func EnsureCouponIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("coupons").Indexes()

	codeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
		Options: options.Index().
			SetName("code_unique").
			SetUnique(true),
	}

	log.Println("EnsureCouponIndexes: creating code_unique index")
	_, err := indexes.CreateOne(ctx, codeIndex)
	if err != nil {
		log.Println("EnsureCouponIndexes: code index error:", err)
		return err
	}
	log.Println("EnsureCouponIndexes: code_unique index created")
	return nil
}

// EnsureOrderIndexes backs the customer and restaurant order listings.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	restaurantIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "restaurantId", Value: 1}},
		Options: options.Index().SetName("restaurantId_index"),
	}

	log.Println("EnsureOrderIndexes: creating userId_index and restaurantId_index indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{userIDIndex, restaurantIDIndex})
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}
