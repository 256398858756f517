package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// ListRestaurants serves the customer-facing catalog: approved, active
// restaurants only, optionally filtered by cuisine or a name search,
// best rated first.
func ListRestaurants(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /public/restaurants"
		defer handlePanic(c, route)

		filter := bson.M{
			"isActive":   true,
			"isApproved": true,
		}

		if cuisine := strings.TrimSpace(c.Query("cuisine")); cuisine != "" {
			filter["cuisine"] = bson.M{"$in": []interface{}{primitive.Regex{Pattern: cuisine, Options: "i"}}}
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["restaurantName"] = primitive.Regex{Pattern: search, Options: "i"}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		cursor, err := db.Collection("restaurants").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		restaurants := []models.Restaurant{}
		if err := cursor.All(ctx, &restaurants); err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, restaurants)
	}
}

// GetRestaurant returns one restaurant document by id.
func GetRestaurant(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /public/restaurants/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurant id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var restaurant models.Restaurant
		if err := db.Collection("restaurants").FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusNotFound, route, "Restaurant not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, restaurant)
	}
}

// GetRestaurantMenu lists the available items of one restaurant,
// grouped the way the storefront renders them.
func GetRestaurantMenu(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /public/restaurants/:id/menu"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurant id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx,
			bson.M{"restaurantId": id, "isAvailable": true},
			options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// GetRestaurantReviews keeps the storefront's reviews call working.
// There is no review collection yet; the response is an empty list
// until one exists.
func GetRestaurantReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /public/restaurants/:id/reviews"
		defer handlePanic(c, route)

		if _, err := primitive.ObjectIDFromHex(c.Param("id")); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurant id")
			return
		}

		c.JSON(http.StatusOK, []gin.H{})
	}
}
