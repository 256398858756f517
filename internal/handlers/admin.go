package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// GetAdminDashboard aggregates the back-office overview counters.
func GetAdminDashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/dashboard"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		users, err := db.Collection("users").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		restaurants, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		pendingApproval, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{"isApproved": false})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		orders, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"status": models.OrderDelivered}}},
			{{Key: "$group", Value: bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": "$total"},
			}}},
		}
		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		var revenueRows []struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.All(ctx, &revenueRows); err != nil {
			respondServerError(c, route, err)
			return
		}
		var revenue float64
		if len(revenueRows) > 0 {
			revenue = revenueRows[0].Total
		}

		c.JSON(http.StatusOK, gin.H{
			"users":           users,
			"restaurants":     restaurants,
			"pendingApproval": pendingApproval,
			"orders":          orders,
			"revenue":         revenue,
		})
	}
}

// ListUsers pages through accounts for the admin user table. Secret
// bearing fields never serialize, so this is safe to return as-is.
func ListUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		filter := bson.M{}
		if role := c.Query("role"); role != "" {
			filter["role"] = role
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		total, err := db.Collection("users").CountDocuments(ctx, filter)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		cursor, err := db.Collection("users").Find(ctx, filter,
			options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetSkip((page-1)*limit).
				SetLimit(limit))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		users := []models.User{}
		if err := cursor.All(ctx, &users); err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"total": total,
			"page":  page,
			"limit": limit,
		})
	}
}

// ApproveRestaurant flips the approval flag on both the catalog
// document and the embedded copy on the owner account, which is what
// login projects isApproved from.
func ApproveRestaurant(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/restaurants/:id/approve"
		defer handlePanic(c, route)

		restaurantID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurant id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var restaurant models.Restaurant
		err = db.Collection("restaurants").FindOneAndUpdate(ctx,
			bson.M{"_id": restaurantID},
			bson.M{"$set": bson.M{"isApproved": true, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&restaurant)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Restaurant not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, restaurant.OwnerID, bson.M{
			"$set": bson.M{"restaurantDetails.isApproved": true, "updatedAt": time.Now()},
		})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[ADMIN] [INFO] restaurant approved:", restaurant.RestaurantName)
		c.JSON(http.StatusOK, gin.H{"message": "restaurant approved", "restaurant": restaurant})
	}
}
