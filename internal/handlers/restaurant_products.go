package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/middleware"
	"backend/internal/models"
)

var errRestaurantNotApproved = errors.New("restaurant is not approved yet")

// restaurantForOwner resolves the caller's restaurant document.
// Mutating endpoints additionally require approval.
func restaurantForOwner(ctx context.Context, db *mongo.Database, ownerID primitive.ObjectID, requireApproved bool) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := db.Collection("restaurants").FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&restaurant)
	if err != nil {
		return restaurant, err
	}
	if requireApproved && !restaurant.IsApproved {
		return restaurant, errRestaurantNotApproved
	}
	return restaurant, nil
}

func respondOwnerLookupError(c *gin.Context, route string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		respondWithError(c, http.StatusNotFound, route, "Restaurant profile not found")
		return
	}
	if errors.Is(err, errRestaurantNotApproved) {
		respondWithError(c, http.StatusForbidden, route, "Restaurant is pending approval")
		return
	}
	respondServerError(c, route, err)
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	IsVeg       bool    `json:"isVeg"`
	IsAvailable *bool   `json:"isAvailable"`
}

// GetRestaurantProducts lists the partner's full menu, including items
// currently marked unavailable.
func GetRestaurantProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurant/products"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, false)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		cursor, err := db.Collection("products").Find(ctx,
			bson.M{"restaurantId": restaurant.ID},
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

// CreateRestaurantProduct adds a menu item. Requires approval.
func CreateRestaurantProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /restaurant/products"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, true)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		isAvailable := true
		if req.IsAvailable != nil {
			isAvailable = *req.IsAvailable
		}

		now := time.Now()
		product := models.Product{
			RestaurantID: restaurant.ID,
			Name:         strings.TrimSpace(req.Name),
			Description:  strings.TrimSpace(req.Description),
			Price:        req.Price,
			Category:     strings.TrimSpace(req.Category),
			IsVeg:        req.IsVeg,
			IsAvailable:  isAvailable,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		log.Println("[RESTAURANT] [INFO] product created:", product.Name)
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateRestaurantProduct overwrites a menu item owned by the caller.
func UpdateRestaurantProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /restaurant/products/:id"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, true)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		isAvailable := true
		if req.IsAvailable != nil {
			isAvailable = *req.IsAvailable
		}

		res, err := db.Collection("products").UpdateOne(ctx,
			bson.M{"_id": productID, "restaurantId": restaurant.ID},
			bson.M{"$set": bson.M{
				"name":        strings.TrimSpace(req.Name),
				"description": strings.TrimSpace(req.Description),
				"price":       req.Price,
				"category":    strings.TrimSpace(req.Category),
				"isVeg":       req.IsVeg,
				"isAvailable": isAvailable,
				"updatedAt":   time.Now(),
			}},
		)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

// DeleteRestaurantProduct removes a menu item owned by the caller.
func DeleteRestaurantProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /restaurant/products/:id"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, true)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		res, err := db.Collection("products").DeleteOne(ctx,
			bson.M{"_id": productID, "restaurantId": restaurant.ID})
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

type restaurantProfileRequest struct {
	RestaurantName string   `json:"restaurantName" binding:"required"`
	Description    string   `json:"description"`
	Cuisine        []string `json:"cuisine"`
	Address        string   `json:"address" binding:"required"`
	Phone          string   `json:"phone"`
	IsActive       *bool    `json:"isActive"`
}

// UpdateRestaurantProfile lets a partner edit the public listing.
// Approval state is deliberately not writable here.
func UpdateRestaurantProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /restaurant/profile"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		var req restaurantProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, false)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		set := bson.M{
			"restaurantName": strings.TrimSpace(req.RestaurantName),
			"description":    strings.TrimSpace(req.Description),
			"cuisine":        models.StringList(req.Cuisine),
			"address":        strings.TrimSpace(req.Address),
			"phone":          strings.TrimSpace(req.Phone),
			"updatedAt":      time.Now(),
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		if _, err := db.Collection("restaurants").UpdateByID(ctx, restaurant.ID, bson.M{"$set": set}); err != nil {
			respondServerError(c, route, err)
			return
		}

		// Keep the embedded copy on the account in step for login's
		// approval projection and the verification flows.
		_, err = db.Collection("users").UpdateByID(ctx, ownerID, bson.M{"$set": bson.M{
			"restaurantDetails.restaurantName": set["restaurantName"],
			"restaurantDetails.description":    set["description"],
			"restaurantDetails.cuisine":        set["cuisine"],
			"restaurantDetails.address":        set["address"],
			"updatedAt":                        time.Now(),
		}})
		if err != nil {
			log.Println("[RESTAURANT] [ERROR] profile mirror update failed:", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}
