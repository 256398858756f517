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

	"backend/internal/middleware"
	"backend/internal/models"
)

// GetRestaurantOrders lists incoming orders for the partner, newest
// first, optionally filtered by status.
func GetRestaurantOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurant/orders"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, false)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		filter := bson.M{"restaurantId": restaurant.ID}
		if status := c.Query("status"); status != "" {
			if !isKnownOrderStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, "unknown order status")
				return
			}
			filter["status"] = status
		}

		cursor, err := db.Collection("orders").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRestaurantOrderStatus moves an order along its lifecycle. The
// transition table rejects illegal jumps; the update filter re-checks
// the current status so concurrent updates cannot skip a state.
func UpdateRestaurantOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /restaurant/orders/:id"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !isKnownOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "unknown order status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, true)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{
			"_id":          orderID,
			"restaurantId": restaurant.ID,
		}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if err := canTransitionOrder(order.Status, req.Status); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		res, err := db.Collection("orders").UpdateOne(ctx,
			bson.M{"_id": order.ID, "status": order.Status},
			bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusConflict, route, "order status changed concurrently, retry")
			return
		}

		log.Printf("[RESTAURANT] [INFO] order %s: %s -> %s", order.Reference, order.Status, req.Status)
		c.JSON(http.StatusOK, gin.H{"message": "order updated", "status": req.Status})
	}
}

// restaurantRevenuePipeline groups delivered revenue by calendar
// month of the order date.
func restaurantRevenuePipeline(restaurantID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"restaurantId": restaurantID, "status": models.OrderDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$month": "$createdAt"},
			"revenue": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// restaurantTopProductsPipeline ranks menu items by units sold across
// delivered orders. Items are snapshots, so grouping is by name.
func restaurantTopProductsPipeline(restaurantID primitive.ObjectID, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"restaurantId": restaurantID, "status": models.OrderDelivered}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"name": "$items.name"},
			"totalSold": bson.M{"$sum": "$items.quantity"},
			"revenue":   bson.M{"$sum": bson.M{"$multiply": []interface{}{"$items.price", "$items.quantity"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSold", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

// GetRestaurantAnalytics backs the partner analytics tab: monthly
// delivered revenue plus the best selling items.
func GetRestaurantAnalytics(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurant/analytics"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, false)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		revenueCursor, err := db.Collection("orders").Aggregate(ctx, restaurantRevenuePipeline(restaurant.ID))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer revenueCursor.Close(ctx)

		revenueByMonth := []bson.M{}
		if err := revenueCursor.All(ctx, &revenueByMonth); err != nil {
			respondServerError(c, route, err)
			return
		}

		topCursor, err := db.Collection("orders").Aggregate(ctx, restaurantTopProductsPipeline(restaurant.ID, 5))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer topCursor.Close(ctx)

		topProducts := []bson.M{}
		if err := topCursor.All(ctx, &topProducts); err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"revenueByMonth": revenueByMonth,
			"topProducts":    topProducts,
		})
	}
}

// GetRestaurantDashboard summarizes the partner's order book: counts
// per status plus delivered revenue.
func GetRestaurantDashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /restaurant/dashboard"
		defer handlePanic(c, route)

		ownerID, _ := middleware.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		restaurant, err := restaurantForOwner(ctx, db, ownerID, false)
		if err != nil {
			respondOwnerLookupError(c, route, err)
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"restaurantId": restaurant.ID}}},
			{{Key: "$group", Value: bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
				"total": bson.M{"$sum": "$total"},
			}}},
		}

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		var rows []struct {
			Status string  `bson:"_id"`
			Count  int64   `bson:"count"`
			Total  float64 `bson:"total"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			respondServerError(c, route, err)
			return
		}

		byStatus := gin.H{}
		var totalOrders int64
		var revenue float64
		for _, row := range rows {
			byStatus[row.Status] = row.Count
			totalOrders += row.Count
			if row.Status == models.OrderDelivered {
				revenue = row.Total
			}
		}

		productCount, err := db.Collection("products").CountDocuments(ctx, bson.M{"restaurantId": restaurant.ID})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"restaurant":  restaurant,
			"totalOrders": totalOrders,
			"byStatus":    byStatus,
			"revenue":     revenue,
			"menuItems":   productCount,
		})
	}
}
