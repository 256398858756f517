package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/middleware"
	"backend/internal/models"
)

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderRequest struct {
	RestaurantID    string                   `json:"restaurantId" binding:"required"`
	Items           []createOrderItemRequest `json:"items" binding:"required,min=1"`
	CouponCode      string                   `json:"couponCode"`
	DeliveryAddress string                   `json:"deliveryAddress" binding:"required"`
}

// CreateOrder places an order against an approved restaurant. Prices
// are read from the menu, never from the payload, and coupon math
// happens server-side.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		restaurantID, err := primitive.ObjectIDFromHex(req.RestaurantID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid restaurantId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var restaurant models.Restaurant
		err = db.Collection("restaurants").FindOne(ctx, bson.M{
			"_id":        restaurantID,
			"isActive":   true,
			"isApproved": true,
		}).Decode(&restaurant)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusNotFound, route, "Restaurant not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		var subtotal float64
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}

			var product models.Product
			err = db.Collection("products").FindOne(ctx, bson.M{
				"_id":          productID,
				"restaurantId": restaurantID,
				"isAvailable":  true,
			}).Decode(&product)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					respondWithError(c, http.StatusBadRequest, route, "Product not available: "+item.ProductID)
					return
				}
				respondServerError(c, route, err)
				return
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
			subtotal += product.Price * float64(item.Quantity)
		}

		var discount float64
		couponCode := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		if couponCode != "" {
			var coupon models.Coupon
			err := db.Collection("coupons").FindOne(ctx, bson.M{"code": couponCode}).Decode(&coupon)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					respondWithError(c, http.StatusBadRequest, route, "Invalid coupon code")
					return
				}
				respondServerError(c, route, err)
				return
			}
			discount, err = couponDiscount(coupon, subtotal, time.Now())
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
		}

		now := time.Now()
		order := models.Order{
			Reference:       uuid.NewString(),
			UserID:          userID,
			RestaurantID:    restaurantID,
			Items:           items,
			Subtotal:        subtotal,
			Discount:        discount,
			Total:           subtotal - discount,
			CouponCode:      couponCode,
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			Status:          models.OrderPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		log.Println("[ORDER] [INFO] order placed:", order.Reference)
		c.JSON(http.StatusCreated, order)
	}
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID},
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

// GetOrder returns one order; only the owner or an admin may read it.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		isAdmin, _ := c.Get("isAdmin")
		if order.UserID != userID && isAdmin != true {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
