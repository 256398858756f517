package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type couponRequest struct {
	Code           string     `json:"code" binding:"required"`
	Description    string     `json:"description"`
	DiscountType   string     `json:"discountType" binding:"required,oneof=percent flat"`
	DiscountValue  float64    `json:"discountValue" binding:"required,gt=0"`
	MinOrderAmount float64    `json:"minOrderAmount" binding:"gte=0"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsActive       *bool      `json:"isActive"`
}

// couponDiscount computes the discount a coupon yields for a subtotal,
// rejecting inactive, expired and below-minimum applications.
func couponDiscount(coupon models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if !coupon.IsActive {
		return 0, errors.New("coupon is not active")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return 0, errors.New("coupon has expired")
	}
	if subtotal < coupon.MinOrderAmount {
		return 0, fmt.Errorf("order total must be at least %.2f to use this coupon", coupon.MinOrderAmount)
	}

	var discount float64
	switch coupon.DiscountType {
	case models.DiscountPercent:
		discount = subtotal * coupon.DiscountValue / 100
	case models.DiscountFlat:
		discount = coupon.DiscountValue
	default:
		return 0, errors.New("unknown discount type")
	}

	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}

// ListCoupons returns every coupon for the back office.
func ListCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /coupons/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		cursor, err := db.Collection("coupons").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		coupons := []models.Coupon{}
		if err := cursor.All(ctx, &coupons); err != nil {
			respondServerError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, coupons)
	}
}

// CreateCoupon inserts a coupon; the unique code index rejects
// duplicates at write time.
func CreateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /coupons"
		defer handlePanic(c, route)

		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		coupon := models.Coupon{
			Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
			Description:    strings.TrimSpace(req.Description),
			DiscountType:   req.DiscountType,
			DiscountValue:  req.DiscountValue,
			MinOrderAmount: req.MinOrderAmount,
			ExpiresAt:      req.ExpiresAt,
			IsActive:       isActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("coupons").InsertOne(ctx, coupon)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Coupon code already exists")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			coupon.ID = id
		}

		log.Println("[ADMIN] [INFO] coupon created:", coupon.Code)
		c.JSON(http.StatusCreated, coupon)
	}
}

// UpdateCoupon overwrites the mutable fields of a coupon.
func UpdateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /coupons/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid coupon id")
			return
		}

		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		update := bson.M{"$set": bson.M{
			"code":           strings.ToUpper(strings.TrimSpace(req.Code)),
			"description":    strings.TrimSpace(req.Description),
			"discountType":   req.DiscountType,
			"discountValue":  req.DiscountValue,
			"minOrderAmount": req.MinOrderAmount,
			"expiresAt":      req.ExpiresAt,
			"isActive":       isActive,
			"updatedAt":      time.Now(),
		}}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("coupons").UpdateByID(ctx, id, update)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Coupon code already exists")
				return
			}
			respondServerError(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Coupon not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "coupon updated"})
	}
}

// DeleteCoupon removes a coupon outright.
func DeleteCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /coupons/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid coupon id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("coupons").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Coupon not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "coupon deleted"})
	}
}
