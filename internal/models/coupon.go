package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon discount kinds.
const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

// Coupon is an admin-managed discount code, unique by Code.
type Coupon struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType   string             `bson:"discountType" json:"discountType"`
	DiscountValue  float64            `bson:"discountValue" json:"discountValue"`
	MinOrderAmount float64            `bson:"minOrderAmount" json:"minOrderAmount"`
	ExpiresAt      *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
