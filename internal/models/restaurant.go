package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant is the public catalog document, created alongside a
// restaurant-role account and keyed back to it by OwnerID. Approval
// state is mirrored onto the owning account's restaurantDetails.
type Restaurant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID        primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	RestaurantName string             `bson:"restaurantName" json:"restaurantName"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Cuisine        StringList         `bson:"cuisine" json:"cuisine"`
	Address        string             `bson:"address" json:"address"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Rating         float64            `bson:"rating" json:"rating"`
	TotalReviews   int                `bson:"totalReviews" json:"totalReviews"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	IsApproved     bool               `bson:"isApproved" json:"isApproved"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
