package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle states.
const (
	OrderPending   = "pending"
	OrderAccepted  = "accepted"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderItem is a snapshot of a product at order time; price changes
// after checkout do not affect placed orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is the persisted order document. Reference is the customer
// facing identifier; totals are always computed server-side.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference       string             `bson:"reference" json:"reference"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	RestaurantID    primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Discount        float64            `bson:"discount" json:"discount"`
	Total           float64            `bson:"total" json:"total"`
	CouponCode      string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	DeliveryAddress string             `bson:"deliveryAddress" json:"deliveryAddress"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
