package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
	RoleAdmin      = "admin"
)

// RestaurantDetails is embedded on restaurant accounts. Only the
// isApproved flag participates in login; the rest feeds the public
// catalog.
type RestaurantDetails struct {
	RestaurantName string     `bson:"restaurantName" json:"restaurantName"`
	Description    string     `bson:"description,omitempty" json:"description,omitempty"`
	Cuisine        StringList `bson:"cuisine" json:"cuisine"`
	Address        string     `bson:"address" json:"address"`
	IsApproved     bool       `bson:"isApproved" json:"isApproved"`
}

// User is the account document. Verification and reset artifacts are
// stored alongside the credential fields and unset once consumed, so a
// consumed code can never be replayed. None of the secret-bearing
// fields marshal to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PhoneNumber  string             `bson:"phoneNumber" json:"phoneNumber"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`

	EmailVerified bool `bson:"emailVerified" json:"emailVerified"`
	PhoneVerified bool `bson:"phoneVerified" json:"phoneVerified"`

	VerificationToken string     `bson:"verificationToken,omitempty" json:"-"`
	EmailOTP          string     `bson:"emailOTP,omitempty" json:"-"`
	EmailOTPExpires   *time.Time `bson:"emailOTPExpires,omitempty" json:"-"`
	PhoneOTP          string     `bson:"phoneOTP,omitempty" json:"-"`
	PhoneOTPExpires   *time.Time `bson:"phoneOTPExpires,omitempty" json:"-"`

	ResetPasswordToken   string     `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"resetPasswordExpires,omitempty" json:"-"`

	RestaurantDetails *RestaurantDetails `bson:"restaurantDetails,omitempty" json:"restaurantDetails,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Verified reports whether the account can hold a session. Either
// channel is enough.
func (u *User) Verified() bool {
	return u.EmailVerified || u.PhoneVerified
}
