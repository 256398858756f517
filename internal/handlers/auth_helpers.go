package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// issueSessionToken signs the bearer credential carried by every
// authenticated call: account id, role and admin flag.
func issueSessionToken(user models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId":  user.ID.Hex(),
		"role":    user.Role,
		"isAdmin": user.IsAdmin,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// generateOpaqueToken returns the single-use capability string used by
// the email-link and password-reset flows.
func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// generateOTP returns a uniformly random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}

type otpStatus int

const (
	otpOK otpStatus = iota
	otpMismatch
	otpExpired
)

// checkOTP fails closed: missing or mismatched codes are a mismatch,
// and a matching code past its expiry is expired. A code submitted at
// exactly the expiry instant is still valid.
func checkOTP(stored, submitted string, expires *time.Time, now time.Time) otpStatus {
	if stored == "" || submitted == "" || stored != submitted {
		return otpMismatch
	}
	if expires == nil || now.After(*expires) {
		return otpExpired
	}
	return otpOK
}

// phoneVariants tolerates client formatting drift: a number is looked
// up both with and without its leading "+".
func phoneVariants(phone string) []string {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "+") {
		return []string{trimmed, strings.TrimPrefix(trimmed, "+")}
	}
	return []string{trimmed, "+" + trimmed}
}

func findUserByPhone(ctx context.Context, db *mongo.Database, phone string) (models.User, error) {
	var user models.User
	variants := phoneVariants(phone)
	if len(variants) == 0 {
		return user, mongo.ErrNoDocuments
	}
	err := db.Collection("users").FindOne(ctx, bson.M{
		"phoneNumber": bson.M{"$in": variants},
	}).Decode(&user)
	return user, err
}

// isApprovedFor projects the login approval flag: non-restaurant roles
// are always approved, restaurants follow their profile flag.
func isApprovedFor(user models.User) bool {
	if user.Role != models.RoleRestaurant {
		return true
	}
	if user.RestaurantDetails == nil {
		return false
	}
	return user.RestaurantDetails.IsApproved
}

func sessionUserPayload(user models.User) gin.H {
	return gin.H{
		"id":         user.ID.Hex(),
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"isAdmin":    user.IsAdmin,
		"isApproved": isApprovedFor(user),
	}
}
