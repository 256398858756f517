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
	"golang.org/x/crypto/bcrypt"

	"backend/internal/config"
	"backend/internal/models"
)

type restaurantDetailsRequest struct {
	RestaurantName string   `json:"restaurantName" binding:"required"`
	Description    string   `json:"description"`
	Cuisine        []string `json:"cuisine"`
	Address        string   `json:"address" binding:"required"`
}

type signupRequest struct {
	Name              string                    `json:"name" binding:"required"`
	Email             string                    `json:"email" binding:"required,email"`
	Password          string                    `json:"password" binding:"required,min=6"`
	PhoneNumber       string                    `json:"phoneNumber" binding:"required"`
	Role              string                    `json:"role" binding:"omitempty,oneof=customer restaurant admin"`
	RestaurantDetails *restaurantDetailsRequest `json:"restaurantDetails"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// restaurantCatalogDoc builds the public catalog entry created
// alongside a partner account. New listings start active but always
// unapproved, whatever the embedded details say.
func restaurantCatalogDoc(ownerID primitive.ObjectID, phone string, details *models.RestaurantDetails, now time.Time) models.Restaurant {
	return models.Restaurant{
		OwnerID:        ownerID,
		RestaurantName: details.RestaurantName,
		Description:    details.Description,
		Cuisine:        details.Cuisine,
		Address:        details.Address,
		Phone:          phone,
		IsActive:       true,
		IsApproved:     false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Signup creates an unverified account. No message is sent here; the
// client chooses a verification channel afterwards. No session token is
// issued until one channel is confirmed.
func Signup(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/signup"
		defer handlePanic(c, route)

		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role := req.Role
		if role == "" {
			role = models.RoleCustomer
		}
		if role == models.RoleRestaurant && req.RestaurantDetails == nil {
			respondWithError(c, http.StatusBadRequest, route, "restaurantDetails is required for restaurant accounts")
			return
		}

		email := strings.TrimSpace(req.Email)
		phone := strings.TrimSpace(req.PhoneNumber)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var existing models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&existing)
		if err == nil {
			if !existing.Verified() {
				log.Println("[AUTH] [INFO] signup found unverified account:", email)
				c.JSON(http.StatusConflict, gin.H{
					"message":    "User already exists but is not verified.",
					"unverified": true,
					"user": gin.H{
						"name":        existing.Name,
						"email":       existing.Email,
						"phoneNumber": existing.PhoneNumber,
					},
				})
				return
			}
			respondWithError(c, http.StatusBadRequest, route, "User already exists")
			return
		}
		if err != mongo.ErrNoDocuments {
			respondServerError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		verificationToken, err := generateOpaqueToken()
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		now := time.Now()
		user := models.User{
			Name:              strings.TrimSpace(req.Name),
			Email:             email,
			PhoneNumber:       phone,
			PasswordHash:      string(hash),
			Role:              role,
			EmailVerified:     false,
			PhoneVerified:     false,
			VerificationToken: verificationToken,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if role == models.RoleRestaurant {
			user.RestaurantDetails = &models.RestaurantDetails{
				RestaurantName: strings.TrimSpace(req.RestaurantDetails.RestaurantName),
				Description:    strings.TrimSpace(req.RestaurantDetails.Description),
				Cuisine:        models.StringList(req.RestaurantDetails.Cuisine),
				Address:        strings.TrimSpace(req.RestaurantDetails.Address),
				IsApproved:     false,
			}
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			// Two racing signups land here: the unique index rejects
			// the loser and it surfaces as a duplicate, never a
			// silent overwrite.
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "User already exists")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if role == models.RoleRestaurant {
			ownerID, _ := res.InsertedID.(primitive.ObjectID)
			restaurant := restaurantCatalogDoc(ownerID, phone, user.RestaurantDetails, now)
			if _, err := db.Collection("restaurants").InsertOne(ctx, restaurant); err != nil {
				// Without the catalog document every partner endpoint
				// 404s and nothing recreates it later, so the half
				// registered account is removed and the client retries.
				log.Println("[AUTH] [ERROR] restaurant profile insert failed, rolling back account:", err)
				if _, delErr := db.Collection("users").DeleteOne(ctx, bson.M{"_id": ownerID}); delErr != nil {
					log.Println("[AUTH] [ERROR] account rollback failed:", delErr)
				}
				respondWithError(c, http.StatusInternalServerError, route, "Registration failed. Please try again.")
				return
			}
		}

		log.Println("[AUTH] [INFO] account registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Registration successful! Please verify your account using OTP.",
			"emailSent": false,
		})
	}
}

// Login exchanges credentials for a session token. Unknown account and
// wrong password produce the same response, so callers cannot probe
// which emails exist.
func Login(db *mongo.Database, auth config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": strings.TrimSpace(req.Email)}).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid credentials")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid credentials")
			return
		}

		if !user.Verified() {
			c.JSON(http.StatusForbidden, gin.H{
				"message":           "Please verify your account to continue.",
				"needsVerification": true,
				"email":             user.Email,
				"phoneNumber":       user.PhoneNumber,
			})
			return
		}

		token, err := issueSessionToken(user, auth.JWTSecret, auth.TokenTTL)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  sessionUserPayload(user),
		})
	}
}
