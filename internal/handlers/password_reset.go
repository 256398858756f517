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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/config"
	"backend/internal/models"
	"backend/internal/notify"
)

// The forgot-password response never varies with account existence.
const forgotPasswordAck = "If an account with that email exists, a password reset link has been sent."

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ForgotPassword issues a time-boxed reset token. Unlike the OTP sends
// the reset email is awaited: a dead mail provider here means the user
// can never complete the flow, so it has to surface as a 500.
func ForgotPassword(db *mongo.Database, notifier *notify.Notifier, auth config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/forgot-password"
		defer handlePanic(c, route)

		var req forgotPasswordRequest
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
				c.JSON(http.StatusOK, gin.H{"message": forgotPasswordAck})
				return
			}
			respondServerError(c, route, err)
			return
		}

		resetToken, err := generateOpaqueToken()
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		expires := time.Now().Add(auth.ResetTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"resetPasswordToken":   resetToken,
				"resetPasswordExpires": expires,
				"updatedAt":            time.Now(),
			},
		})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		if err := notifier.SendResetEmail(user.Email, user.Name, resetToken); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] reset token issued for:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordAck})
	}
}

// ResetPassword consumes the token. Match and expiry are checked by a
// single FindOneAndUpdate, which also clears the artifacts, so the
// token is single-use even under concurrent attempts.
func ResetPassword(db *mongo.Database, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/reset-password/:token"
		defer handlePanic(c, route)

		token := strings.TrimSpace(c.Param("token"))
		if token == "" {
			respondWithError(c, http.StatusBadRequest, route, "Invalid or expired reset token")
			return
		}

		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{
				"resetPasswordToken":   token,
				"resetPasswordExpires": bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
				"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid or expired reset token")
				return
			}
			respondServerError(c, route, err)
			return
		}

		notifier.QueueResetConfirmation(user.Email, user.Name)

		log.Println("[AUTH] [INFO] password reset for:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "Password reset successful! You can now log in with your new password."})
	}
}
