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

	"backend/internal/config"
	"backend/internal/models"
	"backend/internal/notify"
)

type sendPhoneOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type verifyPhoneOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

type sendEmailOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type verifyEmailOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// SendPhoneOTP stores a fresh code on the account and queues the SMS.
// Delivery is fire-and-forget: the response does not wait for the
// gateway, and a failed send only shows up in the logs.
func SendPhoneOTP(db *mongo.Database, notifier *notify.Notifier, auth config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/send-phone-otp"
		defer handlePanic(c, route)

		var req sendPhoneOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		user, err := findUserByPhone(ctx, db, req.PhoneNumber)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusNotFound, route, "User not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		otp, err := generateOTP()
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		expires := time.Now().Add(auth.OTPTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"phoneOTP":        otp,
				"phoneOTPExpires": expires,
				"updatedAt":       time.Now(),
			},
		})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		// The gateway wants E.164, tolerate numbers stored without "+".
		gatewayPhone := strings.TrimSpace(req.PhoneNumber)
		if !strings.HasPrefix(gatewayPhone, "+") {
			gatewayPhone = "+" + gatewayPhone
		}
		notifier.QueueSMSOTP(gatewayPhone, otp)

		log.Println("[AUTH] [INFO] phone OTP issued for:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
	}
}

// VerifyPhoneOTP consumes the code and logs the account in. The update
// filter re-matches the code, so a replayed or concurrently consumed
// code cannot flip the flag twice.
func VerifyPhoneOTP(db *mongo.Database, auth config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/verify-phone-otp"
		defer handlePanic(c, route)

		var req verifyPhoneOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		user, err := findUserByPhone(ctx, db, req.PhoneNumber)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusNotFound, route, "User not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if user.PhoneVerified {
			c.JSON(http.StatusOK, gin.H{"message": "Phone already verified", "verified": true})
			return
		}

		switch checkOTP(user.PhoneOTP, req.OTP, user.PhoneOTPExpires, time.Now()) {
		case otpMismatch:
			respondWithError(c, http.StatusBadRequest, route, "Invalid OTP")
			return
		case otpExpired:
			respondWithError(c, http.StatusBadRequest, route, "OTP expired")
			return
		}

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": user.ID, "phoneOTP": req.OTP},
			bson.M{
				"$set":   bson.M{"phoneVerified": true, "updatedAt": time.Now()},
				"$unset": bson.M{"phoneOTP": "", "phoneOTPExpires": ""},
			},
		)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Invalid OTP")
			return
		}

		user.PhoneVerified = true
		token, err := issueSessionToken(user, auth.JWTSecret, auth.TokenTTL)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] phone verified:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"message":  "Phone verified successfully",
			"verified": true,
			"token":    token,
			"user":     sessionUserPayload(user),
		})
	}
}

// SendEmailOTP mirrors the phone flow on the email channel, but
// refuses outright when the address is already verified.
func SendEmailOTP(db *mongo.Database, notifier *notify.Notifier, auth config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/send-email-otp"
		defer handlePanic(c, route)

		var req sendEmailOTPRequest
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
				respondWithError(c, http.StatusNotFound, route, "User not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if user.EmailVerified {
			respondWithError(c, http.StatusBadRequest, route, "Email already verified")
			return
		}

		otp, err := generateOTP()
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		expires := time.Now().Add(auth.OTPTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"emailOTP":        otp,
				"emailOTPExpires": expires,
				"updatedAt":       time.Now(),
			},
		})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		notifier.QueueEmailOTP(user.Email, user.Name, otp)

		log.Println("[AUTH] [INFO] email OTP issued for:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email"})
	}
}

// VerifyEmailOTP consumes the emailed code, marks the address verified
// and logs the account in.
func VerifyEmailOTP(db *mongo.Database, auth config.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/verify-email-otp"
		defer handlePanic(c, route)

		var req verifyEmailOTPRequest
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
				respondWithError(c, http.StatusNotFound, route, "User not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if user.EmailVerified {
			c.JSON(http.StatusOK, gin.H{"message": "Email already verified", "verified": true})
			return
		}

		switch checkOTP(user.EmailOTP, req.OTP, user.EmailOTPExpires, time.Now()) {
		case otpMismatch:
			respondWithError(c, http.StatusBadRequest, route, "Invalid OTP")
			return
		case otpExpired:
			respondWithError(c, http.StatusBadRequest, route, "OTP expired")
			return
		}

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": user.ID, "emailOTP": req.OTP},
			bson.M{
				"$set":   bson.M{"emailVerified": true, "updatedAt": time.Now()},
				"$unset": bson.M{"emailOTP": "", "emailOTPExpires": ""},
			},
		)
		if err != nil {
			respondServerError(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Invalid OTP")
			return
		}

		user.EmailVerified = true
		token, err := issueSessionToken(user, auth.JWTSecret, auth.TokenTTL)
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] email verified via OTP:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"message":  "Email verified successfully",
			"verified": true,
			"token":    token,
			"user":     sessionUserPayload(user),
		})
	}
}

// VerifyEmailLink is the legacy link-click path. The token is consumed
// in the same update that flips the flag, so a second click finds
// nothing. The welcome email is awaited before responding.
func VerifyEmailLink(db *mongo.Database, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/verify-email/:token"
		defer handlePanic(c, route)

		token := strings.TrimSpace(c.Param("token"))
		if token == "" {
			respondWithError(c, http.StatusBadRequest, route, "Invalid or expired verification token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"verificationToken": token},
			bson.M{
				"$set":   bson.M{"emailVerified": true, "updatedAt": time.Now()},
				"$unset": bson.M{"verificationToken": ""},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid or expired verification token")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if err := notifier.SendWelcomeEmail(user.Email, user.Name); err != nil {
			respondServerError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] email verified via link:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully! You can now log in."})
	}
}

type resendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResendVerification rotates the link token; the latest issued token
// is the only one that works.
func ResendVerification(db *mongo.Database, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/resend-verification"
		defer handlePanic(c, route)

		var req resendVerificationRequest
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
				respondWithError(c, http.StatusNotFound, route, "User not found")
				return
			}
			respondServerError(c, route, err)
			return
		}

		if user.EmailVerified {
			respondWithError(c, http.StatusBadRequest, route, "Email already verified")
			return
		}

		verificationToken, err := generateOpaqueToken()
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{"verificationToken": verificationToken, "updatedAt": time.Now()},
		})
		if err != nil {
			respondServerError(c, route, err)
			return
		}

		notifier.QueueVerificationEmail(user.Email, user.Name, verificationToken)

		log.Println("[AUTH] [INFO] verification token rotated for:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "Verification email sent! Please check your inbox."})
	}
}
