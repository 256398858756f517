package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, role string, isAdmin bool, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId":  primitive.NewObjectID().Hex(),
		"role":    role,
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func guardedRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthGuardRejectsMissingToken(t *testing.T) {
	r := guardedRouter(AuthGuard(testSecret))
	if rec := doGet(r, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthGuardRejectsMalformedHeader(t *testing.T) {
	r := guardedRouter(AuthGuard(testSecret))
	if rec := doGet(r, "Token abc"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header, got %d", rec.Code)
	}
}

func TestAuthGuardRejectsExpiredToken(t *testing.T) {
	r := guardedRouter(AuthGuard(testSecret))
	token := signTestToken(t, models.RoleCustomer, false, -time.Minute)
	if rec := doGet(r, "Bearer "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthGuardAcceptsValidToken(t *testing.T) {
	r := guardedRouter(AuthGuard(testSecret))
	token := signTestToken(t, models.RoleCustomer, false, time.Hour)
	if rec := doGet(r, "Bearer "+token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthGuardEnforcesRole(t *testing.T) {
	r := guardedRouter(AuthGuard(testSecret, models.RoleRestaurant))

	customer := signTestToken(t, models.RoleCustomer, false, time.Hour)
	if rec := doGet(r, "Bearer "+customer); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on restaurant route, got %d", rec.Code)
	}

	restaurant := signTestToken(t, models.RoleRestaurant, false, time.Hour)
	if rec := doGet(r, "Bearer "+restaurant); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for restaurant, got %d", rec.Code)
	}
}

func TestAdminFlagPassesRoleCheck(t *testing.T) {
	r := guardedRouter(AuthGuard(testSecret, models.RoleRestaurant))
	admin := signTestToken(t, models.RoleCustomer, true, time.Hour)
	if rec := doGet(r, "Bearer "+admin); rec.Code != http.StatusOK {
		t.Fatalf("expected isAdmin account to pass role check, got %d", rec.Code)
	}
}

func TestAdminAuthRejectsNonAdmin(t *testing.T) {
	r := guardedRouter(AdminAuth(testSecret))
	customer := signTestToken(t, models.RoleCustomer, false, time.Hour)
	if rec := doGet(r, "Bearer "+customer); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}
