package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/config"
	"backend/internal/models"
)

func testAuthConfig() config.Auth {
	return config.Auth{
		JWTSecret: "test-secret",
		OTPTTL:    10 * time.Minute,
		ResetTTL:  time.Hour,
		TokenTTL:  24 * time.Hour,
	}
}

func postJSONContext(t *testing.T, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	return c, rec
}

func TestSignupRejectsMissingFields(t *testing.T) {
	c, rec := postJSONContext(t, "/api/auth/signup", `{"email":"a@x.com"}`)

	handler := Signup(nil)
	handler(c)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	details, ok := body["details"].([]interface{})
	if !ok || len(details) == 0 {
		t.Fatalf("expected per-field details, got %v", body)
	}
}

func TestSignupRequiresRestaurantDetailsForRestaurantRole(t *testing.T) {
	c, rec := postJSONContext(t, "/api/auth/signup", `{
		"name": "Momo House",
		"email": "momo@x.com",
		"password": "secret1",
		"phoneNumber": "+9771234567",
		"role": "restaurant"
	}`)

	handler := Signup(nil)
	handler(c)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "restaurantDetails") {
		t.Fatalf("expected message naming restaurantDetails, got %s", rec.Body.String())
	}
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	c, rec := postJSONContext(t, "/api/auth/signup", `{
		"name": "Eve",
		"email": "eve@x.com",
		"password": "secret1",
		"phoneNumber": "+9770000000",
		"role": "driver"
	}`)

	handler := Signup(nil)
	handler(c)

	if rec.Code != 400 {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}

func TestRestaurantCatalogDocMirrorsAccountDetails(t *testing.T) {
	ownerID := primitive.NewObjectID()
	now := time.Now()
	details := &models.RestaurantDetails{
		RestaurantName: "Thakali Kitchen",
		Description:    "dal bhat set",
		Cuisine:        models.StringList{"Thakali"},
		Address:        "Patan",
		IsApproved:     true,
	}

	doc := restaurantCatalogDoc(ownerID, "9800000001", details, now)

	if doc.OwnerID != ownerID {
		t.Fatalf("ownerId not carried over: %v", doc.OwnerID)
	}
	if doc.RestaurantName != "Thakali Kitchen" || doc.Address != "Patan" {
		t.Fatalf("listing fields not mirrored: %+v", doc)
	}
	if doc.Phone != "9800000001" {
		t.Fatalf("phone not carried over: %q", doc.Phone)
	}
	if !doc.IsActive {
		t.Fatal("new listing should start active")
	}
	if doc.IsApproved {
		t.Fatal("new listing must start unapproved regardless of the embedded flag")
	}
	if !doc.CreatedAt.Equal(now) || !doc.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not set from registration time: %+v", doc)
	}
}

func TestVerifyPhoneOTPRejectsMissingCode(t *testing.T) {
	c, rec := postJSONContext(t, "/api/auth/verify-phone-otp", `{"phoneNumber":"+9771234567"}`)

	handler := VerifyPhoneOTP(nil, testAuthConfig())
	handler(c)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
