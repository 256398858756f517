package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestCheckOTPExpiryBoundary(t *testing.T) {
	expires := time.Now()

	justBefore := expires.Add(-time.Millisecond)
	if got := checkOTP("123456", "123456", &expires, justBefore); got != otpOK {
		t.Fatalf("expected code to be valid 1ms before expiry, got status %d", got)
	}

	justAfter := expires.Add(time.Millisecond)
	if got := checkOTP("123456", "123456", &expires, justAfter); got != otpExpired {
		t.Fatalf("expected code to be expired 1ms after expiry, got status %d", got)
	}
}

func TestCheckOTPFailsClosed(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	now := time.Now()

	if got := checkOTP("123456", "654321", &expires, now); got != otpMismatch {
		t.Fatalf("expected mismatch for wrong code, got %d", got)
	}
	if got := checkOTP("", "123456", &expires, now); got != otpMismatch {
		t.Fatalf("expected mismatch for consumed (absent) code, got %d", got)
	}
	if got := checkOTP("123456", "", &expires, now); got != otpMismatch {
		t.Fatalf("expected mismatch for empty submission, got %d", got)
	}
	if got := checkOTP("123456", "123456", nil, now); got != otpExpired {
		t.Fatalf("expected expired for missing expiry, got %d", got)
	}
}

func TestGenerateOTPShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP returned error: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6-digit code, got %q", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", otp)
			}
		}
	}
}

func TestGenerateOpaqueTokenIsUnique(t *testing.T) {
	a, err := generateOpaqueToken()
	if err != nil {
		t.Fatalf("generateOpaqueToken returned error: %v", err)
	}
	b, err := generateOpaqueToken()
	if err != nil {
		t.Fatalf("generateOpaqueToken returned error: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatal("expected two generated tokens to differ")
	}
}

func TestPhoneVariants(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"+9771234567", []string{"+9771234567", "9771234567"}},
		{"9771234567", []string{"9771234567", "+9771234567"}},
		{"  +9771234567 ", []string{"+9771234567", "9771234567"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := phoneVariants(tt.input)
		if len(got) != len(tt.want) {
			t.Fatalf("phoneVariants(%q) = %v, want %v", tt.input, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("phoneVariants(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	}
}

func TestIsApprovedForProjection(t *testing.T) {
	customer := models.User{Role: models.RoleCustomer}
	if !isApprovedFor(customer) {
		t.Fatal("expected non-restaurant roles to always be approved")
	}

	admin := models.User{Role: models.RoleAdmin}
	if !isApprovedFor(admin) {
		t.Fatal("expected admin role to always be approved")
	}

	pending := models.User{Role: models.RoleRestaurant}
	if isApprovedFor(pending) {
		t.Fatal("expected restaurant without details to default to unapproved")
	}

	unapproved := models.User{
		Role:              models.RoleRestaurant,
		RestaurantDetails: &models.RestaurantDetails{IsApproved: false},
	}
	if isApprovedFor(unapproved) {
		t.Fatal("expected unapproved restaurant to project false")
	}

	approved := models.User{
		Role:              models.RoleRestaurant,
		RestaurantDetails: &models.RestaurantDetails{IsApproved: true},
	}
	if !isApprovedFor(approved) {
		t.Fatal("expected approved restaurant to project true")
	}
}

func TestIssueSessionTokenClaims(t *testing.T) {
	user := models.User{
		ID:      primitive.NewObjectID(),
		Role:    models.RoleRestaurant,
		IsAdmin: true,
	}

	signed, err := issueSessionToken(user, "test-secret", 24*time.Hour)
	if err != nil {
		t.Fatalf("issueSessionToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected valid token, err=%v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected MapClaims")
	}
	if claims["userId"] != user.ID.Hex() {
		t.Fatalf("expected userId claim %s, got %v", user.ID.Hex(), claims["userId"])
	}
	if claims["role"] != models.RoleRestaurant {
		t.Fatalf("expected role claim restaurant, got %v", claims["role"])
	}
	if claims["isAdmin"] != true {
		t.Fatalf("expected isAdmin claim true, got %v", claims["isAdmin"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("expected numeric exp claim")
	}
	expectedExp := time.Now().Add(24 * time.Hour).Unix()
	if int64(exp) < expectedExp-5 || int64(exp) > expectedExp+5 {
		t.Fatalf("expected exp around %d, got %d", expectedExp, int64(exp))
	}
}
