package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func getContext(t *testing.T, path string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", path, nil)
	c.Params = params
	return c, rec
}

func TestGetRestaurantReviewsReturnsEmptyList(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	c, rec := getContext(t, "/api/public/restaurants/"+id+"/reviews",
		gin.Params{{Key: "id", Value: id}})

	handler := GetRestaurantReviews(nil)
	handler(c)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected an empty JSON array, got %s", rec.Body.String())
	}
}

func TestGetRestaurantReviewsRejectsBadID(t *testing.T) {
	c, rec := getContext(t, "/api/public/restaurants/nope/reviews",
		gin.Params{{Key: "id", Value: "nope"}})

	handler := GetRestaurantReviews(nil)
	handler(c)

	if rec.Code != 400 {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}
