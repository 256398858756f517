package handlers

import (
	"testing"
	"time"

	"backend/internal/models"
)

func TestCouponDiscountPercent(t *testing.T) {
	coupon := models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercent,
		DiscountValue: 10,
		IsActive:      true,
	}

	got, err := couponDiscount(coupon, 500, time.Now())
	if err != nil {
		t.Fatalf("couponDiscount returned error: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected discount 50, got %v", got)
	}
}

func TestCouponDiscountFlatCappedAtSubtotal(t *testing.T) {
	coupon := models.Coupon{
		Code:          "FLAT200",
		DiscountType:  models.DiscountFlat,
		DiscountValue: 200,
		IsActive:      true,
	}

	got, err := couponDiscount(coupon, 150, time.Now())
	if err != nil {
		t.Fatalf("couponDiscount returned error: %v", err)
	}
	if got != 150 {
		t.Fatalf("expected discount capped at subtotal 150, got %v", got)
	}
}

func TestCouponDiscountRejectsInactive(t *testing.T) {
	coupon := models.Coupon{
		Code:          "OLD",
		DiscountType:  models.DiscountFlat,
		DiscountValue: 50,
		IsActive:      false,
	}

	if _, err := couponDiscount(coupon, 500, time.Now()); err == nil {
		t.Fatal("expected error for inactive coupon")
	}
}

func TestCouponDiscountRejectsExpired(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	coupon := models.Coupon{
		Code:          "BYGONE",
		DiscountType:  models.DiscountPercent,
		DiscountValue: 20,
		IsActive:      true,
		ExpiresAt:     &expired,
	}

	if _, err := couponDiscount(coupon, 500, time.Now()); err == nil {
		t.Fatal("expected error for expired coupon")
	}
}

func TestCouponDiscountEnforcesMinimumOrder(t *testing.T) {
	coupon := models.Coupon{
		Code:           "BIGSPENDER",
		DiscountType:   models.DiscountPercent,
		DiscountValue:  15,
		MinOrderAmount: 1000,
		IsActive:       true,
	}

	if _, err := couponDiscount(coupon, 999, time.Now()); err == nil {
		t.Fatal("expected error below minimum order amount")
	}

	got, err := couponDiscount(coupon, 1000, time.Now())
	if err != nil {
		t.Fatalf("couponDiscount returned error at exact minimum: %v", err)
	}
	if got != 150 {
		t.Fatalf("expected discount 150, got %v", got)
	}
}
