package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestRevenuePipelineCountsDeliveredOrdersOnly(t *testing.T) {
	restaurantID := primitive.NewObjectID()

	p := restaurantRevenuePipeline(restaurantID)

	match, ok := p[0][0].Value.(bson.M)
	if !ok {
		t.Fatalf("first stage is not a $match document: %+v", p[0])
	}
	if match["restaurantId"] != restaurantID {
		t.Fatalf("revenue not scoped to the restaurant: %v", match)
	}
	if match["status"] != models.OrderDelivered {
		t.Fatalf("revenue must only count delivered orders, matched %v", match["status"])
	}

	group, ok := p[1][0].Value.(bson.M)
	if !ok || p[1][0].Key != "$group" {
		t.Fatalf("second stage is not a $group: %+v", p[1])
	}
	if _, ok := group["revenue"]; !ok {
		t.Fatalf("group stage missing revenue accumulator: %v", group)
	}
}

func TestTopProductsPipelineUnwindsItemsAndLimits(t *testing.T) {
	restaurantID := primitive.NewObjectID()

	p := restaurantTopProductsPipeline(restaurantID, 5)

	match := p[0][0].Value.(bson.M)
	if match["status"] != models.OrderDelivered {
		t.Fatalf("top products must only count delivered orders, matched %v", match["status"])
	}

	if p[1][0].Key != "$unwind" || p[1][0].Value != "$items" {
		t.Fatalf("expected an $unwind on items, got %+v", p[1])
	}

	last := p[len(p)-1][0]
	if last.Key != "$limit" || last.Value != 5 {
		t.Fatalf("pipeline should cap the ranking at 5, got %+v", last)
	}
}
