package models

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

type cuisineDoc struct {
	Cuisine StringList `bson:"cuisine"`
}

func decodeCuisine(t *testing.T, value interface{}) StringList {
	t.Helper()

	raw, err := bson.Marshal(bson.M{"cuisine": value})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc cuisineDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc.Cuisine
}

func TestStringListDecodesLegacyStringValue(t *testing.T) {
	got := decodeCuisine(t, " Newari ")
	if !reflect.DeepEqual(got, StringList{"Newari"}) {
		t.Fatalf("expected trimmed single-element list, got %#v", got)
	}
}

func TestStringListDecodesArrayValue(t *testing.T) {
	got := decodeCuisine(t, []string{"Thakali", "Momo"})
	if !reflect.DeepEqual(got, StringList{"Thakali", "Momo"}) {
		t.Fatalf("array value mangled: %#v", got)
	}
}

func TestStringListBlankValuesDecodeToNil(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
	}{
		{"empty string", ""},
		{"whitespace string", "   "},
		{"empty array", []string{}},
		{"null", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodeCuisine(t, tc.value); got != nil {
				t.Fatalf("expected nil for %s, got %#v", tc.name, got)
			}
		})
	}
}
