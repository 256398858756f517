package handlers

import "testing"

func TestParsePaginationDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationRejectsBadValues(t *testing.T) {
	for _, tt := range []struct{ page, limit string }{
		{"0", ""},
		{"-1", ""},
		{"abc", ""},
		{"", "0"},
		{"", "101"},
		{"", "x"},
	} {
		if _, _, err := parsePaginationParams(tt.page, tt.limit); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", tt.page, tt.limit)
		}
	}
}
