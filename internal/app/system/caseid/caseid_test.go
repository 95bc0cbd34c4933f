package caseid_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clinichub/internal/app/system/caseid"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "CASE-001"},
		{42, "CASE-042"},
		{999, "CASE-999"},
		{1000, "CASE-1000"}, // grows past three digits, no truncation
	}
	for _, tt := range tests {
		if got := caseid.Format(tt.n); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFallbackAt(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	id := caseid.FallbackAt(at, 12345)

	if !strings.HasPrefix(id, caseid.Prefix) {
		t.Errorf("fallback id %q missing prefix", id)
	}
	if id != strings.ToUpper(id) {
		t.Errorf("fallback id %q is not uppercased", id)
	}
	if !caseid.IsFallback(id) {
		t.Errorf("IsFallback(%q) = false", id)
	}

	// Same instant, different randomness must differ.
	if other := caseid.FallbackAt(at, 54321); other == id {
		t.Errorf("distinct random suffixes produced the same id %q", id)
	}
}

func TestFallback_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		id := caseid.Fallback()
		if seen[id] {
			t.Fatalf("duplicate fallback id %q", id)
		}
		seen[id] = true
	}
}

func TestIsFallback(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"CASE-001", false},
		{"CASE-1000", false},
		{"CASE-LX3K9A-2F", true},
		{"EVT-001", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := caseid.IsFallback(tt.id); got != tt.want {
			t.Errorf("IsFallback(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
