package naming

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/photovault/internal/common"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"simple", "Summer", "summer", false},
		{"spaces", "My Trip", "my_trip", false},
		{"punctuation stripped", "My Trip!!", "my_trip", false},
		{"mixed separators collapsed", "a - _  b", "a_b", false},
		{"leading and trailing separators", "  --hello--  ", "hello", false},
		{"digits kept", "Road Trip 2024", "road_trip_2024", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"symbols only", "!!!", "", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, common.ErrorInvalidName) {
					t.Fatalf("expected ErrorInvalidName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sanitize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	a, err := Sanitize("My Trip!!")
	if err != nil {
		t.Fatalf("Sanitize error: %v", err)
	}
	b, err := Sanitize("my trip")
	if err != nil {
		t.Fatalf("Sanitize error: %v", err)
	}
	if a != b {
		t.Fatalf("equivalent names produced different keys: %q vs %q", a, b)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("summer_trip"); got != "Summer Trip" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName("paris"); got != "Paris" {
		t.Fatalf("got %q", got)
	}
}
