package search

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFoldPrefix(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPattern string
		wantNil     bool
	}{
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"plain name", "Acme", "^acme", false},
		{"diacritics folded", "Ángel", "^angel", false},
		{"regex metacharacters escaped", "a.b*", "^a\\.b\\*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FoldPrefix("name_ci", tt.query)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("FoldPrefix(%q) = %v, want nil", tt.query, got)
				}
				return
			}
			re, ok := got["name_ci"].(primitive.Regex)
			if !ok {
				t.Fatalf("FoldPrefix(%q) = %v, want regex filter", tt.query, got)
			}
			if re.Pattern != tt.wantPattern {
				t.Errorf("pattern = %q, want %q", re.Pattern, tt.wantPattern)
			}
		})
	}
}

func TestIsEmailQuery(t *testing.T) {
	if IsEmailQuery("john doe") {
		t.Error("plain name treated as email")
	}
	if !IsEmailQuery("john@") {
		t.Error("partial email not detected")
	}
}

func TestEmailPrefix(t *testing.T) {
	got := EmailPrefix(" John@Example.com ")
	re, ok := got["email"].(primitive.Regex)
	if !ok {
		t.Fatalf("EmailPrefix = %v", got)
	}
	if re.Pattern != "^john@example\\.com" {
		t.Errorf("pattern = %q", re.Pattern)
	}
}
