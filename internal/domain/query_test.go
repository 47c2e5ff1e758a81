package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr error
	}{
		{"ok", SearchQuery{Text: "golang generics"}, nil},
		{"empty", SearchQuery{Text: ""}, ErrMissingQuery},
		{"whitespace", SearchQuery{Text: "   "}, ErrMissingQuery},
		{"tabs and newlines", SearchQuery{Text: "\t\n"}, ErrMissingQuery},
		{"single char", SearchQuery{Text: "a"}, nil},
		{"max len", SearchQuery{Text: strings.Repeat("a", MaxQueryLength)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SearchQuery.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchQuery_Sanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no trim", "Hello World", "Hello World"},
		{"trim both", "   Hello World   ", "Hello World"},
		{"preserve internal", "  Hello   World  ", "Hello   World"},
		{"empty", "   ", ""},
		{"truncate", strings.Repeat("a", MaxQueryLength+100), strings.Repeat("a", MaxQueryLength)},
		{"truncate runes", strings.Repeat("я", MaxQueryLength+1), strings.Repeat("я", MaxQueryLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := SearchQuery{Text: tt.input}
			q.Sanitize()
			if q.Text != tt.expected {
				t.Errorf("SearchQuery.Sanitize() = %q, want %q", q.Text, tt.expected)
			}
		})
	}
}

func TestSearchQuery_CacheKey(t *testing.T) {
	a := NewSearchQuery("  Go   Generics ")
	b := NewSearchQuery("go generics")
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("CacheKey() = %q and %q, want equal", a.CacheKey(), b.CacheKey())
	}
}
