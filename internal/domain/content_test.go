package domain

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseContentKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ContentKind
		wantErr error
	}{
		{"hashtags", ContentHashtags, nil},
		{"Posts", ContentPosts, nil},
		{"blog", ContentArticle, nil},
		{"article", ContentArticle, nil},
		{" script ", ContentScript, nil},
		{"topics", ContentTopics, nil},
		{"poem", "", ErrUnknownContent},
	}

	for _, tt := range tests {
		got, err := ParseContentKind(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseContentKind(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseContentKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentKind_Input(t *testing.T) {
	if ContentTopics.InputField() != "searchTerm" || ContentTopics.MissingInputMessage() != "Search term is required." {
		t.Error("topics should read searchTerm")
	}
	if ContentScript.InputField() != "transcriptionText" || ContentScript.MissingInputMessage() != "Transcription text is required." {
		t.Error("script should read transcriptionText")
	}
}

func TestContentRequest(t *testing.T) {
	r := ContentRequest{Kind: ContentPosts, Text: "   "}
	if err := r.Validate(); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Validate() error = %v, want ErrEmptyContent", err)
	}

	r.Text = "  " + strings.Repeat("я", MaxContentInput+10) + "  "
	r.Sanitize()
	if n := utf8.RuneCountInString(r.Text); n != MaxContentInput {
		t.Errorf("Sanitize() left %d runes, want %d", n, MaxContentInput)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
