package domain

import (
	"strings"
	"unicode/utf8"
)

type ContentKind string

const (
	ContentHashtags ContentKind = "hashtags"
	ContentPosts    ContentKind = "posts"
	ContentArticle  ContentKind = "article"
	ContentScript   ContentKind = "script"
	ContentTopics   ContentKind = "topics"
)

const MaxContentInput = 4000

var contentAliases = map[string]ContentKind{
	"hashtags": ContentHashtags,
	"posts":    ContentPosts,
	"article":  ContentArticle,
	"blog":     ContentArticle,
	"script":   ContentScript,
	"topics":   ContentTopics,
}

func ParseContentKind(s string) (ContentKind, error) {
	kind, ok := contentAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnknownContent
	}
	return kind, nil
}

// InputField - имя поля запроса: темы строятся по поисковому термину, остальное по расшифровке
func (k ContentKind) InputField() string {
	if k == ContentTopics {
		return "searchTerm"
	}
	return "transcriptionText"
}

// MissingInputMessage - текст ошибки 400 для пустого ввода
func (k ContentKind) MissingInputMessage() string {
	if k == ContentTopics {
		return "Search term is required."
	}
	return "Transcription text is required."
}

// ContentRequest - вход генерации: обрезка по рунам до MaxContentInput
type ContentRequest struct {
	Kind ContentKind
	Text string
}

func (r *ContentRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyContent
	}
	return nil
}

func (r *ContentRequest) Sanitize() {
	r.Text = strings.TrimSpace(r.Text)
	if utf8.RuneCountInString(r.Text) > MaxContentInput {
		r.Text = string([]rune(r.Text)[:MaxContentInput])
	}
}

type TextListContent struct {
	Content []string `json:"content"`
}

type TextContent struct {
	Content string `json:"content"`
}

type TopicCategory struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

type TopicsContent struct {
	Categories []TopicCategory `json:"categories"`
	Featured   []string        `json:"featured"`
}
