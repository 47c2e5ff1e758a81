package domain

import (
	"strings"
	"unicode/utf8"
)

const MaxQueryLength = 500

type SearchQuery struct {
	Text string
}

func NewSearchQuery(text string) SearchQuery {
	q := SearchQuery{Text: text}
	q.Sanitize()
	return q
}

func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrMissingQuery
	}
	return nil
}

// Sanitize обрезает пробелы и слишком длинные запросы (по рунам, не по байтам)
func (q *SearchQuery) Sanitize() {
	q.Text = strings.TrimSpace(q.Text)
	if utf8.RuneCountInString(q.Text) > MaxQueryLength {
		q.Text = string([]rune(q.Text)[:MaxQueryLength])
	}
}

// CacheKey - нормализованная форма запроса для кеша
func (q SearchQuery) CacheKey() string {
	return strings.Join(strings.Fields(strings.ToLower(q.Text)), " ")
}
