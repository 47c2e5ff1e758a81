package search

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized      = errors.New("invalid API key")
	ErrRateLimit         = errors.New("rate limit exceeded")
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrSearchFailed      = errors.New("search request failed")
	ErrMalformedPayload  = errors.New("malformed response payload")
	ErrSourceUnavailable = errors.New("source not configured")
)

// Source - адаптер одной внешней платформы. T - нормализованная форма
// результата конкретного источника ([]domain.VideoResult, domain.InstagramResult и т.д.)
type Source[T any] interface {
	Name() string
	Search(ctx context.Context, query string) (T, error)
}

// Validator реализуют сырые ответы апи: Fetcher вызывает Validate после декодирования
type Validator interface {
	Validate() error
}
