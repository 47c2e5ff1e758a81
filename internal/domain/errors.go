package domain

import "errors"

var (
	ErrMissingQuery      = errors.New("search query is required")
	ErrAggregationFailed = errors.New("aggregation failed")
)

var ErrInvalidPlatform = errors.New("platform must be all, google or youtube")

var (
	ErrEmptyContent   = errors.New("content is required")
	ErrUnknownContent = errors.New("unknown content kind")
	ErrLLMFailed      = errors.New("llm request failed")
)

var (
	ErrHistoryDisabled = errors.New("search history is disabled")
	ErrInvalidLimit    = errors.New("limit must be between 1 and 100")
)
