package domain

import "time"

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryEntry - запись о выполненном поиске. Сами результаты не храним.
type HistoryEntry struct {
	ID        string         `json:"id"`
	Query     string         `json:"query"`
	Counts    map[string]int `json:"counts"`
	Degraded  bool           `json:"degraded"`
	CreatedAt time.Time      `json:"createdAt"`
}

func ValidateHistoryLimit(limit int) error {
	if limit < 1 || limit > MaxHistoryLimit {
		return ErrInvalidLimit
	}
	return nil
}
