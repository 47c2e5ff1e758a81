package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

type MockHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry

	// Err возвращается из всех методов, если задан
	Err error
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Record(ctx context.Context, entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	saved := *entry
	saved.Counts = make(map[string]int, len(entry.Counts))
	for k, v := range entry.Counts {
		saved.Counts[k] = v
	}
	m.entries = append(m.entries, saved)
	return nil
}

func (m *MockHistoryRepository) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if err := domain.ValidateHistoryLimit(limit); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]domain.HistoryEntry, 0, min(limit, len(m.entries)))
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.entries[i])
	}
	return result, nil
}

func (m *MockHistoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
