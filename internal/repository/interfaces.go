package repository

import (
	"context"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

// HistoryRepository - журнал выполненных поисков (только метаданные, без результатов)
type HistoryRepository interface {
	Record(ctx context.Context, entry *domain.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
