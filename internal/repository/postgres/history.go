package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

const historySchema = `
    CREATE TABLE IF NOT EXISTS search_history (
        id UUID PRIMARY KEY,
        query TEXT NOT NULL,
        counts JSONB NOT NULL DEFAULT '{}'::jsonb,
        degraded BOOLEAN NOT NULL DEFAULT false,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE INDEX IF NOT EXISTS search_history_created_at_idx ON search_history (created_at DESC);
`

type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// EnsureSchema создает таблицу истории, если ее еще нет
func (r *HistoryRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

func (r *HistoryRepo) Record(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	counts := entry.Counts
	if counts == nil {
		counts = map[string]int{}
	}

	query := `
        INSERT INTO search_history (id, query, counts, degraded)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		entry.ID,
		entry.Query,
		counts,
		entry.Degraded,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}

	return nil
}

func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if err := domain.ValidateHistoryLimit(limit); err != nil {
		return nil, err
	}

	query := `
        SELECT id, query, counts, degraded, created_at
        FROM search_history
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0, limit)
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.Counts, &e.Degraded, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}
