package postgres

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

type PredictionRepository struct{ db *sql.DB }

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Append insert-only, tanpa upsert
func (r *PredictionRepository) Append(ctx context.Context, p *domain.PredictionRecord) error {
	const q = `
INSERT INTO predictions (id, result, suggestion, created_at)
VALUES ($1,$2,$3,$4);`
	_, err := r.db.ExecContext(ctx, q, string(p.ID), string(p.Result), p.Suggestion, p.CreatedAt.UTC())
	if isDuplicate(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
	}
	return err
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]*domain.PredictionRecord, error) {
	const q = `
SELECT id, result, suggestion, created_at
FROM predictions
ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.PredictionRecord{}
	for rows.Next() {
		var p domain.PredictionRecord
		if err := rows.Scan(&p.ID, &p.Result, &p.Suggestion, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PredictionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
