package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

// created_at disimpan sebagai teks RFC3339 supaya round-trip presisi
const timeLayout = time.RFC3339Nano

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Append(ctx context.Context, p *domain.PredictionRecord) error {
	const q = `INSERT INTO predictions (id, result, suggestion, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		string(p.ID), string(p.Result), p.Suggestion, p.CreatedAt.UTC().Format(timeLayout))
	if isDuplicate(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
	}
	return err
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]*domain.PredictionRecord, error) {
	const q = `SELECT id, result, suggestion, created_at FROM predictions ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.PredictionRecord{}
	for rows.Next() {
		var p domain.PredictionRecord
		var createdStr string
		if err := rows.Scan(&p.ID, &p.Result, &p.Suggestion, &createdStr); err != nil {
			return nil, err
		}
		created, err := time.Parse(timeLayout, createdStr)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", p.ID, err)
		}
		p.CreatedAt = created.UTC()
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PredictionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isDuplicate(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
