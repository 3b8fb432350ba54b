package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/infra/db/sqlite"
)

func newRepo(t *testing.T) *sqlite.PredictionRepository {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// idempotent
	if err := sqlite.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
	return sqlite.NewPredictionRepository(db)
}

func record(id string, label domain.Label, at time.Time) *domain.PredictionRecord {
	return &domain.PredictionRecord{
		ID:         domain.RecordID(id),
		Result:     label,
		Suggestion: domain.SuggestionFor(label),
		CreatedAt:  at,
	}
}

func sameRecord(a, b *domain.PredictionRecord) bool {
	return a.ID == b.ID && a.Result == b.Result && a.Suggestion == b.Suggestion && a.CreatedAt.Equal(b.CreatedAt)
}

func TestAppendAndListAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("Expected empty non-nil slice, got %v", empty)
	}

	at := time.Date(2024, 5, 1, 10, 30, 0, 123000000, time.UTC)
	want := []*domain.PredictionRecord{
		record("0001", domain.LabelCancer, at),
		record("0002", domain.LabelNonCancer, at.Add(time.Second)),
	}
	for _, r := range want {
		if err := repo.Append(ctx, r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if !sameRecord(got[i], want[i]) {
			t.Errorf("Record %d: expected %+v, got %+v", i, *want[i], *got[i])
		}
	}
}

func TestAppend_DuplicateIDIsRejected(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Millisecond)

	if err := repo.Append(ctx, record("same", domain.LabelCancer, at)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	err := repo.Append(ctx, record("same", domain.LabelNonCancer, at))
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("Expected ErrDuplicateID, got %v", err)
	}

	got, _ := repo.ListAll(ctx)
	if len(got) != 1 || got[0].Result != domain.LabelCancer {
		t.Errorf("Expected original record to survive, got %+v", got)
	}
}

func TestListAll_Idempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Millisecond)
	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Append(ctx, record(id, domain.LabelNonCancer, at)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	first, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	second, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("Expected same length, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !sameRecord(first[i], second[i]) {
			t.Errorf("Record %d differs: %+v vs %+v", i, *first[i], *second[i])
		}
	}
}

func TestPing(t *testing.T) {
	repo := newRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
