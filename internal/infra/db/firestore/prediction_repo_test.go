package firestore_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/infra/db/firestore"
)

// Runs against the Firestore emulator only.
func TestPredictionRepository_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.Connect(ctx, "cancer-predict-test", "")
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	repo := firestore.NewPredictionRepository(client, "predictions-"+uuid.NewString())
	defer repo.Close()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	rec := &domain.PredictionRecord{
		ID:         domain.RecordID(uuid.NewString()),
		Result:     domain.LabelCancer,
		Suggestion: domain.SuggestionCancer,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := repo.Append(ctx, rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := repo.Append(ctx, rec); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("Expected ErrDuplicateID, got %v", err)
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != rec.ID || !got[0].CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Expected stored record %+v, got %+v", rec, got)
	}
}
