package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

const DefaultCollection = "predictions"

// PredictionRepository stores one document per prediction, keyed by record id.
type PredictionRepository struct {
	client     *firestore.Client
	collection string
}

func NewPredictionRepository(client *firestore.Client, collection string) *PredictionRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &PredictionRepository{client: client, collection: collection}
}

// Append uses Create, which fails when the document already exists.
func (r *PredictionRepository) Append(ctx context.Context, p *domain.PredictionRecord) error {
	doc := r.client.Collection(r.collection).Doc(string(p.ID))
	_, err := doc.Create(ctx, p)
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
	}
	return err
}

// ListAll returns documents in Firestore's native order.
func (r *PredictionRepository) ListAll(ctx context.Context) ([]*domain.PredictionRecord, error) {
	docs, err := r.client.Collection(r.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PredictionRecord, 0, len(docs))
	for _, d := range docs {
		var p domain.PredictionRecord
		if err := d.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", d.Ref.ID, err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, &p)
	}
	return out, nil
}

func (r *PredictionRepository) Ping(ctx context.Context) error {
	_, err := r.client.Collection(r.collection).Limit(1).Documents(ctx).GetAll()
	return err
}

// Close releases the underlying client.
func (r *PredictionRepository) Close() error {
	return r.client.Close()
}
