package predictions

import (
	"context"
	"io"
)

// Preprocessor port (decode gambar -> tensor)
type Preprocessor interface {
	Preprocess(data []byte) (Tensor, error)
}

// Model port (forward pass -> flattened score vector)
type Model interface {
	Invoke(ctx context.Context, input Tensor) ([]float32, error)
}

// Ledger port (interface untuk persistence). Append never overwrites an existing id.
type Ledger interface {
	Append(ctx context.Context, r *PredictionRecord) error
	ListAll(ctx context.Context) ([]*PredictionRecord, error)
	Ping(ctx context.Context) error
}

// UploadStore port (penyimpanan sementara upload mentah)
type UploadStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}
