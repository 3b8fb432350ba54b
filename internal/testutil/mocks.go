package testutil

import (
	"context"
	"io"
	"sync"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

// MockPreprocessor is a mock implementation of predictions.Preprocessor
type MockPreprocessor struct {
	PreprocessFunc func(data []byte) (domain.Tensor, error)
	mu             sync.Mutex
	CallCount      int
}

func (m *MockPreprocessor) Preprocess(data []byte) (domain.Tensor, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()
	if m.PreprocessFunc != nil {
		return m.PreprocessFunc(data)
	}
	return domain.Tensor{Shape: []int64{1, 1}, Data: []float32{0}}, nil
}

// MockModel is a mock implementation of predictions.Model
type MockModel struct {
	InvokeFunc func(ctx context.Context, input domain.Tensor) ([]float32, error)
	mu         sync.Mutex
	CallCount  int
}

func (m *MockModel) Invoke(ctx context.Context, input domain.Tensor) ([]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, input)
	}
	return []float32{0.1}, nil
}

// MockLedger is an in-memory predictions.Ledger. Errors injected through the
// XxxErr fields take precedence over the stored data.
type MockLedger struct {
	AppendErr error
	ListErr   error
	PingErr   error

	mu          sync.Mutex
	Records     []*domain.PredictionRecord
	AppendCount int
}

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) Append(ctx context.Context, r *domain.PredictionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCount++
	if m.AppendErr != nil {
		return m.AppendErr
	}
	for _, existing := range m.Records {
		if existing.ID == r.ID {
			return domain.ErrDuplicateID
		}
	}
	cp := *r
	m.Records = append(m.Records, &cp)
	return nil
}

func (m *MockLedger) ListAll(ctx context.Context) ([]*domain.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*domain.PredictionRecord, 0, len(m.Records))
	for _, r := range m.Records {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockLedger) Ping(ctx context.Context) error {
	return m.PingErr
}

// MockUploadStore is an in-memory predictions.UploadStore
type MockUploadStore struct {
	PutErr error

	mu      sync.Mutex
	Objects map[string][]byte
	Puts    []string
	Removes []string
}

func NewMockUploadStore() *MockUploadStore {
	return &MockUploadStore{Objects: make(map[string][]byte)}
}

func (m *MockUploadStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Puts = append(m.Puts, key)
	return nil
}

func (m *MockUploadStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Removes = append(m.Removes, key)
	return nil
}

// Staged returns how many uploads are still stored.
func (m *MockUploadStore) Staged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// ScoreModel returns a MockModel that always yields the given scores.
func ScoreModel(scores ...float32) *MockModel {
	return &MockModel{
		InvokeFunc: func(ctx context.Context, input domain.Tensor) ([]float32, error) {
			out := make([]float32, len(scores))
			copy(out, scores)
			return out, nil
		},
	}
}
