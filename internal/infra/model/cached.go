package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/zlog"
)

// Session is a loaded model able to run a forward pass.
// Implementations must allow concurrent Run calls.
type Session interface {
	Run(ctx context.Context, input domain.Tensor) ([]float32, error)
	Close() error
}

// Loader builds a Session, typically fetching the artifact first.
type Loader func(ctx context.Context) (Session, error)

type loaded struct {
	session Session
}

// Cached is the process-wide model handle. The first Invoke loads the model;
// later calls reuse it. A failed load is not remembered, the next call tries again.
type Cached struct {
	load    Loader
	mu      sync.Mutex
	current atomic.Pointer[loaded]
	loads   atomic.Int64
}

func NewCached(load Loader) *Cached {
	return &Cached{load: load}
}

// Invoke implements predictions.Model.
func (c *Cached) Invoke(ctx context.Context, input domain.Tensor) ([]float32, error) {
	s, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	if input.Len() != len(input.Data) {
		return nil, fmt.Errorf("%w: tensor shape %v does not match %d values", domain.ErrInference, input.Shape, len(input.Data))
	}

	scores, err := s.Run(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrInference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInference, err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: model returned no scores", domain.ErrInference)
	}
	return scores, nil
}

// Warm loads the model ahead of the first request.
func (c *Cached) Warm(ctx context.Context) error {
	_, err := c.session(ctx)
	return err
}

// Ready reports whether a model is loaded.
func (c *Cached) Ready() bool {
	return c.current.Load() != nil
}

// Loads returns how many successful loads happened.
func (c *Cached) Loads() int64 {
	return c.loads.Load()
}

// Check implements middleware.HealthChecker.
func (c *Cached) Check(ctx context.Context) error {
	if !c.Ready() {
		return errors.New("model not loaded")
	}
	return nil
}

func (c *Cached) session(ctx context.Context) (Session, error) {
	if l := c.current.Load(); l != nil {
		return l.session, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// cek lagi setelah dapat lock
	if l := c.current.Load(); l != nil {
		return l.session, nil
	}

	s, err := c.load(ctx)
	if err != nil {
		zlog.Error("model load failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: loader returned no session", domain.ErrModelUnavailable)
	}
	c.current.Store(&loaded{session: s})
	c.loads.Add(1)
	zlog.Info("model loaded")
	return s, nil
}

// Close releases the loaded session, if any.
func (c *Cached) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.current.Swap(nil)
	if l == nil {
		return nil
	}
	return l.session.Close()
}
