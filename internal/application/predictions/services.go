package predictions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/cancer-predict/internal/application"
	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/zlog"
)

const defaultStepTimeout = 30 * time.Second

// Service implements the prediction use-cases.
// Service is safe for concurrent use; each Predict call is an independent pipeline.
type Service struct {
	Preprocessor domain.Preprocessor
	Model        domain.Model
	Ledger       domain.Ledger
	Uploads      domain.UploadStore // optional
	Clock        application.Clock
	StepTimeout  time.Duration
}

//
// ==== USE CASES ====
//

// Predict runs validate -> stage -> preprocess -> infer -> decide -> persist.
// Any failure stops the pipeline; nothing is persisted and nothing is retried.
func (s *Service) Predict(ctx context.Context, upload *domain.RawUpload) (*domain.PredictionRecord, error) {
	if upload == nil {
		return nil, domain.ErrMissingUpload
	}
	if len(upload.Data) > domain.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrOversizeUpload, len(upload.Data))
	}

	if s.Uploads != nil {
		key, err := s.stage(ctx, upload)
		if err != nil {
			return nil, s.fail("stage", err)
		}
		defer s.discard(key)
	}

	tensor, err := s.Preprocessor.Preprocess(upload.Data)
	if err != nil {
		if !errors.Is(err, domain.ErrPreprocessing) {
			err = fmt.Errorf("%w: %w", domain.ErrPreprocessing, err)
		}
		return nil, s.fail("preprocess", err)
	}

	scores, err := s.invoke(ctx, tensor)
	if err != nil {
		return nil, s.fail("infer", err)
	}

	label, suggestion, err := domain.Decide(scores)
	if err != nil {
		return nil, s.fail("decide", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, s.fail("persist", fmt.Errorf("%w: generate id: %w", domain.ErrLedgerUnavailable, err))
	}
	rec := &domain.PredictionRecord{
		ID:         domain.RecordID(id.String()),
		Result:     label,
		Suggestion: suggestion,
		CreatedAt:  s.now(),
	}

	sctx, cancel := s.stepContext(ctx)
	err = s.Ledger.Append(sctx, rec)
	cancel()
	if err != nil {
		return nil, s.fail("persist", fmt.Errorf("%w: %w", domain.ErrLedgerUnavailable, err))
	}

	confidence, _ := domain.Confidence(scores)
	zlog.Info("prediction stored",
		zap.String("id", string(rec.ID)),
		zap.String("result", string(rec.Result)),
		zap.Float64("confidence", confidence),
	)
	return rec, nil
}

// Histories returns every stored prediction
func (s *Service) Histories(ctx context.Context) ([]*domain.PredictionRecord, error) {
	sctx, cancel := s.stepContext(ctx)
	defer cancel()
	list, err := s.Ledger.ListAll(sctx)
	if err != nil {
		return nil, s.fail("histories", fmt.Errorf("%w: %w", domain.ErrLedgerUnavailable, err))
	}
	if list == nil {
		list = []*domain.PredictionRecord{}
	}
	return list, nil
}

// helper

func (s *Service) invoke(ctx context.Context, t domain.Tensor) ([]float32, error) {
	sctx, cancel := s.stepContext(ctx)
	defer cancel()
	scores, err := s.Model.Invoke(sctx, t)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) || errors.Is(err, domain.ErrInference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInference, err)
	}
	return scores, nil
}

func (s *Service) stage(ctx context.Context, upload *domain.RawUpload) (string, error) {
	key := stagingKey(upload.Filename)
	sctx, cancel := s.stepContext(ctx)
	defer cancel()
	err := s.Uploads.Put(sctx, key, bytes.NewReader(upload.Data), int64(len(upload.Data)), upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUploadStaging, err)
	}
	return key, nil
}

// discard removes the staged upload even when the request context is already done.
func (s *Service) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	if err := s.Uploads.Remove(ctx, key); err != nil {
		zlog.Warn("failed to remove staged upload", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) fail(step string, err error) error {
	zlog.Error("prediction pipeline failed", zap.String("step", step), zap.Error(err))
	return err
}

func (s *Service) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout())
}

func (s *Service) timeout() time.Duration {
	if s.StepTimeout <= 0 {
		return defaultStepTimeout
	}
	return s.StepTimeout
}

func (s *Service) now() time.Time {
	var c application.Clock = application.SystemClock{}
	if s.Clock != nil {
		c = s.Clock
	}
	return c.Now().UTC().Truncate(time.Millisecond)
}

func stagingKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return fmt.Sprintf("uploads/%s-%s", uuid.NewString(), name)
}
