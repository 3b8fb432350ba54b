package onnx

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

type Options struct {
	SharedLibraryPath string
	InputName         string
	OutputName        string
	OutputShape       []int64
}

var envMu sync.Mutex

// Session wraps a DynamicAdvancedSession. Every Run allocates its own tensors,
// so concurrent runs do not share buffers.
type Session struct {
	session     *ort.DynamicAdvancedSession
	outputShape ort.Shape
}

// New initializes the ONNX environment (once per process) and builds a session
// from the in-memory model bytes.
func New(artifact []byte, opts Options) (*Session, error) {
	if len(opts.OutputShape) == 0 {
		return nil, fmt.Errorf("output shape is required")
	}

	envMu.Lock()
	if !ort.IsInitialized() {
		if opts.SharedLibraryPath != "" {
			ort.SetSharedLibraryPath(opts.SharedLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			envMu.Unlock()
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}
	envMu.Unlock()

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(artifact,
		[]string{opts.InputName}, []string{opts.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session:     session,
		outputShape: ort.NewShape(opts.OutputShape...),
	}, nil
}

func (s *Session) Run(_ context.Context, input domain.Tensor) ([]float32, error) {
	inputTensor, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](s.outputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	if err := s.session.Run(
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInference, err)
	}

	data := outputTensor.GetData()
	scores := make([]float32, len(data))
	copy(scores, data)
	return scores, nil
}

func (s *Session) Close() error {
	if s.session != nil {
		if err := s.session.Destroy(); err != nil {
			return err
		}
	}
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}
