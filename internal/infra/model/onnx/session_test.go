package onnx_test

import (
	"context"
	"errors"
	"os"
	"testing"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/infra/model/onnx"
)

func TestNew_RequiresOutputShape(t *testing.T) {
	if _, err := onnx.New([]byte("model"), onnx.Options{InputName: "input", OutputName: "output"}); err == nil {
		t.Error("Expected error without output shape")
	}
}

func TestNew_RejectsInvalidModel(t *testing.T) {
	lib := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")
	if lib == "" {
		t.Skip("ONNXRUNTIME_SHARED_LIBRARY_PATH not set")
	}
	_, err := onnx.New([]byte("not an onnx model"), onnx.Options{
		SharedLibraryPath: lib,
		InputName:         "input",
		OutputName:        "output",
		OutputShape:       []int64{1, 1},
	})
	if err == nil {
		t.Error("Expected error for invalid model bytes")
	}
}

// Needs the runtime library and a [1,224,224,3] -> [1,1] model, e.g.
// ONNX_TEST_MODEL=./models/model.onnx.
func TestSession_RunAndClose(t *testing.T) {
	lib := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")
	modelPath := os.Getenv("ONNX_TEST_MODEL")
	if lib == "" || modelPath == "" {
		t.Skip("ONNXRUNTIME_SHARED_LIBRARY_PATH or ONNX_TEST_MODEL not set")
	}
	artifact, err := os.ReadFile(modelPath)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	opts := onnx.Options{
		SharedLibraryPath: lib,
		InputName:         envOr("ONNX_TEST_INPUT", "input"),
		OutputName:        envOr("ONNX_TEST_OUTPUT", "output"),
		OutputShape:       []int64{1, 1},
	}

	s, err := onnx.New(artifact, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	input := domain.Tensor{Shape: []int64{1, 224, 224, 3}, Data: make([]float32, 224*224*3)}
	for i := range input.Data {
		input.Data[i] = float32(i % 256)
	}
	first, err := s.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 score, got %v", first)
	}
	second, err := s.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if first[0] != second[0] {
		t.Errorf("Expected identical scores, got %v and %v", first, second)
	}

	bad := domain.Tensor{Shape: []int64{1, 2}, Data: []float32{1, 2}}
	if _, err := s.Run(context.Background(), bad); !errors.Is(err, domain.ErrInference) {
		t.Errorf("Expected ErrInference for wrong input shape, got %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
