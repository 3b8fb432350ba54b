package predictions_test

import (
	"errors"
	"testing"

	"github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

func TestDecide_Labels(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		want   predictions.Label
	}{
		{"high score is cancer", []float32{0.91}, predictions.LabelCancer},
		{"low score is non-cancer", []float32{0.32}, predictions.LabelNonCancer},
		{"exactly half is non-cancer", []float32{0.5}, predictions.LabelNonCancer},
		{"just above half is cancer", []float32{0.5001}, predictions.LabelCancer},
		{"max over vector", []float32{0.1, 0.7, 0.2}, predictions.LabelCancer},
		{"all zero", []float32{0, 0}, predictions.LabelNonCancer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, suggestion, err := predictions.Decide(tt.scores)
			if err != nil {
				t.Fatalf("Decide returned error: %v", err)
			}
			if label != tt.want {
				t.Errorf("Expected label %q, got %q", tt.want, label)
			}
			if suggestion != predictions.SuggestionFor(tt.want) {
				t.Errorf("Expected suggestion %q, got %q", predictions.SuggestionFor(tt.want), suggestion)
			}
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	scores := []float32{0.12, 0.64}
	l1, s1, _ := predictions.Decide(scores)
	for i := 0; i < 100; i++ {
		l2, s2, _ := predictions.Decide(scores)
		if l1 != l2 || s1 != s2 {
			t.Fatalf("Decide is not deterministic: (%s,%s) vs (%s,%s)", l1, s1, l2, s2)
		}
	}
	if scores[0] != 0.12 || scores[1] != 0.64 {
		t.Error("Decide mutated its input")
	}
}

func TestDecide_EmptyScores(t *testing.T) {
	_, _, err := predictions.Decide(nil)
	if !errors.Is(err, predictions.ErrInference) {
		t.Errorf("Expected ErrInference, got %v", err)
	}
}

func TestConfidence(t *testing.T) {
	c, err := predictions.Confidence([]float32{0.25, 0.5})
	if err != nil {
		t.Fatalf("Confidence returned error: %v", err)
	}
	if c != 50 {
		t.Errorf("Expected confidence 50, got %f", c)
	}
}

func TestSuggestionFor(t *testing.T) {
	if predictions.SuggestionFor(predictions.LabelCancer) != "Cek ke dokter secepatnya!" {
		t.Error("unexpected cancer suggestion")
	}
	if predictions.SuggestionFor(predictions.LabelNonCancer) != "Belum ada tanda-tanda tapi tetap jaga kesehatan!" {
		t.Error("unexpected non-cancer suggestion")
	}
}

func TestTensorLen(t *testing.T) {
	tensor := predictions.Tensor{Shape: []int64{1, 224, 224, 3}}
	if tensor.Len() != 150528 {
		t.Errorf("Expected 150528, got %d", tensor.Len())
	}
	if (predictions.Tensor{}).Len() != 0 {
		t.Error("Expected empty shape to have length 0")
	}
}
