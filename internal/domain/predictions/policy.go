package predictions

import "fmt"

// ConfidenceThreshold in percent; the comparison is strictly greater-than.
const ConfidenceThreshold = 50.0

const (
	SuggestionCancer    = "Cek ke dokter secepatnya!"
	SuggestionNonCancer = "Belum ada tanda-tanda tapi tetap jaga kesehatan!"
)

// Confidence returns max(scores) scaled to 0-100.
func Confidence(scores []float32) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: empty score vector", ErrInference)
	}
	top := scores[0]
	for _, s := range scores[1:] {
		if s > top {
			top = s
		}
	}
	return float64(top) * 100, nil
}

// Decide maps a score vector to a label and its fixed suggestion.
func Decide(scores []float32) (Label, string, error) {
	confidence, err := Confidence(scores)
	if err != nil {
		return "", "", err
	}
	label := LabelNonCancer
	if confidence > ConfidenceThreshold {
		label = LabelCancer
	}
	return label, SuggestionFor(label), nil
}

// SuggestionFor returns the suggestion text bound to a label.
func SuggestionFor(l Label) string {
	if l == LabelCancer {
		return SuggestionCancer
	}
	return SuggestionNonCancer
}
