package predictions

import "time"

// MaxUploadBytes batas ukuran upload gambar
const MaxUploadBytes = 1000000

// ID tipe untuk PredictionRecord
type RecordID string

// Label enum
type Label string

const (
	LabelCancer    Label = "Cancer"
	LabelNonCancer Label = "Non-cancer"
)

// Aggregate Root: PredictionRecord. Write-once, never mutated after Append.
type PredictionRecord struct {
	ID         RecordID  `json:"id" firestore:"id"`
	Result     Label     `json:"result" firestore:"result"`
	Suggestion string    `json:"suggestion" firestore:"suggestion"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// RawUpload is the uploaded image for the duration of one request.
type RawUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Tensor is a row-major float32 array, NHWC for image input.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Len returns the element count implied by Shape.
func (t Tensor) Len() int {
	if len(t.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range t.Shape {
		n *= int(d)
	}
	return n
}
