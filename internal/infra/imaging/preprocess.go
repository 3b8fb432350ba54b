package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

const (
	// InputSize lebar dan tinggi input model
	InputSize = 224
	channels  = 3
)

// Preprocessor decodes JPEG bytes into a [1,224,224,3] float32 tensor.
// It holds no mutable state and is safe for concurrent use.
type Preprocessor struct {
	size int
}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{size: InputSize}
}

// Preprocess: decode -> resize nearest neighbor -> batch dim -> float32.
// Channel values stay in the 0-255 range.
func (p *Preprocessor) Preprocess(data []byte) (domain.Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Tensor{}, fmt.Errorf("%w: decode: %v", domain.ErrPreprocessing, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return domain.Tensor{}, fmt.Errorf("%w: empty image", domain.ErrPreprocessing)
	}
	return nearestTensor(img, p.size), nil
}

// nearestTensor samples exactly one source pixel per output pixel at
// src = floor(dst*in/out), no corner alignment and no half-pixel centres.
// Nothing is blended, so every output value exists in the source.
func nearestTensor(img image.Image, size int) domain.Tensor {
	b := img.Bounds()
	inW, inH := b.Dx(), b.Dy()

	srcX := make([]int, size)
	for x := range srcX {
		srcX[x] = b.Min.X + x*inW/size
	}

	out := make([]float32, size*size*channels)
	i := 0
	for y := 0; y < size; y++ {
		sy := b.Min.Y + y*inH/size
		for x := 0; x < size; x++ {
			r, g, bl, _ := img.At(srcX[x], sy).RGBA()
			out[i] = float32(r >> 8)
			out[i+1] = float32(g >> 8)
			out[i+2] = float32(bl >> 8)
			i += channels
		}
	}

	return domain.Tensor{
		Shape: []int64{1, int64(size), int64(size), channels},
		Data:  out,
	}
}
