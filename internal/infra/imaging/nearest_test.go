package imaging

import (
	"image"
	"testing"
)

// stripes fills columns with alternating 0/200 and rows with a gradient in
// the green channel, so any blending shows up as a value not in the source.
func stripes(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := img.PixOffset(x, y)
			if x%2 == 1 {
				img.Pix[o] = 200
			}
			img.Pix[o+1] = uint8(y % 256)
			img.Pix[o+2] = uint8(x % 256)
			img.Pix[o+3] = 255
		}
	}
	return img
}

func TestNearestTensor_SamplesFloorMappedSourcePixel(t *testing.T) {
	sizes := []struct {
		name string
		w, h int
	}{
		{"downscale 2x", 448, 448},
		{"downscale uneven", 500, 333},
		{"upscale", 100, 150},
		{"same size", 224, 224},
	}

	for _, sz := range sizes {
		t.Run(sz.name, func(t *testing.T) {
			src := stripes(sz.w, sz.h)
			tensor := nearestTensor(src, InputSize)

			if len(tensor.Data) != InputSize*InputSize*channels {
				t.Fatalf("Expected %d values, got %d", InputSize*InputSize*channels, len(tensor.Data))
			}
			for y := 0; y < InputSize; y++ {
				sy := y * sz.h / InputSize
				for x := 0; x < InputSize; x++ {
					sx := x * sz.w / InputSize
					o := src.PixOffset(sx, sy)
					i := (y*InputSize + x) * channels
					for c := 0; c < channels; c++ {
						if got, want := tensor.Data[i+c], float32(src.Pix[o+c]); got != want {
							t.Fatalf("(%d,%d) channel %d: expected %v from source (%d,%d), got %v", x, y, c, want, sx, sy, got)
						}
					}
				}
			}
		})
	}
}

func TestNearestTensor_NoBlendedValues(t *testing.T) {
	tensor := nearestTensor(stripes(448, 448), InputSize)

	// x*448/224 is always even, so every sampled red value is 0; an
	// averaging filter would give 100 here
	for i := 0; i < len(tensor.Data); i += channels {
		if v := tensor.Data[i]; v != 0 {
			t.Fatalf("Expected red 0 from an even source column at %d, got %v", i/channels, v)
		}
	}
}

func TestNearestTensor_OffsetBounds(t *testing.T) {
	src := stripes(300, 300)
	sub := src.SubImage(image.Rect(50, 40, 250, 240)).(*image.RGBA)
	tensor := nearestTensor(sub, InputSize)

	o := src.PixOffset(50, 40)
	for c := 0; c < channels; c++ {
		if got, want := tensor.Data[c], float32(src.Pix[o+c]); got != want {
			t.Errorf("Channel %d: expected %v from bounds origin, got %v", c, want, got)
		}
	}
}
