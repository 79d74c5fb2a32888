package render

import (
	"image"
	"testing"

	"github.com/chewxy/math32"
)

// horizontal ramp: red rises left to right, blue falls, green constant.
func makeRampNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			v := uint8(x * 255 / (w - 1))
			img.Pix[i+0] = v
			img.Pix[i+1] = 128
			img.Pix[i+2] = 255 - v
			img.Pix[i+3] = 255
		}
	}
	return img
}

func TestChromaAtGazePointNoOffset(t *testing.T) {
	src := makeRampNRGBA(32, 32)
	p := Params{Width: 32, Height: 32, GazeX: 16, GazeY: 16, ChromaOffsetPx: 8}

	r, g, b := chromaSample(src, 16, 16, p.clamped())
	i := src.PixOffset(16, 16)
	if r != float32(src.Pix[i+0]) || g != float32(src.Pix[i+1]) || b != float32(src.Pix[i+2]) {
		t.Errorf("at gaze point all channels must read in place: got (%v,%v,%v), pixel %v",
			r, g, b, src.Pix[i:i+3])
	}
}

func TestChromaOffsetDirection(t *testing.T) {
	src := makeRampNRGBA(64, 64)
	p := Params{Width: 64, Height: 64, GazeX: 0, GazeY: 32, ChromaOffsetPx: 4}
	cp := p.clamped()

	// Pixel straight right of the gaze: direction is +x, so red samples
	// further right (larger ramp value) and blue samples left of the pixel
	// (the blue ramp falls with x, so the shifted read is larger too).
	x, y := 32, 32
	r, g, b := chromaSample(src, x, y, cp)

	wantR, _, _ := sampleBilinear(src, float32(x)+4, float32(y))
	_, wantG, _ := sampleBilinear(src, float32(x), float32(y))
	_, _, wantB := sampleBilinear(src, float32(x)-4, float32(y))

	if math32.Abs(r-wantR) > 1e-4 || math32.Abs(g-wantG) > 1e-4 || math32.Abs(b-wantB) > 1e-4 {
		t.Errorf("got (%v,%v,%v), want (%v,%v,%v)", r, g, b, wantR, wantG, wantB)
	}
	ri := src.PixOffset(x, y)
	if r <= float32(src.Pix[ri+0]) {
		t.Errorf("red should read ahead along the ramp: %v vs %d", r, src.Pix[ri+0])
	}
}

func TestChromaZeroMagnitude(t *testing.T) {
	src := makeRampNRGBA(16, 16)
	p := Params{Width: 16, Height: 16, GazeX: 0, GazeY: 0, ChromaOffsetPx: 0}
	cp := p.clamped()
	for _, x := range []int{1, 7, 15} {
		r, g, b := chromaSample(src, x, 9, cp)
		i := src.PixOffset(x, 9)
		if r != float32(src.Pix[i+0]) || g != float32(src.Pix[i+1]) || b != float32(src.Pix[i+2]) {
			t.Fatalf("zero offset must be identity at (%d,9)", x)
		}
	}
}

func TestChromaEdgeClamped(t *testing.T) {
	src := makeRampNRGBA(16, 16)
	p := Params{Width: 16, Height: 16, GazeX: 8, GazeY: 8, ChromaOffsetPx: 100}
	cp := p.clamped()
	// Offsets reach far past the frame; sampling must clamp, not fault, and
	// values stay in range.
	for _, pt := range [][2]int{{0, 0}, {15, 0}, {0, 15}, {15, 15}, {8, 0}} {
		r, g, b := chromaSample(src, pt[0], pt[1], cp)
		for _, v := range []float32{r, g, b} {
			if v < 0 || v > 255 || math32.IsNaN(v) {
				t.Fatalf("out-of-range sample %v at %v", v, pt)
			}
		}
	}
}
