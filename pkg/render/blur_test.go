package render

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func defaultBlur() [3]ChannelBlur {
	// Reference settings: red untouched, green softened a little, blue a lot.
	return [3]ChannelBlur{{Radius: 0, Sigma: 0.001}, {Radius: 2, Sigma: 1.0}, {Radius: 6, Sigma: 3.0}}
}

func makeNoiseNRGBA(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

func TestKernelWeightsSumToOne(t *testing.T) {
	cases := []ChannelBlur{
		{Radius: 1, Sigma: 0.5},
		{Radius: 2, Sigma: 1.0},
		{Radius: 6, Sigma: 3.0},
		{Radius: 10, Sigma: 100.0}, // heavy truncation, still normalized over used taps
		{Radius: 10, Sigma: 0.001}, // degenerate sigma, normalizer floored
	}
	for _, cb := range cases {
		k := newBlurKernels([3]ChannelBlur{cb, cb, cb})
		w := k.weights[0]
		if len(w) != cb.Radius+1 {
			t.Fatalf("radius %d sigma %v: got %d weights", cb.Radius, cb.Sigma, len(w))
		}
		sum := w[0]
		for i := 1; i <= cb.Radius; i++ {
			sum += 2 * w[i]
		}
		if math32.Abs(sum-1) > 1e-5 {
			t.Errorf("radius %d sigma %v: weights sum to %v, want 1", cb.Radius, cb.Sigma, sum)
		}
	}
}

func TestKernelRadiiIndependent(t *testing.T) {
	k := newBlurKernels(defaultBlur())
	if k.radius[0] != 0 || k.weights[0] != nil {
		t.Errorf("red channel should be untouched, got radius %d", k.radius[0])
	}
	if k.radius[1] != 2 || len(k.weights[1]) != 3 {
		t.Errorf("green channel: radius %d, %d weights", k.radius[1], len(k.weights[1]))
	}
	if k.radius[2] != 6 || len(k.weights[2]) != 7 {
		t.Errorf("blue channel: radius %d, %d weights", k.radius[2], len(k.weights[2]))
	}
	if k.maxRadius != 6 {
		t.Errorf("maxRadius = %d, want 6", k.maxRadius)
	}
}

func TestBlurZeroRadiusChannelIsExact(t *testing.T) {
	src := makeNoiseNRGBA(24, 16, 1)
	dst := image.NewNRGBA(src.Rect)
	tmp := image.NewNRGBA(src.Rect)

	k := newBlurKernels(defaultBlur())
	blurPassH(src, tmp, k)
	blurPassV(tmp, dst, k)

	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			i := src.PixOffset(x, y)
			if dst.Pix[i+0] != src.Pix[i+0] {
				t.Fatalf("red channel changed at (%d,%d): %d -> %d", x, y, src.Pix[i+0], dst.Pix[i+0])
			}
			if dst.Pix[i+3] != src.Pix[i+3] {
				t.Fatalf("alpha changed at (%d,%d)", x, y)
			}
		}
	}
}

func TestBlurAllZeroRadiiIsIdentity(t *testing.T) {
	src := makeNoiseNRGBA(17, 13, 2)
	dst := image.NewNRGBA(src.Rect)
	k := newBlurKernels([3]ChannelBlur{{0, 1}, {0, 1}, {0, 1}})
	if !k.identity() {
		t.Fatal("all-zero radii should report identity")
	}
	blurPassH(src, dst, k)
	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("identity blur changed byte %d", i)
		}
	}
}

func TestBlurUniformImageUnchanged(t *testing.T) {
	// A blur whose weights sum to 1 cannot move a flat color.
	src := makeSolidNRGBA(20, 20, color.NRGBA{R: 90, G: 140, B: 200, A: 255})
	tmp := image.NewNRGBA(src.Rect)
	dst := image.NewNRGBA(src.Rect)

	k := newBlurKernels([3]ChannelBlur{{4, 2.0}, {4, 2.0}, {4, 2.0}})
	blurPassH(src, tmp, k)
	blurPassV(tmp, dst, k)

	for i := 0; i < len(src.Pix); i++ {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("uniform image changed at byte %d: %d -> %d", i, src.Pix[i], dst.Pix[i])
		}
	}
}

func TestBlurHorizontalKnownKernel(t *testing.T) {
	// 5x1 image, single bright green pixel in the middle, radius 1 sigma 1.
	// w(0) = 1, w(1) = exp(-0.5); norm = 1 + 2*exp(-0.5).
	src := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	for x := 0; x < 5; x++ {
		i := src.PixOffset(x, 0)
		src.Pix[i+3] = 255
	}
	src.Pix[src.PixOffset(2, 0)+1] = 255

	dst := image.NewNRGBA(src.Rect)
	k := newBlurKernels([3]ChannelBlur{{0, 1}, {1, 1}, {0, 1}})
	blurPassH(src, dst, k)

	e := math32.Exp(-0.5)
	norm := 1 + 2*e
	wantCenter := storeByte(255 * (1 / norm))
	wantSide := storeByte(255 * (e / norm))

	if got := dst.Pix[dst.PixOffset(2, 0)+1]; got != wantCenter {
		t.Errorf("center green = %d, want %d", got, wantCenter)
	}
	for _, x := range []int{1, 3} {
		if got := dst.Pix[dst.PixOffset(x, 0)+1]; got != wantSide {
			t.Errorf("side green at x=%d = %d, want %d", x, got, wantSide)
		}
	}
	for _, x := range []int{0, 4} {
		if got := dst.Pix[dst.PixOffset(x, 0)+1]; got != 0 {
			t.Errorf("green leaked to x=%d: %d", x, got)
		}
	}
}

func TestBlurEdgeClamped(t *testing.T) {
	// Taps past the boundary must read the edge pixel, so a flat row stays
	// flat even at the corners.
	src := makeSolidNRGBA(6, 6, color.NRGBA{R: 10, G: 250, B: 77, A: 255})
	dst := image.NewNRGBA(src.Rect)
	k := newBlurKernels([3]ChannelBlur{{5, 2.5}, {5, 2.5}, {5, 2.5}})
	blurPassH(src, dst, k)
	for _, x := range []int{0, 5} {
		i := dst.PixOffset(x, 0)
		if dst.Pix[i+0] != 10 || dst.Pix[i+1] != 250 || dst.Pix[i+2] != 77 {
			t.Fatalf("edge pixel drifted at x=%d: %v", x, dst.Pix[i:i+3])
		}
	}
}
