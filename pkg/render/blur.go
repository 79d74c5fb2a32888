package render

import (
	"image"
	"sync"

	"github.com/chewxy/math32"
)

// Separable per-channel Gaussian blur. Each color channel carries its own
// radius and sigma, so the red, green and blue planes soften independently
// (the clinical defocus cue wants wavelength-dependent blur). The 2D blur is
// decomposed into a horizontal pass and a vertical pass over an intermediate
// frame; the vertical pass reads the horizontal pass's completed output.

// blurKernels holds the precomputed, normalized half-kernels for the three
// channels. weights[c][i] is the weight of the tap at offset ±i; taps beyond
// a channel's own radius contribute nothing, channels do not share a cutoff.
type blurKernels struct {
	radius    [3]int
	weights   [3][]float32
	maxRadius int // widest of the three radii; taps stop here
}

// newBlurKernels builds the per-channel kernels from already-clamped
// ChannelBlur settings. weights sum to w(0) + 2*sum(w(1..r)) == 1 by
// construction; truncation at MaxBlurRadius is not re-normalized away, the
// normalizer only covers the taps actually used.
func newBlurKernels(blur [3]ChannelBlur) *blurKernels {
	k := &blurKernels{}
	for c, cb := range blur {
		k.radius[c] = cb.Radius
		if cb.Radius == 0 {
			continue
		}
		if cb.Radius > k.maxRadius {
			k.maxRadius = cb.Radius
		}
		w := make([]float32, cb.Radius+1)
		norm := float32(0)
		for i := 0; i <= cb.Radius; i++ {
			t := float32(i) / cb.Sigma
			w[i] = math32.Exp(-0.5 * t * t)
			if i == 0 {
				norm += w[i]
			} else {
				norm += 2 * w[i]
			}
		}
		if norm < minNorm {
			norm = minNorm
		}
		for i := range w {
			w[i] /= norm
		}
		k.weights[c] = w
	}
	return k
}

// identity reports whether all three channels pass through unfiltered.
func (k *blurKernels) identity() bool {
	return k.maxRadius == 0
}

// blurPassH runs the horizontal pass of the separable blur from src into dst.
// The two frames must share dimensions and be distinct allocations.
func blurPassH(src, dst *image.NRGBA, k *blurKernels) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var wg sync.WaitGroup
	for y := 0; y < h; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			for x := 0; x < w; x++ {
				blurPixel(src, dst, k, x, y, 1, 0, w, h)
			}
		}(y)
	}
	wg.Wait()
}

// blurPassV runs the vertical pass; src is expected to be the horizontal
// pass's output.
func blurPassV(src, dst *image.NRGBA, k *blurKernels) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var wg sync.WaitGroup
	for x := 0; x < w; x++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			for y := 0; y < h; y++ {
				blurPixel(src, dst, k, x, y, 0, 1, w, h)
			}
		}(x)
	}
	wg.Wait()
}

// blurPixel accumulates one output pixel along the (dx,dy) unit direction.
// Channels with radius 0 copy their source byte untouched; the alpha channel
// always passes through.
func blurPixel(src, dst *image.NRGBA, k *blurKernels, x, y, dx, dy, w, h int) {
	si := src.PixOffset(x, y)

	var acc [3]float32
	for c := 0; c < 3; c++ {
		if k.radius[c] > 0 {
			acc[c] = float32(src.Pix[si+c]) * k.weights[c][0]
		}
	}
	for i := 1; i <= k.maxRadius; i++ {
		xp := clampInt(x+i*dx, 0, w-1)
		yp := clampInt(y+i*dy, 0, h-1)
		xm := clampInt(x-i*dx, 0, w-1)
		ym := clampInt(y-i*dy, 0, h-1)
		pi := src.PixOffset(xp, yp)
		mi := src.PixOffset(xm, ym)
		for c := 0; c < 3; c++ {
			if i <= k.radius[c] {
				acc[c] += (float32(src.Pix[pi+c]) + float32(src.Pix[mi+c])) * k.weights[c][i]
			}
		}
	}

	di := dst.PixOffset(x, y)
	for c := 0; c < 3; c++ {
		if k.radius[c] == 0 {
			dst.Pix[di+c] = src.Pix[si+c]
		} else {
			dst.Pix[di+c] = storeByte(acc[c])
		}
	}
	dst.Pix[di+3] = src.Pix[si+3]
}
