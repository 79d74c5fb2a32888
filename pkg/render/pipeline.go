package render

import (
	"fmt"
	"image"
	"sync"

	"github.com/chewxy/math32"
)

// Pipeline runs the two-stage gaze-contingent filter over whole frames:
// a separable per-channel Gaussian blur feeding a gaze-distance-masked
// chromatic channel-offset filter, blended against the original frame.
//
// A Pipeline owns its intermediate and output buffers and reuses them from
// frame to frame, reallocating only when the resolution changes. The frame
// returned by Process is therefore overwritten by the next Process call;
// callers that need to keep it must copy it. A Pipeline is not safe for
// concurrent Process calls, one frame runs at a time.
type Pipeline struct {
	w, h    int
	horiz   *image.NRGBA // output of the horizontal blur pass
	blurred *image.NRGBA // output of the vertical blur pass
	out     *image.NRGBA
}

// NewPipeline returns an empty pipeline; buffers are allocated on first use.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) ensureBuffers(w, h int) {
	if p.w == w && p.h == h && p.out != nil {
		return
	}
	r := image.Rect(0, 0, w, h)
	p.horiz = image.NewNRGBA(r)
	p.blurred = image.NewNRGBA(r)
	p.out = image.NewNRGBA(r)
	p.w, p.h = w, h
}

// Process filters one frame. src must match the resolution named in params;
// params is snapshotted for the duration of the frame. On ErrInvalidConfig
// the input frame is untouched and no output is produced; the caller decides
// whether to show the previous frame or the unfiltered input.
func (p *Pipeline) Process(src *image.NRGBA, params Params) (*image.NRGBA, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil source frame", ErrInvalidConfig)
	}
	b := src.Bounds()
	if b.Dx() != params.Width || b.Dy() != params.Height {
		return nil, fmt.Errorf("%w: frame is %dx%d, params say %dx%d",
			ErrInvalidConfig, b.Dx(), b.Dy(), params.Width, params.Height)
	}

	cp := params.clamped()
	p.ensureBuffers(cp.Width, cp.Height)

	// Stage 1: separable blur with a hard barrier between the passes; a
	// vertical tap may read a horizontally-blurred pixel produced by another
	// goroutine. With all radii zero the stage is the identity and the
	// chromatic filter samples the source directly.
	kernels := newBlurKernels(cp.Blur)
	blurSrc := src
	if !kernels.identity() {
		blurPassH(src, p.horiz, kernels)
		blurPassV(p.horiz, p.blurred, kernels)
		blurSrc = p.blurred
	}

	// Stage 2: per-pixel mask + chromatic recombination + blend. Every pixel
	// is independent; rows are dispatched to their own goroutines and each
	// writes a disjoint slice of the output.
	var wg sync.WaitGroup
	for y := 0; y < cp.Height; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			p.filterRow(src, blurSrc, y, cp)
		}(y)
	}
	wg.Wait()

	return p.out, nil
}

func (p *Pipeline) filterRow(src, blurSrc *image.NRGBA, y int, cp Params) {
	fy := float32(y)
	for x := 0; x < cp.Width; x++ {
		si := src.PixOffset(x, y)
		oi := p.out.PixOffset(x, y)

		d := math32.Hypot(float32(x)-cp.GazeX, fy-cp.GazeY)
		w := clamp01(maskWeight(d, cp) * cp.FilterStrength)
		if w <= 0 {
			// Foveal pixel: bytes pass through exactly.
			copy(p.out.Pix[oi:oi+4], src.Pix[si:si+4])
			continue
		}

		fr, fg, fb := chromaSample(blurSrc, x, y, cp)
		if w >= 1 {
			// Fully peripheral pixel: the filtered color lands as-is.
			p.out.Pix[oi+0] = storeByte(fr)
			p.out.Pix[oi+1] = storeByte(fg)
			p.out.Pix[oi+2] = storeByte(fb)
			p.out.Pix[oi+3] = src.Pix[si+3]
			continue
		}
		or := float32(src.Pix[si+0])
		og := float32(src.Pix[si+1])
		ob := float32(src.Pix[si+2])

		p.out.Pix[oi+0] = storeByte(or + (fr-or)*w)
		p.out.Pix[oi+1] = storeByte(og + (fg-og)*w)
		p.out.Pix[oi+2] = storeByte(ob + (fb-ob)*w)
		p.out.Pix[oi+3] = src.Pix[si+3]
	}
}
