// Package capture supplies the collaborators the filter core consumes:
// frame sources and gaze sources. The real deployment feeds desktop capture
// and an eye tracker into the same interfaces; this package ships the
// offline stand-ins (still images, synthetic patterns, scripted gaze).
package capture

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/periview/gazefilter/pkg/render"
)

// FrameSource hands the run loop one frame per call. Implementations own
// frame pacing concerns no further than "return the latest frame"; the loop
// does the FPS pacing.
type FrameSource interface {
	Frame() (*image.NRGBA, error)
	Size() (w, h int)
}

// StillSource replays a single decoded image as every frame. It mirrors what
// the prototype does when pointed at a static screenshot instead of the live
// desktop: the filter output still varies with gaze and settings.
type StillSource struct {
	img *image.NRGBA
}

// OpenStill decodes a PNG/JPEG/GIF file into a StillSource.
func OpenStill(path string) (*StillSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return &StillSource{img: render.ToNRGBA(img)}, nil
}

// NewStillSource wraps an already-decoded image.
func NewStillSource(img image.Image) *StillSource {
	return &StillSource{img: render.ToNRGBA(img)}
}

func (s *StillSource) Frame() (*image.NRGBA, error) { return s.img, nil }

func (s *StillSource) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// PatternSource generates a moving synthetic test card: a diagonal color
// ramp with a grid, shifting one column per frame. Useful for demos and
// benchmarks where no capture backend exists.
type PatternSource struct {
	w, h  int
	tick  int
	frame *image.NRGBA
}

func NewPatternSource(w, h int) *PatternSource {
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	return &PatternSource{w: w, h: h, frame: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func (s *PatternSource) Size() (int, int) { return s.w, s.h }

// Frame renders the next pattern frame. The returned frame is reused on the
// following call.
func (s *PatternSource) Frame() (*image.NRGBA, error) {
	shift := s.tick
	s.tick++
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			i := s.frame.PixOffset(x, y)
			sx := (x + shift) % s.w
			s.frame.Pix[i+0] = uint8(sx * 255 / s.w)
			s.frame.Pix[i+1] = uint8(y * 255 / s.h)
			s.frame.Pix[i+2] = uint8((sx + y) * 255 / (s.w + s.h))
			if sx%64 == 0 || y%64 == 0 {
				s.frame.Pix[i+0] = 255
				s.frame.Pix[i+1] = 255
				s.frame.Pix[i+2] = 255
			}
			s.frame.Pix[i+3] = 255
		}
	}
	return s.frame, nil
}

// FitTo rescales a frame to the overlay resolution when the two differ
// (capture at physical pixels, overlay at logical pixels). Same-size frames
// pass through untouched.
func FitTo(src *image.NRGBA, w, h int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
