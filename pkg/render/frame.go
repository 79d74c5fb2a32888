package render

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// The pipeline works on *image.NRGBA frames: non-premultiplied 8-bit RGBA in
// row-major order. Input and output are always distinct allocations, so a
// multi-tap read never observes its own writes. Per-pixel arithmetic happens
// in float32 on the 0..255 scale and is rounded back on store.

// ToNRGBA converts any image.Image into a fresh *image.NRGBA copy.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := src.At(x, y).RGBA()
			out.Pix[idx+0] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b_ >> 8)
			out.Pix[idx+3] = uint8(a >> 8)
			idx += 4
		}
	}
	return out
}

// CloneNRGBA returns a copy of the provided frame.
func CloneNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// samplePixelClamped returns the pixel at integer coords with edge-clamped
// addressing: taps beyond the frame boundary read the nearest edge pixel.
func samplePixelClamped(img *image.NRGBA, x, y int) color.NRGBA {
	b := img.Bounds()
	x = clampInt(x, b.Min.X, b.Max.X-1)
	y = clampInt(y, b.Min.Y, b.Max.Y-1)
	i := img.PixOffset(x, y)
	return color.NRGBA{img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// sampleBilinear samples the RGB channels at floating coordinates with
// bilinear interpolation and edge-clamped addressing. Values are on the
// 0..255 scale.
func sampleBilinear(src *image.NRGBA, x, y float32) (r, g, b float32) {
	x0 := int(math32.Floor(x))
	y0 := int(math32.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	c00 := samplePixelClamped(src, x0, y0)
	c10 := samplePixelClamped(src, x1, y0)
	c01 := samplePixelClamped(src, x0, y1)
	c11 := samplePixelClamped(src, x1, y1)

	xf := x - float32(x0)
	yf := y - float32(y0)

	r0 := float32(c00.R)*(1-xf) + float32(c10.R)*xf
	r1 := float32(c01.R)*(1-xf) + float32(c11.R)*xf
	g0 := float32(c00.G)*(1-xf) + float32(c10.G)*xf
	g1 := float32(c01.G)*(1-xf) + float32(c11.G)*xf
	b0 := float32(c00.B)*(1-xf) + float32(c10.B)*xf
	b1 := float32(c01.B)*(1-xf) + float32(c11.B)*xf

	r = r0*(1-yf) + r1*yf
	g = g0*(1-yf) + g1*yf
	b = b0*(1-yf) + b1*yf
	return
}

// storeByte rounds a 0..255 float32 back to a byte with clamping.
func storeByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
