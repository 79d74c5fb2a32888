// Package hud draws the debug overlay onto output frames: a crosshair at
// the gaze point and a one-line status readout. It is only active when
// debug_hud is set; the clinical overlay ships without it.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	crosshairColor = color.NRGBA{R: 0, G: 255, B: 80, A: 255}
	textColor      = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
)

// Overlay mutates frame in place, so call it on the pipeline output, never
// on the input frame.
type Overlay struct {
	face font.Face
}

// New builds an overlay. fontPath may be empty to use the built-in bitmap
// font; a TTF/OTF that fails to load also falls back to it.
func New(fontPath string, size float64) *Overlay {
	return &Overlay{face: loadFace(fontPath, size)}
}

func loadFace(fontPath string, size float64) font.Face {
	if fontPath == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hud: cannot read font %s: %v, using built-in\n", fontPath, err)
		return basicfont.Face7x13
	}
	tt, err := opentype.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hud: cannot parse font: %v, using built-in\n", err)
		return basicfont.Face7x13
	}
	if size <= 0 {
		size = 13
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hud: cannot build font face: %v, using built-in\n", err)
		return basicfont.Face7x13
	}
	return face
}

// Draw paints the gaze crosshair and the status line onto frame.
func (o *Overlay) Draw(frame *image.NRGBA, gazeX, gazeY float32, status string) {
	drawCrosshair(frame, int(gazeX+0.5), int(gazeY+0.5))
	if status != "" {
		d := &font.Drawer{
			Dst:  frame,
			Src:  image.NewUniform(textColor),
			Face: o.face,
			Dot:  fixed.Point26_6{X: fixed.I(8), Y: fixed.I(16)},
		}
		d.DrawString(status)
	}
}

func drawCrosshair(frame *image.NRGBA, cx, cy int) {
	const arm = 12
	b := frame.Bounds()
	for d := -arm; d <= arm; d++ {
		setIfInside(frame, b, cx+d, cy)
		setIfInside(frame, b, cx, cy+d)
	}
}

func setIfInside(frame *image.NRGBA, b image.Rectangle, x, y int) {
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	i := frame.PixOffset(x, y)
	frame.Pix[i+0] = crosshairColor.R
	frame.Pix[i+1] = crosshairColor.G
	frame.Pix[i+2] = crosshairColor.B
	frame.Pix[i+3] = crosshairColor.A
}
