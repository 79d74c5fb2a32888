package capture

import "github.com/chewxy/math32"

// GazeSource reports the current gaze position in frame pixel coordinates.
// The run loop snapshots it once per frame; a position never changes within
// a frame. Tracker dropouts are the source's problem: it must keep returning
// the last-known (or a default) position rather than blocking.
type GazeSource interface {
	Gaze() (x, y float32)
}

// StaticGaze pins the gaze to one point, the no-eyetracking fallback.
type StaticGaze struct {
	X, Y float32
}

func (g StaticGaze) Gaze() (float32, float32) { return g.X, g.Y }

// SweepGaze traces an ellipse around the frame center, one step per call.
// It stands in for a tracker during demos so the foveal window visibly
// travels across the frame.
type SweepGaze struct {
	CenterX, CenterY float32
	RadiusX, RadiusY float32
	StepsPerOrbit    int

	step int
}

// NewSweepGaze builds a sweep sized to a w x h frame: centered, orbiting at
// a third of each dimension, one orbit per `steps` frames.
func NewSweepGaze(w, h, steps int) *SweepGaze {
	if steps <= 0 {
		steps = 240
	}
	return &SweepGaze{
		CenterX:       float32(w) / 2,
		CenterY:       float32(h) / 2,
		RadiusX:       float32(w) / 3,
		RadiusY:       float32(h) / 3,
		StepsPerOrbit: steps,
	}
}

func (g *SweepGaze) Gaze() (float32, float32) {
	t := 2 * math32.Pi * float32(g.step) / float32(g.StepsPerOrbit)
	g.step = (g.step + 1) % g.StepsPerOrbit
	return g.CenterX + g.RadiusX*math32.Cos(t), g.CenterY + g.RadiusY*math32.Sin(t)
}
