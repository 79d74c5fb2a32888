package cli

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/periview/gazefilter/pkg/capture"
	"github.com/periview/gazefilter/pkg/hud"
	"github.com/periview/gazefilter/pkg/render"
	"github.com/periview/gazefilter/pkg/settings"
)

// LoopOptions wires one render-loop run together. Settings are re-read from
// the store once per frame, so edits to settings.txt land between frames.
type LoopOptions struct {
	Source capture.FrameSource
	Gaze   capture.GazeSource // nil means the settings-file gaze
	Store  *settings.Store

	// Frames caps the run; 0 runs until Sink returns an error.
	Frames int

	// Sink receives each output frame. The frame is reused by the pipeline,
	// so a sink that keeps it must copy. nil discards frames (benchmarking).
	Sink func(*image.NRGBA) error

	// Quiet suppresses the once-per-second FPS telemetry.
	Quiet bool
}

// RunLoop is the capture -> filter -> deliver loop of the overlay, with
// frame pacing to the configured target FPS. A frame whose parameters fail
// validation is delivered unfiltered; the loop never shows a corrupt frame
// and never stops for a bad config.
func RunLoop(opts LoopOptions) error {
	if opts.Source == nil {
		return fmt.Errorf("run loop needs a frame source")
	}
	pipe := render.NewPipeline()
	var overlay *hud.Overlay

	frames := 0
	fpsCount := 0
	lastFPS := time.Now()

	for {
		t0 := time.Now()
		st := opts.Store.Current()

		frame, err := opts.Source.Frame()
		if err != nil {
			return fmt.Errorf("capture frame: %w", err)
		}
		if st.OverlaySize[0] > 0 && st.OverlaySize[1] > 0 {
			frame = capture.FitTo(frame, st.OverlaySize[0], st.OverlaySize[1])
		}
		b := frame.Bounds()

		params := st.Params(b.Dx(), b.Dy())
		if opts.Gaze != nil {
			params.GazeX, params.GazeY = opts.Gaze.Gaze()
		}

		out, perr := pipe.Process(frame, params)
		switch {
		case perr == nil:
			if st.DebugHUD {
				if overlay == nil {
					overlay = hud.New(st.HUDFont, 13)
				}
				status := fmt.Sprintf("%s gaze (%.0f,%.0f) strength %.2f",
					params.Mask, params.GazeX, params.GazeY, params.FilterStrength)
				overlay.Draw(out, params.GazeX, params.GazeY, status)
			}
		case errors.Is(perr, render.ErrInvalidConfig):
			// Pass the frame through unfiltered rather than propagating a
			// corrupt blend across the whole display.
			fmt.Fprintf(os.Stderr, "frame %d: %v, showing unfiltered frame\n", frames, perr)
			out = frame
		default:
			return perr
		}

		if opts.Sink != nil {
			if err := opts.Sink(out); err != nil {
				return err
			}
		}

		frames++
		if opts.Frames > 0 && frames >= opts.Frames {
			return nil
		}

		fpsCount++
		if now := time.Now(); now.Sub(lastFPS) >= time.Second {
			if !opts.Quiet {
				fmt.Printf("FPS: %d\n", fpsCount)
			}
			fpsCount = 0
			lastFPS = now
		}

		// Pace to target_fps; rendering faster than the display refreshes
		// only burns cycles.
		fps := st.TargetFPS
		if fps < 1 {
			fps = 1
		}
		if dt := time.Since(t0); dt < time.Second/time.Duration(fps) {
			time.Sleep(time.Second/time.Duration(fps) - dt)
		}
	}
}
