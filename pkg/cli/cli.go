package cli

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/periview/gazefilter/pkg/capture"
	"github.com/periview/gazefilter/pkg/hud"
	"github.com/periview/gazefilter/pkg/render"
	"github.com/periview/gazefilter/pkg/settings"
)

// SettingsPath is the configuration file the tool reads and watches.
const SettingsPath = "settings.txt"

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  o  - open an image to filter")
	fmt.Println("  r  - run the gaze filter on the current image")
	fmt.Println("  g  - set the gaze position (x,y in pixels)")
	fmt.Println("  s  - save the last filtered frame")
	fmt.Println("  l  - run the demo loop on a synthetic pattern")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// RunCLI is the interactive front end: open a frame, filter it with the
// current settings, preview/save, tweak the gaze, or run the demo loop.
// An image path may be passed as the first program argument.
func RunCLI() {
	store, err := settings.Watch(SettingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var cur *image.NRGBA
	var lastOut *image.NRGBA
	var gaze capture.GazeSource
	pipe := render.NewPipeline()

	if len(os.Args) >= 2 {
		img, format, err := LoadImage(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		cur = render.ToNRGBA(img)
		b := cur.Bounds()
		fmt.Printf("Loaded %s (%s, %dx%d)\n", os.Args[1], format, b.Dx(), b.Dy())
	}

	fmt.Printf("Gaze-contingent peripheral filter %s\n", Version)
	usage()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		r, _, err := reader.ReadRune()
		if err != nil {
			fmt.Fprintf(os.Stderr, "read input error: %v\n", err)
			return
		}
		// swallow the rest of the line
		if r != '\n' {
			_, _ = reader.ReadString('\n')
		}

		switch r {
		case 'o':
			path, _ := PromptLine("Image path: ")
			if path == "" {
				continue
			}
			img, format, err := LoadImage(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				continue
			}
			cur = render.ToNRGBA(img)
			b := cur.Bounds()
			fmt.Printf("Loaded %s (%s, %dx%d)\n", path, format, b.Dx(), b.Dy())

		case 'r':
			if cur == nil {
				fmt.Println("No image loaded. Press 'o' first, or pass a path as the first argument.")
				continue
			}
			out, err := runOnce(pipe, cur, gaze, store.Current())
			if err != nil {
				fmt.Fprintf(os.Stderr, "filter failed: %v\n", err)
				continue
			}
			lastOut = out
			if shown, perr := PreviewFrame(out); perr != nil {
				fmt.Fprintf(os.Stderr, "preview failed: %v\n", perr)
			} else if !shown {
				fmt.Println("Filtered. Terminal preview unavailable; press 's' to save.")
			}

		case 'g':
			val, _ := PromptLine("Gaze position x,y (empty for settings default): ")
			if val == "" {
				gaze = nil
				fmt.Println("Gaze follows settings file again.")
				continue
			}
			x, y, err := parseGaze(val)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				continue
			}
			gaze = capture.StaticGaze{X: x, Y: y}
			fmt.Printf("Gaze pinned to (%g,%g)\n", x, y)

		case 's':
			if lastOut == nil {
				fmt.Println("Nothing filtered yet; press 'r' first.")
				continue
			}
			path, _ := PromptLine("Save to: ")
			if path == "" {
				continue
			}
			if err := SaveImage(path, lastOut); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				continue
			}
			fmt.Printf("Saved %s\n", path)

		case 'l':
			val, _ := PromptLine("Frames to run (default 300): ")
			frames := 300
			if val != "" {
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					frames = n
				}
			}
			st := store.Current()
			src := capture.NewPatternSource(st.OverlaySize[0], st.OverlaySize[1])
			w, h := src.Size()
			err := RunLoop(LoopOptions{
				Source: src,
				Gaze:   capture.NewSweepGaze(w, h, 240),
				Store:  store,
				Frames: frames,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "demo loop: %v\n", err)
			}

		case 'u':
			if err := CheckForUpdates(); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}

		case 'h':
			usage()

		case 'q':
			return

		case '\n', '\r':
			// ignore empty input

		default:
			fmt.Printf("Unknown command %q\n", string(r))
			usage()
		}
	}
}

// runOnce filters a single frame with the current settings, copying the
// pipeline's reusable output so the caller may keep it.
func runOnce(pipe *render.Pipeline, frame *image.NRGBA, gaze capture.GazeSource, st settings.Settings) (*image.NRGBA, error) {
	b := frame.Bounds()
	params := st.Params(b.Dx(), b.Dy())
	if gaze != nil {
		params.GazeX, params.GazeY = gaze.Gaze()
	}
	out, err := pipe.Process(frame, params)
	if err != nil {
		if errors.Is(err, render.ErrInvalidConfig) {
			return nil, fmt.Errorf("configuration rejected: %w", err)
		}
		return nil, err
	}
	kept := render.CloneNRGBA(out)
	if st.DebugHUD {
		hud.New(st.HUDFont, 13).Draw(kept, params.GazeX, params.GazeY,
			fmt.Sprintf("%s gaze (%.0f,%.0f)", params.Mask, params.GazeX, params.GazeY))
	}
	return kept, nil
}
