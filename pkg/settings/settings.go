// Package settings loads the overlay configuration from a settings.txt
// KEY=VALUE file. Unknown keys are ignored with a warning, malformed values
// fall back to their defaults, and a missing file yields the defaults
// outright, so a broken config can never keep the filter from starting.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/periview/gazefilter/pkg/render"
)

// Settings is the full tool configuration. The filter-facing fields map onto
// render.Params once per frame; the rest drive the run loop and CLI.
type Settings struct {
	TargetFPS int

	OverlaySize [2]int
	OverlayPos  [2]int

	// Per-channel blur configuration, R/G/B order.
	RadiusRGB [3]int
	SigmaRGB  [3]float32

	MaskMode       string
	MaskRadiusPx   float32
	FeatherPx      float32
	FilterStrength float32
	ChromaOffsetPx float32

	// GazePx is the fallback gaze position when no tracker feeds the loop.
	// The (-1,-1) sentinel means "center of the frame".
	GazePx [2]float32

	DebugHUD bool
	HUDFont  string
}

// Defaults mirrors the reference configuration: red channel untouched,
// green lightly blurred, blue heavily, filter active across the full frame.
func Defaults() Settings {
	return Settings{
		TargetFPS:      60,
		OverlaySize:    [2]int{2560, 1440},
		OverlayPos:     [2]int{0, 0},
		RadiusRGB:      [3]int{0, 2, 6},
		SigmaRGB:       [3]float32{0.001, 1.0, 3.0},
		MaskMode:       "fullframe",
		MaskRadiusPx:   150,
		FeatherPx:      200,
		FilterStrength: 1,
		ChromaOffsetPx: 0,
		GazePx:         [2]float32{-1, -1},
		DebugHUD:       false,
		HUDFont:        "",
	}
}

// Load reads path and overlays its values onto the defaults. A missing file
// is not an error; parse problems are reported on stderr per key and the
// default for that key survives.
func Load(path string) (Settings, error) {
	s := Defaults()
	raw, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "settings file %q not found, using defaults\n", path)
			return s, nil
		}
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	s.apply(raw)
	return s, nil
}

func (s *Settings) apply(raw map[string]string) {
	for key, val := range raw {
		var err error
		switch key {
		case "target_fps":
			err = parseInt(val, &s.TargetFPS)
		case "overlay_size":
			err = parseIntPair(val, &s.OverlaySize)
		case "overlay_pos":
			err = parseIntPair(val, &s.OverlayPos)
		case "radius_rgb":
			err = parseIntTriple(val, &s.RadiusRGB)
		case "sigma_rgb":
			err = parseFloatTriple(val, &s.SigmaRGB)
		case "mask_mode":
			if _, merr := render.ParseMaskMode(strings.ToLower(val)); merr != nil {
				err = merr
			} else {
				s.MaskMode = strings.ToLower(val)
			}
		case "mask_radius_px":
			err = parseFloat(val, &s.MaskRadiusPx)
		case "feather_px":
			err = parseFloat(val, &s.FeatherPx)
		case "filter_strength":
			err = parseFloat(val, &s.FilterStrength)
		case "chroma_offset_px":
			err = parseFloat(val, &s.ChromaOffsetPx)
		case "gaze_px":
			err = parseFloatPair(val, &s.GazePx)
		case "debug_hud":
			err = parseBool(val, &s.DebugHUD)
		case "hud_font":
			s.HUDFont = val
		default:
			fmt.Fprintf(os.Stderr, "warning: unknown settings key %q, skipping\n", key)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s=%q: %v, using default\n", key, val, err)
		}
	}
}

// Params builds the per-frame filter parameters for a frame of the given
// dimensions. The gaze falls back to the frame center when the sentinel is
// set; a live gaze source overrides it afterwards.
func (s Settings) Params(width, height int) render.Params {
	mode, _ := render.ParseMaskMode(s.MaskMode)
	gx, gy := s.GazePx[0], s.GazePx[1]
	if gx < 0 && gy < 0 {
		gx = float32(width) / 2
		gy = float32(height) / 2
	}
	var blur [3]render.ChannelBlur
	for c := 0; c < 3; c++ {
		blur[c] = render.ChannelBlur{Radius: s.RadiusRGB[c], Sigma: s.SigmaRGB[c]}
	}
	return render.Params{
		Width:          width,
		Height:         height,
		GazeX:          gx,
		GazeY:          gy,
		Mask:           mode,
		RadiusPx:       s.MaskRadiusPx,
		FeatherPx:      s.FeatherPx,
		FilterStrength: s.FilterStrength,
		Blur:           blur,
		ChromaOffsetPx: s.ChromaOffsetPx,
	}
}

func parseInt(val string, out *int) error {
	v, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func parseFloat(val string, out *float32) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 32)
	if err != nil {
		return err
	}
	*out = float32(v)
	return nil
}

func parseBool(val string, out *bool) error {
	v, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(val)))
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func splitTuple(val string, n int) ([]string, error) {
	parts := strings.Split(val, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseIntPair(val string, out *[2]int) error {
	parts, err := splitTuple(val, 2)
	if err != nil {
		return err
	}
	var tmp [2]int
	for i, p := range parts {
		if err := parseInt(p, &tmp[i]); err != nil {
			return err
		}
	}
	*out = tmp
	return nil
}

func parseIntTriple(val string, out *[3]int) error {
	parts, err := splitTuple(val, 3)
	if err != nil {
		return err
	}
	var tmp [3]int
	for i, p := range parts {
		if err := parseInt(p, &tmp[i]); err != nil {
			return err
		}
	}
	*out = tmp
	return nil
}

func parseFloatPair(val string, out *[2]float32) error {
	parts, err := splitTuple(val, 2)
	if err != nil {
		return err
	}
	var tmp [2]float32
	for i, p := range parts {
		if err := parseFloat(p, &tmp[i]); err != nil {
			return err
		}
	}
	*out = tmp
	return nil
}

func parseFloatTriple(val string, out *[3]float32) error {
	parts, err := splitTuple(val, 3)
	if err != nil {
		return err
	}
	var tmp [3]float32
	for i, p := range parts {
		if err := parseFloat(p, &tmp[i]); err != nil {
			return err
		}
	}
	*out = tmp
	return nil
}
