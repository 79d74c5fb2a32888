package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
)

// Terminal frame preview. Supports the kitty graphics protocol and the
// iTerm2 inline-image OSC; anywhere else previews are silently unavailable
// and the caller falls back to saving the frame.

func previewSupported() bool {
	return isKittyTerm() || isInlineTerm()
}

func isKittyTerm() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

func isInlineTerm() bool {
	tp := os.Getenv("TERM_PROGRAM")
	return tp == "iTerm.app" || tp == "WezTerm"
}

// PreviewFrame shows a frame inline in the terminal when the terminal can.
// Returns false when no preview path exists.
func PreviewFrame(frame *image.NRGBA) (bool, error) {
	if !previewSupported() {
		return false, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return false, fmt.Errorf("encode preview: %w", err)
	}
	if isKittyTerm() {
		return true, sendKittyImage(buf.Bytes())
	}
	return true, sendInlineImage(buf.Bytes())
}

// sendKittyImage transmits PNG data with the kitty graphics protocol:
// a=T transmit+display, f=100 PNG, q=2 suppress responses, payload chunked
// at 4096 base64 bytes with m=1 continuation markers.
func sendKittyImage(data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	first := true
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := pos + chunkSize
		if end > len(enc) {
			end = len(enc)
		}
		chunk := enc[pos:end]
		m := "1"
		if end == len(enc) {
			m = "0"
		}
		var seq string
		if first {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,q=2,m=%s;%s\x1b\\", m, chunk)
			first = false
		} else {
			seq = fmt.Sprintf("\x1b_Gm=%s;%s\x1b\\", m, chunk)
		}
		if _, err := os.Stdout.WriteString(seq); err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline image sequence.
func sendInlineImage(data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	seq := fmt.Sprintf("\x1b]1337;File=inline=1;size=%d:%s\a\n", len(data), enc)
	_, err := os.Stdout.WriteString(seq)
	return err
}
