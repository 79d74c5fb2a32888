package cli

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
)

// PromptLine prints prompt and reads one trimmed line from stdin.
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// LoadImage decodes an image file and reports its format.
func LoadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// SaveImage encodes img to path, choosing the codec from the extension.
// PNG is the default for unknown extensions.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return nil
}

// parseGaze parses an "x,y" pair typed at the prompt.
func parseGaze(s string) (float32, float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y")
	}
	var x, y float64
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%g", &x); err != nil {
		return 0, 0, fmt.Errorf("bad x: %w", err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%g", &y); err != nil {
		return 0, 0, fmt.Errorf("bad y: %w", err)
	}
	return float32(x), float32(y), nil
}
