package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedImageFormat is returned for paths other than .png and .bmp.
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// SaveImage encodes img by the extension of path (.png or .bmp), creating
// the parent directory if needed.
func SaveImage(img image.Image, path string) error {
	var encode func(*os.File, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = func(f *os.File, img image.Image) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

// TimestampedName returns dir/prefix_<timestamp>.ext.
func TimestampedName(dir, prefix, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s.%s", prefix, timestamp, strings.TrimPrefix(ext, "."))
	if dir != "" {
		name = filepath.Join(dir, name)
	}
	return name
}
