package gfxlab

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultScreenshotDir is where a Viewer writes screenshots when
// RunConfig.ScreenshotDir is empty.
const DefaultScreenshotDir = "screenshots"

// screenshotQueue collects labels during a frame and writes one PNG per
// label once the frame has been rendered.
type screenshotQueue struct {
	dir    string
	labels []string
	now    func() time.Time
}

func (q *screenshotQueue) push(label string) {
	q.labels = append(q.labels, label)
}

func (q *screenshotQueue) pending() bool {
	return len(q.labels) > 0
}

// flush writes img once for every queued label and returns the paths
// written. Failures are logged and skipped.
func (q *screenshotQueue) flush(img image.Image) []string {
	if len(q.labels) == 0 {
		return nil
	}
	defer func() { q.labels = q.labels[:0] }()

	dir := q.dir
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("gfxlab: screenshot: mkdir %s: %v", dir, err)
		return nil
	}

	now := time.Now
	if q.now != nil {
		now = q.now
	}
	stamp := now().Format("20060102_150405")

	var written []string
	for _, label := range q.labels {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := SavePNG(path, img); err != nil {
			log.Printf("gfxlab: screenshot: %v", err)
			continue
		}
		written = append(written, path)
	}
	return written
}

// SavePNG encodes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gfxlab: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("gfxlab: encode %s: %w", path, err)
	}
	return f.Close()
}

// LoadPNG decodes the PNG file at path into an NRGBA image.
func LoadPNG(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gfxlab: open %s: %w", path, err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("gfxlab: decode %s: %w", path, err)
	}
	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba, nil
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst, nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
