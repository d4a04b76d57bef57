package scrub

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// shot is a queued capture and the scroll state it was taken at. It is
// written next to the PNG so a capture can be matched to timeline progress.
type shot struct {
	Label    string        `yaml:"label"`
	ScrollY  float64       `yaml:"scrollY"`
	Viewport [2]float64    `yaml:"viewport,flow"`
	Sections []shotSection `yaml:"sections,omitempty"`
}

type shotSection struct {
	Name     string  `yaml:"name"`
	Progress float64 `yaml:"progress"`
	Active   bool    `yaml:"active"`
}

// Screenshot queues a capture of the frame drawn at the end of the current
// tick. The scroll offset and every animated section's progress are
// recorded with it. Files are named <timestamp>_<label>_y<scroll>.png, with
// the state in a .yaml of the same name.
func (s *Scene) Screenshot(label string) {
	sh := shot{
		Label:    label,
		ScrollY:  s.scrollY,
		Viewport: [2]float64{s.width, s.height},
	}
	for _, sec := range s.sections {
		if !sec.animated() {
			continue
		}
		p, active := sec.Progress()
		sh.Sections = append(sh.Sections, shotSection{Name: sec.Name, Progress: p, Active: active})
	}
	s.screenshotQueue = append(s.screenshotQueue, sh)
}

// flushScreenshots writes every queued capture. Called at the end of Draw.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	if err := os.MkdirAll(s.screenshotDir, 0o755); err != nil {
		s.log.Warn("screenshot", zap.String("dir", s.screenshotDir), zap.Error(err))
		return
	}

	// ReadPixels yields premultiplied RGBA, which is what image.RGBA holds;
	// the PNG encoder converts it to straight alpha.
	r := screen.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	screen.ReadPixels(img.Pix)

	stamp := time.Now().Format("20060102_150405")
	for _, sh := range s.screenshotQueue {
		base, err := writeShot(s.screenshotDir, stamp, img, sh)
		if err != nil {
			s.log.Warn("screenshot", zap.String("label", sh.Label), zap.Error(err))
			continue
		}
		s.log.Info("screenshot",
			zap.String("path", base+".png"),
			zap.Float64("scrollY", sh.ScrollY),
			zap.Int("sections", len(sh.Sections)))
	}
}

// writeShot writes img and the shot's state under dir and returns the
// shared path without extension.
func writeShot(dir, stamp string, img image.Image, sh shot) (string, error) {
	base := filepath.Join(dir, shotName(stamp, sh.Label, sh.ScrollY))
	if err := writePNG(base+".png", img); err != nil {
		return "", err
	}
	meta, err := yaml.Marshal(sh)
	if err != nil {
		return "", fmt.Errorf("encode %s state: %w", sh.Label, err)
	}
	if err := os.WriteFile(base+".yaml", meta, 0o644); err != nil {
		return "", fmt.Errorf("write %s.yaml: %w", base, err)
	}
	return base, nil
}

// shotName builds a file name that sorts by time and then scroll offset.
func shotName(stamp, label string, scrollY float64) string {
	return fmt.Sprintf("%s_%s_y%05d", stamp, fileLabel(label), int(math.Round(max(scrollY, 0))))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// fileLabel keeps ASCII letters, digits, '-' and '.' and turns every other
// rune into '_'. Blank labels become "unlabeled".
func fileLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, label)
}
