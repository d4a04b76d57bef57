package scrub

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFileLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"hero", "hero"},
		{"words-half", "words-half"},
		{"pinned view", "pinned_view"},
		{"../etc/passwd", ".._etc_passwd"},
		{"v1.2", "v1.2"},
		{"日本", "__"},
	}
	for _, tt := range tests {
		if got := fileLabel(tt.in); got != tt.want {
			t.Errorf("fileLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShotName(t *testing.T) {
	tests := []struct {
		label   string
		scrollY float64
		want    string
	}{
		{"hero", 0, "20260101_120000_hero_y00000"},
		{"pinned view", 1234.6, "20260101_120000_pinned_view_y01235"},
		{"", -3, "20260101_120000_unlabeled_y00000"},
	}
	for _, tt := range tests {
		if got := shotName("20260101_120000", tt.label, tt.scrollY); got != tt.want {
			t.Errorf("shotName(%q, %v) = %q, want %q", tt.label, tt.scrollY, got, tt.want)
		}
	}
}

func TestWriteShot(t *testing.T) {
	dir := t.TempDir()
	// Premultiplied half-transparent orange, then opaque red.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []byte{128, 64, 0, 128, 255, 0, 0, 255})
	sh := shot{
		Label:    "mid pin",
		ScrollY:  450,
		Viewport: [2]float64{800, 600},
		Sections: []shotSection{{Name: "hero", Progress: 0.25, Active: true}},
	}

	base, err := writeShot(dir, "20260101_120000", img, sh)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "20260101_120000_mid_pin_y00450"); base != want {
		t.Errorf("base = %q, want %q", base, want)
	}

	f, err := os.Open(base + ".png")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	got := color.NRGBAModel.Convert(decoded.At(0, 0)).(color.NRGBA)
	if got.R != 255 || got.G < 126 || got.G > 128 || got.B != 0 || got.A != 128 {
		t.Errorf("pixel (0,0) = %v, want straight alpha ~{255 127 0 128}", got)
	}
	if r, _, _, a := decoded.At(1, 0).RGBA(); r != 0xffff || a != 0xffff {
		t.Errorf("pixel (1,0) = %v", decoded.At(1, 0))
	}

	raw, err := os.ReadFile(base + ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	var back shot
	if err := yaml.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.ScrollY != 450 || back.Viewport != sh.Viewport || len(back.Sections) != 1 || back.Sections[0] != sh.Sections[0] {
		t.Errorf("state = %+v, want %+v", back, sh)
	}

	if _, err := writeShot(filepath.Join(dir, "missing"), "x", img, sh); err == nil {
		t.Error("writeShot into a missing directory succeeded")
	}
}

func TestScreenshotRecordsScrollState(t *testing.T) {
	s := NewScene(SceneConfig{Width: 800, Height: 600, ScreenshotDir: "out"})
	box := NewBox("b", 10, 10, ColorWhite)
	sec := NewSection("fade").Add(box)
	sec.Pinned, sec.Extent = true, 1
	sec.Segments = []Segment{FromTo(box, PropOpacity, 0, 1, Scalar(0), Scalar(1))}
	if err := s.Mount(sec); err != nil {
		t.Fatal(err)
	}
	if err := s.Mount(NewSection("static")); err != nil {
		t.Fatal(err)
	}
	s.ScrollTo(150)
	settle(s, 1)

	s.Screenshot("a")
	s.ScrollTo(300)
	settle(s, 1)
	s.Screenshot("b")

	if len(s.screenshotQueue) != 2 || s.screenshotDir != "out" {
		t.Fatalf("queue = %v, dir = %q", s.screenshotQueue, s.screenshotDir)
	}
	a, b := s.screenshotQueue[0], s.screenshotQueue[1]
	if a.Label != "a" || a.ScrollY != 150 || b.ScrollY != 300 {
		t.Errorf("shots = %+v, %+v", a, b)
	}
	if len(a.Sections) != 1 || a.Sections[0].Name != "fade" || !near(a.Sections[0].Progress, 0.25) {
		t.Errorf("sections at a = %+v, want fade at 0.25", a.Sections)
	}
	if !near(b.Sections[0].Progress, 0.5) {
		t.Errorf("progress at b = %v, want 0.5", b.Sections[0].Progress)
	}
}
