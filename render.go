package scrub

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Debug font cell size used to measure label nodes.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// minBlur is the smallest radius worth an offscreen pass.
const minBlur = 0.5

// whitePixel is a 1x1 white image scaled to draw solid boxes. Created on
// first draw so that building scenes never touches the graphics driver.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// toRGBA converts to an 8-bit color, clamping components.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clampUnit(c.R)*c.A*255 + 0.5),
		G: uint8(clampUnit(c.G)*c.A*255 + 0.5),
		B: uint8(clampUnit(c.B)*c.A*255 + 0.5),
		A: uint8(clampUnit(c.A)*255 + 0.5),
	}
}

// renderState holds reusable draw buffers.
type renderState struct {
	op      ebiten.DrawImageOptions
	blur    blurFilter
	scratch *ebiten.Image
	blurred *ebiten.Image
}

// Draw renders the visible sections and then the overlay.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())
	for _, sec := range s.sections {
		y := s.sectionOffset(sec)
		if y > s.height || y+sec.Root.Height < 0 {
			continue
		}
		s.drawNode(screen, sec.Root, 0, y-sec.Root.Y, 1, 0)
	}
	s.drawNode(screen, s.overlay, 0, 0, 1, 0)
	s.flushScreenshots(screen)
}

// drawNode draws n and its subtree. Parent opacity multiplies down; parent
// blur applies to every descendant.
func (s *Scene) drawNode(dst *ebiten.Image, n *Node, px, py, alpha, blur float64) {
	if !n.Visible || n.disposed {
		return
	}
	alpha *= clampUnit(n.Alpha)
	if alpha <= 0 {
		return
	}
	blur = max(blur, n.Blur)
	x := px + n.X + n.OffsetX
	y := py + n.Y + n.OffsetY

	switch n.Type {
	case NodeTypeBox:
		if n.Width > 0 && n.Height > 0 {
			s.drawLeaf(dst, ensureWhitePixel(),
				x-n.PivotX*n.Width, y-n.PivotY*n.Height, n.Width, n.Height,
				n.Color, alpha, blur)
		}
	case NodeTypeLabel:
		img := labelImage(n)
		if img != nil {
			w, h := n.Width, n.Height
			if w <= 0 || h <= 0 {
				b := img.Bounds()
				w, h = float64(b.Dx()), float64(b.Dy())
			}
			s.drawLeaf(dst, img, x-n.PivotX*w, y-n.PivotY*h, w, h, n.Color, alpha, blur)
		}
	}

	for _, c := range n.children {
		s.drawNode(dst, c, x, y, alpha, blur)
	}
}

// labelImage returns the cached debug-font rendering of the label's text.
func labelImage(n *Node) *ebiten.Image {
	if n.Text == "" {
		return nil
	}
	if n.textImage != nil && n.textCache == n.Text {
		return n.textImage
	}
	if n.textImage != nil {
		n.textImage.Deallocate()
	}
	n.textImage = ebiten.NewImage(len(n.Text)*debugGlyphW+2, debugGlyphH)
	ebitenutil.DebugPrint(n.textImage, n.Text)
	n.textCache = n.Text
	return n.textImage
}

// drawLeaf draws img stretched over (x, y, w, h). Blurred leaves are drawn
// into a scratch image clipped to the viewport plus the blur padding, so a
// box scaled far past the screen never needs a huge offscreen buffer.
func (s *Scene) drawLeaf(dst, img *ebiten.Image, x, y, w, h float64, c Color, alpha, blur float64) {
	rs := &s.render
	b := img.Bounds()
	sx, sy := w/float64(b.Dx()), h/float64(b.Dy())
	a := clampUnit(c.A) * alpha

	if blur < minBlur {
		rs.op.GeoM.Reset()
		rs.op.GeoM.Scale(sx, sy)
		rs.op.GeoM.Translate(x, y)
		rs.op.ColorScale.Reset()
		rs.op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
		rs.op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, &rs.op)
		return
	}

	pad := math.Ceil(blur)
	vw, vh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	x0, y0 := max(x-pad, -pad), max(y-pad, -pad)
	x1, y1 := min(x+w+pad, vw+pad), min(y+h+pad, vh+pad)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	cw, ch := int(math.Ceil(x1-x0)), int(math.Ceil(y1-y0))
	src := s.scratchImage(&rs.scratch, cw, ch)
	out := s.scratchImage(&rs.blurred, cw, ch)

	rs.op.GeoM.Reset()
	rs.op.GeoM.Scale(sx, sy)
	rs.op.GeoM.Translate(x-x0, y-y0)
	rs.op.ColorScale.Reset()
	rs.op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	rs.op.Filter = ebiten.FilterLinear
	src.DrawImage(img, &rs.op)

	rs.blur.radius = int(pad)
	rs.blur.apply(src, out)

	rs.op.GeoM.Reset()
	rs.op.GeoM.Translate(x0, y0)
	rs.op.ColorScale.Reset()
	dst.DrawImage(out, &rs.op)
}

// scratchImage returns a cleared w×h sub-image of *buf at the origin,
// growing the backing image when needed.
func (s *Scene) scratchImage(buf **ebiten.Image, w, h int) *ebiten.Image {
	img := *buf
	if img == nil || img.Bounds().Dx() < w || img.Bounds().Dy() < h {
		bw, bh := w, h
		if img != nil {
			bw = max(bw, img.Bounds().Dx())
			bh = max(bh, img.Bounds().Dy())
			img.Deallocate()
		}
		img = ebiten.NewImage(bw, bh)
		*buf = img
	}
	sub := img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	sub.Clear()
	return sub
}
