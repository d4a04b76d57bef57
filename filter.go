package scrub

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// blurFilter applies a Kawase iterative blur using downscale/upscale passes.
// No Kage shader needed; bilinear filtering during DrawImage does the work.
type blurFilter struct {
	radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// apply renders a Kawase blur from src into dst. Both images must have
// their bounds at the origin.
func (f *blurFilter) apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	// Number of iterations: log2(radius), minimum 1.
	passes := max(int(math.Ceil(math.Log2(float64(f.radius)))), 1)

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}
	f.scaleInto(current, dst)
}

// scaleInto draws src stretched over dst with linear filtering.
func (f *blurFilter) scaleInto(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	tw, th := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}
