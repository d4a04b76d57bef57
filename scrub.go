package scrub

import (
	"fmt"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for sizes and translations.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in document space. The origin is the
// top-left of the document, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// PropertyKind identifies an animatable property of a Target.
type PropertyKind uint8

const (
	PropOpacity   PropertyKind = iota // scalar in [0, 1]
	PropWidth                         // scalar length in pixels
	PropHeight                        // scalar length in pixels
	PropSize                          // width and height as a Vec2
	PropBlur                          // blur radius in pixels, never negative
	PropTranslate                     // offset from the layout position as a Vec2
	PropColor                         // RGBA tint, interpolated per component

	numPropertyKinds
)

var propertyNames = [numPropertyKinds]string{
	PropOpacity:   "opacity",
	PropWidth:     "width",
	PropHeight:    "height",
	PropSize:      "size",
	PropBlur:      "blur",
	PropTranslate: "translate",
	PropColor:     "color",
}

// String returns the lowercase property name used in documents and logs.
func (k PropertyKind) String() string {
	if k < numPropertyKinds {
		return propertyNames[k]
	}
	return fmt.Sprintf("PropertyKind(%d)", uint8(k))
}

// ParsePropertyKind returns the property with the given name.
func ParsePropertyKind(name string) (PropertyKind, error) {
	for i, n := range propertyNames {
		if n == name {
			return PropertyKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// IsVector reports whether values of this kind live in Value.V.
func (k PropertyKind) IsVector() bool {
	return k == PropSize || k == PropTranslate
}

// Value is the instantaneous value of a property. Scalar kinds use F, vector
// kinds (size, translate) use V and PropColor uses C.
type Value struct {
	F float64
	V Vec2
	C Color
}

// Scalar returns a Value for opacity, width, height or blur.
func Scalar(f float64) Value { return Value{F: f} }

// Vec returns a Value for size or translate.
func Vec(x, y float64) Value { return Value{V: Vec2{x, y}} }

// RGBA returns a Value for color.
func RGBA(c Color) Value { return Value{C: c} }

// finite reports whether the components used by kind are all finite.
func (v Value) finite(k PropertyKind) bool {
	switch {
	case k == PropColor:
		return isFinite(v.C.R) && isFinite(v.C.G) && isFinite(v.C.B) && isFinite(v.C.A)
	case k.IsVector():
		return isFinite(v.V.X) && isFinite(v.V.Y)
	default:
		return isFinite(v.F)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// interpolate blends a toward b by t using the rule for kind: linear for
// scalars and lengths, per component for vectors and colors. Opacity and color
// channels stay in [0, 1] and blur never drops below zero, so overshooting
// easings cannot produce invalid output.
func interpolate(k PropertyKind, a, b Value, t float64) Value {
	switch {
	case k == PropColor:
		return Value{C: Color{
			R: clampUnit(lerp(a.C.R, b.C.R, t)),
			G: clampUnit(lerp(a.C.G, b.C.G, t)),
			B: clampUnit(lerp(a.C.B, b.C.B, t)),
			A: clampUnit(lerp(a.C.A, b.C.A, t)),
		}}
	case k.IsVector():
		return Value{V: Vec2{lerp(a.V.X, b.V.X, t), lerp(a.V.Y, b.V.Y, t)}}
	case k == PropOpacity:
		return Value{F: clampUnit(lerp(a.F, b.F, t))}
	case k == PropBlur:
		return Value{F: math.Max(0, lerp(a.F, b.F, t))}
	default:
		return Value{F: lerp(a.F, b.F, t)}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clampUnit clamps v to [0, 1]. NaN maps to 0.
func clampUnit(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
