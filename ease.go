package scrub

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Ease evaluates fn at normalized time t in [0, 1] and returns the eased
// fraction. A nil fn is linear.
func Ease(fn ease.TweenFunc, t float64) float64 {
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// easeFamilies maps a curve family to its in, out and in-out variants.
var easeFamilies = map[string][3]ease.TweenFunc{
	"quad":    {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"cubic":   {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"quart":   {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"quint":   {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"sine":    {ease.InSine, ease.OutSine, ease.InOutSine},
	"expo":    {ease.InExpo, ease.OutExpo, ease.InOutExpo},
	"circ":    {ease.InCirc, ease.OutCirc, ease.InOutCirc},
	"back":    {ease.InBack, ease.OutBack, ease.InOutBack},
	"elastic": {ease.InElastic, ease.OutElastic, ease.InOutElastic},
	"bounce":  {ease.InBounce, ease.OutBounce, ease.InOutBounce},
}

// powerFamilies maps the "powerN" naming onto polynomial families.
var powerFamilies = map[string]string{
	"power1": "quad",
	"power2": "cubic",
	"power3": "quart",
	"power4": "quint",
}

// ParseEase resolves an easing name. Accepted forms are "linear" (or "none"),
// camel-cased curve names such as "outCubic" or "inOutSine", and dotted names
// such as "power2.in", "cubic.out" or "sine.inOut". The empty string is
// linear.
func ParseEase(name string) (ease.TweenFunc, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "linear", "none":
		return ease.Linear, nil
	}

	family, variant, dotted := strings.Cut(n, ".")
	if !dotted {
		for _, prefix := range []string{"inout", "in", "out"} {
			if rest, ok := strings.CutPrefix(n, prefix); ok {
				family, variant = rest, prefix
				break
			}
		}
	}
	if alias, ok := powerFamilies[family]; ok {
		family = alias
	}
	fns, ok := easeFamilies[family]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	switch variant {
	case "in":
		return fns[0], nil
	case "out":
		return fns[1], nil
	case "inout":
		return fns[2], nil
	}
	return nil, fmt.Errorf("unknown easing %q", name)
}
