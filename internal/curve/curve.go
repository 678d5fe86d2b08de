// Package curve shapes crossfade weights over time.
//
// A WeightAccumulator moves a weight between 0 and 1 at a constant rate,
// and a Func remaps that linear ramp through an easing curve from
// github.com/tanema/gween/ease.
package curve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tanema/gween/ease"
)

// ErrUnknownCurve indicates a curve name with no registered easing function.
var ErrUnknownCurve = errors.New("unknown blend curve")

// Func maps a linear weight in [0, 1] to a shaped weight. Func(0) is 0 and
// Func(1) is 1 for every registered curve.
type Func func(w float64) float64

// Linear leaves the weight unchanged.
func Linear(w float64) float64 { return w }

// FromEase adapts an easing function to a unit-range weight curve.
func FromEase(fn ease.TweenFunc) Func {
	return func(w float64) float64 {
		return float64(fn(float32(w), 0, 1, 1))
	}
}

var named = map[string]ease.TweenFunc{
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
}

// Lookup returns the curve registered under name. Names are case-insensitive
// and ignore '-' and '_'; an empty name or "linear" selects Linear.
func Lookup(name string) (Func, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
	if key == "" || key == "linear" {
		return Linear, nil
	}
	fn, ok := named[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return FromEase(fn), nil
}

// Names returns the registered curve names in sorted order.
func Names() []string {
	names := make([]string, 0, len(named)+1)
	names = append(names, "linear")
	for name := range named {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
