package motionblend

import (
	"fmt"

	"github.com/tphakala/go-motion-blend/internal/engine"
)

// Mix blends two poses of rig into out: weight 0 yields a, weight 1 yields
// b. Rotations take the shortest path. out may alias a or b.
func Mix[F Float](rig *Bindings, a, b, out Stream[F], weight float64) error {
	if err := validateBindings(rig); err != nil {
		return err
	}
	if err := checkStream("a", a, rig); err != nil {
		return err
	}
	if err := checkStream("b", b, rig); err != nil {
		return err
	}
	if err := checkStream("output", out, rig); err != nil {
		return err
	}
	engine.Mix(a, b, out, weight)
	return nil
}

// NMixer blends any number of weighted poses. When the weights sum to less
// than one the rig's default pose makes up the rest.
//
// An NMixer is not safe for concurrent use.
type NMixer[F Float] struct {
	bindings *Bindings
	mixer    *engine.NMixer[F]
}

// NewNMixer creates a mixer for poses of the given rig.
func NewNMixer[F Float](rig *Bindings) (*NMixer[F], error) {
	if err := validateBindings(rig); err != nil {
		return nil, err
	}
	return &NMixer[F]{bindings: rig, mixer: engine.NewNMixer[F](rig)}, nil
}

// Mix writes the weighted sum of inputs into out. out must not alias any
// input.
func (m *NMixer[F]) Mix(inputs []Stream[F], weights []float64, out Stream[F]) error {
	if len(inputs) != len(weights) {
		return fmt.Errorf("%w: %d inputs but %d weights", ErrInvalidConfig, len(inputs), len(weights))
	}
	for i, in := range inputs {
		if err := checkStream("input", in, m.bindings); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	if err := checkStream("output", out, m.bindings); err != nil {
		return err
	}
	m.mixer.Mix(inputs, weights, out)
	return nil
}
