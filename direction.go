package motionblend

import (
	"fmt"

	"github.com/tphakala/go-motion-blend/internal/engine"
)

// DirectionWeights returns the weights of the five direction anchors for a
// blend parameter. The parameter is clamped to [0, 4]; between two integers
// the neighbouring anchors share the weight linearly. The weights always
// sum to 1.
func DirectionWeights(param float64) [DirectionCount]float64 {
	var w [DirectionCount]float64
	engine.DirectionWeights(param, &w)
	return w
}

// DirectionMixer blends five directional poses (for example strafe-left,
// left, forward, right, strafe-right) by a direction parameter.
//
// A DirectionMixer is not safe for concurrent use.
type DirectionMixer[F Float] struct {
	bindings *Bindings
	mixer    *engine.NMixer[F]
	inputs   []Stream[F]
	weights  [DirectionCount]float64
}

// NewDirectionMixer creates a mixer for poses of the given rig.
func NewDirectionMixer[F Float](b *Bindings) (*DirectionMixer[F], error) {
	if err := validateBindings(b); err != nil {
		return nil, err
	}
	return &DirectionMixer[F]{
		bindings: b,
		mixer:    engine.NewNMixer[F](b),
		inputs:   make([]Stream[F], DirectionCount),
	}, nil
}

// Evaluate writes the blend of inputs for param into out.
func (m *DirectionMixer[F]) Evaluate(param float64, inputs [DirectionCount]Stream[F], out Stream[F]) error {
	for i, in := range inputs {
		if err := checkStream("input", in, m.bindings); err != nil {
			return fmt.Errorf("direction %d: %w", i, err)
		}
	}
	if err := checkStream("output", out, m.bindings); err != nil {
		return err
	}

	engine.DirectionWeights(param, &m.weights)
	copy(m.inputs, inputs[:])
	m.mixer.Mix(m.inputs, m.weights[:], out)
	return nil
}

// Weights returns the weights used by the last Evaluate call.
func (m *DirectionMixer[F]) Weights() [DirectionCount]float64 {
	return m.weights
}
