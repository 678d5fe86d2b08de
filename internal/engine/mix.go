package engine

import (
	"github.com/tphakala/go-motion-blend/internal/mathutil"
	"github.com/tphakala/go-motion-blend/internal/simdops"
	"github.com/tphakala/go-motion-blend/internal/stream"
	"gonum.org/v1/gonum/num/quat"
)

// Mix blends two poses into out: weight 0 yields a, weight 1 yields b.
// Translations, scales and floats are interpolated linearly; rotations take
// the shortest path and are renormalized. All three streams must share a
// layout; out may alias a or b.
func Mix[F simdops.Float](a, b, out stream.Stream[F], weight float64) {
	bindings := out.Bindings()
	rotStart, rotEnd := bindings.RotationRange()
	w := F(weight)

	ad, bd, od := a.Data(), b.Data(), out.Data()
	for i := range rotStart {
		od[i] = ad[i] + (bd[i]-ad[i])*w
	}
	for i := rotEnd; i < len(od); i++ {
		od[i] = ad[i] + (bd[i]-ad[i])*w
	}
	for i := range bindings.Rotations {
		out.SetRotation(i, mathutil.Nlerp(a.Rotation(i), b.Rotation(i), weight))
	}
}

// NMixer blends any number of weighted poses. It owns a scratch buffer so
// repeated calls do not allocate.
type NMixer[F simdops.Float] struct {
	bindings *stream.Bindings
	ops      *simdops.Ops[F]
	scratch  stream.Stream[F]
}

// NewNMixer creates a mixer for poses with the given layout.
func NewNMixer[F simdops.Float](b *stream.Bindings) *NMixer[F] {
	return &NMixer[F]{
		bindings: b,
		ops:      simdops.For[F](),
		scratch:  stream.Alloc[F](b),
	}
}

// Mix writes the weighted sum of inputs into out. Inputs with a zero weight
// are skipped. When the weights sum to less than one, the default pose makes
// up the remainder. Rotations are accumulated in a common hemisphere and
// renormalized. out must not alias any input.
func (m *NMixer[F]) Mix(inputs []stream.Stream[F], weights []float64, out stream.Stream[F]) {
	rotStart, rotEnd := m.bindings.RotationRange()
	od, sd := out.Data(), m.scratch.Data()
	clear(od)

	total := 0.0
	for k, in := range inputs {
		w := weights[k]
		if w <= 0 {
			continue
		}
		total += w

		m.ops.Scale(sd, in.Data(), F(w))
		for i := range rotStart {
			od[i] += sd[i]
		}
		for i := rotEnd; i < len(od); i++ {
			od[i] += sd[i]
		}
		for i := range m.bindings.Rotations {
			accumulateRotation(out, i, m.scratch.Rotation(i))
		}
	}

	if rest := 1 - total; rest > convergedError {
		m.addRestPose(out, rest)
	}

	for i := range m.bindings.Rotations {
		out.SetRotation(i, mathutil.Normalize(out.Rotation(i)))
	}
}

// addRestPose adds the default pose at the given weight. Only rotations and
// scales are non-zero in the default pose.
func (m *NMixer[F]) addRestPose(out stream.Stream[F], weight float64) {
	for i := range m.bindings.Rotations {
		accumulateRotation(out, i, quat.Scale(weight, mathutil.Identity))
	}
	for i := range m.bindings.Scales {
		s := out.Scale(i)
		s.X += weight
		s.Y += weight
		s.Z += weight
		out.SetScale(i, s)
	}
}

// accumulateRotation adds q to rotation channel i of acc, flipping q into the
// hemisphere of the running sum.
func accumulateRotation[F simdops.Float](acc stream.Stream[F], i int, q quat.Number) {
	sum := acc.Rotation(i)
	if mathutil.Dot(sum, q) < 0 {
		q = quat.Scale(-1, q)
	}
	acc.SetRotation(i, quat.Add(sum, q))
}
