package stream

import (
	"fmt"

	"github.com/tphakala/go-motion-blend/internal/mathutil"
	"github.com/tphakala/go-motion-blend/internal/simdops"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stream is a typed view over a channel buffer. It does not own the data;
// the caller keeps the backing slice alive for as long as the view is used.
//
// Values are stored at precision F and widened to float64 for vector math.
type Stream[F simdops.Float] struct {
	bindings *Bindings
	data     []F
}

// New wraps data in a Stream. The slice length must equal the stream size.
func New[F simdops.Float](b *Bindings, data []F) (Stream[F], error) {
	if b == nil {
		return Stream[F]{}, fmt.Errorf("bindings are nil")
	}
	if len(data) != b.StreamSize() {
		return Stream[F]{}, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(data), b.StreamSize())
	}
	return Stream[F]{bindings: b, data: data}, nil
}

// Alloc creates a Stream over a freshly allocated buffer holding the default pose.
func Alloc[F simdops.Float](b *Bindings) Stream[F] {
	s := Stream[F]{bindings: b, data: make([]F, b.StreamSize())}
	s.ResetToDefaultValues()
	return s
}

// IsNull reports whether the stream has no bindings attached.
func (s Stream[F]) IsNull() bool {
	return s.bindings == nil
}

// Bindings returns the channel layout of the stream.
func (s Stream[F]) Bindings() *Bindings {
	return s.bindings
}

// Data returns the underlying buffer.
func (s Stream[F]) Data() []F {
	return s.data
}

// Translation returns translation channel i.
func (s Stream[F]) Translation(i int) r3.Vec {
	return s.vec3(s.bindings.TranslationOffset(i))
}

// SetTranslation writes translation channel i.
func (s Stream[F]) SetTranslation(i int, v r3.Vec) {
	s.setVec3(s.bindings.TranslationOffset(i), v)
}

// Rotation returns rotation channel i.
func (s Stream[F]) Rotation(i int) quat.Number {
	o := s.bindings.RotationOffset(i)
	d := s.data[o : o+rotationSlots]
	return mathutil.QuatFromXYZW(float64(d[0]), float64(d[1]), float64(d[2]), float64(d[3]))
}

// SetRotation writes rotation channel i.
func (s Stream[F]) SetRotation(i int, q quat.Number) {
	o := s.bindings.RotationOffset(i)
	d := s.data[o : o+rotationSlots]
	x, y, z, w := mathutil.XYZW(q)
	d[0], d[1], d[2], d[3] = F(x), F(y), F(z), F(w)
}

// Scale returns scale channel i.
func (s Stream[F]) Scale(i int) r3.Vec {
	return s.vec3(s.bindings.ScaleOffset(i))
}

// SetScale writes scale channel i.
func (s Stream[F]) SetScale(i int, v r3.Vec) {
	s.setVec3(s.bindings.ScaleOffset(i), v)
}

// Float returns float channel i.
func (s Stream[F]) Float(i int) float64 {
	return float64(s.data[s.bindings.FloatOffset(i)])
}

// SetFloat writes float channel i.
func (s Stream[F]) SetFloat(i int, v float64) {
	s.data[s.bindings.FloatOffset(i)] = F(v)
}

// CopyFrom copies every slot of src into s. Both streams must share a layout.
func (s Stream[F]) CopyFrom(src Stream[F]) {
	copy(s.data, src.data)
}

// ResetToDefaultValues writes the rest pose: zero translations, identity
// rotations, unit scales and zero floats.
func (s Stream[F]) ResetToDefaultValues() {
	clear(s.data)
	for i := range s.bindings.Rotations {
		s.SetRotation(i, mathutil.Identity)
	}
	for i := range s.bindings.Scales {
		s.SetScale(i, r3.Vec{X: 1, Y: 1, Z: 1})
	}
}

// SameLayout reports whether two streams describe the same channel counts.
func SameLayout[F simdops.Float](a, b Stream[F]) bool {
	if a.bindings == nil || b.bindings == nil {
		return false
	}
	return *a.bindings == *b.bindings && len(a.data) == len(b.data)
}

func (s Stream[F]) vec3(o int) r3.Vec {
	d := s.data[o : o+3]
	return r3.Vec{X: float64(d[0]), Y: float64(d[1]), Z: float64(d[2])}
}

func (s Stream[F]) setVec3(o int, v r3.Vec) {
	d := s.data[o : o+3]
	d[0], d[1], d[2] = F(v.X), F(v.Y), F(v.Z)
}
