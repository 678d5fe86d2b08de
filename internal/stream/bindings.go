// Package stream implements channel buffers: flat slices of animated values
// laid out according to a skeleton's channel bindings.
//
// Layout (all counts come from Bindings):
//
//	[ translations (3) | rotations (4, x y z w) | scales (3) | floats (1) ]
package stream

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch indicates a buffer whose length differs from the stream size.
var ErrSizeMismatch = errors.New("buffer length does not match stream size")

// Bindings describes how many channels of each kind a skeleton animates.
// It stands in for the host's skeleton binding table; the bone each channel
// drives is irrelevant to the blend kernels.
type Bindings struct {
	Translations int
	Rotations    int
	Scales       int
	Floats       int
}

// Validate checks that all channel counts are non-negative.
func (b *Bindings) Validate() error {
	if b.Translations < 0 || b.Rotations < 0 || b.Scales < 0 || b.Floats < 0 {
		return fmt.Errorf("channel counts must be non-negative: %+v", *b)
	}
	return nil
}

// StreamSize returns the total number of slots across all channels.
func (b *Bindings) StreamSize() int {
	return b.Translations*translationSlots +
		b.Rotations*rotationSlots +
		b.Scales*scaleSlots +
		b.Floats*floatSlots
}

// ChannelCount returns the number of channels of every kind.
func (b *Bindings) ChannelCount() int {
	return b.Translations + b.Rotations + b.Scales + b.Floats
}

// VectorChannelCount returns the number of channels that carry a 3D
// direction when extrapolated: translations, rotations (axis) and scales.
func (b *Bindings) VectorChannelCount() int {
	return b.Translations + b.Rotations + b.Scales
}

// TranslationOffset returns the first slot of translation channel i.
func (b *Bindings) TranslationOffset(i int) int {
	return i * translationSlots
}

// RotationOffset returns the first slot of rotation channel i.
func (b *Bindings) RotationOffset(i int) int {
	return b.Translations*translationSlots + i*rotationSlots
}

// ScaleOffset returns the first slot of scale channel i.
func (b *Bindings) ScaleOffset(i int) int {
	return b.Translations*translationSlots + b.Rotations*rotationSlots + i*scaleSlots
}

// FloatOffset returns the slot of float channel i.
func (b *Bindings) FloatOffset(i int) int {
	return b.Translations*translationSlots + b.Rotations*rotationSlots + b.Scales*scaleSlots + i
}

// RotationRange returns the half-open slot range holding all rotations.
func (b *Bindings) RotationRange() (start, end int) {
	start = b.Translations * translationSlots
	return start, start + b.Rotations*rotationSlots
}
