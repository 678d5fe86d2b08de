package motionblend

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-motion-blend/internal/simdops"
	"github.com/tphakala/go-motion-blend/internal/stream"
)

// Float is the type constraint for channel buffer precision.
type Float = simdops.Float

// Bindings describes how many translation, rotation, scale and float
// channels a rig animates. Buffers are laid out in that order.
type Bindings = stream.Bindings

// Stream is a typed view over one pose buffer.
type Stream[F Float] = stream.Stream[F]

// Common errors returned by the blenders.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid blend configuration")

	// ErrStreamSizeMismatch indicates a pose buffer that does not match the
	// rig's stream size.
	ErrStreamSizeMismatch = stream.ErrSizeMismatch

	// ErrBatchClosed indicates a Run on a closed Batch.
	ErrBatchClosed = errors.New("batch is closed")
)

// NewStream wraps data as a pose buffer for the given rig.
func NewStream[F Float](b *Bindings, data []F) (Stream[F], error) {
	if b == nil {
		return Stream[F]{}, fmt.Errorf("%w: bindings are nil", ErrInvalidConfig)
	}
	return stream.New(b, data)
}

// AllocStream allocates a pose buffer holding the rig's default pose.
func AllocStream[F Float](b *Bindings) Stream[F] {
	return stream.Alloc[F](b)
}

// validateBindings checks a rig before it is attached to a blender.
func validateBindings(b *Bindings) error {
	if b == nil {
		return fmt.Errorf("%w: bindings are nil", ErrInvalidConfig)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// checkStream verifies that s is a buffer of the rig's stream size.
func checkStream[F Float](name string, s Stream[F], b *Bindings) error {
	if s.IsNull() {
		return fmt.Errorf("%w: %s is not bound", ErrStreamSizeMismatch, name)
	}
	if len(s.Data()) != b.StreamSize() || *s.Bindings() != *b {
		return fmt.Errorf("%w: %s has %d slots, rig needs %d", ErrStreamSizeMismatch, name, len(s.Data()), b.StreamSize())
	}
	return nil
}
