package stream

import "github.com/tphakala/go-motion-blend/internal/simdops"

// History is a fixed-depth ring of poses. Pushing a pose overwrites the
// oldest slot, so after two pushes Pose(0) is the most recent pose and
// Pose(1) the one before it.
type History[F simdops.Float] struct {
	bindings *Bindings
	slots    [][]F
	head     int // index of the most recent pose
}

// NewHistory creates a history of the given depth with every slot holding
// the default pose.
func NewHistory[F simdops.Float](b *Bindings, depth int) *History[F] {
	if depth < minHistoryDepth {
		depth = minHistoryDepth
	}

	h := &History[F]{
		bindings: b,
		slots:    make([][]F, depth),
	}
	for i := range h.slots {
		h.slots[i] = Alloc[F](b).Data()
	}
	return h
}

// Depth returns the number of poses retained.
func (h *History[F]) Depth() int {
	return len(h.slots)
}

// Pose returns the pose pushed age ticks ago (0 = most recent).
// The returned stream aliases internal storage and is valid until the
// slot is overwritten by a later Push.
func (h *History[F]) Pose(age int) Stream[F] {
	n := len(h.slots)
	idx := ((h.head-age)%n + n) % n
	return Stream[F]{bindings: h.bindings, data: h.slots[idx]}
}

// Push records pose as the most recent entry, dropping the oldest one.
// No allocation happens: the oldest slot is reused.
func (h *History[F]) Push(pose Stream[F]) {
	h.head = (h.head + 1) % len(h.slots)
	copy(h.slots[h.head], pose.data)
}

// Reset fills every slot with the default pose.
func (h *History[F]) Reset() {
	for i := range h.slots {
		Stream[F]{bindings: h.bindings, data: h.slots[i]}.ResetToDefaultValues()
	}
	h.head = 0
}
