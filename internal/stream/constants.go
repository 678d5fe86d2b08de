package stream

// Slot counts per channel kind.
const (
	translationSlots = 3
	rotationSlots    = 4 // quaternion x, y, z, w
	scaleSlots       = 3
	floatSlots       = 1
)

// History defaults.
const (
	// DefaultHistoryDepth keeps the last two emitted poses, enough to
	// estimate a per-channel velocity at a blend trigger.
	DefaultHistoryDepth = 2
	minHistoryDepth     = 1
)
