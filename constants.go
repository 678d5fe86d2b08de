package motionblend

import (
	"time"

	"github.com/tphakala/go-motion-blend/internal/engine"
)

// Blend defaults
const (
	// DefaultInertialDuration is the inertial blend length in seconds.
	DefaultInertialDuration = 1.0

	// DefaultCrossfadeDuration is the crossfade length in seconds.
	DefaultCrossfadeDuration = 0.3

	// DirectionCount is the number of anchor poses a DirectionMixer blends.
	DirectionCount = engine.DirectionCount
)

// Motion set limits
const (
	maxMotions      = 256 // Maximum motions in one set
	maxTagsPerClip  = 64  // Maximum synchronization tags per motion
	minNormalizedTs = 0.0
	maxNormalizedTs = 1.0
)

// Batch pool parameters
const (
	// Queue size accommodates typical rig counts per tick with headroom.
	batchQueueSize   = 256
	batchIdleTimeout = 1 * time.Second
)

// Humanoid gait tag states, in the order they occur during a walk cycle.
const (
	GaitLeftFootContact   = 1
	GaitRightFootPassover = 2
	GaitRightFootContact  = 3
	GaitLeftFootPassover  = 4
)

// HumanoidGaitName is the tag type name of the humanoid gait states.
const HumanoidGaitName = "HumanoidGait"
