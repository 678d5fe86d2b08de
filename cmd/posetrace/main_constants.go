package main

// Default command-line flag values
const (
	defaultTickRate  = 60   // Ticks per second (trace sample rate)
	defaultSeconds   = 3.0  // Simulated time
	defaultSwitchAt  = 1.0  // Seconds until the transition condition flips
	defaultDuration  = 0.5  // Transition length in seconds
	defaultRigs      = 1    // Rigs evaluated per tick
	minRequiredArgs  = 1    // Output path
	maxTraceChannels = 64   // WAV channel limit for one trace
	defaultRange     = 4.0  // Trace values are clamped to [-range, range]
	minTickRate      = 1    // Slowest accepted tick rate
	maxTickRate      = 8000 // Fastest accepted tick rate
)

// WAV trace format
const (
	traceBitDepth  = 32
	wavFormatPCM   = 1
	maxInt32       = 2147483647.0
	stereoChannels = 2
)

// Synthetic motion parameters
const (
	idleSwayHz      = 0.5 // Idle sway frequency
	walkStrideHz    = 1.5 // Walk stride frequency
	walkOffset      = 2.0 // Walk pose offset along X
	swayAmplitude   = 0.3
	strideAmplitude = 0.5
)

// Scenario names
const (
	modeTransition = "transition"
	modeCompare    = "compare"
	modeSync       = "sync"
	modeDirection  = "direction"
)

// Direction sweep bounds, slightly past the clamped range on both ends
const (
	directionSweepFrom = -0.5
	directionSweepTo   = 4.5
)
