package motionblend

import (
	"fmt"

	"github.com/tphakala/go-motion-blend/internal/engine"
)

// SyncRatio locates a normalized time between the two tags that bracket it.
type SyncRatio = engine.SyncRatio

// MotionSync keeps a set of motions in phase with one shared normalized
// time. Each tick the blend parameter picks the motion weights, the weights
// pick an effective cycle length, and the shared time advances by the frame
// time over that length.
//
// A MotionSync is not safe for concurrent use.
type MotionSync struct {
	thresholds []float64
	durations  []float64
	weights    []float64

	normalizedTime    float64
	deltaRatio        float64
	effectiveDuration float64
}

// NewMotionSync creates a synchronizer for a validated motion set.
func NewMotionSync(set *MotionSet) (*MotionSync, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: motion set is nil", ErrInvalidConfig)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &MotionSync{
		thresholds: set.Thresholds(),
		durations:  set.Durations(),
		weights:    make([]float64, len(set.Motions)),
	}, nil
}

// Update advances the shared time by deltaTime seconds at blend parameter blend.
func (s *MotionSync) Update(blend, deltaTime float64) {
	engine.ThresholdWeights(blend, s.thresholds, s.weights)
	s.effectiveDuration = engine.EffectiveDuration(s.durations, s.weights)
	s.normalizedTime, s.deltaRatio = engine.AdvanceNormalizedTime(
		s.normalizedTime, deltaTime, s.effectiveDuration)
}

// Weights returns the motion weights of the last Update. The slice is
// reused by later updates.
func (s *MotionSync) Weights() []float64 { return s.weights }

// NormalizedTime returns the shared phase in [0, 1).
func (s *MotionSync) NormalizedTime() float64 { return s.normalizedTime }

// DeltaTimeRatio returns the normalized time advanced by the last Update.
func (s *MotionSync) DeltaTimeRatio() float64 { return s.deltaRatio }

// EffectiveDuration returns the weighted cycle length of the last Update.
func (s *MotionSync) EffectiveDuration() float64 { return s.effectiveDuration }

// ClipTime returns the playback position of motion i in seconds.
func (s *MotionSync) ClipTime(i int) float64 {
	return s.normalizedTime * s.durations[i]
}

// SetNormalizedTime moves the shared phase. The value is wrapped into [0, 1).
func (s *MotionSync) SetNormalizedTime(t float64) {
	s.normalizedTime = engine.Wrap(t)
}

// TagSync keeps a set of motions in phase by their synchronization tags.
// The motion with the largest weight leads: its timer advances by the frame
// time over the effective duration. Every other motion is placed at the
// same fraction of the way between its own pair of tags with the leader's
// start and end states. Motions without such a pair advance at the
// leader's rate.
//
// A TagSync is not safe for concurrent use.
type TagSync struct {
	thresholds []float64
	durations  []float64
	tags       [][]Tag
	weights    []float64
	timers     []float64
	deltas     []float64

	master            int
	ratio             SyncRatio
	effectiveDuration float64
}

// NewTagSync creates a tag synchronizer for a validated motion set. Only
// tags of the set's TagType take part.
func NewTagSync(set *MotionSet) (*TagSync, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: motion set is nil", ErrInvalidConfig)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	n := len(set.Motions)
	return &TagSync{
		thresholds: set.Thresholds(),
		durations:  set.Durations(),
		tags:       set.syncTags(),
		weights:    make([]float64, n),
		timers:     make([]float64, n),
		deltas:     make([]float64, n),
	}, nil
}

// Update advances every motion timer by deltaTime seconds at blend
// parameter blend.
func (s *TagSync) Update(blend, deltaTime float64) {
	engine.ThresholdWeights(blend, s.thresholds, s.weights)
	s.effectiveDuration = engine.EffectiveDuration(s.durations, s.weights)
	s.master = engine.MasterIndex(s.weights)

	deltaRatio := deltaTime / s.effectiveDuration
	masterTime := s.timers[s.master] + deltaRatio
	s.ratio = engine.SyncRatioAt(masterTime, s.tags[s.master])

	for i := range s.timers {
		old := s.timers[i]
		var next float64
		if i == s.master {
			next = masterTime
			s.deltas[i] = deltaRatio
		} else {
			next = engine.SyncTime(s.ratio, old, deltaRatio, s.tags[i])
			s.deltas[i] = engine.WrappedDelta(old, next)
		}
		s.timers[i] = engine.Wrap(next)
	}
}

// Weights returns the motion weights of the last Update.
func (s *TagSync) Weights() []float64 { return s.weights }

// Timers returns the normalized time of every motion, each in [0, 1).
func (s *TagSync) Timers() []float64 { return s.timers }

// DeltaTimes returns the normalized time each motion advanced by in the
// last Update.
func (s *TagSync) DeltaTimes() []float64 { return s.deltas }

// Master returns the index of the leading motion of the last Update.
func (s *TagSync) Master() int { return s.master }

// SyncRatio returns the leader's position between its bracketing tags.
func (s *TagSync) SyncRatio() SyncRatio { return s.ratio }

// EffectiveDuration returns the weighted cycle length of the last Update.
func (s *TagSync) EffectiveDuration() float64 { return s.effectiveDuration }

// ClipTime returns the playback position of motion i in seconds.
func (s *TagSync) ClipTime(i int) float64 {
	return s.timers[i] * s.durations[i]
}

// SetTimer moves the timer of motion i. The value is wrapped into [0, 1).
func (s *TagSync) SetTimer(i int, t float64) {
	s.timers[i] = engine.Wrap(t)
}
