package curve

// WeightAccumulator ramps a weight toward 1 while its target is true and
// toward 0 while it is false, covering the full range in Duration seconds.
// A reversal mid-ramp continues from the current weight.
type WeightAccumulator struct {
	weight   float64
	duration float64
}

// NewWeightAccumulator creates an accumulator at weight 0.
// A non-positive duration makes the weight jump straight to its target.
func NewWeightAccumulator(duration float64) *WeightAccumulator {
	return &WeightAccumulator{duration: duration}
}

// SetDuration changes the ramp duration without touching the current weight.
func (a *WeightAccumulator) SetDuration(duration float64) {
	a.duration = duration
}

// Weight returns the current weight.
func (a *WeightAccumulator) Weight() float64 {
	return a.weight
}

// Reset places the weight at w, clamped to [0, 1].
func (a *WeightAccumulator) Reset(w float64) {
	a.weight = min(max(w, 0), 1)
}

// Update advances the weight by deltaTime toward target and returns it.
func (a *WeightAccumulator) Update(target bool, deltaTime float64) float64 {
	goal := 0.0
	if target {
		goal = 1
	}
	if a.duration <= 0 {
		a.weight = goal
		return a.weight
	}

	step := deltaTime / a.duration
	if !target {
		step = -step
	}
	a.weight = min(max(a.weight+step, 0), 1)
	return a.weight
}
