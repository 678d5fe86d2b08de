package engine

// Export internal functions for testing.
// This file uses the _test.go suffix so it's only included in test builds.

// QuinticDecay wraps quinticDecay for testing.
func QuinticDecay(x0, xPrev, deltaTime, duration float64) Coefficients {
	return quinticDecay(x0, xPrev, deltaTime, duration)
}

// SignedDecay wraps signedDecay for testing.
func SignedDecay(x0, xPrev, deltaTime, duration float64) Coefficients {
	return signedDecay(x0, xPrev, deltaTime, duration)
}

// IndexTagPast wraps indexTagPast for testing.
func IndexTagPast(t float64, tags []Tag) int {
	return indexTagPast(t, tags)
}

// WeightForIndex wraps weightForIndex for testing.
func WeightForIndex(thresholds []float64, index int, blend float64) float64 {
	return weightForIndex(thresholds, index, blend)
}
