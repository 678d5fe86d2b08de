// Package testutil provides reusable assertion helpers for blend kernel tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-motion-blend/internal/simdops"
	"gonum.org/v1/gonum/num/quat"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	WeightTolerance  = 1e-5
	PoseTolerance    = 1e-6
	Float32Tolerance = 1e-5
)

// AssertWeightsNormalized verifies that a weight vector sums to one and holds
// no negative entries.
func AssertWeightsNormalized(t *testing.T, w []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range w {
		if v < 0 {
			return assert.Fail(t, "negative weight", "w[%d]=%f", i, v)
		}
	}
	return assert.InDelta(t, 1.0, simdops.Float64Ops().Sum(w), WeightTolerance, msgAndArgs...)
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F float32 | float64](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertSlicesInDelta verifies that two slices match element-wise within delta.
func AssertSlicesInDelta[F float32 | float64](t *testing.T, expected, actual []F, delta float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, float64(expected[i]), float64(actual[i]), delta,
			"element %d differs: expected %f, actual %f", i, expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// AssertUnitQuat verifies that a quaternion has unit length.
func AssertUnitQuat(t *testing.T, q quat.Number, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDelta(t, 1.0, quat.Abs(q), tolerance, msgAndArgs...)
}

// AssertSameRotation verifies that two unit quaternions encode the same
// rotation, treating q and -q as equal.
func AssertSameRotation(t *testing.T, expected, actual quat.Number, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	dot := expected.Real*actual.Real + expected.Imag*actual.Imag +
		expected.Jmag*actual.Jmag + expected.Kmag*actual.Kmag
	return assert.InDelta(t, 1.0, math.Abs(dot), tolerance, msgAndArgs...)
}

// AssertMonotonic verifies that a slice is monotonically non-decreasing.
func AssertMonotonic(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%f < s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}
