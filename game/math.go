package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl64.Vec3) float64 {
	return vec3.X()*vec3.X() + vec3.Z()*vec3.Z()
}

// Vec3HzDist returns the horizontal length of a vector.
func Vec3HzDist(vec3 mgl64.Vec3) float64 {
	return math.Sqrt(Vec3HzDistSqr(vec3))
}

// ApproxEqual reports whether two values are within 1e-5 of each other, using the float32 epsilon the
// game compares collision results with.
func ApproxEqual(a, b float64) bool {
	return math.Abs(b-a) < float64(float32(1e-5))
}

// SnapNearZero zeroes every component of vec whose magnitude is below threshold.
func SnapNearZero(vec mgl64.Vec3, threshold float64) mgl64.Vec3 {
	for i := range 3 {
		if math.Abs(vec[i]) < threshold {
			vec[i] = 0
		}
	}
	return vec
}

// Returns -1 if x < y, 0 if x == y, or 1 if x > y
func PHPSpaceshipOp(x, y float64) float64 {
	if x < y {
		return -1
	} else if x == y {
		return 0
	}

	return 1
}
