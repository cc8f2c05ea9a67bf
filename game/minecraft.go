package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

// sinTable holds 65536 samples of a full sine period, matching the lookup table used by the game.
var sinTable [65536]float32

func init() {
	for i := range 65536 {
		sinTable[i] = float32(math.Sin(float64(i) * math.Pi * 2 / 65536))
	}
}

// sinScale maps radians to sin table indices. It is a float32 constant widened to float64.
var sinScale = float64(float32(10430.378))

// MCSin returns the Minecraft sin of the given angle in radians.
func MCSin(val float64) float32 {
	return sinTable[int64(val*sinScale)&65535]
}

// MCCos returns the Minecraft cos of the given angle in radians.
func MCCos(val float64) float32 {
	return sinTable[int64(val*sinScale+16384.0)&65535]
}

// RotationVector returns the unit look vector for the given pitch and yaw in degrees.
func RotationVector(pitch, yaw float32) mgl64.Vec3 {
	f := pitch * DegToRad
	g := -yaw * DegToRad

	h, i := MCCos(float64(g)), MCSin(float64(g))
	j, k := MCCos(float64(f)), MCSin(float64(f))
	return mgl64.Vec3{float64(i * j), float64(-k), float64(h * j)}
}

// InputVector converts a local movement input (sideways, up, forward) into a world space acceleration
// for the given speed and yaw.
func InputVector(input mgl64.Vec3, speed float32, yaw float32) mgl64.Vec3 {
	d := input.LenSqr()
	if d < 1e-7 {
		return mgl64.Vec3{}
	}

	vec := input
	if d > 1 {
		vec = vec.Normalize()
	}
	vec = vec.Mul(float64(speed))

	f := float64(MCSin(float64(yaw * DegToRad)))
	g := float64(MCCos(float64(yaw * DegToRad)))
	return mgl64.Vec3{
		vec[0]*g - vec[2]*f,
		vec[1],
		vec[2]*g + vec[0]*f,
	}
}

// WrapDegrees wraps an angle in degrees to [-180, 180).
func WrapDegrees(v float32) float32 {
	f := math32.Mod(v, 360)
	if f >= 180 {
		f -= 360
	}
	if f < -180 {
		f += 360
	}
	return f
}
