package input

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

// DirectionalInput is the state of the four movement keys.
type DirectionalInput struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

var (
	None      = DirectionalInput{}
	Forwards  = DirectionalInput{Forward: true}
	Backwards = DirectionalInput{Backward: true}
	LeftOnly  = DirectionalInput{Left: true}
	RightOnly = DirectionalInput{Right: true}
)

// IsMoving returns true if any of the movement keys are pressed.
func (d DirectionalInput) IsMoving() bool {
	return d.Forward || d.Backward || d.Left || d.Right
}

// Invert swaps forward with backward and left with right.
func (d DirectionalInput) Invert() DirectionalInput {
	return DirectionalInput{
		Forward:  d.Backward,
		Backward: d.Forward,
		Left:     d.Right,
		Right:    d.Left,
	}
}

// MovementYaw returns the yaw an actor facing facingYaw actually moves along with the given keys held.
// Strafing only turns by 45 degrees while forward or backward is also held.
func MovementYaw(facingYaw float32, d DirectionalInput) float32 {
	forwards := d.Forward && !d.Backward
	backwards := d.Backward && !d.Forward
	left := d.Left && !d.Right
	right := d.Right && !d.Left

	yaw := facingYaw
	scale := float32(1)
	if backwards {
		yaw += 180
		scale = -0.5
	} else if forwards {
		scale = 0.5
	}

	if left {
		yaw -= 90 * scale
	}
	if right {
		yaw += 90 * scale
	}
	return yaw
}

// DegreesRelativeToView returns the angle of delta relative to the view yaw, in degrees wrapped to [-180, 180).
func DegreesRelativeToView(delta mgl64.Vec3, yaw float32) float32 {
	optimal := math32.Atan2(float32(-delta.X()), float32(delta.Z()))
	current := game.WrapDegrees(yaw) * game.DegToRad
	return game.WrapDegrees((optimal - current) * (180 / math32.Pi))
}

// DirectionalInputForDegrees returns the keys that move an actor along the relative angle dgs, adding them
// to base. Angles within deadAngle of a diagonal boundary do not press the adjacent key.
func DirectionalInputForDegrees(base DirectionalInput, dgs, deadAngle float32) DirectionalInput {
	d := base
	if dgs >= -90+deadAngle && dgs <= 90-deadAngle {
		d.Forward = true
	} else if dgs < -90-deadAngle || dgs > 90+deadAngle {
		d.Backward = true
	}

	if dgs >= deadAngle && dgs <= 180-deadAngle {
		d.Right = true
	} else if dgs >= -180+deadAngle && dgs <= -deadAngle {
		d.Left = true
	}
	return d
}

// StrafeVelocity returns a horizontal velocity of the given speed along the movement yaw.
func StrafeVelocity(speed float64, yaw float32) mgl64.Vec3 {
	rad := float64(yaw) * math.Pi / 180
	return mgl64.Vec3{-math.Sin(rad) * speed, 0, math.Cos(rad) * speed}
}
