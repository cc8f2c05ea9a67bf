package input

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

// Source describes where an Input came from.
type Source uint8

const (
	// Authoritative inputs are the actual keys of the local actor.
	Authoritative Source = iota
	// Inferred inputs were guessed from another actor's observed movement.
	Inferred
)

const (
	// maxWalkingSpeed is the horizontal speed per tick above which an observed actor is assumed to sprint.
	maxWalkingSpeed = 0.121
	// minMovingSpeed is the horizontal speed per tick below which an observed actor is assumed to hold no keys.
	minMovingSpeed = 0.05
	// DefaultDeadAngle is the dead zone used when mapping an observed angle to keys.
	DefaultDeadAngle = 20
)

// Input is the input a simulated actor holds for a tick.
type Input struct {
	Directional DirectionalInput

	Jumping   bool
	Sprinting bool
	Sneaking  bool

	// IgnoreLedgeClip disables the sneak ledge clip even while sneaking.
	IgnoreLedgeClip bool
	// ForceSafeWalk applies the ledge clip even while not sneaking.
	ForceSafeWalk bool

	Source Source

	// MovementForward and MovementSideways are derived by Update.
	MovementForward  float32
	MovementSideways float32
}

// New returns an authoritative input for the keys passed.
func New(d DirectionalInput, jumping, sprinting, sneaking bool) Input {
	return Input{
		Directional: d,
		Jumping:     jumping,
		Sprinting:   sprinting,
		Sneaking:    sneaking,
		Source:      Authoritative,
	}
}

// Update recomputes the movement axes from the held keys.
func (in *Input) Update() {
	d := in.Directional
	in.MovementForward = 0
	if d.Forward != d.Backward {
		if d.Forward {
			in.MovementForward = 1
		} else {
			in.MovementForward = -1
		}
	}

	in.MovementSideways = 0
	if d.Left != d.Right {
		if d.Left {
			in.MovementSideways = 1
		} else {
			in.MovementSideways = -1
		}
	}

	if in.Sneaking {
		in.MovementSideways = float32(float64(in.MovementSideways) * 0.3)
		in.MovementForward = float32(float64(in.MovementForward) * 0.3)
	}
}

// Vector returns the local movement vector (sideways, 0, forward) fed to travel, scaled by 0.98.
func (in Input) Vector() mgl64.Vec3 {
	return mgl64.Vec3{float64(in.MovementSideways) * 0.98, 0, float64(in.MovementForward) * 0.98}
}

func (in Input) String() string {
	return fmt.Sprintf(
		"Input(forward=%v, backward=%v, left=%v, right=%v, jumping=%v, sprinting=%v, sneaking=%v, inferred=%v)",
		in.Directional.Forward, in.Directional.Backward, in.Directional.Left, in.Directional.Right,
		in.Jumping, in.Sprinting, in.Sneaking, in.Source == Inferred,
	)
}

// Observation is what can be seen of another actor from the outside.
type Observation struct {
	Position     mgl64.Vec3
	LastPosition mgl64.Vec3
	Yaw          float32
	OnGround     bool
	Sneaking     bool
}

// Guess infers the input another actor most likely held during its last tick from its position delta.
func Guess(o Observation) Input {
	return GuessWithDeadAngle(o, DefaultDeadAngle)
}

// GuessWithDeadAngle is Guess with a custom dead zone, in degrees, around the diagonals.
func GuessWithDeadAngle(o Observation, deadAngle float32) Input {
	velocity := o.Position.Sub(o.LastPosition)
	hz := game.Vec3HzDistSqr(velocity)

	d := None
	if hz > minMovingSpeed*minMovingSpeed {
		angle := game.WrapDegrees(DegreesRelativeToView(velocity, o.Yaw))
		d = DirectionalInputForDegrees(None, angle, deadAngle)
	}

	in := New(d, !o.OnGround, hz >= maxWalkingSpeed*maxWalkingSpeed, o.Sneaking)
	in.Source = Inferred
	return in
}
