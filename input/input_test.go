package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMovementYaw(t *testing.T) {
	cases := []struct {
		name string
		in   DirectionalInput
		want float32
	}{
		{"none", None, 0},
		{"forward", Forwards, 0},
		{"forward left", DirectionalInput{Forward: true, Left: true}, -45},
		{"forward right", DirectionalInput{Forward: true, Right: true}, 45},
		{"forward both strafe", DirectionalInput{Forward: true, Left: true, Right: true}, 0},
		{"left only", LeftOnly, -90},
		{"right only", RightOnly, 90},
		{"backward", Backwards, 180},
		{"backward right", DirectionalInput{Backward: true, Right: true}, 135},
		{"backward left", DirectionalInput{Backward: true, Left: true}, 225},
		{"forward and backward", DirectionalInput{Forward: true, Backward: true, Left: true}, -90},
	}
	for _, c := range cases {
		if got := MovementYaw(0, c.in); got != c.want {
			t.Fatalf("%s: expected yaw %v, got %v", c.name, c.want, got)
		}
	}
}

func TestInvert(t *testing.T) {
	d := DirectionalInput{Forward: true, Left: true}
	if inv := d.Invert(); inv != (DirectionalInput{Backward: true, Right: true}) {
		t.Fatalf("expected backward and right, got %+v", inv)
	}
	if inv := None.Invert(); inv != None {
		t.Fatalf("expected no keys to stay no keys, got %+v", inv)
	}
	if back := d.Invert().Invert(); back != d {
		t.Fatalf("expected inverting twice to restore the keys, got %+v", back)
	}
	// Inverted keys move the other way.
	if got := MovementYaw(0, d.Invert()); got != MovementYaw(0, d)+180 {
		t.Fatalf("expected inverted keys to turn around, got %v", got)
	}
}

func TestStrafeVelocity(t *testing.T) {
	cases := []struct {
		name string
		yaw  float32
		want mgl64.Vec3
	}{
		{"towards +Z", 0, mgl64.Vec3{0, 0, 0.2}},
		{"towards -X", 90, mgl64.Vec3{-0.2, 0, 0}},
		{"towards +X", MovementYaw(0, LeftOnly), mgl64.Vec3{0.2, 0, 0}},
		{"towards -Z", MovementYaw(0, Backwards), mgl64.Vec3{0, 0, -0.2}},
	}
	for _, c := range cases {
		got := StrafeVelocity(0.2, c.yaw)
		for i := range 3 {
			if math.Abs(got[i]-c.want[i]) > 1e-9 {
				t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
			}
		}
	}
}

func TestDirectionalInputForDegrees(t *testing.T) {
	if d := DirectionalInputForDegrees(None, 0, DefaultDeadAngle); d != Forwards {
		t.Fatalf("expected 0 degrees to press forward, got %+v", d)
	}
	if d := DirectionalInputForDegrees(None, 45, DefaultDeadAngle); d != (DirectionalInput{Forward: true, Right: true}) {
		t.Fatalf("expected 45 degrees to press forward and right, got %+v", d)
	}
	if d := DirectionalInputForDegrees(None, -90, DefaultDeadAngle); d != LeftOnly {
		t.Fatalf("expected -90 degrees to press left, got %+v", d)
	}
	if d := DirectionalInputForDegrees(None, 179, DefaultDeadAngle); d != Backwards {
		t.Fatalf("expected 179 degrees to press backward, got %+v", d)
	}
	// 80 degrees sits in the dead zone between forward and sideways-only.
	if d := DirectionalInputForDegrees(None, 80, DefaultDeadAngle); d != RightOnly {
		t.Fatalf("expected 80 degrees to press only right, got %+v", d)
	}
}

func TestInputUpdate(t *testing.T) {
	in := New(DirectionalInput{Forward: true, Left: true}, false, false, false)
	in.Update()
	if in.MovementForward != 1 || in.MovementSideways != 1 {
		t.Fatalf("expected full axes, got forward=%v sideways=%v", in.MovementForward, in.MovementSideways)
	}

	in = New(DirectionalInput{Backward: true, Right: true}, false, false, true)
	in.Update()
	if in.MovementForward != float32(-0.3) || in.MovementSideways != float32(-0.3) {
		t.Fatalf("expected sneaking to scale axes by 0.3, got forward=%v sideways=%v", in.MovementForward, in.MovementSideways)
	}

	in = New(DirectionalInput{Forward: true, Backward: true, Left: true, Right: true}, false, false, false)
	in.Update()
	if in.MovementForward != 0 || in.MovementSideways != 0 {
		t.Fatalf("expected opposite keys to cancel, got forward=%v sideways=%v", in.MovementForward, in.MovementSideways)
	}
}

func TestGuess(t *testing.T) {
	in := Guess(Observation{
		Position:     mgl64.Vec3{0, 64, 0.25},
		LastPosition: mgl64.Vec3{0, 64, 0},
		Yaw:          0,
		OnGround:     true,
	})
	if in.Source != Inferred {
		t.Fatalf("expected guessed input to be tagged as inferred")
	}
	if in.Directional != Forwards || !in.Sprinting || in.Jumping {
		t.Fatalf("expected fast forward movement to guess forward sprint, got %v", in)
	}

	in = Guess(Observation{
		Position:     mgl64.Vec3{0.03, 64, 0},
		LastPosition: mgl64.Vec3{0, 64, 0},
		OnGround:     false,
	})
	if in.Directional.IsMoving() || in.Sprinting {
		t.Fatalf("expected slow movement to guess no keys, got %v", in)
	}
	if !in.Jumping {
		t.Fatalf("expected an airborne actor to be guessed as jumping")
	}

	in = Guess(Observation{
		Position:     mgl64.Vec3{0.1, 64, 0},
		LastPosition: mgl64.Vec3{0, 64, 0},
		Yaw:          0,
		OnGround:     true,
		Sneaking:     true,
	})
	if in.Directional != LeftOnly || in.Sprinting || !in.Sneaking {
		t.Fatalf("expected walking towards +X at yaw 0 to guess left strafing, got %v", in)
	}
}

func TestGuessDeadAngle(t *testing.T) {
	o := Observation{
		Position:     mgl64.Vec3{-0.1, 0, 0.2},
		LastPosition: mgl64.Vec3{},
		OnGround:     true,
	}
	if in := GuessWithDeadAngle(o, 0); in.Directional != (DirectionalInput{Forward: true, Right: true}) {
		t.Fatalf("expected forward and right without a dead zone, got %v", in)
	}
	if in := GuessWithDeadAngle(o, 40); in.Directional != Forwards {
		t.Fatalf("expected only forward with a wide dead zone, got %v", in)
	}
}
