package game

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

func TestMCSinTable(t *testing.T) {
	if MCSin(0) != 0 {
		t.Fatalf("expected sin(0) to be 0, got %v", MCSin(0))
	}
	if MCCos(0) != 1 {
		t.Fatalf("expected cos(0) to be 1, got %v", MCCos(0))
	}
	if math.Abs(float64(MCSin(math.Pi/2))-1) > 1e-6 {
		t.Fatalf("expected sin(pi/2) to be 1, got %v", MCSin(math.Pi/2))
	}
	if math.Abs(float64(MCSin(-math.Pi/2))+1) > 1e-6 {
		t.Fatalf("expected sin(-pi/2) to be -1, got %v", MCSin(-math.Pi/2))
	}
}

func TestMCSinFloat32Scale(t *testing.T) {
	// Just below index 32768 with the float32 scale, just above it with the float64 literal.
	val := (32768 - 0.0001) / 10430.3779296875
	if got, want := MCSin(val), sinTable[32767]; got != want {
		t.Fatalf("expected sin table index 32767 (%v), got %v", want, got)
	}
	if sinScale != 10430.3779296875 {
		t.Fatalf("expected the float32 scale 10430.3779296875, got %v", sinScale)
	}
}

func TestRotationVector(t *testing.T) {
	look := RotationVector(0, 0)
	if math.Abs(look.Z()-1) > 1e-6 || math.Abs(look.X()) > 1e-6 || math.Abs(look.Y()) > 1e-6 {
		t.Fatalf("expected yaw 0 to look towards +Z, got %v", look)
	}

	look = RotationVector(0, 90)
	if math.Abs(look.X()+1) > 1e-6 {
		t.Fatalf("expected yaw 90 to look towards -X, got %v", look)
	}

	look = RotationVector(90, 0)
	if math.Abs(look.Y()+1) > 1e-6 {
		t.Fatalf("expected pitch 90 to look down, got %v", look)
	}
}

func TestInputVector(t *testing.T) {
	if v := InputVector(mgl64.Vec3{}, 0.1, 0); v != (mgl64.Vec3{}) {
		t.Fatalf("expected zero input to produce no acceleration, got %v", v)
	}

	v := InputVector(mgl64.Vec3{0, 0, 0.98}, 0.1, 0)
	if math.Abs(v.Z()-0.098) > 1e-6 || math.Abs(v.X()) > 1e-9 {
		t.Fatalf("expected forward acceleration along +Z, got %v", v)
	}

	// Inputs longer than one unit are normalised before scaling.
	v = InputVector(mgl64.Vec3{0.98, 0, 0.98}, 0.1, 0)
	if math.Abs(v.Len()-0.1) > 1e-6 {
		t.Fatalf("expected diagonal input to be normalised, got length %v", v.Len())
	}
}

func TestWrapDegrees(t *testing.T) {
	cases := map[float32]float32{
		0:    0,
		180:  -180,
		190:  -170,
		-190: 170,
		720:  0,
		-45:  -45,
	}
	for in, want := range cases {
		if got := WrapDegrees(in); got != want {
			t.Fatalf("WrapDegrees(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestSnapNearZero(t *testing.T) {
	v := SnapNearZero(mgl64.Vec3{0.0029, -0.0031, -0.0029}, NearZeroVelocity)
	if v[0] != 0 || v[2] != 0 {
		t.Fatalf("expected components under the threshold to snap, got %v", v)
	}
	if v[1] != -0.0031 {
		t.Fatalf("expected component over the threshold to be kept, got %v", v)
	}
}

func TestBlocksBetween(t *testing.T) {
	var visited []cube.Pos
	for pos := range BlocksBetween(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{3.5, 0.5, 0.5}) {
		visited = append(visited, pos)
	}
	if len(visited) != 4 {
		t.Fatalf("expected 4 blocks along the ray, got %v", visited)
	}
	for i, pos := range visited {
		if pos != (cube.Pos{i, 0, 0}) {
			t.Fatalf("expected block %d to be at x=%d, got %v", i, i, pos)
		}
	}

	visited = visited[:0]
	for pos := range BlocksBetween(mgl64.Vec3{1.5, 2.5, 1.5}, mgl64.Vec3{1.5, 2.5, 1.5}) {
		visited = append(visited, pos)
	}
	if len(visited) != 1 || visited[0] != (cube.Pos{1, 2, 1}) {
		t.Fatalf("expected a zero length ray to yield its own block, got %v", visited)
	}
}
