package extrapolate

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/simulation"
)

func fallingPlayer() *simulation.SimulatedPlayer {
	state := simulation.ActorState{Position: mgl64.Vec3{0.5, 100, 0.5}, LastPosition: mgl64.Vec3{0.5, 100, 0.5}}
	return simulation.FromLocalPlayer(state, input.New(input.None, false, false, false), simulation.Environment{})
}

func TestCacheHorizonClamp(t *testing.T) {
	c := NewSimulatedPlayerCache(fallingPlayer(), DefaultHorizon)

	if far, last := c.SnapshotAt(500), c.SnapshotAt(30); far != last {
		t.Fatalf("expected a request past the horizon to equal the horizon, got %v and %v", far.Position, last.Position)
	}
	if c.Len() != 31 {
		t.Fatalf("expected 31 snapshots, got %d", c.Len())
	}
	if c.SnapshotAt(-5) != c.SnapshotAt(0) {
		t.Fatalf("expected negative ticks to clamp to the base state")
	}
}

func TestCacheLazy(t *testing.T) {
	c := NewSimulatedPlayerCache(fallingPlayer(), 0)
	if c.Horizon() != DefaultHorizon {
		t.Fatalf("expected the default horizon, got %d", c.Horizon())
	}
	if c.Len() != 1 {
		t.Fatalf("expected only the base snapshot, got %d", c.Len())
	}
	if pos := c.SnapshotAt(0).Position; pos != (mgl64.Vec3{0.5, 100, 0.5}) {
		t.Fatalf("expected the base snapshot at the start position, got %v", pos)
	}

	c.SnapshotAt(5)
	if c.Len() != 6 {
		t.Fatalf("expected 6 snapshots after requesting tick 5, got %d", c.Len())
	}

	between := c.SnapshotsBetween(2, 5)
	if len(between) != 3 {
		t.Fatalf("expected 3 snapshots in [2, 5), got %d", len(between))
	}
	for i, s := range between {
		if s.Tick != i+2 {
			t.Fatalf("expected snapshot %d to be tick %d, got %d", i, i+2, s.Tick)
		}
	}
	if c.Len() != 6 {
		t.Fatalf("expected no extra ticks to be simulated, got %d snapshots", c.Len())
	}
	if got := c.SnapshotsBetween(5, 2); got != nil {
		t.Fatalf("expected an empty range, got %d snapshots", len(got))
	}
}

func TestCacheDoesNotTouchBase(t *testing.T) {
	base := fallingPlayer()
	c := NewSimulatedPlayerCache(base, 10)
	c.SnapshotAt(10)

	if base.SimulatedTicks() != 0 || base.Position() != (mgl64.Vec3{0.5, 100, 0.5}) {
		t.Fatalf("expected the base player to be left untouched")
	}
	if c.SnapshotAt(10).Position[1] >= 100 {
		t.Fatalf("expected the cached player to fall")
	}
}
