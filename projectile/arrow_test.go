package projectile

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

type mockWorld map[cube.Pos][]cube.BBox

func (w mockWorld) BlockCollisions(pos cube.Pos) []cube.BBox {
	return w[pos]
}

type mockTarget struct {
	id        uint64
	bb        cube.BBox
	dead      bool
	spectator bool
	vehicle   *uint64
}

func (m mockTarget) ID() uint64      { return m.id }
func (m mockTarget) BBox() cube.BBox { return m.bb }
func (m mockTarget) Alive() bool     { return !m.dead }
func (m mockTarget) Spectator() bool { return m.spectator }
func (m mockTarget) Pickable() bool  { return true }

func (m mockTarget) VehicleID() (uint64, bool) {
	if m.vehicle == nil {
		return 0, false
	}
	return *m.vehicle, true
}

type mockEntities []Target

func (m mockEntities) NearbyTargets(bb cube.BBox) []Target {
	var targets []Target
	for _, t := range m {
		if t.BBox().IntersectsWith(bb) {
			targets = append(targets, t)
		}
	}
	return targets
}

func testWorld() mockWorld {
	return mockWorld{cube.Pos{0, 5, 3}: {cube.Box(0, 0, 0, 1, 1, 1)}}
}

func testTarget() mockTarget {
	return mockTarget{id: 1, bb: cube.Box(0.2, 4.5, 1.5, 0.8, 6.3, 2.1)}
}

func TestArrowHitsBlock(t *testing.T) {
	a := NewArrow(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{0, 0, 3}, testWorld(), nil)

	hit, ok := a.Tick()
	if !ok {
		t.Fatalf("expected arrow to hit the block")
	}
	if hit.Kind != HitBlock || hit.BlockPos != (cube.Pos{0, 5, 3}) {
		t.Fatalf("expected block hit at %v, got %+v", cube.Pos{0, 5, 3}, hit)
	}
	if math.Abs(hit.Position[2]-3) > 1e-9 {
		t.Fatalf("expected hit on the block face at z=3, got %v", hit.Position)
	}
	if !a.InGround || a.Position != hit.Position {
		t.Fatalf("expected arrow to stop at the hit position")
	}
	if _, ok := a.Tick(); ok {
		t.Fatalf("expected an arrow in the ground not to hit again")
	}
}

func TestArrowEntityCloserThanBlock(t *testing.T) {
	a := NewArrow(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{0, 0, 3}, testWorld(), mockEntities{testTarget()})

	hit, ok := a.Tick()
	if !ok || hit.Kind != HitEntity {
		t.Fatalf("expected arrow to hit the entity, got %+v", hit)
	}
	if hit.Target.ID() != 1 {
		t.Fatalf("expected target 1, got %d", hit.Target.ID())
	}
	if math.Abs(hit.Position[2]-1.2) > 1e-9 {
		t.Fatalf("expected hit on the grown entity box at z=1.2, got %v", hit.Position)
	}
}

func TestArrowIgnoresSpectators(t *testing.T) {
	target := testTarget()
	target.spectator = true
	a := NewArrow(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{0, 0, 3}, testWorld(), mockEntities{target})

	hit, ok := a.Tick()
	if !ok || hit.Kind != HitBlock {
		t.Fatalf("expected arrow to pass the spectator and hit the block, got %+v", hit)
	}
}

func TestArrowIgnoresSameVehicle(t *testing.T) {
	vehicle := uint64(7)
	target := testTarget()
	target.vehicle = &vehicle
	a := NewArrow(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{0, 0, 3}, testWorld(), mockEntities{target})
	a.ShooterVehicle = &vehicle

	hit, ok := a.Tick()
	if !ok || hit.Kind != HitBlock {
		t.Fatalf("expected arrow to skip a passenger of the shooter's vehicle, got %+v", hit)
	}
}

func TestArrowFlight(t *testing.T) {
	a := NewArrow(mgl64.Vec3{0, 100, 0}, mgl64.Vec3{1, 0, 0}, mockWorld{}, nil)
	if _, ok := a.Tick(); ok {
		t.Fatalf("expected no hit in open air")
	}
	if a.Position != (mgl64.Vec3{1, 100, 0}) {
		t.Fatalf("expected arrow to move by its velocity before drag, got %v", a.Position)
	}
	if want := (mgl64.Vec3{0.99, -0.05000000074505806, 0}); a.Velocity != want {
		t.Fatalf("expected velocity %v after drag and gravity, got %v", want, a.Velocity)
	}
}

func TestArrowSimulate(t *testing.T) {
	a := NewArrow(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{0, 0, 1}, testWorld(), nil)
	path, hit, ok := a.Simulate(10)
	if !ok || hit.Kind != HitBlock {
		t.Fatalf("expected arrow to land on the block within 10 ticks")
	}
	if len(path) != 3 {
		t.Fatalf("expected the arrow to land on its third tick, got %d ticks", len(path))
	}
}
