package projectile

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

const (
	arrowDrag      = 0.99
	arrowWaterDrag = 0.6
	arrowGravity   = 0.05000000074505806

	// arrowSearchSize is half the size of the box entities are searched in around the arrow.
	arrowSearchSize = 0.45
	// targetMargin is how much target boxes are grown by before being intercepted.
	targetMargin = 0.3
)

// World provides the block collision boxes an arrow can hit.
type World interface {
	// BlockCollisions returns the collision boxes of the block at pos, relative to the block origin.
	BlockCollisions(pos cube.Pos) []cube.BBox
}

// Target is an entity an arrow can hit.
type Target interface {
	ID() uint64
	BBox() cube.BBox
	Alive() bool
	Spectator() bool
	Pickable() bool
	// VehicleID returns the ID of the entity the target rides, if any.
	VehicleID() (uint64, bool)
}

// EntityProvider looks up the targets whose bounding box intersects bb.
type EntityProvider interface {
	NearbyTargets(bb cube.BBox) []Target
}

// HitKind is what an arrow hit.
type HitKind uint8

const (
	HitBlock HitKind = iota + 1
	HitEntity
)

// Hit describes where an arrow landed.
type Hit struct {
	Kind     HitKind
	Position mgl64.Vec3
	Face     cube.Face

	// BlockPos is set for block hits.
	BlockPos cube.Pos
	// Target is set for entity hits.
	Target Target
}

// SimulatedArrow predicts the flight of an arrow one tick at a time.
type SimulatedArrow struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	InGround bool

	// CollideEntities makes the arrow stop at entities as well as blocks.
	CollideEntities bool
	// ShooterVehicle is the vehicle the shooter rides. Passengers of the same vehicle are never hit.
	ShooterVehicle *uint64

	world    World
	entities EntityProvider
}

// NewArrow returns an arrow at pos flying with vel. entities may be nil, in which case only blocks are hit.
func NewArrow(pos, vel mgl64.Vec3, w World, entities EntityProvider) *SimulatedArrow {
	return &SimulatedArrow{
		Position:        pos,
		Velocity:        vel,
		CollideEntities: entities != nil,
		world:           w,
		entities:        entities,
	}
}

// Tick moves the arrow by one tick and returns the hit if it landed during the tick.
func (a *SimulatedArrow) Tick() (Hit, bool) {
	if a.InGround {
		return Hit{}, false
	}

	next := a.Position.Add(a.Velocity)

	drag := arrowDrag
	if a.touchingWater() {
		drag = arrowWaterDrag
	}
	a.Velocity = a.Velocity.Mul(drag)
	a.Velocity[1] -= arrowGravity

	if hit, ok := a.collision(a.Position, next); ok {
		a.Position = hit.Position
		a.InGround = true
		return hit, true
	}
	a.Position = next
	return Hit{}, false
}

// Simulate ticks the arrow until it lands or maxTicks pass. The positions after every tick are returned.
func (a *SimulatedArrow) Simulate(maxTicks int) ([]mgl64.Vec3, Hit, bool) {
	path := make([]mgl64.Vec3, 0, maxTicks)
	for range maxTicks {
		hit, ok := a.Tick()
		path = append(path, a.Position)
		if ok {
			return path, hit, true
		}
	}
	return path, Hit{}, false
}

// touchingWater is always false: arrows are not checked against fluids.
func (a *SimulatedArrow) touchingWater() bool {
	return false
}

// collision returns the hit closest to start along the segment. Block hits win ties.
func (a *SimulatedArrow) collision(start, end mgl64.Vec3) (Hit, bool) {
	blockHit, blockOK := a.blockCollision(start, end)
	if !a.CollideEntities || a.entities == nil {
		return blockHit, blockOK
	}

	entityHit, entityOK := a.entityCollision(start, end)
	switch {
	case !entityOK:
		return blockHit, blockOK
	case !blockOK:
		return entityHit, true
	}
	if entityHit.Position.Sub(start).LenSqr() < blockHit.Position.Sub(start).LenSqr() {
		return entityHit, true
	}
	return blockHit, true
}

func (a *SimulatedArrow) blockCollision(start, end mgl64.Vec3) (Hit, bool) {
	if a.world == nil {
		return Hit{}, false
	}
	for pos := range game.BlocksBetween(start, end) {
		var (
			closest trace.BBoxResult
			found   bool
			minDist = math.MaxFloat64
		)
		for _, box := range a.world.BlockCollisions(pos) {
			res, ok := trace.BBoxIntercept(box.Translate(pos.Vec3()), start, end)
			if !ok {
				continue
			}
			if dist := res.Position().Sub(start).LenSqr(); dist < minDist {
				minDist = dist
				closest = res
				found = true
			}
		}
		if found {
			return Hit{Kind: HitBlock, Position: closest.Position(), Face: closest.Face(), BlockPos: pos}, true
		}
	}
	return Hit{}, false
}

func (a *SimulatedArrow) entityCollision(start, end mgl64.Vec3) (Hit, bool) {
	search := cube.Box(
		-arrowSearchSize, -arrowSearchSize, -arrowSearchSize,
		arrowSearchSize, arrowSearchSize, arrowSearchSize,
	).Translate(start).Extend(end.Sub(start)).Grow(1)

	var (
		hit     Hit
		found   bool
		minDist = math.MaxFloat64
	)
	for _, target := range a.entities.NearbyTargets(search) {
		if !a.canHit(target) {
			continue
		}
		res, ok := trace.BBoxIntercept(target.BBox().Grow(targetMargin), start, end)
		if !ok {
			continue
		}
		if dist := res.Position().Sub(start).LenSqr(); dist < minDist {
			minDist = dist
			hit = Hit{Kind: HitEntity, Position: res.Position(), Face: res.Face(), Target: target}
			found = true
		}
	}
	return hit, found
}

func (a *SimulatedArrow) canHit(t Target) bool {
	if t.Spectator() || !t.Alive() || !t.Pickable() {
		return false
	}
	if a.ShooterVehicle == nil {
		return true
	}
	vehicle, ok := t.VehicleID()
	return !ok || vehicle != *a.ShooterVehicle
}
