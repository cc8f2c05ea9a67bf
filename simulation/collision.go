package simulation

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

// clipSwept shortens a movement of delta along axis so that moving stops at the face of stationary. The
// movement is left alone if the boxes are apart on another axis, already overlap, or move away from each
// other. Gaps within 1e-7 count as touching.
func clipSwept(stationary, moving cube.BBox, axis int, delta float64) float64 {
	if stationary.Min() == stationary.Max() {
		return delta
	}
	for i := range 3 {
		if i != axis && (moving.Max()[i]-stationary.Min()[i] <= 1e-7 || stationary.Max()[i]-moving.Min()[i] <= 1e-7) {
			return delta
		}
	}

	before := snapZero(moving.Max()[axis] - stationary.Min()[axis])
	after := snapZero(stationary.Max()[axis] - moving.Min()[axis])
	switch {
	case before <= 0 && before+delta > 0:
		return -before
	case before > 0 && after <= 0 && after-delta > 0:
		return after
	}
	return delta
}

func snapZero(v float64) float64 {
	if math.Abs(v) <= 1e-7 {
		return 0
	}
	return v
}

// collide clips movement of bb against the world. Boxes already overlapping bb are ignored.
func collide(w WorldProvider, bb cube.BBox, movement mgl64.Vec3) mgl64.Vec3 {
	if w == nil || movement.LenSqr() == 0 {
		return movement
	}
	boxes := w.GetNearbyBBoxes(bb.Extend(movement))
	if len(boxes) == 0 {
		return movement
	}
	return collideWithBoxes(boxes, bb, movement)
}

// collideWithBoxes clips movement one axis at a time: Y first, then whichever horizontal axis moves less,
// then the other one.
func collideWithBoxes(boxes []cube.BBox, bb cube.BBox, movement mgl64.Vec3) mgl64.Vec3 {
	x, y, z := movement[0], movement[1], movement[2]
	if y != 0 {
		y = clipAxis(boxes, bb, 1, y)
		if y != 0 {
			bb = bb.Translate(mgl64.Vec3{0, y, 0})
		}
	}

	zFirst := math.Abs(x) < math.Abs(z)
	if zFirst && z != 0 {
		z = clipAxis(boxes, bb, 2, z)
		if z != 0 {
			bb = bb.Translate(mgl64.Vec3{0, 0, z})
		}
	}
	if x != 0 {
		x = clipAxis(boxes, bb, 0, x)
		if !zFirst && x != 0 {
			bb = bb.Translate(mgl64.Vec3{x, 0, 0})
		}
	}
	if !zFirst && z != 0 {
		z = clipAxis(boxes, bb, 2, z)
	}
	return mgl64.Vec3{x, y, z}
}

func clipAxis(boxes []cube.BBox, bb cube.BBox, axis int, delta float64) float64 {
	for _, box := range boxes {
		delta = clipSwept(box, bb, axis, delta)
		if math.Abs(delta) < 1e-7 {
			return 0
		}
	}
	return delta
}

// noCollision returns true if bb does not intersect any collision box in the world.
func noCollision(w WorldProvider, bb cube.BBox) bool {
	return w == nil || len(w.GetNearbyBBoxes(bb)) == 0
}

// adjustMovementForCollisions clips movement against the world, stepping up onto ledges no higher than
// the step height when a horizontal clip happened while grounded.
func (p *SimulatedPlayer) adjustMovementForCollisions(movement mgl64.Vec3) mgl64.Vec3 {
	w := p.env.World
	box := p.body.BoundingBox(p.pos)

	adjusted := collide(w, box, movement)
	clipX := movement[0] != adjusted[0]
	clipY := movement[1] != adjusted[1]
	clipZ := movement[2] != adjusted[2]
	grounded := p.onGround || (clipY && movement[1] < 0)

	step := p.attribute(AttributeStepHeight)
	if step <= 0 || !grounded || (!clipX && !clipZ) {
		return adjusted
	}

	stepped := collide(w, box, mgl64.Vec3{movement[0], step, movement[2]})
	lift := collide(w, box.Extend(mgl64.Vec3{movement[0], 0, movement[2]}), mgl64.Vec3{0, step, 0})
	lifted := collide(w, box.Translate(lift), mgl64.Vec3{movement[0], 0, movement[2]}).Add(lift)
	if lift[1] < step && game.Vec3HzDistSqr(lifted) > game.Vec3HzDistSqr(stepped) {
		stepped = lifted
	}

	if game.Vec3HzDistSqr(stepped) > game.Vec3HzDistSqr(adjusted) {
		settle := collide(w, box.Translate(stepped), mgl64.Vec3{0, -stepped[1] + movement[1], 0})
		return stepped.Add(settle)
	}
	return adjusted
}

// clipAtLedge shrinks the horizontal part of movement in 0.05 steps until the body would still have
// ground below it. The shrunk movement is only returned when the input asks for safe walking, but the
// clip is always recorded in clipLedged.
func (p *SimulatedPlayer) clipAtLedge(movement mgl64.Vec3) mgl64.Vec3 {
	if p.body.Flying || movement[1] > 0 || !p.isAboveGround() {
		return movement
	}

	w := p.env.World
	bb := p.bbox
	dx, dz := movement[0], movement[2]

	for dx != 0 && noCollision(w, bb.Translate(mgl64.Vec3{dx, -game.LedgeProbeDepth, 0})) {
		dx = shrinkTowardsZero(dx)
	}
	for dz != 0 && noCollision(w, bb.Translate(mgl64.Vec3{0, -game.LedgeProbeDepth, dz})) {
		dz = shrinkTowardsZero(dz)
	}
	for dx != 0 && dz != 0 && noCollision(w, bb.Translate(mgl64.Vec3{dx, -game.LedgeProbeDepth, dz})) {
		dx = shrinkTowardsZero(dx)
		dz = shrinkTowardsZero(dz)
	}

	if movement[0] != dx || movement[2] != dz {
		p.clipLedged = true
	}
	if p.shouldClipAtLedge() {
		movement[0], movement[2] = dx, dz
	}
	return movement
}

func shrinkTowardsZero(v float64) float64 {
	const offset = 0.05
	if v < offset && v >= -offset {
		return 0
	}
	if v > 0 {
		return v - offset
	}
	return v + offset
}

func (p *SimulatedPlayer) shouldClipAtLedge() bool {
	return !p.input.IgnoreLedgeClip && (p.input.Sneaking || p.input.ForceSafeWalk)
}

// isAboveGround returns true if the body stands on ground or is less than the ledge probe depth above it.
func (p *SimulatedPlayer) isAboveGround() bool {
	if p.onGround {
		return true
	}
	return p.fallDistance < game.LedgeProbeDepth &&
		!noCollision(p.env.World, p.bbox.Translate(mgl64.Vec3{0, p.fallDistance - game.LedgeProbeDepth, 0}))
}

// move moves the player by movement, resolving collisions and updating the collision flags, fall distance
// and velocity.
func (p *SimulatedPlayer) move(movement mgl64.Vec3) {
	movement = p.clipAtLedge(movement)
	adjusted := p.adjustMovementForCollisions(movement)

	if adjusted.LenSqr() > 1e-7 {
		p.pos = p.pos.Add(adjusted)
		p.bbox = p.body.BoundingBox(p.pos)
	}

	xCollision := !game.ApproxEqual(movement[0], adjusted[0])
	zCollision := !game.ApproxEqual(movement[2], adjusted[2])
	p.horizontalCollision = xCollision || zCollision
	p.verticalCollision = movement[1] != adjusted[1]
	p.onGround = p.verticalCollision && movement[1] < 0

	if !p.touchingWater {
		p.checkWaterState()
	}

	if p.onGround {
		p.fallDistance = 0
	} else if movement[1] < 0 {
		p.fallDistance -= float64(float32(movement[1]))
	}

	if p.horizontalCollision || p.verticalCollision {
		vel := p.vel
		if xCollision {
			vel[0] = 0
		}
		if p.onGround {
			vel[1] = 0
		}
		if zCollision {
			vel[2] = 0
		}
		p.vel = vel
	}
}
