package simulation

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

// minFluidPush is the smallest push a fluid applies to an almost still body.
const minFluidPush = 0.0045000000000000005

// refreshFluidState measures the fluids around the player and updates its swimming state.
func (p *SimulatedPlayer) refreshFluidState() {
	p.checkWaterState()
	p.updateMovementInFluid(FluidLava, game.LavaPushSpeed)
	p.updateSubmergedInWaterState()
	p.updateSwimming()
}

func (p *SimulatedPlayer) checkWaterState() {
	if p.body.IgnoresFluids {
		p.touchingWater = false
		return
	}
	if p.updateMovementInFluid(FluidWater, game.WaterPushSpeed) {
		p.fallDistance = 0
		p.touchingWater = true
		return
	}
	p.touchingWater = false
}

// updateMovementInFluid pushes the player along the flow of the fluids with the tag passed and records the
// height of the fluid at the player. It returns true if the player touches such a fluid.
func (p *SimulatedPlayer) updateMovementInFluid(tag FluidTag, speed float64) bool {
	w := p.env.World
	if w == nil || !p.regionLoaded(p.bbox.Grow(1)) {
		return false
	}

	box := p.bbox.Grow(-0.001)
	min, max := box.Min(), box.Max()
	minX, minY, minZ := int(math.Floor(min[0])), int(math.Floor(min[1])), int(math.Floor(min[2]))
	maxX, maxY, maxZ := int(math.Ceil(max[0])), int(math.Ceil(max[1])), int(math.Ceil(max[2]))

	var (
		height   float64
		touching bool
		flow     mgl64.Vec3
		count    int
	)
	for x := minX; x < maxX; x++ {
		for y := minY; y < maxY; y++ {
			for z := minZ; z < maxZ; z++ {
				fluid := w.Fluid(cube.Pos{x, y, z})
				if !fluid.Tags.Has(tag) {
					continue
				}
				top := float64(float32(y) + fluid.Height)
				if top < min[1] {
					continue
				}
				touching = true
				height = math.Max(top-min[1], height)

				f := fluid.Flow
				if height < 0.4 {
					f = f.Mul(height)
				}
				flow = flow.Add(f)
				count++
			}
		}
	}

	if flow.Len() > 0 {
		if count > 0 {
			flow = flow.Mul(1 / float64(count))
		}
		flow = flow.Mul(speed)
		if math.Abs(p.vel[0]) < game.NearZeroVelocity && math.Abs(p.vel[2]) < game.NearZeroVelocity && flow.Len() < minFluidPush {
			flow = flow.Normalize().Mul(minFluidPush)
		}
		p.vel = p.vel.Add(flow)
	}

	p.fluidHeight[tag] = height
	return touching
}

// regionLoaded returns true if every chunk the box touches is loaded.
func (p *SimulatedPlayer) regionLoaded(box cube.BBox) bool {
	min, max := box.Min(), box.Max()
	minX, minZ := int32(math.Floor(min[0]))>>4, int32(math.Floor(min[2]))>>4
	maxX, maxZ := int32(math.Ceil(max[0]))>>4, int32(math.Ceil(max[2]))>>4
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			if !p.env.World.IsChunkLoaded(x, z) {
				return false
			}
		}
	}
	return true
}

// updateSubmergedInWaterState records which fluids cover the player's eyes.
func (p *SimulatedPlayer) updateSubmergedInWaterState() {
	p.underwater = p.fluidOnEyes.Has(FluidWater)
	p.fluidOnEyes = 0
	if p.env.World == nil {
		return
	}

	eye := p.pos[1] + p.body.EyeHeight - game.EyeFluidOffset
	pos := cube.PosFromVec3(mgl64.Vec3{p.pos[0], eye, p.pos[2]})
	fluid := p.env.World.Fluid(pos)
	if fluid.Empty() {
		return
	}
	if top := float64(float32(pos.Y()) + fluid.Height); top > eye {
		p.fluidOnEyes = fluid.Tags
	}
}

func (p *SimulatedPlayer) updateSwimming() {
	if p.swimming {
		p.swimming = p.sprinting && p.touchingWater && !p.body.Passenger
		return
	}
	p.swimming = p.sprinting && p.underwater && p.touchingWater && !p.body.Passenger &&
		p.fluid(cube.PosFromVec3(p.pos)).Tags.Has(FluidWater)
}

func (p *SimulatedPlayer) fluid(pos cube.Pos) FluidState {
	if p.env.World == nil {
		return FluidState{}
	}
	return p.env.World.Fluid(pos)
}

func (p *SimulatedPlayer) isInLava() bool {
	return p.fluidHeight[FluidLava] > 0
}

// containsAnyLiquid returns true if any block the box touches holds a fluid.
func (p *SimulatedPlayer) containsAnyLiquid(box cube.BBox) bool {
	if p.env.World == nil {
		return false
	}
	min, max := box.Min(), box.Max()
	for x := int(math.Floor(min[0])); x < int(math.Ceil(max[0])); x++ {
		for y := int(math.Floor(min[1])); y < int(math.Ceil(max[1])); y++ {
			for z := int(math.Floor(min[2])); z < int(math.Ceil(max[2])); z++ {
				if !p.env.World.Fluid(cube.Pos{x, y, z}).Empty() {
					return true
				}
			}
		}
	}
	return false
}

// doesNotCollide returns true if the player's box moved by offset neither collides nor touches a fluid.
func (p *SimulatedPlayer) doesNotCollide(offset mgl64.Vec3) bool {
	box := p.bbox.Translate(offset)
	return noCollision(p.env.World, box) && !p.containsAnyLiquid(box)
}
