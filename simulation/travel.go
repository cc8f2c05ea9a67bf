package simulation

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

const (
	waterSlowdown       = float32(0.8)
	waterSprintSlowdown = float32(0.9)
	waterEfficientDrag  = float32(0.54600006)
	dolphinsGraceDrag   = float32(0.96)
	fluidWallJump       = 0.3

	defaultMinY = -64
)

// travel moves the player for a tick with the movement input passed, picking the water, lava, glide or
// regular ground/air physics.
func (p *SimulatedPlayer) travel(movementInput mgl64.Vec3) {
	if p.swimming && !p.body.Passenger {
		g := p.rotationVector()[1]
		h := 0.06
		if g < -0.2 {
			h = 0.085
		}
		if g <= 0 || p.jumping || !p.fluid(cube.PosFromVec3(mgl64.Vec3{p.pos[0], p.pos[1] + 1.0 - 0.1, p.pos[2]})).Empty() {
			p.vel[1] += (g - p.vel[1]) * h
		}
	}

	beforeY := p.vel[1]
	d := game.NormalGravity
	falling := p.vel[1] <= 0
	if falling && p.hasEffect(EffectSlowFalling) {
		d = game.SlowFallingGravity
		p.fallDistance = 0
	}

	switch {
	case p.touchingWater && !p.body.IgnoresFluids:
		p.travelInWater(movementInput, d, falling)
	case p.isInLava() && !p.body.IgnoresFluids:
		p.travelInLava(movementInput, d, falling)
	case p.fallFlying:
		p.travelGliding(d)
	default:
		p.travelNormal(movementInput, d)
	}

	if p.body.Flying && !p.body.Passenger {
		p.vel[1] = beforeY * 0.6
		p.fallDistance = 0
	}
}

func (p *SimulatedPlayer) travelInWater(movementInput mgl64.Vec3, d float64, falling bool) {
	y0 := p.pos[1]

	f := waterSlowdown
	if p.sprinting {
		f = waterSprintSlowdown
	}
	g := game.AirStrafeSpeed
	h := float32(p.attribute(AttributeWaterMovementEfficiency))
	if !p.onGround {
		h *= 0.5
	}
	if h > 0 {
		f += (waterEfficientDrag - f) * h / 3
		g += (float32(p.attribute(AttributeMovementSpeed)) - g) * h / 3
	}
	if p.hasEffect(EffectDolphinsGrace) {
		f = dolphinsGraceDrag
	}

	p.moveRelative(movementInput, g)
	p.move(p.vel)

	vel := p.vel
	if p.horizontalCollision && p.isClimbing() {
		vel[1] = game.ClimbSpeed
	}
	vel = mgl64.Vec3{vel[0] * float64(f), vel[1] * 0.8, vel[2] * float64(f)}
	p.vel = p.fluidFallingAdjusted(d, falling, vel)

	p.fluidWallJump(y0)
}

func (p *SimulatedPlayer) travelInLava(movementInput mgl64.Vec3, d float64, falling bool) {
	y0 := p.pos[1]

	p.moveRelative(movementInput, game.AirStrafeSpeed)
	p.move(p.vel)

	if p.fluidHeight[FluidLava] <= p.body.SwimHeight() {
		p.vel = mgl64.Vec3{p.vel[0] * 0.5, p.vel[1] * 0.8, p.vel[2] * 0.5}
		p.vel = p.fluidFallingAdjusted(d, falling, p.vel)
	} else {
		p.vel = p.vel.Mul(0.5)
	}
	if !p.body.NoGravity {
		p.vel[1] -= d / 4
	}

	p.fluidWallJump(y0)
}

// fluidWallJump pushes the player up out of a fluid when it swims against a wall it can climb over.
func (p *SimulatedPlayer) fluidWallJump(y0 float64) {
	if p.horizontalCollision && p.doesNotCollide(mgl64.Vec3{p.vel[0], p.vel[1] + 0.6 - p.pos[1] + y0, p.vel[2]}) {
		p.vel[1] = fluidWallJump
	}
}

// fluidFallingAdjusted applies the reduced gravity of a body sinking in a fluid.
func (p *SimulatedPlayer) fluidFallingAdjusted(d float64, falling bool, vel mgl64.Vec3) mgl64.Vec3 {
	if p.body.NoGravity || p.sprinting {
		return vel
	}
	if falling && math.Abs(vel[1]-0.005) >= game.NearZeroVelocity && math.Abs(vel[1]-d/16) < game.NearZeroVelocity {
		vel[1] = -game.NearZeroVelocity
	} else {
		vel[1] -= d / 16
	}
	return vel
}

func (p *SimulatedPlayer) travelGliding(d float64) {
	if p.vel[1] > -0.5 {
		p.fallDistance = 1
	}

	look := p.rotationVector()
	f := p.pitch * game.DegToRad
	g := math.Sqrt(look[0]*look[0] + look[2]*look[2])
	hz := game.Vec3HzDist(p.vel)
	i := look.Len()

	j := game.MCCos(float64(f))
	j = float32(float64(j) * (float64(j) * math.Min(1, i/0.4)))

	vel := p.vel.Add(mgl64.Vec3{0, d * (-1 + float64(j)*0.75), 0})
	if vel[1] < 0 && g > 0 {
		k := vel[1] * -0.1 * float64(j)
		vel = vel.Add(mgl64.Vec3{look[0] * k / g, k, look[2] * k / g})
	}
	if f < 0 && g > 0 {
		k := hz * float64(-game.MCSin(float64(f))) * 0.04
		vel = vel.Add(mgl64.Vec3{-look[0] * k / g, k * 3.2, -look[2] * k / g})
	}
	if g > 0 {
		vel = vel.Add(mgl64.Vec3{(look[0]/g*hz - vel[0]) * 0.1, 0, (look[2]/g*hz - vel[2]) * 0.1})
	}

	p.vel = mgl64.Vec3{vel[0] * 0.99, vel[1] * 0.98, vel[2] * 0.99}
	p.move(p.vel)
}

func (p *SimulatedPlayer) travelNormal(movementInput mgl64.Vec3, d float64) {
	friction := p.block(p.velocityAffectingPos()).Friction
	f := game.DefaultAirFriction
	if p.onGround {
		f = friction * game.DefaultAirFriction
	}

	vel := p.applyMovementInput(movementInput, friction)
	q := vel[1]
	if e, ok := p.effect(EffectLevitation); ok {
		q += (game.LevitationPerLevel*float64(e.Amplifier+1) - vel[1]) * 0.2
	} else if !p.chunkLoaded() {
		if p.pos[1] > float64(p.minY()) {
			q = -0.1
		} else {
			q = 0
		}
	} else if !p.body.NoGravity {
		q -= d
	}

	if p.body.DiscardFriction {
		p.vel = mgl64.Vec3{vel[0], q, vel[2]}
		return
	}
	p.vel = mgl64.Vec3{vel[0] * float64(f), q * game.GravityMultiplier, vel[2] * float64(f)}
}

// applyMovementInput accelerates the player, applies climbing and web slowdowns and moves it. The
// resulting velocity is returned.
func (p *SimulatedPlayer) applyMovementInput(movementInput mgl64.Vec3, friction float32) mgl64.Vec3 {
	p.moveRelative(movementInput, p.movementSpeed(friction))
	p.vel = p.applyClimbingSpeed(p.vel)
	p.vel = p.applyWebSpeed(p.vel)
	p.move(p.vel)

	vel := p.vel
	if (p.horizontalCollision || p.jumping) && (p.isClimbing() || p.inWalkablePowderSnow()) {
		vel[1] = game.ClimbSpeed
	}
	return vel
}

func (p *SimulatedPlayer) movementSpeed(friction float32) float32 {
	if p.onGround {
		return float32(p.attribute(AttributeMovementSpeed)) * (game.GroundSpeedFactor / (friction * friction * friction))
	}
	if p.input.Sprinting {
		return float32(float64(game.AirStrafeSpeed) + game.SprintAirStrafeBonus)
	}
	return game.AirStrafeSpeed
}

func (p *SimulatedPlayer) applyClimbingSpeed(vel mgl64.Vec3) mgl64.Vec3 {
	if !p.isClimbing() {
		return vel
	}
	p.fallDistance = 0

	vel[0] = game.ClampFloat(vel[0], -game.ClimbMaxSpeed, game.ClimbMaxSpeed)
	vel[2] = game.ClampFloat(vel[2], -game.ClimbMaxSpeed, game.ClimbMaxSpeed)
	vel[1] = math.Max(vel[1], -game.ClimbMaxSpeed)
	if vel[1] < 0 && !p.block(cube.PosFromVec3(p.pos)).Scaffolding && p.body.SuppressLadderSlide {
		vel[1] = 0
	}
	return vel
}

func (p *SimulatedPlayer) applyWebSpeed(vel mgl64.Vec3) mgl64.Vec3 {
	if !p.block(cube.PosFromVec3(p.pos)).Web {
		return vel
	}
	if p.hasEffect(EffectWeaving) {
		return mgl64.Vec3{vel[0] * 0.5, vel[1] * 0.25, vel[2] * 0.5}
	}
	return mgl64.Vec3{vel[0] * 0.25, vel[1] * 0.05, vel[2] * 0.25}
}

// isClimbing returns true if the player is in a climbable block, or in an open trapdoor on top of a ladder
// facing the same way.
func (p *SimulatedPlayer) isClimbing() bool {
	pos := cube.PosFromVec3(p.pos)
	b := p.block(pos)
	if b.Climbable {
		return true
	}
	if !b.Trapdoor || !b.Open {
		return false
	}
	below := p.block(pos.Side(cube.FaceDown))
	return below.Ladder && below.Facing == b.Facing
}

func (p *SimulatedPlayer) inWalkablePowderSnow() bool {
	return p.body.CanWalkOnPowderSnow && p.block(cube.PosFromVec3(p.pos)).PowderSnow
}

// moveRelative accelerates the player by the movement input rotated to its yaw.
func (p *SimulatedPlayer) moveRelative(movementInput mgl64.Vec3, speed float32) {
	p.vel = p.vel.Add(game.InputVector(movementInput, speed, p.yaw))
}

func (p *SimulatedPlayer) rotationVector() mgl64.Vec3 {
	return game.RotationVector(p.pitch, p.yaw)
}

func (p *SimulatedPlayer) chunkLoaded() bool {
	if p.env.World == nil {
		return true
	}
	pos := p.velocityAffectingPos()
	return p.env.World.IsChunkLoaded(int32(pos.X()>>4), int32(pos.Z()>>4))
}

func (p *SimulatedPlayer) minY() int {
	if p.env.World == nil {
		return defaultMinY
	}
	return p.env.World.MinY()
}
