package simulation

import (
	"maps"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
	"github.com/oomph-ac/motionsim/input"
)

// ActorState is the observed state of an actor a simulation starts from.
type ActorState struct {
	Position     mgl64.Vec3
	LastPosition mgl64.Vec3
	Velocity     mgl64.Vec3

	Yaw, Pitch float32

	OnGround            bool
	Sprinting           bool
	FallFlying          bool
	HorizontalCollision bool
	VerticalCollision   bool

	FallDistance float64
	JumpCooldown int

	TouchingWater bool
	Swimming      bool
	Underwater    bool

	Body Body
}

// SimulatedPlayer predicts the movement of a player one tick at a time. It is not safe for concurrent use:
// branch a prediction with Clone instead of sharing one.
type SimulatedPlayer struct {
	env   Environment
	body  Body
	input input.Input

	pos, vel   mgl64.Vec3
	bbox       cube.BBox
	yaw, pitch float32

	sprinting           bool
	jumping             bool
	fallFlying          bool
	onGround            bool
	horizontalCollision bool
	verticalCollision   bool

	fallDistance float64
	jumpCooldown int

	touchingWater bool
	swimming      bool
	underwater    bool
	fluidHeight   map[FluidTag]float64
	fluidOnEyes   FluidTag

	simulatedTicks int
	clipLedged     bool
}

// FromLocalPlayer creates a simulation of the local player, which knows its own velocity.
func FromLocalPlayer(state ActorState, in input.Input, env Environment) *SimulatedPlayer {
	return newSimulatedPlayer(state, state.Velocity, in, env)
}

// FromOtherPlayer creates a simulation of another player. Its velocity is unknown, so the last position
// delta is used instead.
func FromOtherPlayer(state ActorState, in input.Input, env Environment) *SimulatedPlayer {
	return newSimulatedPlayer(state, state.Position.Sub(state.LastPosition), in, env)
}

func newSimulatedPlayer(state ActorState, vel mgl64.Vec3, in input.Input, env Environment) *SimulatedPlayer {
	body := state.Body
	if body.Width == 0 || body.Height == 0 {
		body = PlayerBody()
	}
	p := &SimulatedPlayer{
		env:                 env,
		body:                body,
		input:               in,
		pos:                 state.Position,
		vel:                 vel,
		yaw:                 state.Yaw,
		pitch:               state.Pitch,
		sprinting:           state.Sprinting,
		fallFlying:          state.FallFlying,
		onGround:            state.OnGround,
		horizontalCollision: state.HorizontalCollision,
		verticalCollision:   state.VerticalCollision,
		fallDistance:        state.FallDistance,
		jumpCooldown:        state.JumpCooldown,
		touchingWater:       state.TouchingWater,
		swimming:            state.Swimming,
		underwater:          state.Underwater,
		fluidHeight:         make(map[FluidTag]float64, 2),
	}
	if state.Underwater {
		p.fluidOnEyes = FluidWater
	}
	p.bbox = body.BoundingBox(p.pos)
	return p
}

// Clone returns a deep copy of the simulation. Ticking the copy does not affect p.
func (p *SimulatedPlayer) Clone() *SimulatedPlayer {
	c := *p
	c.fluidHeight = maps.Clone(p.fluidHeight)
	if c.fluidHeight == nil {
		c.fluidHeight = make(map[FluidTag]float64, 2)
	}
	return &c
}

// Tick advances the simulation by one tick.
func (p *SimulatedPlayer) Tick() {
	p.clipLedged = false
	if p.pos[1] <= game.MinSimulatedY {
		return
	}

	p.input.Update()
	p.refreshFluidState()

	if p.jumpCooldown > 0 {
		p.jumpCooldown--
	}
	p.jumping = p.input.Jumping
	p.vel = game.SnapNearZero(p.vel, game.NearZeroVelocity)

	if p.onGround {
		p.fallFlying = false
	}
	p.resolveJump()

	if p.hasEffect(EffectSlowFalling) || p.hasEffect(EffectLevitation) {
		p.fallDistance = 0
	}

	p.travel(p.input.Vector())

	p.simulatedTicks++
	p.debugf("tick %d: pos=%v vel=%v onGround=%v fall=%v", p.simulatedTicks, p.pos, p.vel, p.onGround, p.fallDistance)
}

// resolveJump applies a swim impulse in fluids, or a jump when standing on the ground.
func (p *SimulatedPlayer) resolveJump() {
	if !p.jumping {
		return
	}

	inLava := p.isInLava()
	k := p.fluidHeight[FluidWater]
	if inLava {
		k = p.fluidHeight[FluidLava]
	}
	inWater := p.touchingWater && k > 0
	swimHeight := p.body.SwimHeight()

	switch {
	case inWater && (!p.onGround || k > swimHeight):
		p.vel[1] += game.WaterSwimImpulse
	case inLava && (!p.onGround || k > swimHeight):
		p.vel[1] += game.LavaSwimImpulse
	case (p.onGround || inWater && k <= swimHeight) && p.jumpCooldown == 0:
		p.jump()
		p.jumpCooldown = game.JumpDelayTicks
	}
}

func (p *SimulatedPlayer) jump() {
	jumpVel := game.DefaultJumpHeight*p.jumpFactor() + p.jumpBoost()
	p.vel[1] += float64(jumpVel) - p.vel[1]

	if p.sprinting {
		f := float64(p.yaw * game.DegToRad)
		p.vel[0] += float64(-game.MCSin(f) * game.SprintJumpBoost)
		p.vel[2] += float64(game.MCCos(f) * game.SprintJumpBoost)
	}
	p.debugf("jump: vel=%v", p.vel)
}

func (p *SimulatedPlayer) jumpFactor() float32 {
	f := p.block(cube.PosFromVec3(p.pos)).JumpFactor
	if f == 1 {
		return p.block(p.velocityAffectingPos()).JumpFactor
	}
	return f
}

func (p *SimulatedPlayer) jumpBoost() float32 {
	if e, ok := p.effect(EffectJumpBoost); ok {
		return game.JumpBoostPerLevel * float32(e.Amplifier+1)
	}
	return 0
}

// velocityAffectingPos returns the position of the block whose friction and factors apply to the player.
func (p *SimulatedPlayer) velocityAffectingPos() cube.Pos {
	return cube.PosFromVec3(mgl64.Vec3{p.pos[0], p.bbox.Min()[1] - 0.5000001, p.pos[2]})
}

func (p *SimulatedPlayer) block(pos cube.Pos) BlockInfo {
	if p.env.World == nil {
		return Air()
	}
	return p.env.World.Block(pos)
}

// effect returns the effect of the kind passed if it is still active at the current simulated tick.
func (p *SimulatedPlayer) effect(kind EffectKind) (EffectInstance, bool) {
	if p.env.Effects == nil {
		return EffectInstance{}, false
	}
	e, ok := p.env.Effects.Effect(kind)
	if !ok || int(e.Duration) < p.simulatedTicks {
		return EffectInstance{}, false
	}
	return e, true
}

func (p *SimulatedPlayer) hasEffect(kind EffectKind) bool {
	_, ok := p.effect(kind)
	return ok
}

func (p *SimulatedPlayer) attribute(a Attribute) float64 {
	if p.env.Attributes == nil {
		return DefaultAttribute(a)
	}
	return p.env.Attributes.Attribute(a)
}

func (p *SimulatedPlayer) debugf(format string, args ...any) {
	if p.env.Debugf != nil {
		p.env.Debugf(format, args...)
	}
}

// Snapshot is an immutable copy of the observable state of a simulation at a tick.
type Snapshot struct {
	Tick     int
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	BBox     cube.BBox

	OnGround            bool
	HorizontalCollision bool
	VerticalCollision   bool
	FallDistance        float64
	ClipLedged          bool
	Swimming            bool
}

// Snapshot returns the observable state of the simulation.
func (p *SimulatedPlayer) Snapshot() Snapshot {
	return Snapshot{
		Tick:                p.simulatedTicks,
		Position:            p.pos,
		Velocity:            p.vel,
		BBox:                p.bbox,
		OnGround:            p.onGround,
		HorizontalCollision: p.horizontalCollision,
		VerticalCollision:   p.verticalCollision,
		FallDistance:        p.fallDistance,
		ClipLedged:          p.clipLedged,
		Swimming:            p.swimming,
	}
}

func (p *SimulatedPlayer) Position() mgl64.Vec3           { return p.pos }
func (p *SimulatedPlayer) Velocity() mgl64.Vec3           { return p.vel }
func (p *SimulatedPlayer) BBox() cube.BBox                { return p.bbox }
func (p *SimulatedPlayer) Rotation() (yaw, pitch float32) { return p.yaw, p.pitch }
func (p *SimulatedPlayer) Input() input.Input             { return p.input }
func (p *SimulatedPlayer) OnGround() bool                 { return p.onGround }
func (p *SimulatedPlayer) HorizontalCollision() bool      { return p.horizontalCollision }
func (p *SimulatedPlayer) VerticalCollision() bool        { return p.verticalCollision }
func (p *SimulatedPlayer) FallDistance() float64          { return p.fallDistance }
func (p *SimulatedPlayer) JumpCooldown() int              { return p.jumpCooldown }
func (p *SimulatedPlayer) Sprinting() bool                { return p.sprinting }
func (p *SimulatedPlayer) FallFlying() bool               { return p.fallFlying }
func (p *SimulatedPlayer) TouchingWater() bool            { return p.touchingWater }
func (p *SimulatedPlayer) Swimming() bool                 { return p.swimming }
func (p *SimulatedPlayer) Underwater() bool               { return p.underwater }
func (p *SimulatedPlayer) SimulatedTicks() int            { return p.simulatedTicks }

// ClipLedged returns true if the last tick's movement would have walked off a ledge, whether or not the
// movement was actually clipped.
func (p *SimulatedPlayer) ClipLedged() bool { return p.clipLedged }

// FluidHeight returns the height of the fluid with the tag passed at the player's position, as measured
// on the last fluid refresh.
func (p *SimulatedPlayer) FluidHeight(tag FluidTag) float64 { return p.fluidHeight[tag] }

// FluidOnEyes returns the fluids the player's eyes were in on the last fluid refresh.
func (p *SimulatedPlayer) FluidOnEyes() FluidTag { return p.fluidOnEyes }
