package simulation

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
)

// WorldProvider bridges the world for collision, fluid and block property lookups. Implementations are
// read-only snapshots: every tick of a prediction queries the same world.
type WorldProvider interface {
	Block(pos cube.Pos) BlockInfo
	Fluid(pos cube.Pos) FluidState
	// BlockCollisions returns the collision boxes of the block at pos, relative to the block origin.
	BlockCollisions(pos cube.Pos) []cube.BBox
	// GetNearbyBBoxes returns the world space collision boxes intersecting aabb. An empty result means
	// aabb does not collide with anything.
	GetNearbyBBoxes(aabb cube.BBox) []cube.BBox
	IsChunkLoaded(chunkX, chunkZ int32) bool
	MinY() int
}

// EffectsProvider bridges effect tracking (jump boost, levitation, slow falling, etc.).
type EffectsProvider interface {
	Effect(kind EffectKind) (EffectInstance, bool)
}

// AttributesProvider exposes scalar attributes of the simulated actor.
type AttributesProvider interface {
	Attribute(a Attribute) float64
}

// Environment is the set of collaborators a simulation queries. Any of them may be nil.
type Environment struct {
	World      WorldProvider
	Effects    EffectsProvider
	Attributes AttributesProvider

	// Debugf receives per-tick trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any)
}

// BlockInfo holds the movement relevant properties of a block.
type BlockInfo struct {
	Name string

	Friction    float32
	JumpFactor  float32
	SpeedFactor float32

	Climbable   bool
	Web         bool
	Scaffolding bool
	PowderSnow  bool

	Ladder   bool
	Trapdoor bool
	Open     bool
	Facing   cube.Direction
}

// Air returns the properties of an empty block.
func Air() BlockInfo {
	return BlockInfo{
		Name:        "minecraft:air",
		Friction:    game.DefaultFriction,
		JumpFactor:  1,
		SpeedFactor: 1,
	}
}

// FluidTag is a set of fluid kinds.
type FluidTag uint8

const (
	FluidWater FluidTag = 1 << iota
	FluidLava
)

// Has returns true if every tag in o is also in t.
func (t FluidTag) Has(o FluidTag) bool {
	return o != 0 && t&o == o
}

// FluidState is the fluid occupying a block.
type FluidState struct {
	Tags FluidTag
	// Height is the fluid surface height inside the block, between 0 and 1.
	Height float32
	// Flow is the direction the fluid pushes entities in.
	Flow mgl64.Vec3
}

// Empty returns true if the block holds no fluid.
func (f FluidState) Empty() bool {
	return f.Tags == 0
}

// EffectKind identifies a status effect that changes movement.
type EffectKind uint8

const (
	EffectSlowFalling EffectKind = iota
	EffectLevitation
	EffectJumpBoost
	EffectDolphinsGrace
	EffectWeaving
)

func (k EffectKind) String() string {
	switch k {
	case EffectSlowFalling:
		return "slow_falling"
	case EffectLevitation:
		return "levitation"
	case EffectJumpBoost:
		return "jump_boost"
	case EffectDolphinsGrace:
		return "dolphins_grace"
	case EffectWeaving:
		return "weaving"
	default:
		return "unknown"
	}
}

// EffectInstance is an active status effect. Duration is the number of ticks it has left.
type EffectInstance struct {
	Amplifier int32
	Duration  int32
}

// Attribute identifies a scalar actor attribute.
type Attribute uint8

const (
	AttributeMovementSpeed Attribute = iota
	AttributeWaterMovementEfficiency
	AttributeStepHeight
)

// DefaultAttribute returns the value an attribute has for a player without modifiers.
func DefaultAttribute(a Attribute) float64 {
	switch a {
	case AttributeMovementSpeed:
		return game.DefaultMovementSpeed
	case AttributeStepHeight:
		return game.StepHeight
	default:
		return 0
	}
}

// Body holds the static properties of a simulated actor's body.
type Body struct {
	Width     float64
	Height    float64
	EyeHeight float64

	Passenger bool
	NoGravity bool
	Flying    bool
	// IgnoresFluids is set for actors that are not affected by fluids.
	IgnoresFluids   bool
	DiscardFriction bool
	// SuppressLadderSlide is set while the actor holds sneak on a ladder.
	SuppressLadderSlide bool
	CanWalkOnPowderSnow bool
}

// PlayerBody returns the body of a standing player.
func PlayerBody() Body {
	return Body{
		Width:     game.DefaultPlayerWidth,
		Height:    game.DefaultPlayerHeight,
		EyeHeight: game.DefaultPlayerEyeHeight,
	}
}

// BoundingBox returns the body's bounding box with its feet at pos.
func (b Body) BoundingBox(pos mgl64.Vec3) cube.BBox {
	w := b.Width / 2
	return cube.Box(
		pos[0]-w, pos[1], pos[2]-w,
		pos[0]+w, pos[1]+b.Height, pos[2]+w,
	)
}

// SwimHeight returns the fluid height above which the body swims instead of wading.
func (b Body) SwimHeight() float64 {
	if b.EyeHeight < game.SwimHeight {
		return 0
	}
	return game.SwimHeight
}
