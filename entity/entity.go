package entity

import (
	"maps"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/simulation"
	"github.com/oomph-ac/motionsim/utils"
)

// HistorySize is the number of past positions kept for every entity.
const HistorySize = 20

// Entity is an actor tracked in the world, either the local player or another entity.
type Entity struct {
	// mu protects all the following fields.
	mu sync.Mutex
	id uint64
	// player is true if the entity is a player.
	player bool

	position     mgl64.Vec3
	lastPosition mgl64.Vec3
	velocity     mgl64.Vec3
	// rotation holds the pitch, yaw and head yaw of the entity.
	rotation     mgl64.Vec3
	lastRotation mgl64.Vec3

	body simulation.Body

	onGround   bool
	sneaking   bool
	sprinting  bool
	fallFlying bool

	touchingWater bool
	underwater    bool
	swimming      bool

	horizontalCollision bool
	verticalCollision   bool

	fallDistance float64
	jumpCooldown int

	dead      bool
	spectator bool
	vehicle   *uint64

	effects    Effects
	attributes Attributes

	// PositionHistory holds the positions of the entity for the last HistorySize ticks.
	PositionHistory *utils.CircularQueue[HistoricalPosition]
}

// New creates an entity at the position passed. rotation holds the pitch, yaw and head yaw.
func New(id uint64, position, rotation mgl64.Vec3, player bool) *Entity {
	return &Entity{
		id:              id,
		player:          player,
		position:        position,
		lastPosition:    position,
		rotation:        rotation,
		lastRotation:    rotation,
		body:            simulation.PlayerBody(),
		onGround:        true,
		effects:         make(Effects),
		attributes:      make(Attributes),
		PositionHistory: utils.NewCircularQueue[HistoricalPosition](HistorySize, nil),
	}
}

// ID returns the runtime ID of the entity.
func (e *Entity) ID() uint64 {
	return e.id
}

// Player returns true if the entity is a player.
func (e *Entity) Player() bool {
	return e.player
}

// Move moves the entity to the position passed and records the move in the position history.
func (e *Entity) Move(pos mgl64.Vec3, tick int64, teleport bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastPosition = e.position
	e.position = pos
	if teleport {
		e.lastPosition = pos
		e.fallDistance = 0
	} else if d := pos[1] - e.lastPosition[1]; d < 0 && !e.onGround {
		e.fallDistance -= d
	}
	_ = e.PositionHistory.Append(HistoricalPosition{
		Position:     e.position,
		PrevPosition: e.lastPosition,
		Teleport:     teleport,
		Tick:         tick,
	})
}

// Position returns the position of the entity.
func (e *Entity) Position() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// LastPosition returns the last position of the entity.
func (e *Entity) LastPosition() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastPosition
}

// SetVelocity sets the velocity of the entity. Only the local player knows its velocity.
func (e *Entity) SetVelocity(vel mgl64.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.velocity = vel
}

// Rotate rotates the entity to the provided rotation.
func (e *Entity) Rotate(rotation mgl64.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastRotation = e.rotation
	e.rotation = rotation
}

// Rotation returns the pitch, yaw and head yaw of the entity.
func (e *Entity) Rotation() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rotation
}

func (e *Entity) SetOnGround(onGround bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onGround = onGround
	if onGround {
		e.fallDistance = 0
	}
}

func (e *Entity) OnGround() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.onGround
}

func (e *Entity) SetSneaking(sneaking bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sneaking = sneaking
	e.body.SuppressLadderSlide = sneaking
}

func (e *Entity) SetSprinting(sprinting bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sprinting = sprinting
}

func (e *Entity) SetFallFlying(fallFlying bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fallFlying = fallFlying
}

// SetFluidState sets whether the entity touches water, has its eyes under water and swims.
func (e *Entity) SetFluidState(touchingWater, underwater, swimming bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touchingWater, e.underwater, e.swimming = touchingWater, underwater, swimming
}

// SetCollisions sets the collision flags of the entity's last move.
func (e *Entity) SetCollisions(horizontal, vertical bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.horizontalCollision, e.verticalCollision = horizontal, vertical
}

// SetJumpCooldown sets the number of ticks before the entity can jump again.
func (e *Entity) SetJumpCooldown(ticks int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jumpCooldown = ticks
}

func (e *Entity) SetSpectator(spectator bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spectator = spectator
}

// Kill marks the entity as dead.
func (e *Entity) Kill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dead = true
}

// Mount makes the entity ride the vehicle passed. A nil vehicle dismounts it.
func (e *Entity) Mount(vehicle *uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vehicle = vehicle
	e.body.Passenger = vehicle != nil
}

// SetBody replaces the body of the entity.
func (e *Entity) SetBody(body simulation.Body) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.body = body
}

// BBox returns the bounding box of the entity at its current position.
func (e *Entity) BBox() cube.BBox {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.body.BoundingBox(e.position)
}

// BBoxAt returns the bounding box the entity would have at the position passed.
func (e *Entity) BBoxAt(pos mgl64.Vec3) cube.BBox {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.body.BoundingBox(pos)
}

func (e *Entity) Alive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.dead
}

func (e *Entity) Spectator() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spectator
}

// Pickable returns true if projectiles and attacks can target the entity.
func (e *Entity) Pickable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.dead && !e.spectator
}

// VehicleID returns the runtime ID of the vehicle the entity rides.
func (e *Entity) VehicleID() (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.vehicle == nil {
		return 0, false
	}
	return *e.vehicle, true
}

// State returns the state a simulation of the entity starts from.
func (e *Entity) State() simulation.ActorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return simulation.ActorState{
		Position:     e.position,
		LastPosition: e.lastPosition,
		Velocity:     e.velocity,
		Pitch:        float32(e.rotation[0]),
		Yaw:          float32(e.rotation[1]),
		OnGround:     e.onGround,
		Sprinting:    e.sprinting,
		FallFlying:   e.fallFlying,
		FallDistance: e.fallDistance,
		JumpCooldown: e.jumpCooldown,
		Body:         e.body,

		HorizontalCollision: e.horizontalCollision,
		VerticalCollision:   e.verticalCollision,

		TouchingWater: e.touchingWater,
		Swimming:      e.swimming,
		Underwater:    e.underwater,
	}
}

// Observation returns what can be seen of the entity from the outside.
func (e *Entity) Observation() input.Observation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return input.Observation{
		Position:     e.position,
		LastPosition: e.lastPosition,
		Yaw:          float32(e.rotation[1]),
		OnGround:     e.onGround,
		Sneaking:     e.sneaking,
	}
}

// Environment returns the collaborators of a simulation of the entity in the world passed. The effects and
// attributes are copied, so the simulation is not affected by later changes to the entity.
func (e *Entity) Environment(w simulation.WorldProvider) simulation.Environment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return simulation.Environment{
		World:      w,
		Effects:    maps.Clone(e.effects),
		Attributes: maps.Clone(e.attributes),
	}
}
