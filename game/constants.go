package game

import "math"

// DegToRad is the float32 degree to radian factor used by the game for rotations.
const DegToRad = float32(math.Pi) / 180

const (
	NormalGravity      = 0.08
	SlowFallingGravity = 0.01
	GravityMultiplier  = 0.9800000190734863
	DefaultAirFriction = float32(0.91)
	DefaultFriction    = float32(0.6)

	DefaultJumpHeight = float32(0.42)
	JumpBoostPerLevel = float32(0.1)
	SprintJumpBoost   = float32(0.2)
	JumpDelayTicks    = 10

	DefaultMovementSpeed = 0.10000000149011612
	AirStrafeSpeed       = float32(0.02)
	SprintAirStrafeBonus = 0.005999999865889549
	GroundSpeedFactor    = float32(0.21600002)

	// StepHeight is the player step-up height (0.6f widened).
	StepHeight = float64(float32(0.6))
	// LedgeProbeDepth is how far below the body the ledge clip looks for ground.
	LedgeProbeDepth = 0.5

	ClimbSpeed         = 0.2
	ClimbMaxSpeed      = 0.15000000596046448
	LevitationPerLevel = 0.05

	SwimHeight       = 0.4
	WaterSwimImpulse = 0.03999999910593033
	LavaSwimImpulse  = 0.005999999865889549
	WaterPushSpeed   = 0.014
	LavaPushSpeed    = 0.0023333333333333335
	EyeFluidOffset   = 0.1111111119389534

	// MinSimulatedY is the depth below which simulation ticks become no-ops.
	MinSimulatedY = -70.0
	// NearZeroVelocity is the threshold under which velocity components snap to zero each tick.
	NearZeroVelocity = 0.003

	DefaultPlayerWidth     = 0.6
	DefaultPlayerHeight    = 1.8
	DefaultPlayerEyeHeight = 1.62
)
