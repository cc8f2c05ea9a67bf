package simulation

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/game"
	"github.com/oomph-ac/motionsim/input"
)

// FallingPlayer is a reduced simulation that only integrates gravity, glide steering and drag. It is
// used to find where a falling player lands without running the full tick physics.
type FallingPlayer struct {
	env  Environment
	body Body

	pos, vel   mgl64.Vec3
	yaw, pitch float32
	input      input.Input

	speedFactor    float32
	simulatedTicks int
}

// CollisionResult is the block a FallingPlayer lands on and the tick index it lands in.
type CollisionResult struct {
	Pos  cube.Pos
	Tick int
}

// NewFallingPlayer creates a FallingPlayer starting from the state passed. The yaw, pitch and input stay
// fixed for the whole prediction.
func NewFallingPlayer(state ActorState, in input.Input, env Environment) *FallingPlayer {
	body := state.Body
	if body.Width == 0 || body.Height == 0 {
		body = PlayerBody()
	}
	in.Update()

	f := &FallingPlayer{
		env:         env,
		body:        body,
		pos:         state.Position,
		vel:         state.Velocity,
		yaw:         state.Yaw,
		pitch:       state.Pitch,
		input:       in,
		speedFactor: 1,
	}
	if env.World != nil {
		f.speedFactor = env.World.Block(cube.PosFromVec3(f.pos)).SpeedFactor
		if f.speedFactor == 1 {
			below := mgl64.Vec3{f.pos[0], body.BoundingBox(f.pos).Min()[1] - 0.5000001, f.pos[2]}
			f.speedFactor = env.World.Block(cube.PosFromVec3(below)).SpeedFactor
		}
	}
	return f
}

// Position returns the current predicted position.
func (f *FallingPlayer) Position() mgl64.Vec3 { return f.pos }

// FindCollision simulates up to maxTicks ticks and returns the first block the swept body box lands on.
func (f *FallingPlayer) FindCollision(maxTicks int) (CollisionResult, bool) {
	look := game.RotationVector(f.pitch, f.yaw)
	for i := 0; i < maxTicks; i++ {
		start := f.pos
		f.calculateForTick(look)

		box := f.body.BoundingBox(start).Extend(f.pos.Sub(start))
		if pos, ok := f.findSupportingBlock(box); ok {
			return CollisionResult{Pos: pos, Tick: i}, true
		}
	}
	return CollisionResult{}, false
}

func (f *FallingPlayer) calculateForTick(look mgl64.Vec3) {
	d := game.NormalGravity
	if f.vel[1] <= 0 && f.hasEffect(EffectSlowFalling) {
		d = game.SlowFallingGravity
	}

	j := float64(f.pitch * game.DegToRad)
	k := math.Sqrt(look[0]*look[0] + look[2]*look[2])
	l := game.Vec3HzDist(f.vel)

	n := float64(game.MCCos(j))
	n = float64(float32(n * n * math.Min(1, look.Len()/0.4)))

	vel := f.vel.Add(mgl64.Vec3{0, d * (-1 + n*0.75), 0})
	if vel[1] < 0 && k > 0 {
		q := vel[1] * -0.1 * n
		vel = vel.Add(mgl64.Vec3{look[0] * q / k, q, look[2] * q / k})
	}
	if j < 0 && k > 0 {
		q := l * float64(-game.MCSin(j)) * 0.04
		vel = vel.Add(mgl64.Vec3{-look[0] * q / k, q * 3.2, -look[2] * q / k})
	}
	if k > 0 {
		vel = vel.Add(mgl64.Vec3{(look[0]/k*l - vel[0]) * 0.1, 0, (look[2]/k*l - vel[2]) * 0.1})
	}
	vel = vel.Add(game.InputVector(f.input.Vector(), game.AirStrafeSpeed, f.yaw))

	speedFactor := float64(f.speedFactor)
	f.vel = mgl64.Vec3{
		vel[0] * 0.9900000095367432 * speedFactor,
		vel[1] * game.GravityMultiplier,
		vel[2] * 0.9900000095367432 * speedFactor,
	}
	f.pos = f.pos.Add(f.vel)
	f.simulatedTicks++
}

func (f *FallingPlayer) hasEffect(kind EffectKind) bool {
	if f.env.Effects == nil {
		return false
	}
	e, ok := f.env.Effects.Effect(kind)
	return ok && int(e.Duration) >= f.simulatedTicks
}

// findSupportingBlock returns the block intersecting bb whose center is closest to the player. Ties go to
// the block that sorts last by Y, then Z, then X.
func (f *FallingPlayer) findSupportingBlock(bb cube.BBox) (cube.Pos, bool) {
	w := f.env.World
	if w == nil {
		return cube.Pos{}, false
	}

	var (
		found   bool
		result  cube.Pos
		minDist = math.MaxFloat64
	)
	for _, pos := range nearbyBlocks(bb) {
		for _, box := range w.BlockCollisions(pos) {
			if !bb.IntersectsWith(box.Translate(pos.Vec3())) {
				continue
			}
			dist := pos.Vec3().Add(mgl64.Vec3{0.5, 0.5, 0.5}).Sub(f.pos).LenSqr()
			if dist < minDist || (dist == minDist && comparePos(result, pos) < 0) {
				minDist = dist
				result = pos
				found = true
			}
			break
		}
	}
	return result, found
}

// comparePos orders block positions by Y, then Z, then X.
func comparePos(a, b cube.Pos) int {
	switch {
	case a[1] != b[1]:
		return a[1] - b[1]
	case a[2] != b[2]:
		return a[2] - b[2]
	default:
		return a[0] - b[0]
	}
}

func nearbyBlocks(aabb cube.BBox) []cube.Pos {
	min, max := aabb.Min(), aabb.Max()
	minX, minY, minZ := int(math.Floor(min[0])), int(math.Floor(min[1])), int(math.Floor(min[2]))
	maxX, maxY, maxZ := int(math.Ceil(max[0])), int(math.Ceil(max[1])), int(math.Ceil(max[2]))

	blocks := make([]cube.Pos, 0, (maxX-minX+1)*(maxY-minY+1)*(maxZ-minZ+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				blocks = append(blocks, cube.Pos{x, y, z})
			}
		}
	}
	return blocks
}
