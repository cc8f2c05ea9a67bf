package settings

import (
	"fmt"
	"os"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	dfworld "github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/entity"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/oerror"
	"github.com/oomph-ac/motionsim/simulation"
	"github.com/oomph-ac/motionsim/world"
	"github.com/pelletier/go-toml"
)

// maxFillVolume is the largest region a single block entry may fill.
const maxFillVolume = 1 << 16

// Scenario is a static world with actors and arrows to run predictions against.
type Scenario struct {
	World  WorldSpec   `toml:"world"`
	Actors []ActorSpec `toml:"actor"`
	Arrows []ArrowSpec `toml:"arrow"`
}

// WorldSpec describes the blocks of a scenario.
type WorldSpec struct {
	// AllLoaded reports every chunk as loaded. Otherwise only chunks with blocks and the chunks listed in
	// Chunks are loaded.
	AllLoaded bool        `toml:"all_loaded"`
	Chunks    [][]int64   `toml:"chunks"`
	Blocks    []BlockSpec `toml:"block"`
}

// BlockSpec places a block at Pos, or fills the region from Pos to To inclusive.
type BlockSpec struct {
	Name       string         `toml:"name"`
	Properties map[string]any `toml:"properties"`
	Pos        []int64        `toml:"pos"`
	To         []int64        `toml:"to"`

	block dfworld.Block
}

// ActorSpec describes an actor of a scenario.
type ActorSpec struct {
	ID uint64 `toml:"id"`
	// Local marks the actor as the local player, whose keys are known.
	Local bool `toml:"local"`
	// Item makes the actor a non-player entity, which is extrapolated linearly.
	Item bool `toml:"item"`

	Position     []float64 `toml:"position"`
	LastPosition []float64 `toml:"last_position"`
	// Path holds the positions of the actor on the ticks before Position, oldest first. It replaces
	// LastPosition, and the effect durations count from its first tick.
	Path [][]float64 `toml:"path"`

	Velocity []float64 `toml:"velocity"`
	Yaw      float64   `toml:"yaw"`
	Pitch    float64   `toml:"pitch"`

	OnGround  bool `toml:"on_ground"`
	Sprinting bool `toml:"sprinting"`
	Sneaking  bool `toml:"sneaking"`
	Jumping   bool `toml:"jumping"`

	TouchingWater bool `toml:"touching_water"`
	Underwater    bool `toml:"underwater"`
	Swimming      bool `toml:"swimming"`
	JumpCooldown  int  `toml:"jump_cooldown"`
	// Keys holds the movement keys of the local player: forward, backward, left and right.
	Keys []string `toml:"keys"`

	Effects []EffectSpec `toml:"effect"`
}

// EffectSpec is an effect active on an actor.
type EffectSpec struct {
	Name      string `toml:"name"`
	Amplifier int32  `toml:"amplifier"`
	Duration  int32  `toml:"duration"`
}

// ArrowSpec describes an arrow in flight.
type ArrowSpec struct {
	Position        []float64 `toml:"position"`
	Velocity        []float64 `toml:"velocity"`
	CollideEntities bool      `toml:"collide_entities"`
	// Latency is the number of ticks the shooter lags behind. Entities are hit where they were that many
	// ticks ago.
	Latency int64 `toml:"latency"`
}

// LoadScenario reads and validates the scenario at path. Block names are resolved against the block
// registry: an unknown block returns an error wrapping oerror.ErrUnknownBlock.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oerror.New("error reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario from TOML data.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, oerror.New("%w: %v", oerror.ErrInvalidScenario, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	for i := range s.World.Blocks {
		spec := &s.World.Blocks[i]
		if len(spec.Pos) != 3 || (spec.To != nil && len(spec.To) != 3) {
			return invalid("block %d (%s) needs a position of 3 integers", i, spec.Name)
		}
		if v := spec.volume(); v > maxFillVolume {
			return invalid("block %d (%s) fills %d blocks, more than %d", i, spec.Name, v, maxFillVolume)
		}
		b, ok := blockByName(spec.Name, spec.Properties)
		if !ok {
			return oerror.New("%w: %s %v", oerror.ErrUnknownBlock, spec.Name, spec.Properties)
		}
		spec.block = b
	}
	for i, c := range s.World.Chunks {
		if len(c) != 2 {
			return invalid("chunk %d needs 2 coordinates", i)
		}
	}

	ids := make(map[uint64]struct{}, len(s.Actors))
	local := false
	for i, a := range s.Actors {
		if _, ok := ids[a.ID]; ok {
			return invalid("actor %d reuses ID %d", i, a.ID)
		}
		ids[a.ID] = struct{}{}

		if a.Local {
			if local || a.Item {
				return invalid("actor %d cannot be the local player", a.ID)
			}
			local = true
		}
		if len(a.Position) != 3 {
			return invalid("actor %d needs a position of 3 numbers", a.ID)
		}
		if (a.LastPosition != nil && len(a.LastPosition) != 3) || (a.Velocity != nil && len(a.Velocity) != 3) {
			return invalid("actor %d has a malformed vector", a.ID)
		}
		if a.Path != nil && a.LastPosition != nil {
			return invalid("actor %d sets both a path and a last position", a.ID)
		}
		for _, p := range a.Path {
			if len(p) != 3 {
				return invalid("actor %d has a malformed path", a.ID)
			}
		}
		if a.JumpCooldown < 0 {
			return invalid("actor %d has a negative jump cooldown", a.ID)
		}
		if _, err := a.directional(); err != nil {
			return err
		}
		for _, e := range a.Effects {
			if _, ok := effectByName(e.Name); !ok {
				return invalid("actor %d has unknown effect %q", a.ID, e.Name)
			}
		}
	}
	for i, a := range s.Arrows {
		if len(a.Position) != 3 || len(a.Velocity) != 3 {
			return invalid("arrow %d needs a position and velocity of 3 numbers", i)
		}
		if a.Latency < 0 || a.Latency > int64(entity.HistorySize) {
			return invalid("arrow %d has a latency outside [0, %d]", i, entity.HistorySize)
		}
	}
	return nil
}

// Snapshot builds the world of the scenario.
func (s *Scenario) Snapshot() *world.Snapshot {
	w := world.NewSnapshot(dfworld.Overworld)
	w.SetAllLoaded(s.World.AllLoaded)
	for _, c := range s.World.Chunks {
		w.LoadChunk(world.ChunkPos{int32(c[0]), int32(c[1])})
	}
	for _, spec := range s.World.Blocks {
		from, to := spec.bounds()
		for x := from[0]; x <= to[0]; x++ {
			for y := from[1]; y <= to[1]; y++ {
				for z := from[2]; z <= to[2]; z++ {
					w.SetBlock(cube.Pos{x, y, z}, spec.block)
				}
			}
		}
	}
	return w
}

// Tick returns the current tick of the scenario: the length of the longest actor path.
func (s *Scenario) Tick() int64 {
	var tick int64
	for _, a := range s.Actors {
		tick = max(tick, int64(len(a.Path)))
	}
	return tick
}

// Entities creates the actors of the scenario, replaying their paths so that they end up at their position
// on the current tick.
func (s *Scenario) Entities() []*entity.Entity {
	tick := s.Tick()
	entities := make([]*entity.Entity, 0, len(s.Actors))
	for _, a := range s.Actors {
		entities = append(entities, a.Entity(tick))
	}
	return entities
}

// Local returns the local player of the scenario, if it has one.
func (s *Scenario) Local() (ActorSpec, bool) {
	for _, a := range s.Actors {
		if a.Local {
			return a, true
		}
	}
	return ActorSpec{}, false
}

// Entity creates the entity the actor describes, standing at its position on the tick passed.
func (a ActorSpec) Entity(tick int64) *entity.Entity {
	pos := vec(a.Position)
	start := pos
	switch {
	case len(a.Path) > 0:
		start = vec(a.Path[0])
	case a.LastPosition != nil:
		start = vec(a.LastPosition)
	}

	e := entity.New(a.ID, start, mgl64.Vec3{a.Pitch, a.Yaw, a.Yaw}, !a.Item)
	e.SetOnGround(a.OnGround)
	e.SetSprinting(a.Sprinting)
	e.SetSneaking(a.Sneaking)
	for _, spec := range a.Effects {
		kind, _ := effectByName(spec.Name)
		e.AddEffect(kind, simulation.EffectInstance{Amplifier: spec.Amplifier, Duration: spec.Duration})
	}

	first := tick - int64(len(a.Path))
	for i, p := range a.Path {
		if i == 0 {
			e.Move(start, first, true)
			continue
		}
		e.Move(vec(p), first+int64(i), false)
		e.TickEffects()
	}
	e.Move(pos, tick, false)
	if len(a.Path) > 0 {
		e.TickEffects()
	}

	e.SetOnGround(a.OnGround)
	e.SetFluidState(a.TouchingWater, a.Underwater, a.Swimming)
	e.SetJumpCooldown(a.JumpCooldown)
	if a.Velocity != nil {
		e.SetVelocity(vec(a.Velocity))
	}
	return e
}

// Input returns the keys the actor holds.
func (a ActorSpec) Input() input.Input {
	d, _ := a.directional()
	return input.New(d, a.Jumping, a.Sprinting, a.Sneaking)
}

func (a ActorSpec) directional() (input.DirectionalInput, error) {
	var d input.DirectionalInput
	for _, k := range a.Keys {
		switch k {
		case "forward":
			d.Forward = true
		case "backward":
			d.Backward = true
		case "left":
			d.Left = true
		case "right":
			d.Right = true
		default:
			return d, invalid("actor %d holds unknown key %q", a.ID, k)
		}
	}
	return d, nil
}

// Vectors returns the position and velocity of the arrow.
func (a ArrowSpec) Vectors() (pos, vel mgl64.Vec3) {
	return vec(a.Position), vec(a.Velocity)
}

func (b BlockSpec) bounds() (from, to cube.Pos) {
	from = cube.Pos{int(b.Pos[0]), int(b.Pos[1]), int(b.Pos[2])}
	to = from
	if b.To != nil {
		to = cube.Pos{int(b.To[0]), int(b.To[1]), int(b.To[2])}
	}
	for i := range 3 {
		if from[i] > to[i] {
			from[i], to[i] = to[i], from[i]
		}
	}
	return from, to
}

func (b BlockSpec) volume() int64 {
	from, to := b.bounds()
	v := int64(1)
	for i := range 3 {
		v *= int64(to[i]-from[i]) + 1
	}
	return v
}

func effectByName(name string) (simulation.EffectKind, bool) {
	for kind := simulation.EffectSlowFalling; kind <= simulation.EffectWeaving; kind++ {
		if kind.String() == name {
			return kind, true
		}
	}
	return 0, false
}

var (
	blocksByName     map[string][]dfworld.Block
	blocksByNameOnce sync.Once
)

// blockByName finds the block with the name and properties passed. Properties are compared by their printed
// value, so TOML integers and booleans match the state types of the registry. Properties left out match
// any value.
func blockByName(name string, props map[string]any) (dfworld.Block, bool) {
	if len(props) == 0 {
		if b, ok := dfworld.BlockByName(name, nil); ok {
			return b, true
		}
	}

	blocksByNameOnce.Do(func() {
		blocksByName = make(map[string][]dfworld.Block)
		for _, b := range dfworld.Blocks() {
			n, _ := b.EncodeBlock()
			blocksByName[n] = append(blocksByName[n], b)
		}
	})

candidates:
	for _, b := range blocksByName[name] {
		_, state := b.EncodeBlock()
		for k, v := range props {
			sv, ok := state[k]
			if !ok || propertyString(sv) != propertyString(v) {
				continue candidates
			}
		}
		return b, true
	}
	return nil, false
}

func propertyString(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(v)
	}
}

func vec(v []float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func invalid(format string, args ...any) error {
	return oerror.New("%w: "+format, append([]any{oerror.ErrInvalidScenario}, args...)...)
}
