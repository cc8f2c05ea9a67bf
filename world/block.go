package world

import (
	"math"
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/motionsim/simulation"
	"github.com/sasha-s/go-deadlock"
)

var (
	blockNames     map[uint64]string
	blockNamesOnce sync.Once

	infoMu    deadlock.RWMutex
	infoCache = make(map[uint64]simulation.BlockInfo)
)

func initBlockNames() {
	blockNames = make(map[uint64]string, len(world.Blocks()))
	for _, b := range world.Blocks() {
		x, y := b.Hash()
		if x == 0 && y == math.MaxUint64 {
			continue
		}
		name, _ := b.EncodeBlock()
		blockNames[world.BlockHash(b)] = name
	}
}

// BlockName returns the canonical name of a block.
func BlockName(b world.Block) string {
	blockNamesOnce.Do(initBlockNames)
	if n, ok := blockNames[world.BlockHash(b)]; ok {
		return n
	}
	n, _ := b.EncodeBlock()
	return n
}

// Info returns the movement properties of b. Results are cached per block state.
func Info(b world.Block) simulation.BlockInfo {
	if b == nil {
		return simulation.Air()
	}
	hash := world.BlockHash(b)

	infoMu.RLock()
	info, ok := infoCache[hash]
	infoMu.RUnlock()
	if ok {
		return info
	}

	info = blockInfo(b)
	infoMu.Lock()
	infoCache[hash] = info
	infoMu.Unlock()
	return info
}

func blockInfo(b world.Block) simulation.BlockInfo {
	name := BlockName(b)
	info := simulation.BlockInfo{
		Name:        name,
		Friction:    float32(friction(b, name)),
		JumpFactor:  1,
		SpeedFactor: 1,
		Climbable:   climbable(b, name),
	}

	switch name {
	case "minecraft:honey_block":
		info.JumpFactor, info.SpeedFactor = 0.5, 0.4
	case "minecraft:soul_sand":
		info.SpeedFactor = 0.4
	case "minecraft:web":
		info.Web = true
	case "minecraft:scaffolding":
		info.Scaffolding = true
	case "minecraft:powder_snow":
		info.PowderSnow = true
	}

	switch b := b.(type) {
	case block.Ladder:
		info.Ladder, info.Facing = true, b.Facing
		return info
	case block.WoodTrapdoor:
		info.Trapdoor, info.Facing, info.Open = true, b.Facing, b.Open
		return info
	}

	if strings.HasSuffix(name, "trapdoor") {
		_, props := b.EncodeBlock()
		info.Trapdoor = true
		info.Facing = directionFromProperty(props["direction"])
		info.Open = boolProperty(props["open_bit"])
	}
	return info
}

func friction(b world.Block, name string) float64 {
	if f, ok := b.(block.Frictional); ok {
		return f.Friction()
	}

	switch name {
	case "minecraft:slime":
		return 0.8
	case "minecraft:ice", "minecraft:packed_ice":
		return 0.98
	case "minecraft:blue_ice":
		return 0.989
	default:
		return 0.6
	}
}

func climbable(b world.Block, name string) bool {
	if _, ok := b.(block.Ladder); ok {
		return true
	}

	switch name {
	case "minecraft:ladder", "minecraft:vine", "minecraft:scaffolding",
		"minecraft:cave_vines", "minecraft:cave_vines_body_with_berries", "minecraft:cave_vines_head_with_berries",
		"minecraft:twisting_vines", "minecraft:weeping_vines":
		return true
	default:
		return false
	}
}

// fluidState returns the fluid held by b. above is the block on top of it: a fluid with the same fluid
// above it fills the whole block.
func fluidState(b, above world.Block) simulation.FluidState {
	l, ok := b.(world.Liquid)
	if !ok {
		return simulation.FluidState{}
	}

	state := simulation.FluidState{Tags: fluidTag(l)}
	if state.Tags == 0 {
		return state
	}
	if a, ok := above.(world.Liquid); ok && fluidTag(a) == state.Tags {
		state.Height = 1
		return state
	}

	depth := l.LiquidDepth()
	if l.LiquidFalling() {
		depth = 8
	}
	state.Height = float32(depth) / 9
	return state
}

func fluidTag(l world.Liquid) simulation.FluidTag {
	switch l.LiquidType() {
	case "water":
		return simulation.FluidWater
	case "lava":
		return simulation.FluidLava
	default:
		return 0
	}
}

// directionFromProperty converts the trapdoor "direction" state, which counts the other way around, to a
// cube.Direction.
func directionFromProperty(v any) cube.Direction {
	dir := int32(intProperty(v)) - 3
	if dir < 0 {
		dir = -dir
	}
	return cube.Direction(dir)
}

func boolProperty(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return intProperty(v) != 0
}

func intProperty(v any) int64 {
	switch v := v.(type) {
	case uint8:
		return int64(v)
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}
