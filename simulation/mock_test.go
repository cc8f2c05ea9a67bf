package simulation

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
)

var fullBlock = []cube.BBox{cube.Box(0, 0, 0, 1, 1, 1)}

// mockWorld is a world with a solid floor layer and optional extra blocks and fluids.
type mockWorld struct {
	floorY   *int
	boxes    map[cube.Pos][]cube.BBox
	blocks   map[cube.Pos]BlockInfo
	fluids   map[cube.Pos]FluidState
	unloaded bool
}

func newMockWorld() *mockWorld {
	return &mockWorld{
		boxes:  make(map[cube.Pos][]cube.BBox),
		blocks: make(map[cube.Pos]BlockInfo),
		fluids: make(map[cube.Pos]FluidState),
	}
}

func (w *mockWorld) withFloor(y int) *mockWorld {
	w.floorY = &y
	return w
}

func (w *mockWorld) setBlock(pos cube.Pos, info BlockInfo, boxes ...cube.BBox) {
	w.blocks[pos] = info
	if len(boxes) == 0 {
		boxes = fullBlock
	}
	w.boxes[pos] = boxes
}

func (w *mockWorld) Block(pos cube.Pos) BlockInfo {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	if w.floorY != nil && pos.Y() == *w.floorY {
		b := Air()
		b.Name = "minecraft:stone"
		return b
	}
	return Air()
}

func (w *mockWorld) Fluid(pos cube.Pos) FluidState {
	return w.fluids[pos]
}

func (w *mockWorld) BlockCollisions(pos cube.Pos) []cube.BBox {
	if boxes, ok := w.boxes[pos]; ok {
		return boxes
	}
	if w.floorY != nil && pos.Y() == *w.floorY {
		return fullBlock
	}
	return nil
}

func (w *mockWorld) GetNearbyBBoxes(aabb cube.BBox) []cube.BBox {
	min, max := aabb.Min(), aabb.Max()
	var result []cube.BBox
	for x := int(math.Floor(min[0])) - 1; x <= int(math.Ceil(max[0])); x++ {
		for y := int(math.Floor(min[1])) - 1; y <= int(math.Ceil(max[1])); y++ {
			for z := int(math.Floor(min[2])) - 1; z <= int(math.Ceil(max[2])); z++ {
				pos := cube.Pos{x, y, z}
				for _, box := range w.BlockCollisions(pos) {
					if box = box.Translate(pos.Vec3()); aabb.IntersectsWith(box) {
						result = append(result, box)
					}
				}
			}
		}
	}
	return result
}

func (w *mockWorld) IsChunkLoaded(int32, int32) bool {
	return !w.unloaded
}

func (w *mockWorld) MinY() int {
	return -64
}

type mockEffects map[EffectKind]EffectInstance

func (m mockEffects) Effect(kind EffectKind) (EffectInstance, bool) {
	e, ok := m[kind]
	return e, ok
}

type mockAttributes map[Attribute]float64

func (m mockAttributes) Attribute(a Attribute) float64 {
	if v, ok := m[a]; ok {
		return v
	}
	return DefaultAttribute(a)
}
