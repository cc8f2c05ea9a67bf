package world

import (
	"encoding/binary"
	"math"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/motionsim/simulation"
	"github.com/sasha-s/go-deadlock"
	"github.com/zeebo/xxh3"
)

// ChunkPos is the position of a 16x16 column of blocks.
type ChunkPos [2]int32

// ChunkPosOf returns the position of the chunk that holds pos.
func ChunkPosOf(pos cube.Pos) ChunkPos {
	return ChunkPos{int32(pos[0]) >> 4, int32(pos[2]) >> 4}
}

// Snapshot is an in-memory, sparse view of a world. Blocks that were never set are air. Predictions read a
// Snapshot concurrently, so every method is safe to call from multiple goroutines.
type Snapshot struct {
	rng cube.Range

	blocks map[cube.Pos]world.Block
	chunks map[ChunkPos]struct{}
	boxes  *bboxCache

	// allLoaded reports every chunk as loaded, regardless of chunks.
	allLoaded   bool
	fingerprint uint64

	deadlock.RWMutex
}

// NewSnapshot returns an empty snapshot with the height range of dim.
func NewSnapshot(dim world.Dimension) *Snapshot {
	return &Snapshot{
		rng:    dim.Range(),
		blocks: make(map[cube.Pos]world.Block),
		chunks: make(map[ChunkPos]struct{}),
		boxes:  newBBoxCache(),
	}
}

// SetBlock sets the block at pos and marks its chunk as loaded. Setting air removes the block.
func (s *Snapshot) SetBlock(pos cube.Pos, b world.Block) {
	if pos.OutOfBounds(s.rng) {
		return
	}

	s.Lock()
	defer s.Unlock()

	if old, ok := s.blocks[pos]; ok {
		s.fingerprint ^= entryHash(pos, old)
	}
	if _, air := b.(block.Air); b == nil || air {
		delete(s.blocks, pos)
	} else {
		s.blocks[pos] = b
		s.fingerprint ^= entryHash(pos, b)
	}
	s.chunks[ChunkPosOf(pos)] = struct{}{}
	s.boxes.Invalidate(pos)
}

// LoadChunk marks the chunk at pos as loaded without setting any blocks in it.
func (s *Snapshot) LoadChunk(pos ChunkPos) {
	s.Lock()
	s.chunks[pos] = struct{}{}
	s.Unlock()
}

// SetAllLoaded makes the snapshot report every chunk as loaded.
func (s *Snapshot) SetAllLoaded(v bool) {
	s.Lock()
	s.allLoaded = v
	s.Unlock()
}

// BlockAt returns the block at pos.
func (s *Snapshot) BlockAt(pos cube.Pos) world.Block {
	if pos.OutOfBounds(s.rng) {
		return block.Air{}
	}

	s.RLock()
	b, ok := s.blocks[pos]
	s.RUnlock()
	if !ok {
		return block.Air{}
	}
	return b
}

// Block returns the movement properties of the block at pos.
func (s *Snapshot) Block(pos cube.Pos) simulation.BlockInfo {
	return Info(s.BlockAt(pos))
}

// Fluid returns the fluid at pos.
func (s *Snapshot) Fluid(pos cube.Pos) simulation.FluidState {
	b := s.BlockAt(pos)
	if _, ok := b.(world.Liquid); !ok {
		return simulation.FluidState{}
	}
	return fluidState(b, s.BlockAt(pos.Side(cube.FaceUp)))
}

// BlockCollisions returns the collision boxes of the block at pos, relative to the block origin.
func (s *Snapshot) BlockCollisions(pos cube.Pos) []cube.BBox {
	if boxes, ok := s.boxes.Get(pos); ok {
		return boxes
	}

	var boxes []cube.BBox
	if b := s.BlockAt(pos); b != nil {
		if _, air := b.(block.Air); !air {
			boxes = b.Model().BBox(pos, source{s})
		}
	}
	s.boxes.Set(pos, boxes)
	return boxes
}

// CacheStats returns the hits and misses of the collision box cache.
func (s *Snapshot) CacheStats() BBoxCacheStats {
	return s.boxes.Stats()
}

// GetNearbyBBoxes returns the world space collision boxes of all blocks that intersect aabb.
func (s *Snapshot) GetNearbyBBoxes(aabb cube.BBox) []cube.BBox {
	grown := aabb.Grow(1)
	min, max := grown.Min(), grown.Max()
	minX, minY, minZ := int(math.Floor(min[0])), int(math.Floor(min[1])), int(math.Floor(min[2]))
	maxX, maxY, maxZ := int(math.Ceil(max[0])), int(math.Ceil(max[1])), int(math.Ceil(max[2]))

	var bboxes []cube.BBox
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				pos := cube.Pos{x, y, z}
				for _, bb := range s.BlockCollisions(pos) {
					if bb = bb.Translate(pos.Vec3()); bb.IntersectsWith(aabb) {
						bboxes = append(bboxes, bb)
					}
				}
			}
		}
	}
	return bboxes
}

// IsChunkLoaded ...
func (s *Snapshot) IsChunkLoaded(chunkX, chunkZ int32) bool {
	s.RLock()
	defer s.RUnlock()

	if s.allLoaded {
		return true
	}
	_, ok := s.chunks[ChunkPos{chunkX, chunkZ}]
	return ok
}

// MinY returns the lowest block Y of the snapshot.
func (s *Snapshot) MinY() int {
	return s.rng[0]
}

// Len returns the number of non-air blocks in the snapshot.
func (s *Snapshot) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.blocks)
}

// Fingerprint returns a hash of the blocks in the snapshot. Two snapshots holding the same blocks share
// a fingerprint no matter the order the blocks were set in.
func (s *Snapshot) Fingerprint() uint64 {
	s.RLock()
	defer s.RUnlock()
	return s.fingerprint
}

func entryHash(pos cube.Pos, b world.Block) uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(int64(pos[0])))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(pos[1])))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(pos[2])))
	binary.LittleEndian.PutUint64(buf[24:], world.BlockHash(b))
	return xxh3.Hash(buf[:])
}

// source exposes a snapshot to block models that look at their neighbours, such as fences and walls.
type source struct {
	s *Snapshot
}

func (src source) Block(pos cube.Pos) world.Block {
	return src.s.BlockAt(pos)
}
