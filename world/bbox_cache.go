package world

import (
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sasha-s/go-deadlock"
)

// BBoxCacheStats holds the hits and misses of a snapshot's collision box cache.
type BBoxCacheStats struct {
	Hits   int64
	Misses int64
}

// bboxCache caches the collision boxes of blocks by position, so block models are only asked once per block.
type bboxCache struct {
	mu      deadlock.RWMutex
	entries map[cube.Pos][]cube.BBox

	hits, misses atomic.Int64
}

func newBBoxCache() *bboxCache {
	return &bboxCache{entries: make(map[cube.Pos][]cube.BBox)}
}

// Get returns the cached boxes at pos. The slice returned must not be modified.
func (c *bboxCache) Get(pos cube.Pos) ([]cube.BBox, bool) {
	c.mu.RLock()
	boxes, ok := c.entries[pos]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return boxes, ok
}

// Set stores the boxes of the block at pos.
func (c *bboxCache) Set(pos cube.Pos, boxes []cube.BBox) {
	c.mu.Lock()
	c.entries[pos] = boxes
	c.mu.Unlock()
}

// Invalidate drops the boxes at pos and its neighbours, whose models may connect to the block at pos.
func (c *bboxCache) Invalidate(pos cube.Pos) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, pos)
	for _, f := range cube.Faces() {
		delete(c.entries, pos.Side(f))
	}
}

// Stats returns the hits and misses of the cache so far.
func (c *bboxCache) Stats() BBoxCacheStats {
	return BBoxCacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
