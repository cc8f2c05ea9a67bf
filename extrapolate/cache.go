package extrapolate

import (
	"github.com/oomph-ac/motionsim/assert"
	"github.com/oomph-ac/motionsim/simulation"
)

// DefaultHorizon is the number of ticks a SimulatedPlayerCache predicts ahead.
const DefaultHorizon = 30

// SimulatedPlayerCache lazily simulates a player up to a fixed horizon and keeps every tick it computed.
// Snapshot 0 is the state the cache was created from. A cache is not safe for concurrent use.
type SimulatedPlayerCache struct {
	player    *simulation.SimulatedPlayer
	snapshots []simulation.Snapshot
	horizon   int
}

// NewSimulatedPlayerCache creates a cache that simulates a private clone of base. A horizon of zero or less
// uses DefaultHorizon.
func NewSimulatedPlayerCache(base *simulation.SimulatedPlayer, horizon int) *SimulatedPlayerCache {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	p := base.Clone()

	snapshots := make([]simulation.Snapshot, 1, horizon+1)
	snapshots[0] = p.Snapshot()
	return &SimulatedPlayerCache{player: p, snapshots: snapshots, horizon: horizon}
}

// SnapshotAt returns the state n ticks after the base state. n is clamped to [0, Horizon()].
func (c *SimulatedPlayerCache) SnapshotAt(n int) simulation.Snapshot {
	n = c.clamp(n)
	c.computeUntil(n)
	return c.snapshots[n]
}

// SnapshotsBetween returns the states from tick from up to, but not including, tick to. Both are clamped
// to [0, Horizon()+1].
func (c *SimulatedPlayerCache) SnapshotsBetween(from, to int) []simulation.Snapshot {
	from, to = max(from, 0), min(to, c.horizon+1)
	if from >= to {
		return nil
	}
	c.computeUntil(to - 1)
	return append([]simulation.Snapshot(nil), c.snapshots[from:to]...)
}

// Len returns the number of snapshots computed so far.
func (c *SimulatedPlayerCache) Len() int {
	return len(c.snapshots)
}

// Horizon returns the last tick the cache simulates.
func (c *SimulatedPlayerCache) Horizon() int {
	return c.horizon
}

func (c *SimulatedPlayerCache) clamp(n int) int {
	return max(0, min(n, c.horizon))
}

// computeUntil simulates ticks until snapshot n exists.
func (c *SimulatedPlayerCache) computeUntil(n int) {
	for len(c.snapshots) <= n {
		c.player.Tick()
		c.snapshots = append(c.snapshots, c.player.Snapshot())
	}
	assert.IsTrue(len(c.snapshots) <= c.horizon+1, "cache holds %d snapshots past horizon %d", len(c.snapshots), c.horizon)
}
