package entity

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/motionsim/projectile"
)

// Group is a set of tracked entities that projectiles can hit.
type Group []*Entity

// NearbyTargets returns the entities of the group whose bounding box intersects bb.
func (g Group) NearbyTargets(bb cube.BBox) []projectile.Target {
	var targets []projectile.Target
	for _, e := range g {
		if e.BBox().IntersectsWith(bb) {
			targets = append(targets, e)
		}
	}
	return targets
}

// Lookup returns the entity with the runtime ID passed.
func (g Group) Lookup(id uint64) (*Entity, bool) {
	for _, e := range g {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// At returns the group as it was at the tick passed, using the position each entity had closest to that
// tick. Entities without a position history are where they are now.
func (g Group) At(tick int64) projectile.EntityProvider {
	return rewoundGroup{g: g, tick: tick}
}

type rewoundGroup struct {
	g    Group
	tick int64
}

func (r rewoundGroup) NearbyTargets(bb cube.BBox) []projectile.Target {
	var targets []projectile.Target
	for _, e := range r.g {
		t := rewoundTarget{Entity: e, bb: e.BBox()}
		if hp, ok := e.Rewind(r.tick); ok {
			t.bb = e.BBoxAt(hp.Position)
		}
		if t.bb.IntersectsWith(bb) {
			targets = append(targets, t)
		}
	}
	return targets
}

// rewoundTarget is an entity hit at a past position.
type rewoundTarget struct {
	*Entity
	bb cube.BBox
}

func (t rewoundTarget) BBox() cube.BBox {
	return t.bb
}
