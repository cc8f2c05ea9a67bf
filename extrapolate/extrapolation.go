package extrapolate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the method an Extrapolation predicts positions with.
type Kind uint8

const (
	KindConstant Kind = iota
	KindLinear
	KindPlayerSimulated
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindLinear:
		return "linear"
	case KindPlayerSimulated:
		return "player_simulated"
	default:
		return "unknown"
	}
}

// Extrapolation predicts the position of an actor some ticks into the future.
type Extrapolation struct {
	Kind Kind

	// Position is the fixed position of a constant extrapolation, or the base of a linear one.
	Position mgl64.Vec3
	// Velocity is the per tick movement of a linear extrapolation.
	Velocity mgl64.Vec3
	// Cache backs a player simulated extrapolation.
	Cache *SimulatedPlayerCache
}

// Constant returns an extrapolation that always predicts p.
func Constant(p mgl64.Vec3) Extrapolation {
	return Extrapolation{Kind: KindConstant, Position: p}
}

// Linear returns an extrapolation that moves from base by vel every tick.
func Linear(base, vel mgl64.Vec3) Extrapolation {
	return Extrapolation{Kind: KindLinear, Position: base, Velocity: vel}
}

// PlayerSimulated returns an extrapolation that reads positions from a simulated player cache.
func PlayerSimulated(cache *SimulatedPlayerCache) Extrapolation {
	return Extrapolation{Kind: KindPlayerSimulated, Cache: cache}
}

// PositionInTicks returns the predicted position t ticks from now. Player simulated extrapolations round t
// to the nearest tick and never predict past the cache horizon. Without a cache they fall back to moving
// linearly from Position.
func (e Extrapolation) PositionInTicks(t float64) mgl64.Vec3 {
	switch {
	case e.Kind == KindLinear, e.Kind == KindPlayerSimulated && e.Cache == nil:
		return e.Position.Add(e.Velocity.Mul(t))
	case e.Kind == KindPlayerSimulated:
		n := 0
		if !math.IsNaN(t) {
			n = int(math.Round(math.Max(0, math.Min(t, float64(e.Cache.Horizon())))))
		}
		return e.Cache.SnapshotAt(n).Position
	default:
		return e.Position
	}
}

// ForActor returns the extrapolation for an actor: players are simulated through the registry, anything
// else moves on in a straight line at its last observed speed.
func ForActor(a Actor, r *Registry) Extrapolation {
	if !a.Player() || r == nil {
		return Linear(a.Position(), a.Position().Sub(a.LastPosition()))
	}
	return PlayerSimulated(r.ForActor(a))
}
