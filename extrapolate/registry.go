package extrapolate

import (
	"context"
	"encoding/binary"
	"math"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/simulation"
	"github.com/oomph-ac/motionsim/worker"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Actor is a tracked actor whose position can be extrapolated.
type Actor interface {
	ID() uint64
	// Player returns true if the actor moves with player physics.
	Player() bool
	Position() mgl64.Vec3
	LastPosition() mgl64.Vec3
	State() simulation.ActorState
	Observation() input.Observation
	Environment(w simulation.WorldProvider) simulation.Environment
}

// fingerprinter is implemented by worlds that can tell whether their contents changed.
type fingerprinter interface {
	Fingerprint() uint64
}

type entry struct {
	cache       *SimulatedPlayerCache
	fingerprint uint64
	generation  uint64
}

// Registry holds one SimulatedPlayerCache per actor. A cache is reused until the world tick advances or the
// state it was built from changes.
type Registry struct {
	mu sync.Mutex

	log       *logrus.Logger
	world     simulation.WorldProvider
	horizon   int
	deadAngle float32

	generation uint64
	entries    *orderedmap.OrderedMap[uint64, *entry]

	local      bool
	localID    uint64
	localInput input.Input
}

// NewRegistry creates a registry whose caches simulate in w up to horizon ticks ahead. log may be nil.
func NewRegistry(w simulation.WorldProvider, horizon int, log *logrus.Logger) *Registry {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Registry{
		log:       log,
		world:     w,
		horizon:   horizon,
		deadAngle: input.DefaultDeadAngle,
		entries:   orderedmap.NewOrderedMap[uint64, *entry](),
	}
}

// ForLocalPlayer returns the cache of the local player, which holds the input passed. Later calls to
// ForActor for the same actor keep using that input.
func (r *Registry) ForLocalPlayer(a Actor, in input.Input) *SimulatedPlayerCache {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.local, r.localID, r.localInput = true, a.ID(), in
	return r.cacheFor(a, in, true)
}

// ForOtherPlayer returns the cache of another player. Its input is guessed from its last movement.
func (r *Registry) ForOtherPlayer(a Actor) *SimulatedPlayerCache {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheFor(a, input.GuessWithDeadAngle(a.Observation(), r.deadAngle), false)
}

// ForActor returns the cache of a, as the local player if a was last passed to ForLocalPlayer.
func (r *Registry) ForActor(a Actor) *SimulatedPlayerCache {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.local && a.ID() == r.localID {
		return r.cacheFor(a, r.localInput, true)
	}
	return r.cacheFor(a, input.GuessWithDeadAngle(a.Observation(), r.deadAngle), false)
}

func (r *Registry) cacheFor(a Actor, in input.Input, local bool) *SimulatedPlayerCache {
	state := a.State()
	fp := fingerprint(state, in, local, r.worldFingerprint())

	e, ok := r.entries.Get(a.ID())
	if ok && e.generation == r.generation && e.fingerprint == fp {
		return e.cache
	}
	if ok {
		r.debug(a.ID(), "invalidated cache", logrus.Fields{
			"stale_generation": e.generation != r.generation,
			"state_changed":    e.fingerprint != fp,
		})
	}

	env := a.Environment(r.world)
	if r.log != nil && r.log.IsLevelEnabled(logrus.TraceLevel) {
		env.Debugf = r.log.WithField("actor", a.ID()).Tracef
	}

	var p *simulation.SimulatedPlayer
	if local {
		p = simulation.FromLocalPlayer(state, in, env)
	} else {
		p = simulation.FromOtherPlayer(state, in, env)
	}
	c := NewSimulatedPlayerCache(p, r.horizon)
	r.entries.Set(a.ID(), &entry{cache: c, fingerprint: fp, generation: r.generation})
	return c
}

// SetDeadAngle changes the dead zone, in degrees, used to guess the keys of other players.
func (r *Registry) SetDeadAngle(deg float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deadAngle = deg
}

// Advance moves the registry to the next world tick. Every cache is rebuilt the next time it is requested.
func (r *Registry) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
}

// Generation returns the number of times Advance was called.
func (r *Registry) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Prune removes the caches of actors that were not requested since the last Advance and returns how many
// were removed.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []uint64
	for el := r.entries.Front(); el != nil; el = el.Next() {
		if el.Value.generation != r.generation {
			stale = append(stale, el.Key)
		}
	}
	for _, id := range stale {
		r.entries.Delete(id)
		r.debug(id, "pruned cache", nil)
	}
	return len(stale)
}

// Forget removes the cache of the actor with the ID passed.
func (r *Registry) Forget(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries.Delete(id)
	if r.local && r.localID == id {
		r.local = false
	}
}

// Len returns the number of caches held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Len()
}

// IDs returns the IDs of the actors with a cache, in the order they were first added.
func (r *Registry) IDs() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Keys()
}

// Prewarm simulates the caches of the players passed up to the horizon on the worker pool. It returns once
// every submitted cache is filled, or with the context error if ctx is done before all were submitted.
func (r *Registry) Prewarm(ctx context.Context, actors []Actor) error {
	var (
		wg   sync.WaitGroup
		seen = make(map[uint64]struct{}, len(actors))
	)
	defer wg.Wait()

	for _, a := range actors {
		if _, ok := seen[a.ID()]; ok || !a.Player() {
			continue
		}
		seen[a.ID()] = struct{}{}

		c := r.ForActor(a)
		wg.Add(1)
		err := worker.SubmitContext(ctx, func() {
			defer wg.Done()
			c.SnapshotAt(c.Horizon())
		})
		if err != nil {
			wg.Done()
			return err
		}
	}
	return nil
}

func (r *Registry) worldFingerprint() uint64 {
	if f, ok := r.world.(fingerprinter); ok {
		return f.Fingerprint()
	}
	return 0
}

func (r *Registry) debug(id uint64, msg string, fields logrus.Fields) {
	if r.log == nil {
		return
	}
	r.log.WithField("actor", id).WithField("generation", r.generation).WithFields(fields).Debug(msg)
}

// fingerprint hashes everything a simulated player is built from.
func fingerprint(s simulation.ActorState, in input.Input, local bool, world uint64) uint64 {
	buf := make([]byte, 0, 160)
	for _, v := range [...]mgl64.Vec3{s.Position, s.LastPosition, s.Velocity} {
		buf = appendVec(buf, v)
	}
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.Yaw))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.Pitch))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.FallDistance))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.JumpCooldown))
	buf = appendBools(buf,
		s.OnGround, s.Sprinting, s.FallFlying, s.HorizontalCollision, s.VerticalCollision,
		s.TouchingWater, s.Swimming, s.Underwater,
		s.Body.Passenger, s.Body.NoGravity, s.Body.Flying, s.Body.IgnoresFluids,
		s.Body.DiscardFriction, s.Body.SuppressLadderSlide, s.Body.CanWalkOnPowderSnow,
	)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.Body.Width))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.Body.Height))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.Body.EyeHeight))

	d := in.Directional
	buf = appendBools(buf,
		d.Forward, d.Backward, d.Left, d.Right,
		in.Jumping, in.Sprinting, in.Sneaking, in.IgnoreLedgeClip, in.ForceSafeWalk, local,
	)
	buf = binary.LittleEndian.AppendUint64(buf, world)
	return xxh3.Hash(buf)
}

func appendVec(buf []byte, v mgl64.Vec3) []byte {
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return buf
}

func appendBools(buf []byte, vals ...bool) []byte {
	var b byte
	for i, v := range vals {
		if v {
			b |= 1 << (i % 8)
		}
		if i%8 == 7 || i == len(vals)-1 {
			buf = append(buf, b)
			b = 0
		}
	}
	return buf
}
