package extrapolate

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/simulation"
)

type mockActor struct {
	id           uint64
	player       bool
	position     mgl64.Vec3
	lastPosition mgl64.Vec3
	yaw          float32
	onGround     bool
}

func (m *mockActor) ID() uint64               { return m.id }
func (m *mockActor) Player() bool             { return m.player }
func (m *mockActor) Position() mgl64.Vec3     { return m.position }
func (m *mockActor) LastPosition() mgl64.Vec3 { return m.lastPosition }

func (m *mockActor) State() simulation.ActorState {
	return simulation.ActorState{
		Position:     m.position,
		LastPosition: m.lastPosition,
		Yaw:          m.yaw,
		OnGround:     m.onGround,
	}
}

func (m *mockActor) Observation() input.Observation {
	return input.Observation{
		Position:     m.position,
		LastPosition: m.lastPosition,
		Yaw:          m.yaw,
		OnGround:     m.onGround,
	}
}

func (m *mockActor) Environment(w simulation.WorldProvider) simulation.Environment {
	return simulation.Environment{World: w}
}

func airborne(id uint64) *mockActor {
	return &mockActor{
		id:           id,
		player:       true,
		position:     mgl64.Vec3{0.5, 100, 0.5},
		lastPosition: mgl64.Vec3{0.5, 100, 0.5},
	}
}
