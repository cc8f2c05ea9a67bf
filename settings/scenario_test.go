package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/oerror"
	"github.com/oomph-ac/motionsim/simulation"
)

const testScenario = `
[world]
chunks = [[4, 4]]

[[world.block]]
name = "minecraft:stone"
pos = [-2, 63, -2]
to = [2, 63, 2]

[[world.block]]
name = "minecraft:ladder"
properties = { facing_direction = 3 }
pos = [0, 64, 3]

[[actor]]
id = 1
local = true
position = [0.5, 64.0, 0.5]
yaw = 0.0
on_ground = true
sprinting = true
keys = ["forward", "left"]

[[actor.effect]]
name = "jump_boost"
amplifier = 1
duration = 200

[[actor]]
id = 2
position = [1.5, 64.0, 0.5]
last_position = [1.2, 64.0, 0.5]
on_ground = true

[[arrow]]
position = [0.5, 70.0, 0.5]
velocity = [0.0, -1.0, 0.0]
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(testScenario))
	if err != nil {
		t.Fatalf("unable to parse scenario: %v", err)
	}

	w := s.Snapshot()
	if w.Len() != 26 {
		t.Fatalf("expected 25 stone blocks and a ladder, got %d blocks", w.Len())
	}
	if _, ok := w.BlockAt(cube.Pos{2, 63, -2}).(block.Stone); !ok {
		t.Fatalf("expected the fill to include its corners")
	}
	if info := w.Block(cube.Pos{0, 64, 3}); !info.Ladder {
		t.Fatalf("expected a ladder, got %+v", info)
	}
	if !w.IsChunkLoaded(4, 4) || !w.IsChunkLoaded(-1, -1) || w.IsChunkLoaded(8, 8) {
		t.Fatalf("expected listed chunks and chunks with blocks to be loaded")
	}

	local, ok := s.Local()
	if !ok || local.ID != 1 {
		t.Fatalf("expected actor 1 to be the local player")
	}
	in := local.Input()
	if in.Directional != (input.DirectionalInput{Forward: true, Left: true}) || !in.Sprinting {
		t.Fatalf("expected forward, left and sprint, got %v", in)
	}

	entities := s.Entities()
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if inst, ok := entities[0].Environment(w).Effects.Effect(simulation.EffectJumpBoost); !ok || inst.Amplifier != 1 {
		t.Fatalf("expected actor 1 to have jump boost")
	}
	if v := entities[1].Position().Sub(entities[1].LastPosition()); !mgl64.FloatEqual(v[0], 0.3) {
		t.Fatalf("expected actor 2 to have moved 0.3 along x, got %v", v)
	}

	pos, vel := s.Arrows[0].Vectors()
	if pos != (mgl64.Vec3{0.5, 70, 0.5}) || vel != (mgl64.Vec3{0, -1, 0}) {
		t.Fatalf("unexpected arrow %v %v", pos, vel)
	}
}

func TestScenarioUnknownBlock(t *testing.T) {
	data := "[[world.block]]\nname = \"minecraft:not_a_block\"\npos = [0, 0, 0]\n"
	if _, err := ParseScenario([]byte(data)); !errors.Is(err, oerror.ErrUnknownBlock) {
		t.Fatalf("expected ErrUnknownBlock, got %v", err)
	}
}

func TestScenarioInvalid(t *testing.T) {
	cases := map[string]string{
		"short position": "[[actor]]\nid = 1\nposition = [0.0, 1.0]\n",
		"unknown key":    "[[actor]]\nid = 1\nposition = [0.0, 1.0, 0.0]\nkeys = [\"up\"]\n",
		"unknown effect": "[[actor]]\nid = 1\nposition = [0.0, 1.0, 0.0]\n[[actor.effect]]\nname = \"haste\"\n",
		"duplicate id":   "[[actor]]\nid = 1\nposition = [0.0, 1.0, 0.0]\n[[actor]]\nid = 1\nposition = [0.0, 1.0, 0.0]\n",
		"huge fill":      "[[world.block]]\nname = \"minecraft:stone\"\npos = [0, 0, 0]\nto = [100, 100, 100]\n",
		"malformed":      "[[actor]\n",
	}
	for name, data := range cases {
		if _, err := ParseScenario([]byte(data)); !errors.Is(err, oerror.ErrInvalidScenario) {
			t.Fatalf("%s: expected ErrInvalidScenario, got %v", name, err)
		}
	}
}

func TestLoadScenarioMissing(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing scenario")
	}
}

func TestScenarioPathReplay(t *testing.T) {
	data := `
[[actor]]
id = 1
position = [0.0, 64.0, 3.0]
path = [[0.0, 64.0, 0.0], [0.0, 64.0, 1.0], [0.0, 64.0, 2.0]]
on_ground = true
swimming = true
jump_cooldown = 3

[[actor.effect]]
name = "levitation"
duration = 10

[[actor]]
id = 2
position = [5.0, 64.0, 0.0]

[[arrow]]
position = [0.0, 65.0, -2.0]
velocity = [0.0, 0.0, 1.0]
latency = 3
`
	s, err := ParseScenario([]byte(data))
	if err != nil {
		t.Fatalf("unable to parse scenario: %v", err)
	}
	if s.Tick() != 3 {
		t.Fatalf("expected the scenario to be on tick 3, got %d", s.Tick())
	}

	e := s.Entities()[0]
	if e.Position() != (mgl64.Vec3{0, 64, 3}) || e.LastPosition() != (mgl64.Vec3{0, 64, 2}) {
		t.Fatalf("expected the actor to end its path at z=3, got %v from %v", e.Position(), e.LastPosition())
	}
	if hp, ok := e.Rewind(0); !ok || hp.Position != (mgl64.Vec3{0, 64, 0}) || !hp.Teleport {
		t.Fatalf("expected the first path position on tick 0, got %+v", hp)
	}
	if hp, _ := e.Rewind(2); hp.Position != (mgl64.Vec3{0, 64, 2}) {
		t.Fatalf("expected the third path position on tick 2, got %+v", hp)
	}
	if inst, ok := e.Environment(nil).Effects.Effect(simulation.EffectLevitation); !ok || inst.Duration != 7 {
		t.Fatalf("expected 3 ticks of the effect to have passed, got %+v", inst)
	}
	if state := e.State(); !state.Swimming || state.JumpCooldown != 3 {
		t.Fatalf("expected swimming with a jump cooldown of 3, got %+v", state)
	}
	if hp, ok := s.Entities()[1].Rewind(3); !ok || hp.Position != (mgl64.Vec3{5, 64, 0}) {
		t.Fatalf("expected an actor without path on the current tick, got %+v", hp)
	}
}

func TestScenarioPathConflicts(t *testing.T) {
	data := "[[actor]]\nid = 1\nposition = [0.0, 1.0, 0.0]\nlast_position = [0.0, 1.0, 0.0]\npath = [[0.0, 1.0, 0.0]]\n"
	if _, err := ParseScenario([]byte(data)); !errors.Is(err, oerror.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
	data = "[[arrow]]\nposition = [0.0, 1.0, 0.0]\nvelocity = [0.0, 1.0, 0.0]\nlatency = -1\n"
	if _, err := ParseScenario([]byte(data)); !errors.Is(err, oerror.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario for a negative latency, got %v", err)
	}
}
