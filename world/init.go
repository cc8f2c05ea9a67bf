package world

import (
	_ "unsafe"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/motionsim/oerror"
)

// noinspection ALL
//
//go:linkname world_finaliseBlockRegistry github.com/df-mc/dragonfly/server/world.finaliseBlockRegistry
func world_finaliseBlockRegistry()

func init() {
	world_finaliseBlockRegistry()
	if _, ok := world.BlockByName("minecraft:air", nil); !ok {
		panic(oerror.New("unable to find air in the block registry"))
	}
}
