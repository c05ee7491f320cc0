package item

import (
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
)

// RootKind discriminates the ItemRoot tagged union (spec §9 Design Notes:
// "ItemRoot = Tile{pos, idx} | Inventory{player, slot} |
// InventoryContainer{player, slot, idx} | Depot{player, depot, idx}").
type RootKind uint8

const (
	RootTile RootKind = iota
	RootInventory
	RootInventoryContainer
	RootDepot
)

// ItemRoot addresses where an item tree is ultimately anchored. Exactly one
// of the payload fields is meaningful, selected by Kind.
type ItemRoot struct {
	Kind RootKind

	// RootTile
	Pos       geom.Position
	StackIdx  int

	// RootInventory / RootInventoryContainer
	Player ids.PlayerId
	Slot   Slot

	// RootInventoryContainer / RootDepot
	ContainerIdx int

	// RootDepot
	DepotID int32
}

// TileRoot builds an ItemRoot anchored to a map tile's stack position.
func TileRoot(pos geom.Position, stackIdx int) ItemRoot {
	return ItemRoot{Kind: RootTile, Pos: pos, StackIdx: stackIdx}
}

// InventoryRoot builds an ItemRoot anchored to a player's equipment slot.
func InventoryRoot(player ids.PlayerId, slot Slot) ItemRoot {
	return ItemRoot{Kind: RootInventory, Player: player, Slot: slot}
}

// InventoryContainerRoot anchors to an index within a slot's mirrored
// container contents.
func InventoryContainerRoot(player ids.PlayerId, slot Slot, idx int) ItemRoot {
	return ItemRoot{Kind: RootInventoryContainer, Player: player, Slot: slot, ContainerIdx: idx}
}

// DepotRoot anchors to an index within a player's named-town depot.
func DepotRoot(player ids.PlayerId, depotID int32, idx int) ItemRoot {
	return ItemRoot{Kind: RootDepot, Player: player, DepotID: depotID, ContainerIdx: idx}
}

// UseObjectSourceKind discriminates where a "use object" command's operand
// item was addressed from (spec §9 Design Notes: "UseObjectSource = Map |
// Inventory | Container").
type UseObjectSourceKind uint8

const (
	UseFromMap UseObjectSourceKind = iota
	UseFromInventory
	UseFromContainer
)

// UseObjectSource identifies the origin of an item referenced by a player
// command, prior to resolving it to a concrete ItemRoot.
type UseObjectSource struct {
	Kind UseObjectSourceKind
	Pos  geom.Position // UseFromMap
	Slot Slot          // UseFromInventory / UseFromContainer
	// ContainerID addresses an open container session (UseFromContainer).
	ContainerID uint8
	StackIdx    int
}

// ItemPath addresses an item instance by traversal from its root (spec §9
// Design Notes: "paths are {root, indices} that address items by
// traversal"). The ItemId -> ItemPath index built from this is a cache,
// rebuilt lazily by worldstate — this package only defines the shape.
type ItemPath struct {
	Root    ItemRoot
	Indices []int // nested Contents[] indices below the root, if any
}
