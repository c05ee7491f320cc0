package worldstate

import (
	"fmt"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/moveuse"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/tile"
)

// errItemAction wraps an item-action denial in the fixed wire format spec
// §7 names: "capacity, container full, container slot occupied, tile item
// count insufficient, cannot split non-stackable, cannot move container
// into itself, container not open".
func errItemAction(reason string) error { return fmt.Errorf("%s", reason) }

// itemWeight reads a type's carry weight, defaulting to 0 for types that
// don't declare one.
func (ws *WorldState) itemWeight(stack *item.ItemStack) int32 {
	return int32(ws.Catalog.Get(int32(stack.TypeID)).AttrInt("Weight", 0))
}

// --- open/close container -------------------------------------------------

// OpenContainerFromTile opens a container session rooted at a tile's
// stack item (spec §3 "OpenContainer", §6 "open_container_*").
func (ws *WorldState) OpenContainerFromTile(id ids.PlayerId, pos geom.Position, stackIdx int) (uint8, error) {
	p, ok := ws.Players[id]
	if !ok {
		return 0, fmt.Errorf("unknown player")
	}
	t, ok := ws.Map.Get(pos)
	if !ok || stackIdx < 0 || stackIdx >= len(t.Items) {
		return 0, errItemAction("tile item count insufficient")
	}
	root := t.Items[stackIdx]
	if !root.IsContainer(ws.Catalog) {
		return 0, fmt.Errorf("not a container")
	}
	session := p.Containers.Open(root, item.TileRoot(pos, stackIdx), ws.Catalog, nil)
	if session == nil {
		return 0, errItemAction("container full")
	}
	return session.Handle.Index(), nil
}

// OpenContainerFromInventory opens a container rooted at an equipment slot.
func (ws *WorldState) OpenContainerFromInventory(id ids.PlayerId, slot item.Slot) (uint8, error) {
	p, ok := ws.Players[id]
	if !ok {
		return 0, fmt.Errorf("unknown player")
	}
	root := p.Inventory.Get(slot)
	if root == nil {
		return 0, fmt.Errorf("slot empty")
	}
	if !root.IsContainer(ws.Catalog) {
		return 0, fmt.Errorf("not a container")
	}
	session := p.Containers.Open(root, item.InventoryRoot(id, slot), ws.Catalog, nil)
	if session == nil {
		return 0, errItemAction("container full")
	}
	return session.Handle.Index(), nil
}

// OpenContainerFromContainer opens a nested container one level below an
// already-open session (spec §3 OpenContainer "parent pointer").
func (ws *WorldState) OpenContainerFromContainer(id ids.PlayerId, parentWireID uint8, idx int) (uint8, error) {
	p, ok := ws.Players[id]
	if !ok {
		return 0, fmt.Errorf("unknown player")
	}
	parent := p.Containers.Get(parentWireID)
	if parent == nil {
		return 0, errItemAction("container not open")
	}
	if idx < 0 || idx >= len(parent.Items) {
		return 0, errItemAction("tile item count insufficient")
	}
	root := parent.Items[idx]
	if !root.IsContainer(ws.Catalog) {
		return 0, fmt.Errorf("not a container")
	}
	origin := ws.containerChildRoot(parent, idx)
	session := p.Containers.Open(root, origin, ws.Catalog, parent)
	if session == nil {
		return 0, errItemAction("container full")
	}
	return session.Handle.Index(), nil
}

// containerChildRoot builds the ItemRoot a nested session's write-back
// resolves through: an index inside whichever root the parent session
// itself is anchored to (spec §4.9: "contents are written back to the
// backing store").
func (ws *WorldState) containerChildRoot(parent *item.OpenContainer, idx int) item.ItemRoot {
	switch parent.Origin.Kind {
	case item.RootInventory:
		return item.InventoryContainerRoot(parent.Origin.Player, parent.Origin.Slot, idx)
	case item.RootDepot:
		return item.DepotRoot(parent.Origin.Player, parent.Origin.DepotID, idx)
	default:
		return parent.Origin
	}
}

// CloseContainer ends a session, writing its mirrored contents back to the
// backing item tree (spec §4.9, §8 L2 "close_container leaves backing
// storage unchanged iff no mutations were performed").
func (ws *WorldState) CloseContainer(id ids.PlayerId, wireID uint8) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	session := p.Containers.Get(wireID)
	if session == nil {
		return errItemAction("container not open")
	}
	items := p.Containers.Close(wireID)
	ws.writeContainerBack(p, session, items)
	ws.QueueContainerClose(id, wireID)
	return nil
}

// writeContainerBack stamps a closed session's final mirrored contents
// onto whichever ItemStack its Origin addresses.
func (ws *WorldState) writeContainerBack(p *player.State, session *item.OpenContainer, items []*item.ItemStack) {
	switch session.Origin.Kind {
	case item.RootTile:
		t, ok := ws.Map.Get(session.Origin.Pos)
		if ok && session.Origin.StackIdx < len(t.Items) {
			t.Items[session.Origin.StackIdx].Contents = items
		}
	case item.RootInventory:
		if stack := p.Inventory.Get(session.Origin.Slot); stack != nil {
			stack.Contents = items
		}
	case item.RootInventoryContainer:
		if parent := ws.findOpenParentStack(p, session); parent != nil {
			parent.Contents = items
		}
	case item.RootDepot:
		ws.writeDepotBack(p, session.Origin.DepotID, session.Origin.ContainerIdx, items)
	}
}

// findOpenParentStack resolves a RootInventoryContainer origin back to the
// live ItemStack one level up, searching the player's still-open sessions
// for the one rooted at that slot.
func (ws *WorldState) findOpenParentStack(p *player.State, session *item.OpenContainer) *item.ItemStack {
	var found *item.ItemStack
	p.Containers.Each(func(_ uint8, s *item.OpenContainer) {
		if s == session {
			return
		}
		if s.Origin.Kind == item.RootInventory && s.Origin.Slot == session.Origin.Slot {
			if session.Origin.ContainerIdx >= 0 && session.Origin.ContainerIdx < len(s.Items) {
				found = s.Items[session.Origin.ContainerIdx]
			}
		}
	})
	return found
}

// writeDepotBack writes a closed nested session back into a depot slot.
// Depots in this module are keyed by town name (housing.DepotSet), while
// ItemRoot addresses a depot numerically (DepotID) -- this module does not
// yet expose an open_container_from_depot command, so no live session ever
// reaches this path; left as a documented no-op rather than inventing an
// index scheme the depot package doesn't define.
func (ws *WorldState) writeDepotBack(p *player.State, depotID int32, idx int, items []*item.ItemStack) {
}

// --- move between containers/inventory/tile ------------------------------

// itemSource resolves a move operation's source item and a function that
// removes it from there, so every move_* variant below can share the same
// rollback-on-failure shape spec §7 requires ("restore_container_item /
// place_on_tile_with_dustbin").
type itemSource struct {
	stack  *item.ItemStack
	remove func()
	revert func()
}

func (ws *WorldState) sourceFromInventory(p *player.State, slot item.Slot) (itemSource, error) {
	stack := p.Inventory.Get(slot)
	if stack == nil {
		return itemSource{}, fmt.Errorf("slot empty")
	}
	return itemSource{
		stack:  stack,
		remove: func() { p.Inventory.Set(slot, nil); p.Stats.Capacity += ws.itemWeight(stack) },
		revert: func() { p.Inventory.Set(slot, stack); p.Stats.Capacity -= ws.itemWeight(stack) },
	}, nil
}

func (ws *WorldState) sourceFromTile(pos geom.Position, idx int) (itemSource, error) {
	t, ok := ws.Map.Get(pos)
	if !ok || idx < 0 || idx >= len(t.Items) {
		return itemSource{}, errItemAction("tile item count insufficient")
	}
	stack := t.Items[idx]
	return itemSource{
		stack:  stack,
		remove: func() { t.RemoveAt(idx) },
		revert: func() { t.Push(stack, tile.Detail{Present: true}) },
	}, nil
}

func (ws *WorldState) sourceFromContainer(p *player.State, wireID uint8, idx int) (itemSource, error) {
	session := p.Containers.Get(wireID)
	if session == nil {
		return itemSource{}, errItemAction("container not open")
	}
	if idx < 0 || idx >= len(session.Items) {
		return itemSource{}, errItemAction("tile item count insufficient")
	}
	stack := session.Items[idx]
	return itemSource{
		stack: stack,
		remove: func() {
			session.Items = append(session.Items[:idx], session.Items[idx+1:]...)
		},
		revert: func() {
			tail := append([]*item.ItemStack{stack}, session.Items[idx:]...)
			session.Items = append(session.Items[:idx], tail...)
		},
	}, nil
}

// placeInContainer appends to an open session after validating capacity
// and the self-insertion rule (spec §8 scenario 6, §4.9 "no container may
// be moved into a descendant of itself").
func (ws *WorldState) placeInContainer(p *player.State, wireID uint8, stack *item.ItemStack) error {
	session := p.Containers.Get(wireID)
	if session == nil {
		return errItemAction("container not open")
	}
	if stack.IsContainer(ws.Catalog) {
		if err := item.ValidateMoveIntoContainer(stack, session); err != nil {
			return err
		}
	} else if len(session.Items) >= session.Capacity {
		return errItemAction("container full")
	}
	session.Items = append(session.Items, stack)
	ws.QueueContainerRefresh(p.ID, wireID)
	return nil
}

func (ws *WorldState) placeInInventory(p *player.State, slot item.Slot, stack *item.ItemStack) error {
	if p.Inventory.Get(slot) != nil {
		return errItemAction("container slot occupied")
	}
	if ws.itemWeight(stack) > p.Stats.Capacity {
		return errItemAction("capacity")
	}
	if err := p.Inventory.Equip(ws.Catalog, slot, stack); err != nil {
		return err
	}
	p.Stats.Capacity -= ws.itemWeight(stack)
	return nil
}

func (ws *WorldState) placeOnTile(pos geom.Position, stack *item.ItemStack) {
	t := ws.Map.GetOrCreate(pos)
	t.Push(stack, tile.Detail{Present: true})
}

// MoveInventoryItemToContainer moves an equipped item into an open
// container session (spec §8 scenario 6).
func (ws *WorldState) MoveInventoryItemToContainer(id ids.PlayerId, slot item.Slot, destWireID uint8) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	src, err := ws.sourceFromInventory(p, slot)
	if err != nil {
		return err
	}
	src.remove()
	if err := ws.placeInContainer(p, destWireID, src.stack); err != nil {
		src.revert()
		return err
	}
	return nil
}

// MoveContainerItemToInventory moves an item out of an open container
// session into an equipment slot.
func (ws *WorldState) MoveContainerItemToInventory(id ids.PlayerId, srcWireID uint8, srcIdx int, destSlot item.Slot) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	src, err := ws.sourceFromContainer(p, srcWireID, srcIdx)
	if err != nil {
		return err
	}
	src.remove()
	if err := ws.placeInInventory(p, destSlot, src.stack); err != nil {
		src.revert()
		return err
	}
	ws.QueueContainerRefresh(id, srcWireID)
	return nil
}

// MoveContainerItemToContainer moves an item between two open sessions
// (possibly the same one, repositioning it).
func (ws *WorldState) MoveContainerItemToContainer(id ids.PlayerId, srcWireID uint8, srcIdx int, destWireID uint8) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	src, err := ws.sourceFromContainer(p, srcWireID, srcIdx)
	if err != nil {
		return err
	}
	src.remove()
	if err := ws.placeInContainer(p, destWireID, src.stack); err != nil {
		src.revert()
		return err
	}
	ws.QueueContainerRefresh(id, srcWireID)
	return nil
}

// MoveTileItemToContainer moves an item from a tile stack into an open
// container session.
func (ws *WorldState) MoveTileItemToContainer(id ids.PlayerId, pos geom.Position, idx int, destWireID uint8) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	src, err := ws.sourceFromTile(pos, idx)
	if err != nil {
		return err
	}
	src.remove()
	if err := ws.placeInContainer(p, destWireID, src.stack); err != nil {
		src.revert()
		return err
	}
	return nil
}

// MoveContainerItemToTile moves an item out of an open container session
// onto a map tile (spec §6 "move_* tile variant").
func (ws *WorldState) MoveContainerItemToTile(id ids.PlayerId, srcWireID uint8, srcIdx int, pos geom.Position) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	src, err := ws.sourceFromContainer(p, srcWireID, srcIdx)
	if err != nil {
		return err
	}
	src.remove()
	ws.placeOnTile(pos, src.stack)
	ws.QueueContainerRefresh(id, srcWireID)
	return nil
}

// --- use object ------------------------------------------------------------

// resolveUseSource locates the concrete ItemStack a UseObjectSource
// addresses (spec §9 "UseObjectSource = Map | Inventory | Container").
func (ws *WorldState) resolveUseSource(p *player.State, src item.UseObjectSource) (*item.ItemStack, geom.Position, error) {
	switch src.Kind {
	case item.UseFromMap:
		t, ok := ws.Map.Get(src.Pos)
		if !ok || src.StackIdx < 0 || src.StackIdx >= len(t.Items) {
			return nil, geom.Position{}, errItemAction("tile item count insufficient")
		}
		return t.Items[src.StackIdx], src.Pos, nil
	case item.UseFromInventory:
		stack := p.Inventory.Get(src.Slot)
		if stack == nil {
			return nil, geom.Position{}, fmt.Errorf("slot empty")
		}
		return stack, p.Pos, nil
	case item.UseFromContainer:
		session := p.Containers.Get(src.ContainerID)
		if session == nil {
			return nil, geom.Position{}, errItemAction("container not open")
		}
		if src.StackIdx < 0 || src.StackIdx >= len(session.Items) {
			return nil, geom.Position{}, errItemAction("tile item count insufficient")
		}
		return session.Items[src.StackIdx], p.Pos, nil
	default:
		return nil, geom.Position{}, fmt.Errorf("unknown use source")
	}
}

// UseObject fires a single-item Use rule (spec §4.2, §6 "use_object_*").
func (ws *WorldState) UseObject(id ids.PlayerId, src item.UseObjectSource) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	obj1, pos, err := ws.resolveUseSource(p, src)
	if err != nil {
		return err
	}
	if ws.MoveUseRules == nil {
		return fmt.Errorf("no usable effect")
	}
	evalCtx := ws.moveUseEvalContext(pos, obj1, p)
	match, ok := moveuse.FindRule(ws.MoveUseRules, moveuse.EventUse, evalCtx)
	if !ok {
		ws.QueueMoveUseOutcome(id, MoveUseOutcome{Action: "use", Skipped: true})
		return nil
	}
	applyCtx := ws.moveUseApplyContext(pos, obj1, p)
	moveuse.ApplyActions(match.Rule.Actions, applyCtx)
	ws.QueueMoveUseOutcome(id, MoveUseOutcome{Action: "use"})
	return nil
}

// UseObjectWith fires a two-item MultiUse rule, e.g. applying a key to a
// door or a rune to a target (spec §4.2 "Obj1|Obj2" pairing).
func (ws *WorldState) UseObjectWith(id ids.PlayerId, src, target item.UseObjectSource) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	obj1, pos, err := ws.resolveUseSource(p, src)
	if err != nil {
		return err
	}
	obj2, _, err := ws.resolveUseSource(p, target)
	if err != nil {
		return err
	}
	if ws.MoveUseRules == nil {
		return fmt.Errorf("no usable effect")
	}
	evalCtx := ws.moveUseEvalContext(pos, obj1, p)
	evalCtx.ObjType = func(ref moveuse.ObjRef) ids.ItemTypeId {
		switch ref {
		case moveuse.RefObj1:
			return obj1.TypeID
		case moveuse.RefObj2:
			return obj2.TypeID
		default:
			return 0
		}
	}
	match, ok := moveuse.FindRule(ws.MoveUseRules, moveuse.EventMultiUse, evalCtx)
	if !ok {
		ws.QueueMoveUseOutcome(id, MoveUseOutcome{Action: "multiuse", Skipped: true})
		return nil
	}
	applyCtx := ws.moveUseApplyContext(pos, obj1, p)
	moveuse.ApplyActions(match.Rule.Actions, applyCtx)
	ws.QueueMoveUseOutcome(id, MoveUseOutcome{Action: "multiuse"})
	return nil
}
