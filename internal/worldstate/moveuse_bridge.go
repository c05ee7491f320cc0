package worldstate

import (
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/moveuse"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/tile"
)

// runCollision fires the Collision event for a creature stepping onto pos,
// matching Obj1 against the destination tile's top item (spec §4.2, §8
// scenario 5: "Collision/IsType(Obj1,300) -> MoveTopRel(Obj1,[0,0,1])").
func (ws *WorldState) runCollision(p *player.State, pos geom.Position) {
	if ws.MoveUseRules == nil {
		return
	}
	t, ok := ws.Map.Get(pos)
	if !ok || len(t.Items) == 0 {
		return
	}
	top := t.Top()
	evalCtx := ws.moveUseEvalContext(pos, top, p)
	match, ok := moveuse.FindRule(ws.MoveUseRules, moveuse.EventCollision, evalCtx)
	if !ok {
		return
	}
	applyCtx := ws.moveUseApplyContext(pos, top, p)
	moveuse.ApplyActions(match.Rule.Actions, applyCtx)
}

// moveUseEvalContext builds the narrow query surface moveuse.FindRule
// consults. Obj1 is the tile's top item; Obj2 is unused by the collision
// rules this module implements; RefUser/RefTarget resolve to the moving
// player.
func (ws *WorldState) moveUseEvalContext(pos geom.Position, obj1 *item.ItemStack, p *player.State) moveuse.EvalContext {
	return moveuse.EvalContext{
		Stream: ws.RNG.MoveUse,
		ObjType: func(ref moveuse.ObjRef) ids.ItemTypeId {
			if ref == moveuse.RefObj1 && obj1 != nil {
				return obj1.TypeID
			}
			return 0
		},
		IsPosition: func(x, y int) bool {
			return int(pos.X) == x && int(pos.Y) == y
		},
		IsObjectThere: func(x, y int, typeID ids.ItemTypeId) bool {
			at, ok := ws.Map.Get(geom.Position{X: uint16(x), Y: uint16(y), Z: pos.Z})
			if !ok {
				return false
			}
			for _, it := range at.Items {
				if it.TypeID == typeID {
					return true
				}
			}
			return false
		},
		IsPlayerThere: func(x, y int) bool {
			for _, other := range ws.Players {
				if other.Online && int(other.Pos.X) == x && int(other.Pos.Y) == y && other.Pos.Z == pos.Z {
					return true
				}
			}
			return false
		},
		IsProtectionZone: func() bool { return ws.isProtectionZone(pos) },
		IsPlayer:         func() bool { return true },
		IsCreature:       func() bool { return true },
		IsPeaceful:       func() bool { return p.Stats.Level < 1 },
		MayLogout:        func() bool { return !p.InPvPFight() && !ws.isProtectionZone(pos) },
		Level:            func() int32 { return p.Stats.Level },
		Profession:       func() string { return professionName(p.Profession) },
	}
}

func professionName(p player.Profession) string {
	switch p {
	case player.ProfessionKnight:
		return "knight"
	case player.ProfessionPaladin:
		return "paladin"
	case player.ProfessionSorcerer:
		return "sorcerer"
	case player.ProfessionDruid:
		return "druid"
	default:
		return "none"
	}
}

// moveUseApplyContext builds the world mutation surface moveuse.ApplyActions
// drives, scoped to the subset of actions this module's rule set exercises:
// Change/ChangeOnMap (item transforms), Delete/DeleteOnMap, Create/
// CreateOnMap, Move/MoveRel/MoveTop/MoveTopRel/MoveTopOnMap (tile-stack
// repositioning), Text (a system message to the triggering player), and
// Damage (direct HP loss).
func (ws *WorldState) moveUseApplyContext(pos geom.Position, obj1 *item.ItemStack, p *player.State) moveuse.ApplyContext {
	return moveuse.ApplyContext{
		Change: func(ref moveuse.ObjRef, newType ids.ItemTypeId, value int64) error {
			if ref == moveuse.RefObj1 && obj1 != nil {
				obj1.TypeID = newType
			}
			return nil
		},
		ChangeOnMap: func(newType ids.ItemTypeId) error {
			if obj1 != nil {
				obj1.TypeID = newType
			}
			return nil
		},
		Delete: func(ref moveuse.ObjRef) error {
			ws.removeFromTile(pos, obj1)
			return nil
		},
		DeleteOnMap: func() error {
			ws.removeFromTile(pos, obj1)
			return nil
		},
		DeleteTopMap: func() error {
			t, ok := ws.Map.Get(pos)
			if ok && len(t.Items) > 0 {
				t.RemoveAt(len(t.Items) - 1)
			}
			return nil
		},
		Create: func(typeID ids.ItemTypeId, count int) error {
			stack := item.NewItemStack(ws.NextItemID(), typeID)
			stack.Count = uint16(count)
			t := ws.Map.GetOrCreate(pos)
			t.Push(stack, tile.Detail{Present: true})
			return nil
		},
		CreateOnMap: func(typeID ids.ItemTypeId, count int) error {
			stack := item.NewItemStack(ws.NextItemID(), typeID)
			stack.Count = uint16(count)
			t := ws.Map.GetOrCreate(pos)
			t.Push(stack, tile.Detail{Present: true})
			return nil
		},
		Move: func(dx, dy int, dz int8) error { return ws.moveObjOnTile(pos, obj1, dx, dy, dz) },
		MoveRel: func(dx, dy int, dz int8) error {
			return ws.moveObjOnTile(pos, obj1, dx, dy, dz)
		},
		MoveTop: func(dx, dy int, dz int8) error { return ws.moveObjOnTile(pos, obj1, dx, dy, dz) },
		MoveTopOnMap: func(dx, dy int, dz int8) error {
			return ws.moveObjOnTile(pos, obj1, dx, dy, dz)
		},
		MoveTopRel: func(dx, dy int, dz int8) error {
			dest := pos.Add(geom.PositionDelta{DX: int16(dx), DY: int16(dy), DZ: dz})
			p.Pos = dest
			return nil
		},
		Text: func(text string) error {
			ws.QueueMessage(p.ID, "system", text)
			return nil
		},
		Damage: func(amount int64) error {
			p.Stats.Health = clampInt32(p.Stats.Health-int32(amount), 0, p.Stats.MaxHealth)
			ws.QueueDataUpdate(p.ID, "health", int64(p.Stats.Health))
			if p.Stats.IsDead() {
				ws.handlePlayerDeath(p.ID, p)
			}
			return nil
		},
	}
}

// moveObjOnTile relocates obj1 from pos to pos+delta, used by the
// non-player-carrying Move* action family (spec §4.2 Move/MoveRel/MoveTop
// act on the object itself, distinct from MoveTopRel which the teacher's
// DSL also overloads to carry the triggering creature when the moved
// object is the tile's top and the rule targets the user -- this module
// keeps that single case in MoveTopRel above and treats every other Move*
// variant as "relocate the item").
func (ws *WorldState) moveObjOnTile(pos geom.Position, obj1 *item.ItemStack, dx, dy int, dz int8) error {
	if obj1 == nil {
		return nil
	}
	ws.removeFromTile(pos, obj1)
	dest := pos.Add(geom.PositionDelta{DX: int16(dx), DY: int16(dy), DZ: dz})
	t := ws.Map.GetOrCreate(dest)
	t.Push(obj1, tile.Detail{Present: true})
	return nil
}

func (ws *WorldState) removeFromTile(pos geom.Position, target *item.ItemStack) {
	if target == nil {
		return
	}
	t, ok := ws.Map.Get(pos)
	if !ok {
		return
	}
	for i, it := range t.Items {
		if it == target {
			t.RemoveAt(i)
			return
		}
	}
}
