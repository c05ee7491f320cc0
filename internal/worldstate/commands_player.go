package worldstate

import (
	"context"
	"fmt"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/tile"
)

// playerMoveCooldownTicks is the baseline tile-traversal cost a player
// pays after every successful move_player (spec §8 scenario 2: "move_player
// (N) succeeds... immediate second call fails... after clock.advance(20)
// the call succeeds").
const playerMoveCooldownTicks = 20

// errMovement wraps a movement-denial reason in the fixed wire format
// spec §7 names: `"movement blocked: <reason>"`.
func errMovement(reason string) error { return fmt.Errorf("movement blocked: %s", reason) }

// SpawnPlayer creates (or re-activates) a player's live state at their
// last saved or default starting position (spec §3 PlayerState Lifecycle
// "created by spawn_player").
func (ws *WorldState) SpawnPlayer(id ids.PlayerId, name string, spawnPos geom.Position) (*player.State, error) {
	if existing, ok := ws.OfflinePlayers[id]; ok {
		delete(ws.OfflinePlayers, id)
		existing.Online = true
		ws.Players[id] = existing
		ws.NameToID[existing.Name] = id
		ws.notifyBuddiesOfOnlineChange(id, existing.Name, true)
		return existing, nil
	}
	if loaded, err := ws.Store.LoadPlayer(context.Background(), id); err == nil && loaded != nil {
		loaded.Online = true
		ws.Players[id] = loaded
		ws.NameToID[loaded.Name] = id
		ws.notifyBuddiesOfOnlineChange(id, loaded.Name, true)
		return loaded, nil
	}
	p := player.New(id, name, spawnPos)
	ws.Players[id] = p
	ws.NameToID[name] = id
	ws.notifyBuddiesOfOnlineChange(id, name, true)
	return p, nil
}

// MovePlayer steps a player one tile in direction d, applying the cooldown,
// bounds/blocking checks, and any Collision moveuse rule the destination
// tile's top item triggers (spec §4.2, §8 scenarios 2 and 5).
func (ws *WorldState) MovePlayer(id ids.PlayerId, d geom.Direction) error {
	p, ok := ws.Players[id]
	if !ok || !p.Online {
		return errMovement("creature")
	}
	if !p.Cooldowns.MoveReady() {
		return errMovement("cooldown")
	}
	dest := p.Pos.Step(d)
	if !ws.Map.InBounds(dest) {
		return errMovement("out of bounds")
	}
	if _, ok := ws.Map.Get(dest); !ok {
		return errMovement("missing tile")
	}
	for _, other := range ws.Monsters {
		if other.Pos == dest {
			return errMovement("creature")
		}
	}
	for otherID, other := range ws.Players {
		if otherID != id && other.Online && other.Pos == dest {
			return errMovement("creature")
		}
	}
	p.Pos = dest
	p.Direction = d
	p.Cooldowns.Move = playerMoveCooldownTicks
	ws.runCollision(p, dest)
	ws.QueueTurnUpdate(id, TurnUpdate{Creature: ids.CreatureId(id), Direction: int8(d)})
	return nil
}

// TurnPlayer changes facing without moving (spec §6 "turn_player").
func (ws *WorldState) TurnPlayer(id ids.PlayerId, d geom.Direction) error {
	p, ok := ws.Players[id]
	if !ok || !p.Online {
		return errMovement("creature")
	}
	p.Direction = d
	ws.QueueTurnUpdate(id, TurnUpdate{Creature: ids.CreatureId(id), Direction: int8(d)})
	return nil
}

// SetPlayerOutfit changes a player's current outfit (spec §6
// "set_player_outfit").
func (ws *WorldState) SetPlayerOutfit(id ids.PlayerId, outfit player.Outfit) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	p.CurrentOutfit = outfit
	ws.QueueOutfitUpdate(id, OutfitUpdate{Creature: ids.CreatureId(id), OutfitID: outfit.LookType})
	return nil
}

// SetPlayerAttackTarget backs set_player_attack_target; targetID of 0
// clears the attack target.
func (ws *WorldState) SetPlayerAttackTarget(id ids.PlayerId, targetID ids.CreatureId) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	p.AttackTarget = targetID
	return nil
}

// SetPlayerFollowTarget backs set_player_follow_target; targetID of 0
// clears the follow target.
func (ws *WorldState) SetPlayerFollowTarget(id ids.PlayerId, targetID ids.CreatureId) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	p.FollowTarget = targetID
	return nil
}

// PickupFromTile moves the top-matching item from a tile into a player's
// inventory slot, rolling back to the tile on capacity failure (spec §7
// item-action failures: "capacity"; §8 L3 round-trip law).
func (ws *WorldState) PickupFromTile(id ids.PlayerId, pos geom.Position, slot item.Slot) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	t, ok := ws.Map.Get(pos)
	if !ok || len(t.Items) == 0 {
		return fmt.Errorf("missing tile item")
	}
	idx := len(t.Items) - 1
	stack := t.Items[idx]
	weight := ws.Catalog.Get(int32(stack.TypeID)).AttrInt("Weight", 0)
	if int32(weight) > p.Stats.Capacity {
		return fmt.Errorf("capacity")
	}
	if p.Inventory.Get(slot) != nil {
		return fmt.Errorf("capacity")
	}
	t.RemoveAt(idx)
	if err := p.Inventory.Equip(ws.Catalog, slot, stack); err != nil {
		t.Push(stack, tile.Detail{Present: true})
		return err
	}
	p.Stats.Capacity -= int32(weight)
	return nil
}

// DropToTile places an inventory item onto the player's current tile
// (spec §6 "drop_to_tile"; §8 L3: "drop_to_tile; pickup_from_tile of the
// same stack is a no-op if weight/capacity allow").
func (ws *WorldState) DropToTile(id ids.PlayerId, slot item.Slot) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	stack := p.Inventory.Get(slot)
	if stack == nil {
		return fmt.Errorf("slot empty")
	}
	weight := ws.Catalog.Get(int32(stack.TypeID)).AttrInt("Weight", 0)
	p.Inventory.Set(slot, nil)
	p.Stats.Capacity += int32(weight)
	t := ws.Map.GetOrCreate(p.Pos)
	t.Push(stack, tile.Detail{Present: true})
	return nil
}

// TeleportPlayerAdmin instantly relocates a player bypassing movement
// cooldowns/collision checks (spec §6 "teleport_player_admin").
func (ws *WorldState) TeleportPlayerAdmin(id ids.PlayerId, pos geom.Position) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	p.Pos = pos
	return nil
}

// RequestLogout implements the logout gate (spec §6: "request_logout(player,
// clock) -> Result<(), {ProtectionZone, NoLogoutZone, InFight}>").
func (ws *WorldState) RequestLogout(id ids.PlayerId) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	if p.InPvPFight() {
		return fmt.Errorf("logout blocked: in fight")
	}
	t, inTile := ws.Map.Get(p.Pos)
	if inTile && t.HasFlag(tile.FlagNoLogout) {
		return fmt.Errorf("logout blocked: no-logout zone")
	}
	if !inTile || !t.HasFlag(tile.FlagProtectionZone) {
		return fmt.Errorf("logout blocked: protection zone")
	}
	ws.HandleDisconnect(id)
	return nil
}

// HandleDisconnect moves a player to offline_players, saving their state
// through the configured SaveStore (spec §3 PlayerState Lifecycle: "on
// disconnect, if logout allowed, moved to offline_players; saved through
// external SaveStore").
func (ws *WorldState) HandleDisconnect(id ids.PlayerId) {
	p, ok := ws.Players[id]
	if !ok {
		return
	}
	p.Online = false
	delete(ws.Players, id)
	ws.OfflinePlayers[id] = p
	delete(ws.pending, id)
	_ = ws.Store.SavePlayer(context.Background(), p)
	ws.notifyBuddiesOfOnlineChange(id, p.Name, false)
}
