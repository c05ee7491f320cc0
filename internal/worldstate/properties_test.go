package worldstate

import (
	"testing"
	"time"

	"github.com/opentibia/worldcore/internal/combat"
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/spellbook"
	"github.com/opentibia/worldcore/internal/tile"
)

const propertyCatalog = `
id:500 name:"backpack" flags:Container,Take attrs:Capacity=20
id:501 name:"pouch" flags:Container,Take attrs:Capacity=20
id:400 name:"two handed sword" flags:TwoHanded,Take
id:401 name:"dagger" flags:Take
id:402 name:"shield" flags:Take
id:600 name:"gold coin" flags:Stackable attrs:StackableCap=100
`

// P1: an ItemId moved from one location to another never appears in both
// at once.
func TestPropertyItemIDNeverDuplicatedAcrossLocations(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	p := spawnTestPlayer(ws, 1, "Mover", geom.Position{X: 0, Y: 0, Z: 7})

	backpack := item.NewItemStack(ws.NextItemID(), 500)
	p.Inventory.Set(item.SlotBackpack, backpack)
	dagger := item.NewItemStack(ws.NextItemID(), 401)
	p.Inventory.Set(item.SlotRightHand, dagger)

	wireID, err := ws.OpenContainerFromInventory(p.ID, item.SlotBackpack)
	if err != nil {
		t.Fatalf("open container: %v", err)
	}

	if err := ws.MoveInventoryItemToContainer(p.ID, item.SlotRightHand, wireID); err != nil {
		t.Fatalf("move dagger into backpack: %v", err)
	}

	if p.Inventory.Get(item.SlotRightHand) != nil {
		t.Fatal("dagger should no longer be in the right hand slot")
	}
	session := p.Containers.Get(wireID)
	found := 0
	for _, it := range session.Items {
		if it.ID == dagger.ID {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("dagger should appear exactly once in the open container, found %d times", found)
	}
}

// P2: every tile satisfies items/item_details length parity after
// mutation, via tile.Tile.Validate.
func TestPropertyTileItemsAndDetailsStayParallel(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	p := spawnTestPlayer(ws, 1, "Dropper", geom.Position{X: 5, Y: 5, Z: 7})
	dagger := item.NewItemStack(ws.NextItemID(), 401)
	p.Inventory.Set(item.SlotRightHand, dagger)

	if err := ws.DropToTile(p.ID, item.SlotRightHand); err != nil {
		t.Fatalf("drop to tile: %v", err)
	}

	tl, ok := ws.Map.Get(p.Pos)
	if !ok {
		t.Fatal("expected a tile at the player's position")
	}
	if err := tl.Validate(); err != nil {
		t.Fatalf("tile invariant violated: %v", err)
	}
}

// P3: a container session whose parent is nil is rooted directly at an
// inventory slot or a map tile; a nested session's parent is non-nil.
func TestPropertyContainerReachableFromInventoryOrTile(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	p := spawnTestPlayer(ws, 1, "Nester", geom.Position{X: 0, Y: 0, Z: 7})

	outer := item.NewItemStack(ws.NextItemID(), 500)
	inner := item.NewItemStack(ws.NextItemID(), 501)
	outer.Contents = append(outer.Contents, inner)
	p.Inventory.Set(item.SlotBackpack, outer)

	outerWire, err := ws.OpenContainerFromInventory(p.ID, item.SlotBackpack)
	if err != nil {
		t.Fatalf("open outer container: %v", err)
	}
	outerSession := p.Containers.Get(outerWire)
	if outerSession.Parent != nil {
		t.Fatal("top-level session should have no parent")
	}
	if outerSession.Origin.Kind != item.RootInventory {
		t.Fatalf("top-level session should be rooted at an inventory slot, got %v", outerSession.Origin.Kind)
	}

	innerWire, err := ws.OpenContainerFromContainer(p.ID, outerWire, 0)
	if err != nil {
		t.Fatalf("open nested container: %v", err)
	}
	innerSession := p.Containers.Get(innerWire)
	if innerSession.Parent == nil {
		t.Fatal("nested session should have a parent")
	}
	if innerSession.Origin.Kind != item.RootInventoryContainer {
		t.Fatalf("nested session should be rooted through its parent's inventory slot, got %v", innerSession.Origin.Kind)
	}
}

// P4: equipping a two-handed weapon requires, and enforces, an empty
// opposite-hand slot.
func TestPropertyTwoHandedWeaponKeepsOppositeHandEmpty(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	p := spawnTestPlayer(ws, 1, "Swordsman", geom.Position{X: 0, Y: 0, Z: 7})

	sword := item.NewItemStack(ws.NextItemID(), 400)
	if err := p.Inventory.Equip(ws.Catalog, item.SlotRightHand, sword); err != nil {
		t.Fatalf("equip two-handed sword: %v", err)
	}
	shield := item.NewItemStack(ws.NextItemID(), 402)
	if err := p.Inventory.CanEquip(ws.Catalog, item.SlotLeftHand, shield); err == nil {
		t.Fatal("expected off-hand equip to be rejected while wielding a two-handed weapon")
	}
}

// P5: a stackable item's count stays within [1, 65535].
func TestPropertyStackableCountStaysInRange(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	coins := item.NewItemStack(ws.NextItemID(), 600)
	coins.Count = 50
	if err := coins.ValidateInvariants(ws.Catalog); err != nil {
		t.Fatalf("50 coins should validate: %v", err)
	}
	coins.Count = 0
	if err := coins.ValidateInvariants(ws.Catalog); err == nil {
		t.Fatal("a count of 0 should violate the stackable-count invariant")
	}
}

// P6: after an offensive cast_spell, the target's PvP fight timer is at
// least the configured fight-timer duration.
func TestPropertyOffensiveCastSetsFightTimer(t *testing.T) {
	ws := newTestWorld(t, ``, 100*time.Millisecond)
	caster := spawnTestPlayer(ws, 1, "Caster", geom.Position{X: 0, Y: 0, Z: 7})
	target := spawnTestPlayer(ws, 2, "Target", geom.Position{X: 1, Y: 0, Z: 7})
	target.Stats.Health = 100
	target.Stats.MaxHealth = 100

	spellID := ids.SpellId(9)
	ws.SpellBook[spellID] = spellbook.Spell{
		ID:         spellID,
		Shape:      spellbook.Shape{Kind: spellbook.ShapeArea, Radius: 0},
		Effect:     spellbook.EffectDamage,
		BaseDamage: 5,
		DamageType: combat.DamagePhysical,
	}
	caster.KnownSpells[spellID] = true

	if err := ws.CastSpellByPlayer(caster.ID, spellID, target.Pos); err != nil {
		t.Fatalf("cast spell: %v", err)
	}
	if target.PvPFightTimer < fightTimerTicks {
		t.Fatalf("target fight timer = %d, want >= %d", target.PvPFightTimer, fightTimerTicks)
	}
	if caster.PvPFightTimer < fightTimerTicks {
		t.Fatalf("caster fight timer = %d, want >= %d", caster.PvPFightTimer, fightTimerTicks)
	}
	if caster.WhiteSkullTimer < fightTimerTicks {
		t.Fatalf("caster white-skull timer = %d, want >= %d", caster.WhiteSkullTimer, fightTimerTicks)
	}
}

// P6 (cooldown half): recasting the same spell before its cooldown has
// elapsed is rejected with ErrOnCooldown, and the per-spell cast tick
// persists across separate CastSpellByPlayer calls rather than resetting
// with a fresh Caster snapshot each time.
func TestPropertyRecastBeforeCooldownIsRejected(t *testing.T) {
	ws := newTestWorld(t, ``, 100*time.Millisecond)
	caster := spawnTestPlayer(ws, 1, "Caster", geom.Position{X: 0, Y: 0, Z: 7})
	caster.Stats.Mana = 1000

	spellID := ids.SpellId(11)
	ws.SpellBook[spellID] = spellbook.Spell{
		ID:     spellID,
		Effect: spellbook.EffectLight,
		Requirements: spellbook.Requirements{
			CooldownTicks: 1000,
		},
	}
	caster.KnownSpells[spellID] = true

	if err := ws.CastSpellByPlayer(caster.ID, spellID, caster.Pos); err != nil {
		t.Fatalf("first cast: %v", err)
	}
	err := ws.CastSpellByPlayer(caster.ID, spellID, caster.Pos)
	if err != spellbook.ErrOnCooldown {
		t.Fatalf("err = %v, want ErrOnCooldown", err)
	}
}

// B4: summon creation is refused once the caster's live summon count
// reaches the spell's configured cap.
func TestBoundarySummonRefusedAtCap(t *testing.T) {
	ws := newTestWorld(t, ``, 100*time.Millisecond)
	caster := spawnTestPlayer(ws, 1, "Summoner", geom.Position{X: 5, Y: 5, Z: 7})

	spellID := ids.SpellId(12)
	ws.SpellBook[spellID] = spellbook.Spell{
		ID:          spellID,
		Effect:      spellbook.EffectSummon,
		SummonRace:  1,
		SummonCount: 1,
		SummonCap:   1,
	}
	caster.KnownSpells[spellID] = true

	if err := ws.CastSpellByPlayer(caster.ID, spellID, caster.Pos); err != nil {
		t.Fatalf("first summon cast: %v", err)
	}
	if got := ws.summonCountFor(caster.ID); got != 1 {
		t.Fatalf("summon count after first cast = %d, want 1", got)
	}

	if err := ws.CastSpellByPlayer(caster.ID, spellID, caster.Pos); err != nil {
		t.Fatalf("second summon cast: %v", err)
	}
	if got := ws.summonCountFor(caster.ID); got != 1 {
		t.Fatalf("summon count once cap is reached = %d, want still 1", got)
	}
}

// L2: open_container followed by close_container with no mutation leaves
// the backing item tree unchanged.
func TestLawCloseContainerNoMutationIsNoOp(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	p := spawnTestPlayer(ws, 1, "Browser", geom.Position{X: 0, Y: 0, Z: 7})

	backpack := item.NewItemStack(ws.NextItemID(), 500)
	original := item.NewItemStack(ws.NextItemID(), 401)
	backpack.Contents = append(backpack.Contents, original)
	p.Inventory.Set(item.SlotBackpack, backpack)

	wireID, err := ws.OpenContainerFromInventory(p.ID, item.SlotBackpack)
	if err != nil {
		t.Fatalf("open container: %v", err)
	}
	if err := ws.CloseContainer(p.ID, wireID); err != nil {
		t.Fatalf("close container: %v", err)
	}

	after := p.Inventory.Get(item.SlotBackpack)
	if len(after.Contents) != 1 || after.Contents[0].ID != original.ID {
		t.Fatalf("backpack contents changed after a no-op open/close: %+v", after.Contents)
	}
}

// L3: drop_to_tile followed by pickup_from_tile of the same stack is a
// no-op when weight/capacity allow it.
func TestLawDropThenPickupRoundTrips(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	p := spawnTestPlayer(ws, 1, "Roundtripper", geom.Position{X: 2, Y: 2, Z: 7})
	p.Stats.Capacity = 1000

	dagger := item.NewItemStack(ws.NextItemID(), 401)
	p.Inventory.Set(item.SlotRightHand, dagger)
	capacityBefore := p.Stats.Capacity

	if err := ws.DropToTile(p.ID, item.SlotRightHand); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := ws.PickupFromTile(p.ID, p.Pos, item.SlotRightHand); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	if p.Inventory.Get(item.SlotRightHand) != dagger {
		t.Fatal("expected the same stack back in the right hand slot")
	}
	if p.Stats.Capacity != capacityBefore {
		t.Fatalf("capacity after round trip = %d, want %d", p.Stats.Capacity, capacityBefore)
	}
	tl, _ := ws.Map.Get(p.Pos)
	if len(tl.Items) != 0 {
		t.Fatalf("expected the tile to be empty again after pickup, got %+v", tl.Items)
	}
}

// L4: trade_request followed by trade_close (before acceptance) returns
// both players to their pre-trade inventories.
func TestLawTradeCloseBeforeAcceptLeavesInventoriesUntouched(t *testing.T) {
	ws := newTestWorld(t, propertyCatalog, 100*time.Millisecond)
	a := spawnTestPlayer(ws, 1, "Alice", geom.Position{X: 0, Y: 0, Z: 7})
	b := spawnTestPlayer(ws, 2, "Bob", geom.Position{X: 1, Y: 0, Z: 7})

	dagger := item.NewItemStack(ws.NextItemID(), 401)
	a.Inventory.Set(item.SlotRightHand, dagger)

	if err := ws.TradeRequest(a.ID, b.ID); err != nil {
		t.Fatalf("trade request: %v", err)
	}
	if err := ws.TradeOfferItem(a.ID, item.SlotRightHand); err != nil {
		t.Fatalf("offer item: %v", err)
	}
	if err := ws.TradeClose(a.ID); err != nil {
		t.Fatalf("close trade: %v", err)
	}

	if a.Inventory.Get(item.SlotRightHand) != dagger {
		t.Fatal("offering an item into a trade should not remove it before acceptance")
	}
	if _, stillTrading := ws.Trades[a.ID]; stillTrading {
		t.Fatal("trade session should be gone after trade_close")
	}
	if _, stillTrading := ws.Trades[b.ID]; stillTrading {
		t.Fatal("trade session should be gone for the counterparty too")
	}
}

// B2: a tile flagged as a protection zone blocks an offensive spell from
// being cast at it.
func TestBoundaryOffensiveSpellBlockedInProtectionZone(t *testing.T) {
	ws := newTestWorld(t, ``, 100*time.Millisecond)
	caster := spawnTestPlayer(ws, 1, "Caster", geom.Position{X: 0, Y: 0, Z: 7})
	targetPos := geom.Position{X: 1, Y: 0, Z: 7}
	ws.Map.GetOrCreate(targetPos).Flags |= tile.FlagProtectionZone

	spellID := ids.SpellId(3)
	ws.SpellBook[spellID] = spellbook.Spell{
		ID:         spellID,
		Shape:      spellbook.Shape{Kind: spellbook.ShapeArea, Radius: 0},
		Effect:     spellbook.EffectDamage,
		BaseDamage: 5,
		DamageType: combat.DamagePhysical,
	}
	caster.KnownSpells[spellID] = true

	err := ws.CastSpellByPlayer(caster.ID, spellID, targetPos)
	if err != spellbook.ErrInProtectionZone {
		t.Fatalf("err = %v, want ErrInProtectionZone", err)
	}
}
