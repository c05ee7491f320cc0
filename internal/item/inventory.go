package item

import (
	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/ids"
)

// Slot identifies one of the fixed equipment slots (spec §3 "Inventory").
type Slot uint8

const (
	SlotHead Slot = iota
	SlotNecklace
	SlotBackpack
	SlotArmor
	SlotRightHand
	SlotLeftHand
	SlotLegs
	SlotFeet
	SlotRing
	SlotAmmo
	slotCount
)

func (s Slot) String() string {
	names := [...]string{"Head", "Necklace", "Backpack", "Armor", "RightHand", "LeftHand", "Legs", "Feet", "Ring", "Ammo"}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// Inventory is a player's fixed slot set plus the mirrored contents of any
// container currently occupying a slot (spec §3: "inventory_containers
// map, flushed from open-container sessions").
type Inventory struct {
	slots               [slotCount]*ItemStack
	inventoryContainers map[Slot][]*ItemStack
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{inventoryContainers: make(map[Slot][]*ItemStack)}
}

// Get returns the item in the given slot, or nil if empty.
func (inv *Inventory) Get(s Slot) *ItemStack {
	return inv.slots[s]
}

// Set places (or clears, with nil) the item in the given slot directly,
// bypassing two-handed/body-position validation — used by the container
// engine after validation has already happened.
func (inv *Inventory) Set(s Slot, stack *ItemStack) {
	inv.slots[s] = stack
	if stack == nil {
		delete(inv.inventoryContainers, s)
	}
}

// Each iterates over every occupied slot.
func (inv *Inventory) Each(fn func(Slot, *ItemStack)) {
	for s, it := range inv.slots {
		if it != nil {
			fn(Slot(s), it)
		}
	}
}

// MirroredContents returns the cached contents mirror for a slot's open
// container session, or nil if the slot holds no container / nothing is
// mirrored.
func (inv *Inventory) MirroredContents(s Slot) []*ItemStack {
	return inv.inventoryContainers[s]
}

// SetMirroredContents stores the flushed contents of a closed container
// session back onto its origin slot (spec §4.9: "on close... contents are
// written back to the backing store").
func (inv *Inventory) SetMirroredContents(s Slot, items []*ItemStack) {
	inv.inventoryContainers[s] = items
}

// IsTwoHanded reports whether the static type in typeID is flagged
// TwoHanded.
func IsTwoHanded(cat *catalog.Index, typeID ids.ItemTypeId) bool {
	return cat.Get(int32(typeID)).HasFlag(catalog.FlagTwoHanded)
}

// OppositeHand returns the other hand slot.
func OppositeHand(s Slot) Slot {
	if s == SlotRightHand {
		return SlotLeftHand
	}
	return SlotRightHand
}

// CanEquip validates the two-handed-weapon invariant (spec P4: "the
// opposite hand slot is empty") before Equip commits the placement. It does
// NOT check body-position compatibility between the slot and item type —
// callers (worldstate) are expected to have already resolved which slot an
// item's BodyPosition attribute maps to.
func (inv *Inventory) CanEquip(cat *catalog.Index, s Slot, stack *ItemStack) error {
	if (s == SlotRightHand || s == SlotLeftHand) && IsTwoHanded(cat, stack.TypeID) {
		if inv.Get(OppositeHand(s)) != nil {
			return errItemAction("two-handed weapon requires the opposite hand to be empty")
		}
	}
	// Equipping into a hand slot when the *other* hand already holds a
	// two-handed weapon is equally forbidden.
	other := OppositeHand(s)
	if (s == SlotRightHand || s == SlotLeftHand) {
		if existing := inv.Get(other); existing != nil && IsTwoHanded(cat, existing.TypeID) {
			return errItemAction("cannot equip into a hand occupied by a two-handed weapon's reach")
		}
	}
	return nil
}

// Equip places stack into slot s after validating the two-handed invariant.
func (inv *Inventory) Equip(cat *catalog.Index, s Slot, stack *ItemStack) error {
	if err := inv.CanEquip(cat, s, stack); err != nil {
		return err
	}
	inv.Set(s, stack)
	return nil
}

type itemActionError string

func (e itemActionError) Error() string { return string(e) }

func errItemAction(msg string) error { return itemActionError(msg) }
