// Package item implements the item placement model: ItemStack instances,
// their tagged attribute variants, the fixed-slot player Inventory, and the
// OpenContainer session tree (spec §3 "ItemStack"/"Inventory", §4.9, §9
// "tagged unions everywhere ownership branches").
package item

import (
	"fmt"

	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/ids"
)

// AttributeKind discriminates the tagged variants an item instance can carry
// (spec §3: "dynamic strings, quest numbers, liquid types").
type AttributeKind uint8

const (
	AttrKindString AttributeKind = iota
	AttrKindInt
	AttrKindLiquid
)

// LiquidType enumerates the handful of liquid contents runes/fluid
// containers can hold.
type LiquidType uint8

const (
	LiquidNone LiquidType = iota
	LiquidWater
	LiquidWine
	LiquidBeer
	LiquidBlood
	LiquidSlime
	LiquidMana
)

// Attribute is one tagged (key, value) pair attached to an item instance.
// Only one of StringVal/IntVal/LiquidVal is meaningful, selected by Kind.
type Attribute struct {
	Key       string
	Kind      AttributeKind
	StringVal string
	IntVal    int64
	LiquidVal LiquidType
}

// Common attribute keys.
const (
	AttrQuestValuePrefix = "quest:" // "quest:<id>" -> IntVal
	AttrResponsible      = "Responsible"
	AttrSavedExpireTime  = "SavedExpireTime"
	AttrRemainingUses    = "RemainingUses"
	AttrCharges          = "Charges"
	AttrDynamicText      = "Text"
	AttrLiquidContent    = "Liquid"
)

// ItemStack is one item instance: a type, a count, tagged attributes, and —
// for container-flagged types — nested contents.
type ItemStack struct {
	ID       ids.ItemId
	TypeID   ids.ItemTypeId
	Count    uint16 // 1 for non-stackable; ≤ stackable cap for stackable (spec P5)
	Attrs    []Attribute
	Contents []*ItemStack // non-empty only for container-flagged types
}

// NewItemStack constructs a fresh item instance with count 1 (caller sets
// Count for stackables).
func NewItemStack(id ids.ItemId, typeID ids.ItemTypeId) *ItemStack {
	return &ItemStack{ID: id, TypeID: typeID, Count: 1}
}

// IsContainer reports whether this item's static type is flagged Container.
func (s *ItemStack) IsContainer(cat *catalog.Index) bool {
	if s == nil {
		return false
	}
	return cat.Get(int32(s.TypeID)).HasFlag(catalog.FlagContainer)
}

// ValidateInvariants checks the per-instance invariants spec §3 names:
// count >= 1, contents only for containers, counts within stackable cap.
func (s *ItemStack) ValidateInvariants(cat *catalog.Index) error {
	if s.Count < 1 {
		return fmt.Errorf("item %d: count must be >= 1, got %d", s.ID, s.Count)
	}
	ot := cat.Get(int32(s.TypeID))
	isStackable := ot.HasFlag(catalog.FlagStackable)
	if isStackable {
		cap := ot.AttrInt(catalog.AttrStackableCap, 100)
		if int(s.Count) > cap {
			return fmt.Errorf("item %d: count %d exceeds stackable cap %d", s.ID, s.Count, cap)
		}
	} else if s.Count != 1 {
		return fmt.Errorf("item %d: non-stackable must have count 1, got %d", s.ID, s.Count)
	}
	if len(s.Contents) > 0 && !ot.HasFlag(catalog.FlagContainer) {
		return fmt.Errorf("item %d: non-container type %d has contents", s.ID, s.TypeID)
	}
	return nil
}

// GetAttr returns the attribute with the given key, or nil if absent.
func (s *ItemStack) GetAttr(key string) *Attribute {
	for i := range s.Attrs {
		if s.Attrs[i].Key == key {
			return &s.Attrs[i]
		}
	}
	return nil
}

// SetIntAttr sets (or replaces) an integer-valued attribute.
func (s *ItemStack) SetIntAttr(key string, v int64) {
	if a := s.GetAttr(key); a != nil {
		a.Kind = AttrKindInt
		a.IntVal = v
		return
	}
	s.Attrs = append(s.Attrs, Attribute{Key: key, Kind: AttrKindInt, IntVal: v})
}

// SetStringAttr sets (or replaces) a string-valued attribute.
func (s *ItemStack) SetStringAttr(key, v string) {
	if a := s.GetAttr(key); a != nil {
		a.Kind = AttrKindString
		a.StringVal = v
		return
	}
	s.Attrs = append(s.Attrs, Attribute{Key: key, Kind: AttrKindString, StringVal: v})
}

// RemoveAttr deletes the attribute with the given key, if present.
func (s *ItemStack) RemoveAttr(key string) {
	for i := range s.Attrs {
		if s.Attrs[i].Key == key {
			s.Attrs = append(s.Attrs[:i], s.Attrs[i+1:]...)
			return
		}
	}
}

// TotalContentsCount returns the number of items in the whole subtree rooted
// at s (s itself not counted), used for depot capacity checks (spec §4.9:
// "total item-tree count <= depot capacity").
func (s *ItemStack) TotalContentsCount() int {
	n := 0
	for _, c := range s.Contents {
		n++
		n += c.TotalContentsCount()
	}
	return n
}

// ContainsID reports whether id appears anywhere in s's subtree (s itself
// included), used for the "no container may be moved into a descendant of
// itself" rule (spec §4.9, scenario 6).
func (s *ItemStack) ContainsID(id ids.ItemId) bool {
	if s == nil {
		return false
	}
	if s.ID == id {
		return true
	}
	for _, c := range s.Contents {
		if c.ContainsID(id) {
			return true
		}
	}
	return false
}

// ChangeType rewrites s's type in place, preserving cumulative count when
// both the old and new types are stackable (spec §4.2 Change semantics, §4.8
// change_itemstack_type, law L1). Charges/remaining-uses/liquid defaults for
// the new type are applied by the caller (catalog-aware), since this package
// has no cron/timer concept of its own.
func (s *ItemStack) ChangeType(newType ids.ItemTypeId, oldStackable, newStackable bool) {
	s.TypeID = newType
	if !oldStackable || !newStackable {
		if !newStackable {
			s.Count = 1
		}
	}
}
