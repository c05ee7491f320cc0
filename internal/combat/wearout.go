package combat

import (
	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/item"
)

// WearOutResult reports what happened to an armor piece's wear-out charge
// after absorbing a hit (spec §4.4 step 4: "tick one wear-out charge on
// the piece (replace with WearoutTarget or delete when charges hit
// zero)").
type WearOutResult struct {
	Changed bool
	Deleted bool
	NewType int32 // ids.ItemTypeId, kept as a bare int32 to avoid importing internal/ids for one field
}

// TickWearOut decrements a worn item's RemainingUses/Charges attribute by
// one, returning whether the piece should be replaced by its
// WearoutTarget type or deleted once charges are exhausted.
func TickWearOut(stack *item.ItemStack, cat *catalog.Index) WearOutResult {
	ot := cat.Get(int32(stack.TypeID))
	if !ot.HasFlag(catalog.FlagWearoutItem) {
		return WearOutResult{}
	}
	charges := ot.AttrInt(catalog.AttrWearoutCharges, 1)
	attr := stack.GetAttr(item.AttrRemainingUses)
	remaining := int64(charges)
	if attr != nil {
		remaining = attr.IntVal
	}
	remaining--
	if remaining > 0 {
		stack.SetIntAttr(item.AttrRemainingUses, remaining)
		return WearOutResult{}
	}
	target := ot.AttrInt(catalog.AttrWearoutTarget, 0)
	if target == 0 {
		return WearOutResult{Deleted: true}
	}
	return WearOutResult{Changed: true, NewType: int32(target)}
}
