// Package spellbook implements spell definitions and the `cast_spell`
// engine (spec §4.3 "Spell engine"): shape resolution, offensive/PZ/PvP
// gating, cost/cooldown deduction, and the full named effect catalog.
package spellbook

import (
	"github.com/opentibia/worldcore/internal/combat"
	"github.com/opentibia/worldcore/internal/ids"
)

// ShapeKind selects a spell's target-area resolution strategy (spec §4.3
// step 1: "Area{radius} via circle LUT; Line{length} via stepping;
// Cone{range, angleDegrees}").
type ShapeKind uint8

const (
	ShapeSelf ShapeKind = iota
	ShapeArea
	ShapeLine
	ShapeCone
)

// Shape bundles the parameters for whichever ShapeKind a spell uses.
type Shape struct {
	Kind        ShapeKind
	Radius      int
	Length      int
	ConeReach   int
	ConeDegrees float64
}

// EffectKind enumerates the named effect types spec §4.3 step 6 lists.
type EffectKind uint8

const (
	EffectDamage EffectKind = iota
	EffectHeal
	EffectSummon
	EffectConvince
	EffectHaste
	EffectLight
	EffectManaShield
	EffectOutfit
	EffectField
	EffectDispel
	EffectChallenge
	EffectLevitate
	EffectRaiseDead
	EffectEnchantStaff
	EffectMagicRope
	EffectFindPerson
	EffectConjure
)

// Requirements bundles the level/resource/cooldown gates spec §4.3 step 5
// names: "check level, magic level, mana, soul, per-spell cooldown, group
// cooldown, then deduct".
type Requirements struct {
	Level              int32
	MagicLevel         int32
	Mana               int32
	Soul               int32
	CooldownTicks      int32
	GroupID            int32
	GroupCooldownTicks int32
}

// Spell is one static spell definition. Only the fields relevant to the
// spell's own EffectKind are meaningful; the rest are zero.
type Spell struct {
	ID            ids.SpellId
	Name          string
	Shape         Shape
	IncludeCaster bool
	Effect        EffectKind
	Requirements  Requirements
	ViaRuneOnly   bool // spec §4.3 step 5: rune-cast spells skip mana/soul cost

	// EffectDamage
	BaseDamage int32
	Variance   int32
	Offset     int32
	DamageType combat.DamageType
	ScaleFlags combat.ScaleFlag

	// EffectHeal
	HealAmount int32

	// EffectSummon / EffectRaiseDead
	SummonRace  int32
	SummonCount int32
	SummonCap   int32

	// EffectHaste
	HasteDelta         int32
	HastePercent       int32
	HasteDurationTicks int32

	// EffectLight
	LightRadius        int32
	LightColor         int32
	LightDurationTicks int32

	// EffectOutfit
	OutfitLooksLike     int32
	OutfitDurationTicks int32

	// EffectField
	FieldItemType ids.ItemTypeId

	// EffectDispel
	DispelFields bool
	DispelItems  bool

	// EffectEnchantStaff
	EnchantSourceType ids.ItemTypeId
	EnchantTargetType ids.ItemTypeId

	// EffectConjure
	ConjureItemType ids.ItemTypeId
	ConjureCount    int32
}

// IsOffensive classifies a spell per spec §4.3 step 2: "offensive iff the
// effect deals damage, or it is a field, or haste with negative delta."
func (s Spell) IsOffensive() bool {
	switch s.Effect {
	case EffectDamage, EffectField:
		return true
	case EffectHaste:
		return s.HasteDelta < 0
	default:
		return false
	}
}
