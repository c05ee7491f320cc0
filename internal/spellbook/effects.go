package spellbook

import (
	"github.com/opentibia/worldcore/internal/combat"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/statustimer"
)

// DamageEffect returns the damage a damage-kind spell deals to one target,
// reusing combat's roll/protection/manashield math directly (spec §4.3
// step 6 "Damage: ComputeDamage then apply_protection then
// apply_damage_with_magic_shield").
func DamageEffect(spell Spell, casterMagicLevel, targetLevel, targetSkill int32, protections []combat.Protection, targetMana, targetHealth int32, manaShieldActive bool) (newMana, newHealth, dealt int32) {
	raw := combat.ComputeDamage(spell.BaseDamage, spell.Variance, casterMagicLevel, targetLevel, targetSkill, spell.ScaleFlags, spell.Offset)
	reduced := combat.ApplyProtection(raw, spell.DamageType, protections)
	newMana, newHealth = combat.ApplyDamageWithManaShield(reduced, targetMana, targetHealth, manaShieldActive)
	return newMana, newHealth, reduced
}

// HealEffect returns the HP a heal-kind spell restores, capped at maxHealth.
func HealEffect(spell Spell, currentHealth, maxHealth int32) int32 {
	newHealth := currentHealth + spell.HealAmount
	if newHealth > maxHealth {
		newHealth = maxHealth
	}
	return newHealth
}

// SummonResult is what a summon or raise-dead effect hands back for
// worldstate to actually spawn (spellbook has no monster-creation access,
// matching the decoupled value-object pattern monster.MoveDecision uses).
type SummonResult struct {
	Race  int32
	Count int32
}

// SummonEffect reports whether a new summon may be created given the
// caster's current live-summon count against the spell's cap.
func SummonEffect(spell Spell, currentSummonCount int32) (allowed bool, result SummonResult) {
	if currentSummonCount >= spell.SummonCap {
		return false, SummonResult{}
	}
	return true, SummonResult{Race: spell.SummonRace, Count: spell.SummonCount}
}

// ConvinceEffect reports whether the caster may add one more convinced
// summon/follower, reusing the same cap check as SummonEffect (spec §4.3
// groups "Summon (cap check)" and "Convince (cap check)" together).
func ConvinceEffect(spell Spell, currentSummonCount int32) bool {
	return currentSummonCount < spell.SummonCap
}

// HasteEffect returns the SpeedEffect a haste/paralyze-removal spell
// applies (negative HasteDelta makes the spell offensive per
// Spell.IsOffensive).
func HasteEffect(spell Spell) statustimer.SpeedEffect {
	return statustimer.SpeedEffect{Active: true, Delta: spell.HasteDelta, PercentAdd: spell.HastePercent}
}

// LightEffectOf returns the LightEffect a light spell applies.
func LightEffectOf(spell Spell) statustimer.LightEffect {
	return statustimer.LightEffect{Active: true, Radius: spell.LightRadius, Color: spell.LightColor}
}

// ManaShieldEffectOf returns the ManaShieldEffect a mana-shield spell
// applies.
func ManaShieldEffectOf() statustimer.ManaShieldEffect {
	return statustimer.ManaShieldEffect{Active: true}
}

// OutfitEffectOf returns the OutfitEffect an outfit/illusion spell applies.
func OutfitEffectOf(spell Spell) statustimer.OutfitEffect {
	return statustimer.OutfitEffect{Active: true, LooksLike: spell.OutfitLooksLike}
}

// FieldEffect reports the item type a field spell should place at each
// resolved tile (spec §4.3 "Field: place a field item at each resolved
// tile"). Placement/overwrite rules live in worldstate/tile.
func FieldEffect(spell Spell) ids.ItemTypeId {
	return spell.FieldItemType
}

// DispelResult reports what a dispel spell should clear.
type DispelResult struct {
	ClearFields bool
	ClearItems  bool
}

// DispelEffect returns what a dispel-kind spell clears at its resolved
// tiles.
func DispelEffect(spell Spell) DispelResult {
	return DispelResult{ClearFields: spell.DispelFields, ClearItems: spell.DispelItems}
}

// ChallengeEffect reports that the caster should become the taunted
// target's new aggro focus; the actual retarget happens in
// monster.PlanCombat/worldstate, this just signals intent succeeded.
func ChallengeEffect() bool { return true }

// LevitateEffect reports the floor delta a levitate spell applies (+1 up,
// -1 down); spec names the effect without further parameters so only
// direction is modeled.
func LevitateEffect(up bool) int8 {
	if up {
		return 1
	}
	return -1
}

// RaiseDeadEffect mirrors SummonEffect for the raise-dead effect kind,
// which spec groups alongside summon under the same cap-check rule.
func RaiseDeadEffect(spell Spell, currentSummonCount int32) (allowed bool, result SummonResult) {
	if currentSummonCount >= spell.SummonCap {
		return false, SummonResult{}
	}
	return true, SummonResult{Race: spell.SummonRace, Count: 1}
}

// EnchantStaffEffect reports the item-type transform an enchant-staff
// spell performs on a wielded weapon (spec §4.3 "EnchantStaff: transmute
// a held weapon into its enchanted counterpart").
func EnchantStaffEffect(spell Spell, heldType ids.ItemTypeId) (ids.ItemTypeId, bool) {
	if heldType != spell.EnchantSourceType {
		return heldType, false
	}
	return spell.EnchantTargetType, true
}

// MagicRopeEffect reports that the spell creates a rope-climb opportunity
// at the caster's position; spec names it without further parameters.
func MagicRopeEffect() bool { return true }

// FindPersonEffect reports nothing beyond "found/not found"; the actual
// direction/distance readout is assembled by worldstate from the live
// player position it already holds (spellbook has no player lookup).
func FindPersonEffect(found bool) bool { return found }

// ConjureEffect returns the item type and count a conjure spell creates
// (spec §4.3 "Conjure: create N of an item type in the caster's hand").
func ConjureEffect(spell Spell) (ids.ItemTypeId, int32) {
	return spell.ConjureItemType, spell.ConjureCount
}
