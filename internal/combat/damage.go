// Package combat implements the paired attack/defend roll engine (spec
// §4.4 "Combat engine"). It operates on the decoupled Fighter view rather
// than importing player/monster concrete types, so both can feed combat
// without an import cycle (spec §9 implementation note: combat is a
// shared engine dispatched into by worldstate).
package combat

// DamageType is a single elemental/physical damage channel. Mask values
// let protection checks test membership cheaply.
type DamageType uint32

const (
	DamagePhysical DamageType = 1 << iota
	DamageFire
	DamageEnergy
	DamagePoison
	DamageDeath
	DamageHoly
	DamageLifeDrain
	DamageManaDrain
)

// ScaleFlag selects which derived stat additionally scales a damage roll
// beyond its base+variance (spec §4.3: "ComputeDamage(baseDamage, variance,
// magicLevel, level, scaleFlags, offset)").
type ScaleFlag uint8

const (
	ScaleNone ScaleFlag = 0
	ScaleMagicLevel ScaleFlag = 1 << iota
	ScaleLevel
	ScaleSkill
)

// ComputeDamage rolls a damage amount from a base+variance range, then
// applies the requested scaling factors and a flat offset (spec §4.3/§4.4).
// skillLevel is the melee skill level consulted for ScaleSkill; level is
// the creature's level consulted for ScaleLevel; magicLevel for
// ScaleMagicLevel.
func ComputeDamage(base, variance, magicLevel, level, skillLevel int32, scaleFlags ScaleFlag, offset int32) int32 {
	amount := base
	if variance > 0 {
		// Deterministic midpoint when no RNG stream is threaded in by the
		// caller; callers wanting randomized variance roll the stream
		// themselves and pass the rolled base directly (melee.go does this).
		amount += variance / 2
	}
	if scaleFlags&ScaleMagicLevel != 0 {
		amount += magicLevel * 2
	}
	if scaleFlags&ScaleLevel != 0 {
		amount += level / 5
	}
	if scaleFlags&ScaleSkill != 0 {
		amount += skillLevel / 5
	}
	amount += offset
	if amount < 0 {
		amount = 0
	}
	return amount
}

// ApplyProtection reduces amount by the (100-reduction)/100 factor for
// every protection entry whose mask matches dt, capping cumulative
// reduction at 100% (spec §4.4 step 4).
func ApplyProtection(amount int32, dt DamageType, protections []Protection) int32 {
	reduced := amount
	for _, p := range protections {
		if p.Mask&dt == 0 {
			continue
		}
		reduction := p.ReductionPercent
		if reduction > 100 {
			reduction = 100
		}
		reduced = reduced * (100 - reduction) / 100
	}
	if reduced < 0 {
		reduced = 0
	}
	return reduced
}

// Protection is one equipped item's damage-type mask and reduction
// percentage (spec §4.4: "per-slot Protection/DamageReduction").
type Protection struct {
	Mask             DamageType
	ReductionPercent int32
}

// ApplyDamageWithManaShield subtracts dmg from health, first draining mana
// if a mana-shield effect is active, overflow spilling into health (spec
// §4.4 step 5: "apply_damage_with_magic_shield").
func ApplyDamageWithManaShield(dmg, mana, health int32, manaShieldActive bool) (newMana, newHealth int32) {
	if !manaShieldActive || mana <= 0 {
		return mana, health - dmg
	}
	if dmg <= mana {
		return mana - dmg, health
	}
	overflow := dmg - mana
	return 0, health - overflow
}
