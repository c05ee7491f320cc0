package statustimer

// DamageType enumerates the elemental damage types the POISON/BURNING/
// ENERGY rows deal (spec §4.10).
type DamageType uint8

const (
	DamagePoison DamageType = iota
	DamageFire
	DamageEnergy
)

// SideEffect is the per-row outcome worldstate applies to a player after a
// skill-row cycle fires (spec §4.10's per-row side-effect list). Only the
// fields relevant to Kind are meaningful.
type SideEffect struct {
	Row Row

	HealHP   int32
	HealMana int32

	SoulGain int32

	DamageKind   DamageType
	DamageAmount int32

	// DrunkenChance is the level-scaled probability (0-100) of randomising
	// movement direction this tick (spec: "direction-randomising probability
	// scales by level").
	DrunkenChance int32
}

// drunkenChanceForLevel mirrors the source's level-scaled drunken
// direction-randomisation odds: higher level characters resist more.
func drunkenChanceForLevel(level int32) int32 {
	chance := int32(40) - level/5
	if chance < 5 {
		chance = 5
	}
	return chance
}

// ComputeSideEffect derives the gameplay side effect for a fired row,
// given the row's current state and the profession-dependent FED
// intervals/level needed for FED and DRUNKEN (spec §4.10).
func ComputeSideEffect(row Row, state SkillRow, playerLevel int32) SideEffect {
	se := SideEffect{Row: row}
	switch row {
	case RowFed:
		se.HealHP = 1
		if state.Cycle%2 == 0 {
			se.HealMana = 2
		}
	case RowSoul:
		se.SoulGain = 1
	case RowPoison:
		se.DamageKind = DamagePoison
		se.DamageAmount = abs32(state.Cycle) * state.FactorPercent / 1000
		if se.DamageAmount < abs32(state.Cycle) {
			se.DamageAmount = abs32(state.Cycle)
		}
	case RowBurning:
		se.DamageKind = DamageFire
		se.DamageAmount = abs32(state.Cycle)
	case RowEnergy:
		se.DamageKind = DamageEnergy
		se.DamageAmount = abs32(state.Cycle)
	case RowDrunken:
		se.DrunkenChance = drunkenChanceForLevel(playerLevel)
	}
	return se
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
