package statustimer

// OutfitEffect overrides a creature's displayed outfit, driven by the
// ILLUSION row (spec §4.3 "Outfit (apply/cancel/creature-name illusion/
// chameleon): set outfit_effect + SKILL_ILLUSION timer").
type OutfitEffect struct {
	Active    bool
	LooksLike int32 // outfit id, or a creature race id for chameleon/illusion
}

// SpeedEffect is a temporary delta or percent applied to base speed (spec
// §4.3 "Haste/Speed: apply delta or percent to base speed for duration").
type SpeedEffect struct {
	Active     bool
	Delta      int32
	PercentAdd int32
}

// LightEffect overrides a creature's light radius/color, driven by the
// LIGHT row.
type LightEffect struct {
	Active bool
	Radius int32
	Color  int32
}

// ManaShieldEffect redirects incoming HP damage to mana, driven by the
// MANASHIELD row.
type ManaShieldEffect struct {
	Active bool
}

// DrunkenEffect randomises movement direction with a level-scaled
// probability (spec §4.10 "DRUNKEN: direction-randomising probability
// scales by level").
type DrunkenEffect struct {
	Active bool
}

// StrengthEffect is a temporary carry-capacity or damage modifier; spec
// names it alongside the other status effects in PlayerState without
// further detail, so it is carried as a simple on/off + magnitude pair.
type StrengthEffect struct {
	Active bool
	Delta  int32
}

// Effects bundles the six status effects spec §3 PlayerState names:
// "status effects (outfit/speed/light/mana-shield/drunken/strength)".
type Effects struct {
	Outfit     OutfitEffect
	Speed      SpeedEffect
	Light      LightEffect
	ManaShield ManaShieldEffect
	Drunken    DrunkenEffect
	Strength   StrengthEffect
}

// NewEffects returns an all-inactive effect bundle.
func NewEffects() *Effects { return &Effects{} }

// ApplyRowResult clears the status effect tied to a skill row once that
// row's cycle has run out (spec §4.10 "LIGHT/ILLUSION/MANASHIELD: keep the
// corresponding status effect alive; on reaching CYCLE=0, clear effect.").
func (e *Effects) ApplyRowResult(res TickResult) {
	if !res.Expired {
		return
	}
	switch res.Row {
	case RowLight:
		e.Light.Active = false
	case RowIllusion:
		e.Outfit.Active = false
	case RowManaShield:
		e.ManaShield.Active = false
	}
}
