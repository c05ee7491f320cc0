package spellbook

import (
	"errors"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
)

var (
	// ErrLevelTooLow, ErrMagicLevelTooLow, ErrNotEnoughMana, and
	// ErrNotEnoughSoul are the gate failures of cast_spell step 5.
	ErrLevelTooLow      = errors.New("You need a higher level")
	ErrMagicLevelTooLow = errors.New("You need a higher magic level")
	ErrNotEnoughMana    = errors.New("You do not have enough mana")
	ErrNotEnoughSoul    = errors.New("You do not have enough soul points")
	ErrOnCooldown       = errors.New("You may not cast this spell yet")
	ErrInProtectionZone = errors.New("You may not attack while inside a protection zone")
	ErrPvPNotAllowed    = errors.New("You may not attack this player")
)

// Caster is the minimal view of the casting creature cast_spell's gates
// need. Worldstate supplies a concrete player/monster snapshot here, the
// same decoupled-data pattern combat.Fighter and monster.TargetCandidate
// already use to keep spellbook free of player/monster imports.
type Caster struct {
	Level          int32
	MagicLevel     int32
	Mana           int32
	Soul           int32
	Pos            geom.Position
	Facing         geom.Direction
	LastCastTick   map[ids.SpellId]int64
	LastGroupCast  map[ids.SpellGroupId]int64
}

// ZoneLookup reports whether a position sits inside a protection zone
// (spec §4.3 step 3: "offensive spells targeting a protection-zone tile
// are rejected").
type ZoneLookup func(p geom.Position) bool

// PvPLookup reports whether caster may legally harm target (spec §4.3 step
// 4: PvP gate — skull/white-skull/same-party rules live in worldstate;
// spellbook only consults the verdict).
type PvPLookup func(caster, target geom.Position) bool

// ResolveShape implements cast_spell step 1: turn a spell's Shape into the
// concrete tile list to affect, reusing geom's shape primitives directly.
func ResolveShape(shape Shape, origin geom.Position, facing geom.Direction, lut *geom.CircleLUT) []geom.Position {
	switch shape.Kind {
	case ShapeSelf:
		return []geom.Position{origin}
	case ShapeArea:
		return geom.Area(origin, shape.Radius, lut)
	case ShapeLine:
		return geom.Line(origin, facing, shape.Length)
	case ShapeCone:
		return geom.Cone(origin, facing, shape.ConeReach, shape.ConeDegrees)
	default:
		return nil
	}
}

// CastContext bundles the collaborators CastSpell's gates consult.
type CastContext struct {
	CurrentTick int64
	ZoneAt      ZoneLookup
	PvPAllowed  PvPLookup
	LUT         *geom.CircleLUT
}

// CastOutcome is what CastSpell hands back for worldstate to apply: the
// resolved tile set plus the cost actually deducted (zero cost for
// rune-cast spells per spec §4.3 step 5).
type CastOutcome struct {
	Tiles      []geom.Position
	ManaSpent  int32
	SoulSpent  int32
}

// CastSpell runs cast_spell's full gating pipeline (spec §4.3 steps 1-5)
// and returns the tiles the spell's effect should then be applied to
// (step 6 is left to the per-effect functions in effects.go, since their
// inputs vary per EffectKind).
func CastSpell(spell Spell, caster *Caster, targetPos geom.Position, ctx CastContext) (CastOutcome, error) {
	tiles := ResolveShape(spell.Shape, targetPos, caster.Facing, ctx.LUT)
	if spell.Shape.Kind != ShapeSelf && spell.IncludeCaster {
		tiles = append(tiles, caster.Pos)
	}

	offensive := spell.IsOffensive()
	if offensive && ctx.ZoneAt != nil {
		for _, t := range tiles {
			if ctx.ZoneAt(t) {
				return CastOutcome{}, ErrInProtectionZone
			}
		}
	}
	if offensive && ctx.PvPAllowed != nil && !ctx.PvPAllowed(caster.Pos, targetPos) {
		return CastOutcome{}, ErrPvPNotAllowed
	}

	if err := checkRequirements(spell, caster, ctx.CurrentTick); err != nil {
		return CastOutcome{}, err
	}

	manaSpent, soulSpent := deductCost(spell, caster)
	if caster.LastCastTick == nil {
		caster.LastCastTick = make(map[ids.SpellId]int64)
	}
	caster.LastCastTick[spell.ID] = ctx.CurrentTick
	if spell.Requirements.GroupID != 0 {
		if caster.LastGroupCast == nil {
			caster.LastGroupCast = make(map[ids.SpellGroupId]int64)
		}
		caster.LastGroupCast[ids.SpellGroupId(spell.Requirements.GroupID)] = ctx.CurrentTick
	}

	return CastOutcome{Tiles: tiles, ManaSpent: manaSpent, SoulSpent: soulSpent}, nil
}

func checkRequirements(spell Spell, caster *Caster, now int64) error {
	req := spell.Requirements
	if caster.Level < req.Level {
		return ErrLevelTooLow
	}
	if caster.MagicLevel < req.MagicLevel {
		return ErrMagicLevelTooLow
	}
	if !spell.ViaRuneOnly {
		if caster.Mana < req.Mana {
			return ErrNotEnoughMana
		}
		if caster.Soul < req.Soul {
			return ErrNotEnoughSoul
		}
	}
	if last, ok := caster.LastCastTick[spell.ID]; ok {
		if now-last < int64(req.CooldownTicks) {
			return ErrOnCooldown
		}
	}
	if req.GroupID != 0 {
		if last, ok := caster.LastGroupCast[ids.SpellGroupId(req.GroupID)]; ok {
			if now-last < int64(req.GroupCooldownTicks) {
				return ErrOnCooldown
			}
		}
	}
	return nil
}

// deductCost implements step 5's "rune-item casts skip mana/soul but not
// cooldowns" rule: a rune-cast spell deducts nothing here because the
// rune item itself was already the cost.
func deductCost(spell Spell, caster *Caster) (manaSpent, soulSpent int32) {
	if spell.ViaRuneOnly {
		return 0, 0
	}
	caster.Mana -= spell.Requirements.Mana
	caster.Soul -= spell.Requirements.Soul
	return spell.Requirements.Mana, spell.Requirements.Soul
}
