package spellbook

import (
	"testing"

	"github.com/opentibia/worldcore/internal/geom"
)

func TestResolveShapeSelfReturnsOrigin(t *testing.T) {
	origin := geom.Position{X: 10, Y: 10, Z: 7}
	tiles := ResolveShape(Shape{Kind: ShapeSelf}, origin, geom.North, nil)
	if len(tiles) != 1 || tiles[0] != origin {
		t.Fatalf("expected self shape to resolve to [origin], got %v", tiles)
	}
}

func TestResolveShapeAreaUsesRadius(t *testing.T) {
	origin := geom.Position{X: 10, Y: 10, Z: 7}
	tiles := ResolveShape(Shape{Kind: ShapeArea, Radius: 1}, origin, geom.North, nil)
	if len(tiles) < 5 {
		t.Fatalf("expected area radius 1 to cover at least 5 tiles, got %d", len(tiles))
	}
}

func TestResolveShapeLineStepsInFacing(t *testing.T) {
	origin := geom.Position{X: 10, Y: 10, Z: 7}
	tiles := ResolveShape(Shape{Kind: ShapeLine, Length: 3}, origin, geom.East, nil)
	if len(tiles) != 3 {
		t.Fatalf("expected 3 tiles, got %d", len(tiles))
	}
	if tiles[2].X != 13 {
		t.Fatalf("expected line to step east 3 tiles, got %+v", tiles[2])
	}
}

func baseCaster() *Caster {
	return &Caster{Level: 20, MagicLevel: 10, Mana: 50, Soul: 10, Pos: geom.Position{X: 5, Y: 5, Z: 7}, Facing: geom.South}
}

func TestCastSpellRejectsInsufficientMana(t *testing.T) {
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, Requirements: Requirements{Mana: 100}}
	_, err := CastSpell(spell, baseCaster(), geom.Position{}, CastContext{})
	if err != ErrNotEnoughMana {
		t.Fatalf("expected ErrNotEnoughMana, got %v", err)
	}
}

func TestCastSpellRejectsLevelTooLow(t *testing.T) {
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, Requirements: Requirements{Level: 50}}
	_, err := CastSpell(spell, baseCaster(), geom.Position{}, CastContext{})
	if err != ErrLevelTooLow {
		t.Fatalf("expected ErrLevelTooLow, got %v", err)
	}
}

func TestCastSpellDeductsManaAndSoul(t *testing.T) {
	caster := baseCaster()
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, Requirements: Requirements{Mana: 20, Soul: 2}}
	out, err := CastSpell(spell, caster, geom.Position{}, CastContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ManaSpent != 20 || out.SoulSpent != 2 {
		t.Fatalf("expected cost reported, got %+v", out)
	}
	if caster.Mana != 30 || caster.Soul != 8 {
		t.Fatalf("expected caster resources deducted, got mana=%d soul=%d", caster.Mana, caster.Soul)
	}
}

func TestCastSpellRuneSkipsManaAndSoulCost(t *testing.T) {
	caster := baseCaster()
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, ViaRuneOnly: true, Requirements: Requirements{Mana: 9999, Soul: 9999}}
	out, err := CastSpell(spell, caster, geom.Position{}, CastContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ManaSpent != 0 || out.SoulSpent != 0 {
		t.Fatalf("expected zero cost for rune cast, got %+v", out)
	}
	if caster.Mana != 50 || caster.Soul != 10 {
		t.Fatalf("expected rune cast to leave caster resources untouched, got mana=%d soul=%d", caster.Mana, caster.Soul)
	}
}

func TestCastSpellEnforcesPerSpellCooldown(t *testing.T) {
	caster := baseCaster()
	spell := Spell{ID: 7, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, Requirements: Requirements{CooldownTicks: 100}}
	ctx := CastContext{CurrentTick: 1000}
	if _, err := CastSpell(spell, caster, geom.Position{}, ctx); err != nil {
		t.Fatalf("unexpected error on first cast: %v", err)
	}
	ctx.CurrentTick = 1050
	if _, err := CastSpell(spell, caster, geom.Position{}, ctx); err != ErrOnCooldown {
		t.Fatalf("expected ErrOnCooldown, got %v", err)
	}
	ctx.CurrentTick = 1101
	if _, err := CastSpell(spell, caster, geom.Position{}, ctx); err != nil {
		t.Fatalf("expected cast to succeed once cooldown elapsed, got %v", err)
	}
}

func TestCastSpellEnforcesGroupCooldownAcrossSpells(t *testing.T) {
	caster := baseCaster()
	a := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, Requirements: Requirements{GroupID: 9, GroupCooldownTicks: 100}}
	b := Spell{ID: 2, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal, Requirements: Requirements{GroupID: 9, GroupCooldownTicks: 100}}
	ctx := CastContext{CurrentTick: 500}
	if _, err := CastSpell(a, caster, geom.Position{}, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx.CurrentTick = 550
	if _, err := CastSpell(b, caster, geom.Position{}, ctx); err != ErrOnCooldown {
		t.Fatalf("expected group cooldown to block second spell in same group, got %v", err)
	}
}

func TestCastSpellRejectsOffensiveIntoProtectionZone(t *testing.T) {
	caster := baseCaster()
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectDamage}
	ctx := CastContext{ZoneAt: func(p geom.Position) bool { return true }}
	_, err := CastSpell(spell, caster, geom.Position{}, ctx)
	if err != ErrInProtectionZone {
		t.Fatalf("expected ErrInProtectionZone, got %v", err)
	}
}

func TestCastSpellNonOffensiveIgnoresZoneGate(t *testing.T) {
	caster := baseCaster()
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectHeal}
	ctx := CastContext{ZoneAt: func(p geom.Position) bool { return true }}
	if _, err := CastSpell(spell, caster, geom.Position{}, ctx); err != nil {
		t.Fatalf("expected non-offensive spell to ignore zone gate, got %v", err)
	}
}

func TestCastSpellRejectsDisallowedPvP(t *testing.T) {
	caster := baseCaster()
	spell := Spell{ID: 1, Shape: Shape{Kind: ShapeSelf}, Effect: EffectDamage}
	ctx := CastContext{PvPAllowed: func(c, tgt geom.Position) bool { return false }}
	_, err := CastSpell(spell, caster, geom.Position{}, ctx)
	if err != ErrPvPNotAllowed {
		t.Fatalf("expected ErrPvPNotAllowed, got %v", err)
	}
}
