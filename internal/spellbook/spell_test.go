package spellbook

import "testing"

func TestIsOffensiveDamageAndField(t *testing.T) {
	if !(Spell{Effect: EffectDamage}).IsOffensive() {
		t.Fatal("expected damage spell to be offensive")
	}
	if !(Spell{Effect: EffectField}).IsOffensive() {
		t.Fatal("expected field spell to be offensive")
	}
}

func TestIsOffensiveHasteDependsOnSign(t *testing.T) {
	if (Spell{Effect: EffectHaste, HasteDelta: 10}).IsOffensive() {
		t.Fatal("expected positive haste to be non-offensive")
	}
	if !(Spell{Effect: EffectHaste, HasteDelta: -10}).IsOffensive() {
		t.Fatal("expected negative haste (paralyze) to be offensive")
	}
}

func TestIsOffensiveOtherEffectsAreNot(t *testing.T) {
	for _, k := range []EffectKind{EffectHeal, EffectSummon, EffectLight, EffectOutfit, EffectConjure} {
		if (Spell{Effect: k}).IsOffensive() {
			t.Fatalf("expected effect kind %v to be non-offensive", k)
		}
	}
}
