package statustimer

import "testing"

func TestComputeSideEffectFedHeals(t *testing.T) {
	se := ComputeSideEffect(RowFed, SkillRow{Cycle: 2}, 10)
	if se.HealHP != 1 {
		t.Fatalf("expected FED to always heal 1 HP, got %d", se.HealHP)
	}
	if se.HealMana != 2 {
		t.Fatalf("expected mana heal on even cycle, got %d", se.HealMana)
	}
}

func TestComputeSideEffectSoulGrants1(t *testing.T) {
	se := ComputeSideEffect(RowSoul, SkillRow{}, 10)
	if se.SoulGain != 1 {
		t.Fatalf("expected soul gain of 1, got %d", se.SoulGain)
	}
}

func TestComputeSideEffectBurningDamageUsesAbsCycle(t *testing.T) {
	se := ComputeSideEffect(RowBurning, SkillRow{Cycle: -5}, 10)
	if se.DamageKind != DamageFire || se.DamageAmount != 5 {
		t.Fatalf("expected fire damage of 5, got kind=%v amount=%d", se.DamageKind, se.DamageAmount)
	}
}

func TestComputeSideEffectDrunkenScalesDownWithLevel(t *testing.T) {
	low := ComputeSideEffect(RowDrunken, SkillRow{}, 10)
	high := ComputeSideEffect(RowDrunken, SkillRow{}, 100)
	if high.DrunkenChance >= low.DrunkenChance {
		t.Fatalf("expected higher level to reduce drunken chance, low=%d high=%d", low.DrunkenChance, high.DrunkenChance)
	}
}
