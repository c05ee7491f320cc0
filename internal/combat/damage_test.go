package combat

import "testing"

func TestComputeDamageAppliesVarianceMidpoint(t *testing.T) {
	got := ComputeDamage(10, 4, 0, 0, 0, ScaleNone, 0)
	if got != 12 {
		t.Fatalf("expected base+variance/2 = 12, got %d", got)
	}
}

func TestComputeDamageScalesBySkillLevelWhenFlagged(t *testing.T) {
	got := ComputeDamage(10, 0, 0, 0, 50, ScaleSkill, 0)
	if got != 20 {
		t.Fatalf("expected 10 + 50/5 = 20, got %d", got)
	}
}

func TestComputeDamageNeverNegative(t *testing.T) {
	got := ComputeDamage(0, 0, 0, 0, 0, ScaleNone, -100)
	if got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
}

func TestApplyProtectionReducesMatchingMask(t *testing.T) {
	prot := []Protection{{Mask: DamageFire, ReductionPercent: 50}}
	got := ApplyProtection(100, DamageFire, prot)
	if got != 50 {
		t.Fatalf("expected 50%% fire reduction, got %d", got)
	}
	got = ApplyProtection(100, DamagePhysical, prot)
	if got != 100 {
		t.Fatalf("expected non-matching mask to pass through unreduced, got %d", got)
	}
}

func TestApplyProtectionStackedReductionsCompound(t *testing.T) {
	prot := []Protection{
		{Mask: DamageFire, ReductionPercent: 50},
		{Mask: DamageFire, ReductionPercent: 50},
	}
	got := ApplyProtection(100, DamageFire, prot)
	if got != 25 {
		t.Fatalf("expected compounded 50%%+50%% = 25, got %d", got)
	}
}

func TestApplyProtectionCapsReductionAt100Percent(t *testing.T) {
	prot := []Protection{{Mask: DamageFire, ReductionPercent: 150}}
	got := ApplyProtection(100, DamageFire, prot)
	if got != 0 {
		t.Fatalf("expected reduction capped at 100%%, got %d", got)
	}
}

func TestApplyDamageWithManaShieldAbsorbsFromManaFirst(t *testing.T) {
	newMana, newHealth := ApplyDamageWithManaShield(30, 50, 100, true)
	if newMana != 20 || newHealth != 100 {
		t.Fatalf("expected full absorption from mana, got mana=%d health=%d", newMana, newHealth)
	}
}

func TestApplyDamageWithManaShieldOverflowsIntoHealth(t *testing.T) {
	newMana, newHealth := ApplyDamageWithManaShield(30, 10, 100, true)
	if newMana != 0 || newHealth != 80 {
		t.Fatalf("expected 10 absorbed + 20 overflow, got mana=%d health=%d", newMana, newHealth)
	}
}

func TestApplyDamageWithManaShieldInactiveHitsHealthDirectly(t *testing.T) {
	newMana, newHealth := ApplyDamageWithManaShield(30, 50, 100, false)
	if newMana != 50 || newHealth != 70 {
		t.Fatalf("expected mana untouched and health reduced directly, got mana=%d health=%d", newMana, newHealth)
	}
}
