package statustimer

import "testing"

func TestApplyRowResultClearsLightOnExpiry(t *testing.T) {
	e := NewEffects()
	e.Light.Active = true
	e.ApplyRowResult(TickResult{Row: RowLight, Expired: true})
	if e.Light.Active {
		t.Fatal("expected light effect to clear on expiry")
	}
}

func TestApplyRowResultClearsIllusionOutfitOnExpiry(t *testing.T) {
	e := NewEffects()
	e.Outfit.Active = true
	e.ApplyRowResult(TickResult{Row: RowIllusion, Expired: true})
	if e.Outfit.Active {
		t.Fatal("expected outfit effect to clear on illusion expiry")
	}
}

func TestApplyRowResultIgnoresNonExpiredCycle(t *testing.T) {
	e := NewEffects()
	e.ManaShield.Active = true
	e.ApplyRowResult(TickResult{Row: RowManaShield, Expired: false})
	if !e.ManaShield.Active {
		t.Fatal("expected mana shield to remain active on a non-expiring cycle")
	}
}
