package monster

import "testing"

func TestIsDead(t *testing.T) {
	m := &Instance{Health: 0}
	if !m.IsDead() {
		t.Fatal("expected dead at 0 health")
	}
	m.Health = 1
	if m.IsDead() {
		t.Fatal("expected alive at positive health")
	}
}

func TestIsFleeing(t *testing.T) {
	m := &Instance{Health: 10, FleeThresholdHP: 20}
	if !m.IsFleeing() {
		t.Fatal("expected fleeing when health at or below threshold")
	}
	m.Health = 30
	if m.IsFleeing() {
		t.Fatal("expected not fleeing when health above threshold")
	}
}

func TestCooldownsTickFloorsAtZero(t *testing.T) {
	c := Cooldowns{Move: 1, Combat: 0, Talk: 2}
	c.Tick()
	if c.Move != 0 || c.Combat != 0 || c.Talk != 1 {
		t.Fatalf("unexpected cooldowns after tick: %+v", c)
	}
	c.Tick()
	if c.Move != 0 || c.Talk != 0 {
		t.Fatalf("expected cooldowns to floor at zero, got %+v", c)
	}
}
