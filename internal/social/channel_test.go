package social

import "testing"

func TestNewChannelOwnerIsMember(t *testing.T) {
	c := NewChannel("trade", 1)
	if !c.Members[1] {
		t.Fatal("expected founder to be a member at creation")
	}
}

func TestJoinRequiresInvite(t *testing.T) {
	c := NewChannel("trade", 1)
	if c.Join(2) {
		t.Fatal("expected join to fail without an invite")
	}
	c.Invite(2)
	if !c.Join(2) {
		t.Fatal("expected join to succeed after invite")
	}
	if !c.Members[2] {
		t.Fatal("expected player 2 to be a member after joining")
	}
}

func TestLeaveReassignsOwnerWhenOwnerLeaves(t *testing.T) {
	c := NewChannel("trade", 1)
	c.Invite(2)
	c.Join(2)
	empty := c.Leave(1)
	if empty {
		t.Fatal("expected channel to survive with one member remaining")
	}
	if c.Owner != 2 {
		t.Fatalf("expected ownership to pass to remaining member, got %d", c.Owner)
	}
}

func TestLeaveReportsEmptyWhenLastMemberLeaves(t *testing.T) {
	c := NewChannel("trade", 1)
	if !c.Leave(1) {
		t.Fatal("expected channel reported empty when its only member leaves")
	}
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := make(Registry)
	c1 := r.GetOrCreate("trade", 1)
	c2 := r.GetOrCreate("trade", 2)
	if c1 != c2 {
		t.Fatal("expected repeated GetOrCreate for same name to return the same channel")
	}
	if c1.Owner != 1 {
		t.Fatalf("expected first-creation owner to stick, got %d", c1.Owner)
	}
}
