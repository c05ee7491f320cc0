package social

import (
	"testing"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
)

func TestInviteAndAcceptAddsMember(t *testing.T) {
	p := NewParty(1)
	if !p.Invite(2) {
		t.Fatal("expected invite to succeed")
	}
	if !p.AcceptInvite(2) {
		t.Fatal("expected accept to succeed")
	}
	if !p.IsMember(2) {
		t.Fatal("expected player 2 to be a member after accepting")
	}
}

func TestInviteRejectsWhenFull(t *testing.T) {
	p := NewParty(1)
	for next := 2; len(p.Members) < MaxPartySize; next++ {
		p.Invite(ids.PlayerId(next))
		p.AcceptInvite(ids.PlayerId(next))
	}
	if p.Invite(999) {
		t.Fatal("expected invite to fail once the party is full")
	}
}

func TestLeavePromotesNextMemberAsLeader(t *testing.T) {
	p := NewParty(1)
	p.Invite(2)
	p.AcceptInvite(2)
	dissolved := p.Leave(1)
	if dissolved {
		t.Fatal("expected party to survive with one member remaining")
	}
	if p.Leader != 2 {
		t.Fatalf("expected leadership to pass to remaining member, got %d", p.Leader)
	}
}

func TestLeaveDissolvesWhenLastMemberLeaves(t *testing.T) {
	p := NewParty(1)
	if !p.Leave(1) {
		t.Fatal("expected party to dissolve when its only member leaves")
	}
}

func TestRecomputeSharedExpRequiresActiveAndTwoMembers(t *testing.T) {
	p := NewParty(1)
	p.SharedExpActive = false
	members := []MemberState{{ID: 1, Level: 30}, {ID: 2, Level: 25}}
	p.RecomputeSharedExp(members)
	if p.SharedExpEnabled {
		t.Fatal("expected shared exp disabled when not active")
	}
}

func TestRecomputeSharedExpEnabledWhenAllConditionsHold(t *testing.T) {
	p := NewParty(1)
	p.SharedExpActive = true
	members := []MemberState{
		{ID: 1, Pos: geom.Position{X: 100, Y: 100, Z: 7}, Level: 30},
		{ID: 2, Pos: geom.Position{X: 110, Y: 100, Z: 7}, Level: 25},
	}
	p.RecomputeSharedExp(members)
	if !p.SharedExpEnabled {
		t.Fatal("expected shared exp enabled: active, in range, levels above 2/3 of max")
	}
}

func TestRecomputeSharedExpDisabledWhenMemberTooFar(t *testing.T) {
	p := NewParty(1)
	p.SharedExpActive = true
	members := []MemberState{
		{ID: 1, Pos: geom.Position{X: 100, Y: 100, Z: 7}, Level: 30},
		{ID: 2, Pos: geom.Position{X: 200, Y: 100, Z: 7}, Level: 25},
	}
	p.RecomputeSharedExp(members)
	if p.SharedExpEnabled {
		t.Fatal("expected shared exp disabled when a member is beyond 30 tiles")
	}
}

func TestRecomputeSharedExpDisabledWhenLevelBelowThreshold(t *testing.T) {
	p := NewParty(1)
	p.SharedExpActive = true
	members := []MemberState{
		{ID: 1, Pos: geom.Position{X: 100, Y: 100, Z: 7}, Level: 30},
		{ID: 2, Pos: geom.Position{X: 101, Y: 100, Z: 7}, Level: 10},
	}
	p.RecomputeSharedExp(members)
	if p.SharedExpEnabled {
		t.Fatal("expected shared exp disabled when a member is below the level threshold")
	}
}
