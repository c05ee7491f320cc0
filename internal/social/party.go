package social

import (
	"math"

	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
)

// MaxPartySize bounds party membership (grounded on the teacher's
// `world.MaxPartySize` constant, generalized to this game's party size).
const MaxPartySize = 5

// Party is `{leader, members, invited, shared_exp_active,
// shared_exp_enabled}` (spec §3 "Party").
type Party struct {
	Leader           ids.PlayerId
	Members          []ids.PlayerId
	Invited          map[ids.PlayerId]bool
	SharedExpActive  bool
	SharedExpEnabled bool // derived by RecomputeSharedExp, not set directly
}

// NewParty starts a party with the leader as its sole member.
func NewParty(leader ids.PlayerId) *Party {
	return &Party{
		Leader:  leader,
		Members: []ids.PlayerId{leader},
		Invited: make(map[ids.PlayerId]bool),
	}
}

// IsMember reports whether a player is already part of the party.
func (p *Party) IsMember(player ids.PlayerId) bool {
	for _, m := range p.Members {
		if m == player {
			return true
		}
	}
	return false
}

// Invite adds a pending invitation, refusing if the party is full.
func (p *Party) Invite(player ids.PlayerId) bool {
	if len(p.Members) >= MaxPartySize || p.IsMember(player) {
		return false
	}
	p.Invited[player] = true
	return true
}

// AcceptInvite moves an invited player into membership.
func (p *Party) AcceptInvite(player ids.PlayerId) bool {
	if !p.Invited[player] || len(p.Members) >= MaxPartySize {
		return false
	}
	delete(p.Invited, player)
	p.Members = append(p.Members, player)
	return true
}

// Leave removes a member; if the leader leaves, leadership passes to the
// next remaining member (index 0 after removal), or the party dissolves
// if nobody remains.
func (p *Party) Leave(player ids.PlayerId) (dissolved bool) {
	for i, m := range p.Members {
		if m == player {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			break
		}
	}
	if len(p.Members) == 0 {
		return true
	}
	if p.Leader == player {
		p.Leader = p.Members[0]
	}
	return false
}

// MemberState is the subset of a party member's live state the
// shared-exp eligibility rule needs, decoupled from player.State to avoid
// importing it here.
type MemberState struct {
	ID    ids.PlayerId
	Pos   geom.Position
	Level int32
}

// RecomputeSharedExp implements spec §3's shared-exp eligibility rule
// exactly: "ENABLED iff ACTIVE && all members within 30 tiles & ±1 floor
// of leader && each member's level ≥ ⌈2·maxLevel/3⌉ && ≥2 members."
func (p *Party) RecomputeSharedExp(members []MemberState) {
	p.SharedExpEnabled = false
	if !p.SharedExpActive || len(members) < 2 {
		return
	}
	var leaderPos geom.Position
	found := false
	maxLevel := int32(0)
	for _, m := range members {
		if m.ID == p.Leader {
			leaderPos = m.Pos
			found = true
		}
		if m.Level > maxLevel {
			maxLevel = m.Level
		}
	}
	if !found {
		return
	}
	minLevel := int32(math.Ceil(float64(2*maxLevel) / 3))
	for _, m := range members {
		if geom.ChebyshevDistance(leaderPos, m.Pos) > 30 {
			return
		}
		if abs8(int32(leaderPos.Z)-int32(m.Pos.Z)) > 1 {
			return
		}
		if m.Level < minLevel {
			return
		}
	}
	p.SharedExpEnabled = true
}

func abs8(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
