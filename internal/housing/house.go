package housing

import "github.com/opentibia/worldcore/internal/ids"

// AccessLevel distinguishes what a non-owner may do inside a house
// (SPEC_FULL §3 "houses" supplement — spec.md names depots/mail
// concretely but leaves house membership to the teacher's own housing
// system, which this package follows: owner, invited sub-owner, and
// plain guest).
type AccessLevel uint8

const (
	AccessNone AccessLevel = iota
	AccessGuest
	AccessSubOwner
	AccessOwner
)

// House is one ownable property: a town-scoped id, its owner, an access
// list for guests/sub-owners, and a rent clock that evicts the owner when
// unpaid (grounded on the teacher's clan/warehouse ownership-and-lock
// pattern, generalized from a group to a single owner plus guest list).
type House struct {
	ID           int32
	Town         string
	Name         string
	Owner        ids.PlayerId // 0 if unowned
	Access       map[ids.PlayerId]AccessLevel
	RentPerCycle int64
	RentDueAt    int64 // absolute tick
	Evicted      bool
}

// NewHouse constructs an unowned house.
func NewHouse(id int32, town, name string, rentPerCycle int64) *House {
	return &House{
		ID:           id,
		Town:         town,
		Name:         name,
		Access:       make(map[ids.PlayerId]AccessLevel),
		RentPerCycle: rentPerCycle,
	}
}

// AssignOwner transfers ownership, clearing the prior access list and
// starting a fresh rent clock.
func (h *House) AssignOwner(owner ids.PlayerId, currentTick, cyclelength int64) {
	h.Owner = owner
	h.Access = map[ids.PlayerId]AccessLevel{owner: AccessOwner}
	h.RentDueAt = currentTick + cyclelength
	h.Evicted = false
}

// AccessLevelOf reports a player's access level (AccessNone if unlisted
// and not the owner).
func (h *House) AccessLevelOf(player ids.PlayerId) AccessLevel {
	if player != 0 && player == h.Owner {
		return AccessOwner
	}
	return h.Access[player]
}

// Grant sets a non-owner player's access level.
func (h *House) Grant(player ids.PlayerId, level AccessLevel) {
	if player == h.Owner {
		return
	}
	h.Access[player] = level
}

// Revoke removes a player from the access list entirely.
func (h *House) Revoke(player ids.PlayerId) {
	delete(h.Access, player)
}

// CanEnter reports whether a player may enter the house (owner or listed
// at any non-None access level).
func (h *House) CanEnter(player ids.PlayerId) bool {
	return h.AccessLevelOf(player) != AccessNone
}

// RentResult reports the outcome of a rent-cycle check.
type RentResult struct {
	Due     bool
	Paid    bool
	Evicted bool
}

// CheckRent implements the eviction clock: when RentDueAt has passed,
// attempt to deduct RentPerCycle via payFn (which reports whether the
// owner could afford it); on success the clock rolls forward one cycle,
// on failure the owner is evicted and the house reverts to unowned.
func (h *House) CheckRent(currentTick, cycleLength int64, payFn func(owner ids.PlayerId, amount int64) bool) RentResult {
	if h.Owner == 0 || currentTick < h.RentDueAt {
		return RentResult{}
	}
	if payFn(h.Owner, h.RentPerCycle) {
		h.RentDueAt = currentTick + cycleLength
		return RentResult{Due: true, Paid: true}
	}
	h.Owner = 0
	h.Access = make(map[ids.PlayerId]AccessLevel)
	h.Evicted = true
	return RentResult{Due: true, Paid: false, Evicted: true}
}
