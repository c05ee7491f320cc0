package social

import "github.com/opentibia/worldcore/internal/ids"

// BuddyList is a player's buddy set (spec §3 PlayerState "buddies"; §9
// "Set of T for membership (buddies, ...)").
type BuddyList map[ids.PlayerId]bool

// Add inserts a buddy.
func (b BuddyList) Add(player ids.PlayerId) {
	b[player] = true
}

// Remove deletes a buddy.
func (b BuddyList) Remove(player ids.PlayerId) {
	delete(b, player)
}

// Has reports buddy membership.
func (b BuddyList) Has(player ids.PlayerId) bool {
	return b[player]
}

// BuddyUpdate is one pending online/offline notification for a buddy-list
// owner (spec §5: "pending per-player observation queues ... buddy
// updates ... drained by the network layer via take_pending_buddy_updates").
type BuddyUpdate struct {
	Buddy  ids.PlayerId
	Online bool
}

// NotifyBuddies returns the update each online buddy-list owner should
// receive when player's online state changes (worldstate calls this once
// per login/logout and enqueues the result into each listed owner's
// pending-update queue).
func NotifyBuddies(owners map[ids.PlayerId]BuddyList, player ids.PlayerId, online bool) map[ids.PlayerId]BuddyUpdate {
	out := make(map[ids.PlayerId]BuddyUpdate)
	for owner, list := range owners {
		if list.Has(player) {
			out[owner] = BuddyUpdate{Buddy: player, Online: online}
		}
	}
	return out
}
