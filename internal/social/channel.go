package social

import "github.com/opentibia/worldcore/internal/ids"

// Channel is a named chat channel with a member set (spec §6 command
// family `channel_*`; §9 "Set of T for membership ... invited channel
// users").
type Channel struct {
	Name    string
	Owner   ids.PlayerId
	Members map[ids.PlayerId]bool
	Invited map[ids.PlayerId]bool
}

// NewChannel creates a channel owned by its founder, who is also its
// first member.
func NewChannel(name string, owner ids.PlayerId) *Channel {
	return &Channel{
		Name:    name,
		Owner:   owner,
		Members: map[ids.PlayerId]bool{owner: true},
		Invited: make(map[ids.PlayerId]bool),
	}
}

// Invite marks a player as invited.
func (c *Channel) Invite(player ids.PlayerId) {
	c.Invited[player] = true
}

// Join moves an invited player into membership; returns false if the
// player was never invited.
func (c *Channel) Join(player ids.PlayerId) bool {
	if !c.Invited[player] {
		return false
	}
	delete(c.Invited, player)
	c.Members[player] = true
	return true
}

// Leave removes a member; if the owner leaves, ownership passes to an
// arbitrary remaining member (map iteration order), or the channel is
// reported empty if nobody remains.
func (c *Channel) Leave(player ids.PlayerId) (empty bool) {
	delete(c.Members, player)
	if len(c.Members) == 0 {
		return true
	}
	if c.Owner == player {
		for m := range c.Members {
			c.Owner = m
			break
		}
	}
	return false
}

// Registry is the set of live channels, keyed by name.
type Registry map[string]*Channel

// GetOrCreate returns the named channel, creating it owned by founder if
// absent.
func (r Registry) GetOrCreate(name string, founder ids.PlayerId) *Channel {
	c, ok := r[name]
	if !ok {
		c = NewChannel(name, founder)
		r[name] = c
	}
	return c
}
