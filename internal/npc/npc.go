// Package npc implements NpcInstance and its two-pass dialogue matching
// engine (spec §3 "NpcInstance", §4.6 "NPC dialogue").
package npc

import (
	"github.com/opentibia/worldcore/internal/geom"
	"github.com/opentibia/worldcore/internal/ids"
)

// FocusIdent names the three focus-dependent identifiers a dialogue rule
// can require (spec §4.6: "required ident (address/busy/queue)").
type FocusIdent uint8

const (
	IdentNone FocusIdent = iota
	IdentAddress
	IdentBusy
	IdentQueue
)

// Focus tracks which player an NPC is currently conversing with.
type Focus struct {
	PlayerID ids.PlayerId
	Active   bool
	ExpireAt int64 // absolute tick the focus releases, 0 if not timed
}

// Instance is one spawned NPC (spec §3 "NpcInstance").
type Instance struct {
	ID       ids.CreatureId
	ScriptKey string
	HomePos  geom.Position
	Pos      geom.Position
	WanderRadius int32

	Focus  Focus
	Queue  []ids.PlayerId
	MoveCooldown int32

	Topic map[ids.PlayerId]int32
	Vars  map[ids.PlayerId]map[string]int32
}

// New constructs an NPC instance parked at its home position.
func New(id ids.CreatureId, scriptKey string, home geom.Position, wanderRadius int32) *Instance {
	return &Instance{
		ID:           id,
		ScriptKey:    scriptKey,
		HomePos:      home,
		Pos:          home,
		WanderRadius: wanderRadius,
		Topic:        make(map[ids.PlayerId]int32),
		Vars:         make(map[ids.PlayerId]map[string]int32),
	}
}

// IsFocusedOn reports whether the NPC is currently addressing this player.
func (n *Instance) IsFocusedOn(player ids.PlayerId) bool {
	return n.Focus.Active && n.Focus.PlayerID == player
}

// IsBusy reports whether the NPC is actively focused on anyone.
func (n *Instance) IsBusy() bool {
	return n.Focus.Active
}

// SetFocus starts (or refreshes) a timed focus on a player (spec §4.6:
// "'focus player for 30 s' appended automatically ... if the NPC was not
// busy").
func (n *Instance) SetFocus(player ids.PlayerId, expireAt int64) {
	n.Focus = Focus{PlayerID: player, Active: true, ExpireAt: expireAt}
}

// ClearFocus releases the current focus and resets the player's topic,
// matching the `Idle` action (spec §4.6: "Idle (focus clear + topic=0)").
func (n *Instance) ClearFocus() {
	released := n.Focus.PlayerID
	n.Focus = Focus{}
	if released != 0 {
		n.Topic[released] = 0
	}
}

// ExpireFocus releases focus if its timer has passed currentTick.
func (n *Instance) ExpireFocus(currentTick int64) {
	if n.Focus.Active && n.Focus.ExpireAt != 0 && currentTick >= n.Focus.ExpireAt {
		n.ClearFocus()
	}
}

// Enqueue adds a player to the NPC's wait queue (spec §3: "queued
// players"), used by the `Queue` action when the NPC is already busy.
func (n *Instance) Enqueue(player ids.PlayerId) {
	for _, p := range n.Queue {
		if p == player {
			return
		}
	}
	n.Queue = append(n.Queue, player)
}

// DequeueNext pops the next waiting player, if any.
func (n *Instance) DequeueNext() (ids.PlayerId, bool) {
	if len(n.Queue) == 0 {
		return 0, false
	}
	next := n.Queue[0]
	n.Queue = n.Queue[1:]
	return next, true
}

// TopicFor returns the player's current topic with this NPC (0 = none).
func (n *Instance) TopicFor(player ids.PlayerId) int32 {
	return n.Topic[player]
}

// SetTopic sets the player's current topic (the `topic := N` action).
func (n *Instance) SetTopic(player ids.PlayerId, topic int32) {
	n.Topic[player] = topic
}

// VarsFor returns (creating on demand) the per-player cached variable set
// an NPC's assignment-actions populate and merge with each matched rule.
func (n *Instance) VarsFor(player ids.PlayerId) map[string]int32 {
	v, ok := n.Vars[player]
	if !ok {
		v = make(map[string]int32)
		n.Vars[player] = v
	}
	return v
}
