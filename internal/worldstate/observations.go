package worldstate

import "github.com/opentibia/worldcore/internal/ids"

// Message is one line of text queued for a player (spec §6
// take_pending_messages): a chat line, a combat log entry, or a system
// notice.
type Message struct {
	Channel string
	Text    string
}

// SkillUpdate reports one skill's new percent/level after a gain (spec
// §4.10, §6 take_pending_skill_update).
type SkillUpdate struct {
	Skill   string
	Level   int32
	Percent int32
}

// DataUpdate reports a scalar player stat change (HP, mana, soul,
// capacity, experience) that the client mirrors (spec §6
// take_pending_data_update).
type DataUpdate struct {
	Field string
	Value int64
}

// TurnUpdate reports a creature facing change visible to nearby players
// (spec §6 take_pending_turn_updates).
type TurnUpdate struct {
	Creature  ids.CreatureId
	Direction int8
}

// OutfitUpdate reports an outfit/speed change on a creature (spec §6
// take_pending_outfit_updates, §4.1 "tick_monsters ... outfit/speed
// updates").
type OutfitUpdate struct {
	Creature ids.CreatureId
	OutfitID int32
	Speed    int32
}

// MapRefreshNotice tells the client a sector was swept and should be
// redrawn (spec §4.11, §6 take_pending_map_refreshes).
type MapRefreshNotice struct {
	X, Y int32
	Z    int8
}

// BuddyUpdate reports a buddy's online/offline transition (spec §6
// take_pending_buddy_updates).
type BuddyUpdate struct {
	Name   string
	Online bool
}

// PartyUpdate reports a party roster or leadership change (spec §6
// take_pending_party_updates).
type PartyUpdate struct {
	PartyID int64
	Kind    string // "joined", "left", "disbanded"
	Member  ids.PlayerId
}

// TradeUpdate reports a trade session's offer or completion state (spec
// §6 take_pending_trade_updates).
type TradeUpdate struct {
	Counterparty ids.PlayerId
	Kind         string // "offer_changed", "completed", "cancelled"
}

// MoveUseOutcome mirrors one applied moveuse.Action's disposition back to
// the client (spec §6 take_pending_moveuse_outcomes, §4.2).
type MoveUseOutcome struct {
	Action  string
	Skipped bool
	Err     string
}

// ContainerClose reports a container session ending, so the client can
// drop its window (spec §6 take_container_closes).
type ContainerClose struct {
	WireID uint8
}

// ContainerRefresh reports a container's contents changed and should be
// redrawn (spec §6 take_container_refresh).
type ContainerRefresh struct {
	WireID uint8
}

// pendingQueues holds one player's not-yet-drained observations. Plain
// slices, not channels: spec §5 is explicit that WorldState has "no
// suspension points inside a tick", and every producer/consumer runs on
// the same goroutine.
type pendingQueues struct {
	messages       []Message
	skillUpdates   []SkillUpdate
	dataUpdates    []DataUpdate
	turnUpdates    []TurnUpdate
	outfitUpdates  []OutfitUpdate
	mapRefreshes   []MapRefreshNotice
	buddyUpdates   []BuddyUpdate
	partyUpdates   []PartyUpdate
	tradeUpdates   []TradeUpdate
	moveUseResults []MoveUseOutcome
	containerClose []ContainerClose
	containerRefrs []ContainerRefresh
}

func newPendingQueues() *pendingQueues { return &pendingQueues{} }

// QueueMessage appends a message for id, creating its queue set if this
// is the player's first pending observation.
func (ws *WorldState) QueueMessage(id ids.PlayerId, channel, text string) {
	q := ws.queueFor(id)
	q.messages = append(q.messages, Message{Channel: channel, Text: text})
}

func (ws *WorldState) QueueSkillUpdate(id ids.PlayerId, u SkillUpdate) {
	ws.queueFor(id).skillUpdates = append(ws.queueFor(id).skillUpdates, u)
}

func (ws *WorldState) QueueDataUpdate(id ids.PlayerId, field string, value int64) {
	q := ws.queueFor(id)
	q.dataUpdates = append(q.dataUpdates, DataUpdate{Field: field, Value: value})
}

func (ws *WorldState) QueueTurnUpdate(id ids.PlayerId, u TurnUpdate) {
	ws.queueFor(id).turnUpdates = append(ws.queueFor(id).turnUpdates, u)
}

func (ws *WorldState) QueueOutfitUpdate(id ids.PlayerId, u OutfitUpdate) {
	ws.queueFor(id).outfitUpdates = append(ws.queueFor(id).outfitUpdates, u)
}

func (ws *WorldState) QueueMapRefresh(id ids.PlayerId, x, y int32, z int8) {
	q := ws.queueFor(id)
	q.mapRefreshes = append(q.mapRefreshes, MapRefreshNotice{X: x, Y: y, Z: z})
}

func (ws *WorldState) QueueBuddyUpdate(id ids.PlayerId, name string, online bool) {
	q := ws.queueFor(id)
	q.buddyUpdates = append(q.buddyUpdates, BuddyUpdate{Name: name, Online: online})
}

func (ws *WorldState) QueuePartyUpdate(id ids.PlayerId, u PartyUpdate) {
	ws.queueFor(id).partyUpdates = append(ws.queueFor(id).partyUpdates, u)
}

func (ws *WorldState) QueueTradeUpdate(id ids.PlayerId, u TradeUpdate) {
	ws.queueFor(id).tradeUpdates = append(ws.queueFor(id).tradeUpdates, u)
}

func (ws *WorldState) QueueMoveUseOutcome(id ids.PlayerId, o MoveUseOutcome) {
	ws.queueFor(id).moveUseResults = append(ws.queueFor(id).moveUseResults, o)
}

func (ws *WorldState) QueueContainerClose(id ids.PlayerId, wireID uint8) {
	q := ws.queueFor(id)
	q.containerClose = append(q.containerClose, ContainerClose{WireID: wireID})
}

func (ws *WorldState) QueueContainerRefresh(id ids.PlayerId, wireID uint8) {
	q := ws.queueFor(id)
	q.containerRefrs = append(q.containerRefrs, ContainerRefresh{WireID: wireID})
}

// drain helpers: each take_pending_* clears and returns its queue, per
// spec §5's "drained by the network layer via take_pending_*".

func (ws *WorldState) TakePendingMessages(id ids.PlayerId) []Message {
	q := ws.queueFor(id)
	out := q.messages
	q.messages = nil
	return out
}

func (ws *WorldState) TakePendingSkillUpdate(id ids.PlayerId) []SkillUpdate {
	q := ws.queueFor(id)
	out := q.skillUpdates
	q.skillUpdates = nil
	return out
}

func (ws *WorldState) TakePendingDataUpdate(id ids.PlayerId) []DataUpdate {
	q := ws.queueFor(id)
	out := q.dataUpdates
	q.dataUpdates = nil
	return out
}

func (ws *WorldState) TakePendingTurnUpdates(id ids.PlayerId) []TurnUpdate {
	q := ws.queueFor(id)
	out := q.turnUpdates
	q.turnUpdates = nil
	return out
}

func (ws *WorldState) TakePendingOutfitUpdates(id ids.PlayerId) []OutfitUpdate {
	q := ws.queueFor(id)
	out := q.outfitUpdates
	q.outfitUpdates = nil
	return out
}

func (ws *WorldState) TakePendingMapRefreshes(id ids.PlayerId) []MapRefreshNotice {
	q := ws.queueFor(id)
	out := q.mapRefreshes
	q.mapRefreshes = nil
	return out
}

func (ws *WorldState) TakePendingBuddyUpdates(id ids.PlayerId) []BuddyUpdate {
	q := ws.queueFor(id)
	out := q.buddyUpdates
	q.buddyUpdates = nil
	return out
}

func (ws *WorldState) TakePendingPartyUpdates(id ids.PlayerId) []PartyUpdate {
	q := ws.queueFor(id)
	out := q.partyUpdates
	q.partyUpdates = nil
	return out
}

func (ws *WorldState) TakePendingTradeUpdates(id ids.PlayerId) []TradeUpdate {
	q := ws.queueFor(id)
	out := q.tradeUpdates
	q.tradeUpdates = nil
	return out
}

func (ws *WorldState) TakePendingMoveUseOutcomes(id ids.PlayerId) []MoveUseOutcome {
	q := ws.queueFor(id)
	out := q.moveUseResults
	q.moveUseResults = nil
	return out
}

func (ws *WorldState) TakeContainerCloses(id ids.PlayerId) []ContainerClose {
	q := ws.queueFor(id)
	out := q.containerClose
	q.containerClose = nil
	return out
}

func (ws *WorldState) TakeContainerRefresh(id ids.PlayerId) []ContainerRefresh {
	q := ws.queueFor(id)
	out := q.containerRefrs
	q.containerRefrs = nil
	return out
}
