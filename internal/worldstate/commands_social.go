package worldstate

import (
	"fmt"

	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
	"github.com/opentibia/worldcore/internal/player"
	"github.com/opentibia/worldcore/internal/social"

	"go.uber.org/zap"
)

// --- trade -----------------------------------------------------------------

// TradeRequest opens a two-player trade session (spec §4.9 "Trade sessions
// pair two players with offer-lists").
func (ws *WorldState) TradeRequest(from, to ids.PlayerId) error {
	if _, ok := ws.Players[from]; !ok {
		return fmt.Errorf("unknown player")
	}
	target, ok := ws.Players[to]
	if !ok || !target.Online {
		return fmt.Errorf("player not available")
	}
	if _, busy := ws.Trades[from]; busy {
		return fmt.Errorf("already trading")
	}
	if _, busy := ws.Trades[to]; busy {
		return fmt.Errorf("player already trading")
	}
	session := social.NewTradeSession(from, to)
	ws.Trades[from] = session
	ws.Trades[to] = session
	ws.QueueTradeUpdate(to, TradeUpdate{Counterparty: from, Kind: "offer_changed"})
	return nil
}

// TradeOfferItem stages an equipped item into the caller's side of an open
// session without removing it from inventory yet -- completion (not
// staging) is what actually moves items, so an unaccepted trade_close
// leaves both inventories untouched (spec §8 L4).
func (ws *WorldState) TradeOfferItem(id ids.PlayerId, slot item.Slot) error {
	session, ok := ws.Trades[id]
	if !ok {
		return fmt.Errorf("no trade session")
	}
	p := ws.Players[id]
	stack := p.Inventory.Get(slot)
	if stack == nil {
		return fmt.Errorf("slot empty")
	}
	if err := session.AddItem(id, stack); err != nil {
		return err
	}
	ws.broadcastTradeUpdate(session, "offer_changed")
	return nil
}

// TradeAccept marks the caller's side confirmed; once both sides have
// accepted, the session completes atomically (spec §4.9 "completion
// transfers each side's items atomically").
func (ws *WorldState) TradeAccept(id ids.PlayerId) error {
	session, ok := ws.Trades[id]
	if !ok {
		return fmt.Errorf("no trade session")
	}
	both, err := session.Accept(id)
	if err != nil {
		return err
	}
	if !both {
		ws.broadcastTradeUpdate(session, "offer_changed")
		return nil
	}
	result, err := session.Complete()
	if err != nil {
		return err
	}
	ws.applyTradeResult(session, result)
	ws.broadcastTradeUpdate(session, "completed")
	ws.closeTradeSession(session)
	return nil
}

// TradeClose cancels an open session; since staged items never left their
// owner's inventory, cancellation requires no rollback of its own (spec §8
// L4 "trade_close returns both players to pre-trade inventories").
func (ws *WorldState) TradeClose(id ids.PlayerId) error {
	session, ok := ws.Trades[id]
	if !ok {
		return fmt.Errorf("no trade session")
	}
	ws.broadcastTradeUpdate(session, "cancelled")
	ws.closeTradeSession(session)
	return nil
}

func (ws *WorldState) broadcastTradeUpdate(session *social.TradeSession, kind string) {
	ws.QueueTradeUpdate(session.PlayerA, TradeUpdate{Counterparty: session.PlayerB, Kind: kind})
	ws.QueueTradeUpdate(session.PlayerB, TradeUpdate{Counterparty: session.PlayerA, Kind: kind})
}

func (ws *WorldState) closeTradeSession(session *social.TradeSession) {
	delete(ws.Trades, session.PlayerA)
	delete(ws.Trades, session.PlayerB)
}

// applyTradeResult performs the two-sided transfer a completed trade
// session reports: each side's staged items move into the other's
// backpack, and are removed from wherever they were equipped.
func (ws *WorldState) applyTradeResult(session *social.TradeSession, result social.TradeResult) {
	a := ws.Players[session.PlayerA]
	b := ws.Players[session.PlayerB]
	ws.transferTradedItems(b, a, result.ItemsToA)
	ws.transferTradedItems(a, b, result.ItemsToB)
}

func (ws *WorldState) transferTradedItems(from, to *player.State, items []*item.ItemStack) {
	for _, stack := range items {
		from.Inventory.Each(func(slot item.Slot, s *item.ItemStack) {
			if s == stack {
				from.Inventory.Set(slot, nil)
			}
		})
		backpack := to.Inventory.Get(item.SlotBackpack)
		if backpack != nil && backpack.IsContainer(ws.Catalog) {
			backpack.Contents = append(backpack.Contents, stack)
		}
	}
}

// --- shop --------------------------------------------------------------

// unlimitedGold stands in for a player currency ledger this module does
// not own (same documented gap as combat_bridge.go's evictIfRentUnpaid):
// shop purchases are gated on weight/capacity and the shop's own price
// table, never on a tracked balance.
const unlimitedGold = int64(1) << 40

// ShopBuy validates and applies an NPC-shop purchase (spec §4.6, §7 shop
// error classes "Item not available"/"You don't have enough money"/"You do
// not have enough capacity").
func (ws *WorldState) ShopBuy(id ids.PlayerId, npc ids.CreatureId, typeID ids.ItemTypeId, count int64) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	table, ok := ws.Shops[npc]
	if !ok {
		return fmt.Errorf("no shop here")
	}
	weight := int64(ws.Catalog.Get(int32(typeID)).AttrInt("Weight", 0))
	if _, err := social.Buy(table, typeID, count, unlimitedGold, weight, int64(p.Stats.Capacity)); err != nil {
		return err
	}
	stack := item.NewItemStack(ws.NextItemID(), typeID)
	stack.Count = uint16(count)
	backpack := p.Inventory.Get(item.SlotBackpack)
	if backpack == nil || !backpack.IsContainer(ws.Catalog) {
		return fmt.Errorf("no backpack to receive purchase")
	}
	backpack.Contents = append(backpack.Contents, stack)
	p.Stats.Capacity -= int32(weight * count)
	return nil
}

// ShopSell validates and applies an NPC-shop sale from an inventory slot.
func (ws *WorldState) ShopSell(id ids.PlayerId, npc ids.CreatureId, slot item.Slot) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	table, ok := ws.Shops[npc]
	if !ok {
		return fmt.Errorf("no shop here")
	}
	stack := p.Inventory.Get(slot)
	if stack == nil {
		return fmt.Errorf("slot empty")
	}
	if _, err := social.Sell(table, stack.TypeID, int64(stack.Count)); err != nil {
		return err
	}
	weight := ws.itemWeight(stack)
	p.Inventory.Set(slot, nil)
	p.Stats.Capacity += weight
	return nil
}

// --- party ---------------------------------------------------------------

func (ws *WorldState) partyOf(id ids.PlayerId) (int64, *social.Party, bool) {
	p, ok := ws.Players[id]
	if !ok || p.PartyID == 0 {
		return 0, nil, false
	}
	party, ok := ws.Parties[p.PartyID]
	return p.PartyID, party, ok
}

// PartyInvite invites a target player, founding a new party under the
// caller if they are not already leading one (spec §3 "Party").
func (ws *WorldState) PartyInvite(leaderID, targetID ids.PlayerId) error {
	leader, ok := ws.Players[leaderID]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	if _, ok := ws.Players[targetID]; !ok {
		return fmt.Errorf("unknown player")
	}
	partyID, party, ok := ws.partyOf(leaderID)
	if !ok {
		partyID = ws.PartyIDs.Next()
		party = social.NewParty(leaderID)
		ws.Parties[partyID] = party
		leader.PartyID = partyID
	}
	if party.Leader != leaderID {
		return fmt.Errorf("not party leader")
	}
	if !party.Invite(targetID) {
		return fmt.Errorf("party full")
	}
	ws.QueuePartyUpdate(targetID, PartyUpdate{PartyID: partyID, Kind: "invited", Member: leaderID})
	return nil
}

// PartyAccept joins the caller into a party they were invited to.
func (ws *WorldState) PartyAccept(id ids.PlayerId, partyID int64) error {
	party, ok := ws.Parties[partyID]
	if !ok {
		return fmt.Errorf("unknown party")
	}
	if !party.AcceptInvite(id) {
		return fmt.Errorf("not invited")
	}
	ws.Players[id].PartyID = partyID
	ws.broadcastPartyUpdate(party, partyID, "joined", id)
	return nil
}

// PartyLeave removes the caller from their party, dissolving it if they
// were its last member and passing leadership otherwise (spec §3 Party
// "leadership passes to the next remaining member").
func (ws *WorldState) PartyLeave(id ids.PlayerId) error {
	partyID, party, ok := ws.partyOf(id)
	if !ok {
		return fmt.Errorf("not in a party")
	}
	dissolved := party.Leave(id)
	ws.Players[id].PartyID = 0
	if dissolved {
		delete(ws.Parties, partyID)
		ws.QueuePartyUpdate(id, PartyUpdate{PartyID: partyID, Kind: "disbanded", Member: id})
		return nil
	}
	ws.broadcastPartyUpdate(party, partyID, "left", id)
	return nil
}

func (ws *WorldState) broadcastPartyUpdate(party *social.Party, partyID int64, kind string, member ids.PlayerId) {
	for _, m := range party.Members {
		ws.QueuePartyUpdate(m, PartyUpdate{PartyID: partyID, Kind: kind, Member: member})
	}
}

// RecomputePartySharedExp refreshes one party's shared-exp eligibility
// against its members' current positions and levels (spec §3's distance/
// level-spread rule). Exposed for the per-tick or per-move caller to drive;
// this module does not itself schedule the recompute.
func (ws *WorldState) RecomputePartySharedExp(partyID int64) {
	party, ok := ws.Parties[partyID]
	if !ok {
		return
	}
	members := make([]social.MemberState, 0, len(party.Members))
	for _, m := range party.Members {
		if p, ok := ws.Players[m]; ok {
			members = append(members, social.MemberState{ID: p.ID, Pos: p.Pos, Level: p.Stats.Level})
		}
	}
	party.RecomputeSharedExp(members)
}

// --- buddies ---------------------------------------------------------------

// BuddyAdd adds target to id's buddy list.
func (ws *WorldState) BuddyAdd(id, target ids.PlayerId) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	social.BuddyList(p.Buddies).Add(target)
	return nil
}

// BuddyRemove removes target from id's buddy list.
func (ws *WorldState) BuddyRemove(id, target ids.PlayerId) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	social.BuddyList(p.Buddies).Remove(target)
	return nil
}

// notifyBuddiesOfOnlineChange fans an online/offline transition out to
// every other player whose buddy list contains id (spec §6
// take_pending_buddy_updates). Called from SpawnPlayer/HandleDisconnect.
func (ws *WorldState) notifyBuddiesOfOnlineChange(id ids.PlayerId, name string, online bool) {
	owners := make(map[ids.PlayerId]social.BuddyList, len(ws.Players)+len(ws.OfflinePlayers))
	for owner, p := range ws.Players {
		owners[owner] = social.BuddyList(p.Buddies)
	}
	for owner, p := range ws.OfflinePlayers {
		owners[owner] = social.BuddyList(p.Buddies)
	}
	for owner, upd := range social.NotifyBuddies(owners, id, online) {
		ws.QueueBuddyUpdate(owner, name, upd.Online)
	}
}

// --- channels ----------------------------------------------------------

// ChannelJoin joins an invited player to a named channel, creating it
// (owned by the caller) if it does not yet exist.
func (ws *WorldState) ChannelJoin(id ids.PlayerId, name string) error {
	ch := ws.Channels.GetOrCreate(name, id)
	if ch.Owner == id || ch.Members[id] {
		return nil
	}
	if !ch.Join(id) {
		return fmt.Errorf("not invited")
	}
	return nil
}

// ChannelInvite lets an existing member invite another player.
func (ws *WorldState) ChannelInvite(id ids.PlayerId, name string, target ids.PlayerId) error {
	ch, ok := ws.Channels[name]
	if !ok {
		return fmt.Errorf("unknown channel")
	}
	if !ch.Members[id] {
		return fmt.Errorf("not a channel member")
	}
	ch.Invite(target)
	return nil
}

// ChannelLeave removes a member, dissolving an empty channel.
func (ws *WorldState) ChannelLeave(id ids.PlayerId, name string) error {
	ch, ok := ws.Channels[name]
	if !ok {
		return fmt.Errorf("unknown channel")
	}
	if ch.Leave(id) {
		delete(ws.Channels, name)
	}
	return nil
}

// ChannelSay broadcasts a line of chat to every current member.
func (ws *WorldState) ChannelSay(id ids.PlayerId, name, text string) error {
	ch, ok := ws.Channels[name]
	if !ok || !ch.Members[id] {
		return fmt.Errorf("not a channel member")
	}
	for member := range ch.Members {
		ws.QueueMessage(member, name, text)
	}
	return nil
}

// --- misc item/text/report commands ----------------------------------------

// ApplyEditText writes text onto a writable item (book, sign, letter),
// addressed the same way use_object_* resolves its operand (spec §6
// "apply_edit_text").
func (ws *WorldState) ApplyEditText(id ids.PlayerId, src item.UseObjectSource, text string) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	stack, _, err := ws.resolveUseSource(p, src)
	if err != nil {
		return err
	}
	stack.SetStringAttr(item.AttrDynamicText, text)
	return nil
}

// ApplyEditList records a player's submitted multi-choice selection against
// a pending NPC dialogue topic (spec §6 "apply_edit_list"; player.State's
// per-npc DialogueState.Vars is the only per-topic scratch space this
// module carries, so list submissions land there keyed by position).
func (ws *WorldState) ApplyEditList(id ids.PlayerId, npcKey string, values []int32) error {
	p, ok := ws.Players[id]
	if !ok {
		return fmt.Errorf("unknown player")
	}
	st := p.DialogueState(npcKey)
	for i, v := range values {
		st.Vars[fmt.Sprintf("list:%d", i)] = v
	}
	return nil
}

// SubmitRequest logs a free-form player report (spec §6 "submit_request"
// -- e.g. a rule-violation report) through the configured logger; this
// module carries no ticket/report storage of its own.
func (ws *WorldState) SubmitRequest(id ids.PlayerId, subject, body string) error {
	if _, ok := ws.Players[id]; !ok {
		return fmt.Errorf("unknown player")
	}
	ws.Log.Info("player request submitted", zap.Int64("player", int64(id)), zap.String("subject", subject), zap.String("body", body))
	return nil
}
