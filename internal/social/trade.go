// Package social implements the player-to-player and player-to-NPC
// session state machines: trade, shop, party, buddies, and chat channels
// (spec §4.9 "Trade sessions", §4.6 "shop window", §3 "Party", §8 L4
// "trade_request; trade_close returns both players to pre-trade
// inventories").
package social

import (
	"fmt"

	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
)

// TradeOffer is one side's staged items/gold in an open trade session.
type TradeOffer struct {
	Items    []*item.ItemStack
	Gold     int64
	Accepted bool
}

// TradeSession pairs two players with offer-lists (spec §4.9: "Trade
// sessions pair two players with offer-lists; both must accept;
// completion transfers each side's items atomically; on failure both
// offers are returned; either side can cancel").
type TradeSession struct {
	PlayerA, PlayerB ids.PlayerId
	OfferA, OfferB   TradeOffer
}

// NewTradeSession opens a fresh, unaccepted session between two players.
func NewTradeSession(a, b ids.PlayerId) *TradeSession {
	return &TradeSession{PlayerA: a, PlayerB: b}
}

// offerFor returns the pointer to the named player's offer, or nil if
// they are not part of this session.
func (t *TradeSession) offerFor(player ids.PlayerId) *TradeOffer {
	switch player {
	case t.PlayerA:
		return &t.OfferA
	case t.PlayerB:
		return &t.OfferB
	default:
		return nil
	}
}

func (t *TradeSession) otherOffer(player ids.PlayerId) *TradeOffer {
	switch player {
	case t.PlayerA:
		return &t.OfferB
	case t.PlayerB:
		return &t.OfferA
	default:
		return nil
	}
}

// AddItem stages an item into player's offer, resetting both sides'
// acceptance (spec §4.9 implies re-confirmation is required after any
// offer change, matching the teacher's trade system's "item change
// clears both Ok flags").
func (t *TradeSession) AddItem(player ids.PlayerId, it *item.ItemStack) error {
	offer := t.offerFor(player)
	if offer == nil {
		return fmt.Errorf("trade: player %d is not part of this session", player)
	}
	offer.Items = append(offer.Items, it)
	t.OfferA.Accepted = false
	t.OfferB.Accepted = false
	return nil
}

// SetGold stages a gold amount into player's offer, resetting acceptance.
func (t *TradeSession) SetGold(player ids.PlayerId, amount int64) error {
	offer := t.offerFor(player)
	if offer == nil {
		return fmt.Errorf("trade: player %d is not part of this session", player)
	}
	offer.Gold = amount
	t.OfferA.Accepted = false
	t.OfferB.Accepted = false
	return nil
}

// Accept marks player's side as confirmed. Returns true once both sides
// have accepted, at which point the caller should call Complete.
func (t *TradeSession) Accept(player ids.PlayerId) (bothAccepted bool, err error) {
	offer := t.offerFor(player)
	if offer == nil {
		return false, fmt.Errorf("trade: player %d is not part of this session", player)
	}
	offer.Accepted = true
	return t.OfferA.Accepted && t.OfferB.Accepted, nil
}

// TradeResult is the outcome of completing or cancelling a session.
type TradeResult struct {
	ItemsToA []*item.ItemStack
	ItemsToB []*item.ItemStack
	GoldToA  int64
	GoldToB  int64
}

// Complete performs the atomic two-sided transfer once both sides have
// accepted: each player receives the OTHER side's staged offer. Returns
// an error (with nothing to apply) if either side has not accepted.
func (t *TradeSession) Complete() (TradeResult, error) {
	if !t.OfferA.Accepted || !t.OfferB.Accepted {
		return TradeResult{}, fmt.Errorf("trade: both sides must accept before completion")
	}
	return TradeResult{
		ItemsToA: t.OfferB.Items,
		ItemsToB: t.OfferA.Items,
		GoldToA:  t.OfferB.Gold,
		GoldToB:  t.OfferA.Gold,
	}, nil
}

// Cancel returns both side's original offers unchanged (spec §4.9: "on
// failure both offers are returned; either side can cancel").
func (t *TradeSession) Cancel() TradeResult {
	return TradeResult{
		ItemsToA: t.OfferA.Items,
		ItemsToB: t.OfferB.Items,
		GoldToA:  t.OfferA.Gold,
		GoldToB:  t.OfferB.Gold,
	}
}
