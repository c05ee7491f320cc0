package social

import (
	"errors"

	"github.com/opentibia/worldcore/internal/ids"
)

// ShopEntry is one line of an NPC's trade table (spec §4.6: "the shop
// window opens from the NPC's trade table").
type ShopEntry struct {
	TypeID   ids.ItemTypeId
	BuyPrice int64 // price the player pays to buy; 0 = not sellable to players
	SellPrice int64 // price the NPC pays when a player sells; 0 = NPC won't buy
}

// ShopTable is one NPC's full trade table, keyed by item type.
type ShopTable map[ids.ItemTypeId]ShopEntry

// ErrItemNotAvailable / ErrInsufficientMoney / ErrInsufficientCapacity are
// the shop error classes spec §7 names verbatim ("Item not available",
// "You don't have enough money", "You do not have enough capacity").
var (
	ErrItemNotAvailable     = errors.New("Item not available")
	ErrInsufficientMoney    = errors.New("You don't have enough money")
	ErrInsufficientCapacity = errors.New("You do not have enough capacity")
)

// Buy validates a purchase against the shop table, the player's current
// gold, and remaining carry capacity, returning the gold cost on success.
func Buy(table ShopTable, typeID ids.ItemTypeId, count int64, playerGold int64, weightPerUnit, capacityRemaining int64) (cost int64, err error) {
	entry, ok := table[typeID]
	if !ok || entry.BuyPrice <= 0 {
		return 0, ErrItemNotAvailable
	}
	cost = entry.BuyPrice * count
	if playerGold < cost {
		return 0, ErrInsufficientMoney
	}
	if weightPerUnit*count > capacityRemaining {
		return 0, ErrInsufficientCapacity
	}
	return cost, nil
}

// Sell validates a sale against the shop table, returning the gold payout
// on success.
func Sell(table ShopTable, typeID ids.ItemTypeId, count int64) (payout int64, err error) {
	entry, ok := table[typeID]
	if !ok || entry.SellPrice <= 0 {
		return 0, ErrItemNotAvailable
	}
	return entry.SellPrice * count, nil
}
