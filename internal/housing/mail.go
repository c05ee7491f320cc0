package housing

import (
	"fmt"
	"strings"

	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
)

// ParseLabel splits a letter/parcel's label text into recipient and town
// (spec §4.9: "examines all new-state letter/parcel items with a label
// (first line = recipient name, second line = town)").
func ParseLabel(label string) (recipient, town string, ok bool) {
	lines := strings.SplitN(label, "\n", 3)
	if len(lines) < 2 {
		return "", "", false
	}
	recipient = strings.TrimSpace(lines[0])
	town = strings.TrimSpace(lines[1])
	if recipient == "" || town == "" {
		return "", "", false
	}
	return recipient, town, true
}

// OnlineLookup resolves a recipient name to their live, in-memory depot
// set if they are currently connected (spec §4.9: "if recipient is online
// insert into their in-memory depot").
type OnlineLookup func(name string) (DepotSet, bool)

// OfflineStore loads and persists a disconnected player's depots (spec
// §4.9: "else load via SaveStore, insert into depot, re-save"). Defined
// locally rather than imported from internal/persist to keep housing free
// of a dependency on the persistence backend's concrete shape; persist's
// SaveStore satisfies this narrower interface.
type OfflineStore interface {
	LoadDepots(playerName string) (DepotSet, error)
	SaveDepots(playerName string, depots DepotSet) error
}

// DeliveryResult reports the outcome of one mail delivery attempt.
type DeliveryResult struct {
	Delivered       bool
	RecipientOnline bool
	Reason          string
}

// DeliverLetter implements spec §4.9's mail delivery algorithm for one
// labeled item found on a mailbox tile: resolve the recipient (online
// in-memory, or offline via store), insert into their depot for the
// labeled town, and on success stamp the item to its delivered-state type
// (AttrMailDeliveredType) for the caller to swap in and remove from the
// mailbox tile.
func DeliverLetter(letter *item.ItemStack, cat *catalog.Index, lookup OnlineLookup, store OfflineStore) (DeliveryResult, error) {
	label := letter.GetAttr(item.AttrDynamicText)
	if label == nil || label.Kind != item.AttrKindString {
		return DeliveryResult{Reason: "no label"}, nil
	}
	recipient, town, ok := ParseLabel(label.StringVal)
	if !ok {
		return DeliveryResult{Reason: "malformed label"}, nil
	}

	ot := cat.Get(int32(letter.TypeID))
	capacity := ot.AttrInt(catalog.AttrCapacity, 0)

	if depots, online := lookup(recipient); online {
		depot := depots.Get(town, capacity)
		if err := depot.Insert(letter); err != nil {
			return DeliveryResult{RecipientOnline: true, Reason: err.Error()}, err
		}
		stampDelivered(letter, ot)
		return DeliveryResult{Delivered: true, RecipientOnline: true}, nil
	}

	if store == nil {
		return DeliveryResult{Reason: "recipient offline, no store configured"}, nil
	}
	depots, err := store.LoadDepots(recipient)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("load depots for %s: %w", recipient, err)
	}
	if depots == nil {
		depots = make(DepotSet)
	}
	depot := depots.Get(town, capacity)
	if err := depot.Insert(letter); err != nil {
		return DeliveryResult{Reason: err.Error()}, err
	}
	if err := store.SaveDepots(recipient, depots); err != nil {
		return DeliveryResult{}, fmt.Errorf("save depots for %s: %w", recipient, err)
	}
	stampDelivered(letter, ot)
	return DeliveryResult{Delivered: true}, nil
}

// stampDelivered rewrites the letter's type to its delivered-state type,
// if the catalog names one (spec §4.9: "the original item is stamped to
// its delivered-state type").
func stampDelivered(letter *item.ItemStack, ot *catalog.ObjectType) {
	if target := ot.AttrInt(catalog.AttrMailDeliveredType, 0); target != 0 {
		letter.ChangeType(ids.ItemTypeId(target), false, false)
	}
}
