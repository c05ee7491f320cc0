// Package housing implements per-town depots, mail delivery, and house
// ownership/rent (spec §3 "MapDat.depots", §4.9 "Items: container, trade,
// depot, mail"; SPEC_FULL's `internal/housing` responsibility: "houses,
// depots, mail").
package housing

import (
	"fmt"

	"github.com/opentibia/worldcore/internal/ids"
	"github.com/opentibia/worldcore/internal/item"
)

// Depot is one town's depot chest contents for one player (spec §4.9:
// "depot capacity (total item-tree count ≤ MapDat.depots[town].capacity)
// when destination roots at a depot chest").
type Depot struct {
	Town     string
	Capacity int
	Items    []*item.ItemStack
}

// NewDepot constructs an empty depot for a town with the given capacity.
func NewDepot(town string, capacity int) *Depot {
	return &Depot{Town: town, Capacity: capacity}
}

// TotalCount is the whole item-tree count currently stored (the depot
// itself is not an ItemStack, so this sums each top-level stack's own
// subtree plus itself).
func (d *Depot) TotalCount() int {
	n := 0
	for _, it := range d.Items {
		n += 1 + it.TotalContentsCount()
	}
	return n
}

// CanAccept reports whether inserting incoming (counting its own subtree)
// would keep the depot within capacity (spec §4.9 depot capacity rule).
func (d *Depot) CanAccept(incoming *item.ItemStack) bool {
	added := 1 + incoming.TotalContentsCount()
	return d.TotalCount()+added <= d.Capacity
}

// Insert appends incoming to the depot if capacity allows.
func (d *Depot) Insert(incoming *item.ItemStack) error {
	if !d.CanAccept(incoming) {
		return fmt.Errorf("depot %s: capacity %d exceeded", d.Town, d.Capacity)
	}
	d.Items = append(d.Items, incoming)
	return nil
}

// DepotSet is one player's depots, keyed by town name (spec §3
// PlayerState: "depots (mapping depot-id → items)" — town name is this
// world's depot-id namespace, matching the catalog's per-town capacity
// lookup in spec §4.9).
type DepotSet map[string]*Depot

// Get returns (creating on demand with the given capacity) the depot for
// a town.
func (s DepotSet) Get(town string, capacity int) *Depot {
	d, ok := s[town]
	if !ok {
		d = NewDepot(town, capacity)
		s[town] = d
	}
	return d
}

// PlayerRef identifies the owner of a depot/house/mailbox for the purpose
// of this package's external lookups, avoiding an import of player.State
// (which would cycle back into housing were player ever to need it).
type PlayerRef struct {
	ID   ids.PlayerId
	Name string
}
