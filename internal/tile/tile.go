// Package tile implements the map's per-position item stacks and the
// sector-indexed world Map that owns them (spec §3 "Tile"/"Map").
package tile

import "github.com/opentibia/worldcore/internal/item"

// Flag is a named boolean property of a tile.
type Flag uint8

const (
	FlagProtectionZone Flag = 1 << iota
	FlagNoLogout
	FlagRefresh
)

// Detail carries the richer per-instance attributes that ride alongside a
// tile's item stack without being part of the base ItemStack shape (spec
// §3: "Secondary item_details vector mirrors items to carry richer
// per-instance attributes"). In this module ItemStack already carries its
// own Attrs, so Detail is a thin parallel-array marker kept strictly in
// sync with Items — see Tile.Validate.
type Detail struct {
	// Present is false for positions in the stack that intentionally carry
	// no extra detail, keeping the vector's length equal to len(Items)
	// without forcing every entry to allocate attributes.
	Present bool
}

// Tile is an ordered stack of items at one map position, top-of-stack last.
type Tile struct {
	Flags   Flag
	Items   []*item.ItemStack
	Details []Detail
}

// NewTile creates an empty tile.
func NewTile() *Tile {
	return &Tile{}
}

// HasFlag reports whether the tile carries the given flag.
func (t *Tile) HasFlag(f Flag) bool {
	return t.Flags&f != 0
}

// Push appends an item to the top of the stack, keeping Details parallel.
func (t *Tile) Push(it *item.ItemStack, detail Detail) {
	t.Items = append(t.Items, it)
	t.Details = append(t.Details, detail)
}

// RemoveAt removes the item at idx, keeping Details parallel (spec P2:
// "items and item_details MUST stay strictly parallel in length").
func (t *Tile) RemoveAt(idx int) (*item.ItemStack, bool) {
	if idx < 0 || idx >= len(t.Items) {
		return nil, false
	}
	removed := t.Items[idx]
	t.Items = append(t.Items[:idx], t.Items[idx+1:]...)
	t.Details = append(t.Details[:idx], t.Details[idx+1:]...)
	return removed, true
}

// InsertAt inserts an item at idx, shifting later entries up.
func (t *Tile) InsertAt(idx int, it *item.ItemStack, detail Detail) {
	if idx < 0 || idx > len(t.Items) {
		idx = len(t.Items)
	}
	t.Items = append(t.Items, nil)
	t.Details = append(t.Details, Detail{})
	copy(t.Items[idx+1:], t.Items[idx:])
	copy(t.Details[idx+1:], t.Details[idx:])
	t.Items[idx] = it
	t.Details[idx] = detail
}

// Top returns the top-of-stack item, or nil if the tile is empty.
func (t *Tile) Top() *item.ItemStack {
	if len(t.Items) == 0 {
		return nil
	}
	return t.Items[len(t.Items)-1]
}

// Validate enforces the parallel-vector invariant (spec P2).
func (t *Tile) Validate() error {
	if len(t.Items) != len(t.Details) {
		return errTileInvariant("items and item_details length mismatch")
	}
	return nil
}

type tileInvariantError string

func (e tileInvariantError) Error() string { return string(e) }

func errTileInvariant(msg string) error { return tileInvariantError(msg) }
