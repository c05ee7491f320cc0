package tile

import "github.com/opentibia/worldcore/internal/geom"

// Bounds is an inclusive axis-aligned box a Map may optionally enforce.
type Bounds struct {
	MinX, MinY uint16
	MaxX, MaxY uint16
	MinZ, MaxZ uint8
}

// Contains reports whether pos falls within b.
func (b Bounds) Contains(pos geom.Position) bool {
	return pos.X >= b.MinX && pos.X <= b.MaxX &&
		pos.Y >= b.MinY && pos.Y <= b.MaxY &&
		pos.Z >= b.MinZ && pos.Z <= b.MaxZ
}

// Map is the Position -> Tile mapping, with an optional sector allow-list
// and bounds (spec §3 "Map"). Positions are indexed by sector to keep
// area-of-interest sweeps (used by visibility/AI/spell-area code) from
// scanning the whole map.
type Map struct {
	tiles map[geom.Position]*Tile

	hasBounds bool
	bounds    Bounds

	// sectorAllowList, when non-nil, restricts InBounds to positions whose
	// sector is present in the set (spec §3: "optional sector allow-list").
	sectorAllowList map[geom.SectorKey]bool
}

// NewMap creates an unbounded map with no sector restriction.
func NewMap() *Map {
	return &Map{tiles: make(map[geom.Position]*Tile)}
}

// SetBounds installs a bounding box check.
func (m *Map) SetBounds(b Bounds) {
	m.hasBounds = true
	m.bounds = b
}

// Bounds returns the configured bounding box, if any (used by the map
// refresh sweep to derive its sector-bounds starting cursor, spec §4.11).
func (m *Map) Bounds() (Bounds, bool) {
	return m.bounds, m.hasBounds
}

// AllowSector adds a sector to the allow-list, activating sector
// restriction on first call.
func (m *Map) AllowSector(key geom.SectorKey) {
	if m.sectorAllowList == nil {
		m.sectorAllowList = make(map[geom.SectorKey]bool)
	}
	m.sectorAllowList[key] = true
}

// InBounds reports whether pos is within bounds (if set) and within the
// sector allow-list (if populated) — spec §3: "in-bounds iff within bounds
// and (if sectors are populated) its sector is in the allow-list."
func (m *Map) InBounds(pos geom.Position) bool {
	if m.hasBounds && !m.bounds.Contains(pos) {
		return false
	}
	if len(m.sectorAllowList) > 0 && !m.sectorAllowList[pos.Sector()] {
		return false
	}
	return true
}

// Get returns the tile at pos, creating none if absent.
func (m *Map) Get(pos geom.Position) (*Tile, bool) {
	t, ok := m.tiles[pos]
	return t, ok
}

// GetOrCreate returns the tile at pos, lazily allocating an empty one.
func (m *Map) GetOrCreate(pos geom.Position) *Tile {
	t, ok := m.tiles[pos]
	if !ok {
		t = NewTile()
		m.tiles[pos] = t
	}
	return t
}

// Set installs t at pos directly.
func (m *Map) Set(pos geom.Position, t *Tile) {
	m.tiles[pos] = t
}

// Delete removes any tile stored at pos.
func (m *Map) Delete(pos geom.Position) {
	delete(m.tiles, pos)
}

// EachInSector iterates every occupied position within the given sector,
// used by area-of-interest sweeps.
func (m *Map) EachInSector(key geom.SectorKey, fn func(geom.Position, *Tile)) {
	for pos, t := range m.tiles {
		if pos.Sector() == key {
			fn(pos, t)
		}
	}
}
