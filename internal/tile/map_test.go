package tile

import (
	"testing"

	"github.com/opentibia/worldcore/internal/geom"
)

func TestInBoundsUnboundedMapAcceptsAnyPosition(t *testing.T) {
	m := NewMap()
	if !m.InBounds(geom.Position{X: 0, Y: 0, Z: 0}) {
		t.Fatal("expected unbounded map to accept any position")
	}
}

func TestInBoundsRejectsOutsideBox(t *testing.T) {
	m := NewMap()
	m.SetBounds(Bounds{MinX: 100, MaxX: 200, MinY: 100, MaxY: 200, MinZ: 7, MaxZ: 7})
	if m.InBounds(geom.Position{X: 50, Y: 150, Z: 7}) {
		t.Fatal("expected position outside X range to be rejected")
	}
	if !m.InBounds(geom.Position{X: 150, Y: 150, Z: 7}) {
		t.Fatal("expected position inside box to be accepted")
	}
}

func TestInBoundsSectorAllowList(t *testing.T) {
	m := NewMap()
	pos := geom.Position{X: 10, Y: 10, Z: 7}
	m.AllowSector(pos.Sector())
	if !m.InBounds(pos) {
		t.Fatal("expected allow-listed sector's position to be in bounds")
	}
	other := geom.Position{X: 10000, Y: 10000, Z: 7}
	if m.InBounds(other) {
		t.Fatal("expected position outside the allow-list to be rejected once list is populated")
	}
}

func TestGetOrCreateThenGet(t *testing.T) {
	m := NewMap()
	pos := geom.Position{X: 5, Y: 5, Z: 7}
	created := m.GetOrCreate(pos)
	got, ok := m.Get(pos)
	if !ok || got != created {
		t.Fatal("expected Get to return the tile created by GetOrCreate")
	}
}

func TestDeleteRemovesTile(t *testing.T) {
	m := NewMap()
	pos := geom.Position{X: 1, Y: 1, Z: 7}
	m.GetOrCreate(pos)
	m.Delete(pos)
	if _, ok := m.Get(pos); ok {
		t.Fatal("expected tile to be gone after delete")
	}
}

func TestEachInSectorOnlyVisitsMatchingSector(t *testing.T) {
	m := NewMap()
	near := geom.Position{X: 1, Y: 1, Z: 7}
	far := geom.Position{X: 1000, Y: 1000, Z: 7}
	m.GetOrCreate(near)
	m.GetOrCreate(far)

	visited := 0
	m.EachInSector(near.Sector(), func(pos geom.Position, tl *Tile) {
		visited++
		if pos != near {
			t.Fatalf("unexpected position visited: %+v", pos)
		}
	})
	if visited != 1 {
		t.Fatalf("expected exactly 1 tile visited in sector, got %d", visited)
	}
}
