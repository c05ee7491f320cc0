package geom

import "math"

// CircleLUT holds the precomputed set of offsets within a given radius,
// loaded from dat/circles.dat at boot (spec §6: "circle LUT" is an
// immutable static collaborator). Area below falls back to this
// table when one is supplied, otherwise computes the circle directly —
// tests exercise the computed path; production wires a real LUT.
type CircleLUT struct {
	offsets map[int][]PositionDelta
}

// NewCircleLUT builds a LUT for the given radii by direct computation.
// A real deployment would instead parse dat/circles.dat.
func NewCircleLUT(radii []int) *CircleLUT {
	lut := &CircleLUT{offsets: make(map[int][]PositionDelta, len(radii))}
	for _, r := range radii {
		lut.offsets[r] = computeCircle(r)
	}
	return lut
}

func computeCircle(radius int) []PositionDelta {
	var out []PositionDelta
	r2 := float64(radius*radius) + 0.5
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				out = append(out, PositionDelta{DX: int16(dx), DY: int16(dy)})
			}
		}
	}
	return out
}

// Area returns every position within radius tiles of center (inclusive),
// same floor only. Uses the LUT when it has an entry for radius.
func Area(center Position, radius int, lut *CircleLUT) []Position {
	var offsets []PositionDelta
	if lut != nil {
		if cached, ok := lut.offsets[radius]; ok {
			offsets = cached
		}
	}
	if offsets == nil {
		offsets = computeCircle(radius)
	}
	out := make([]Position, 0, len(offsets))
	for _, d := range offsets {
		out = append(out, center.Add(d))
	}
	return out
}

// Line returns the `length` tiles stepping from origin toward target's
// direction (spec §4.3: "Line{length} via stepping").
func Line(origin Position, dir Direction, length int) []Position {
	out := make([]Position, 0, length)
	cur := origin
	for i := 0; i < length; i++ {
		cur = cur.Step(dir)
		out = append(out, cur)
	}
	return out
}

// Cone returns every tile within `reach` tiles of origin whose bearing from
// origin lies within angleDegrees/2 of dir's bearing (spec §4.3: "Cone{range,
// angleDegrees}").
func Cone(origin Position, dir Direction, reach int, angleDegrees float64) []Position {
	centerAngle := directionAngle(dir)
	halfSpread := angleDegrees / 2
	var out []Position
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if dx*dx+dy*dy > reach*reach {
				continue
			}
			angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
			if angularDistance(angle, centerAngle) <= halfSpread {
				out = append(out, origin.Add(PositionDelta{DX: int16(dx), DY: int16(dy)}))
			}
		}
	}
	return out
}

func directionAngle(d Direction) float64 {
	delta := d.Delta()
	return math.Atan2(float64(delta.DY), float64(delta.DX)) * 180 / math.Pi
}

func angularDistance(a, b float64) float64 {
	diff := math.Mod(a-b+540, 360) - 180
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// TileBlocker reports whether the tile at p blocks throw line-of-sight.
// The caller (Map) supplies this so geom has no dependency on tile/item.
type TileBlocker func(p Position) bool

// ThrowLineOfSight walks a Bresenham line from origin to target and reports
// whether every intermediate tile is non-blocking (spec §2: "throw
// line-of-sight"). The origin and target tiles themselves are never
// considered blockers.
func ThrowLineOfSight(origin, target Position, blocked TileBlocker) bool {
	if origin.Z != target.Z {
		return false
	}
	x0, y0 := int(origin.X), int(origin.Y)
	x1, y1 := int(target.X), int(target.Y)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			if blocked(Position{X: uint16(x), Y: uint16(y), Z: origin.Z}) {
				return false
			}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
