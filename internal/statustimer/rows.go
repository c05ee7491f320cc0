// Package statustimer implements the nine skill-timer rows (FED, SOUL,
// POISON, BURNING, ENERGY, DRUNKEN, LIGHT, ILLUSION, MANASHIELD) and the
// derived status effects they drive (spec §4.10 "Skill timers").
package statustimer

import "math"

// Row identifies one of the nine fixed skill-timer slots.
type Row uint8

const (
	RowFed Row = iota
	RowSoul
	RowPoison
	RowBurning
	RowEnergy
	RowDrunken
	RowLight
	RowIllusion
	RowManaShield
	rowCount
)

// skillRowInactive is the MIN sentinel marking a row inactive (spec §4.10:
// "MIN != INT_MIN marks the row as active").
const skillRowInactive = math.MinInt32

// SkillRow is the fixed-size integer vector spec §4.10 names verbatim:
// [MIN, ACT, MAX, DELTA, EXP, NEXT_LEVEL, CYCLE, COUNT, MAX_COUNT, FACTOR_PERCENT].
type SkillRow struct {
	Min           int32
	Act           int32
	Max           int32
	Delta         int32
	Exp           int32
	NextLevel     int32
	Cycle         int32
	Count         int32
	MaxCount      int32
	FactorPercent int32
}

// Active reports whether the row currently drives any side effect.
func (r SkillRow) Active() bool { return r.Min != skillRowInactive }

// Table holds one player's nine skill-timer rows.
type Table struct {
	rows [rowCount]SkillRow
}

// NewTable creates a table with every row inactive.
func NewTable() *Table {
	t := &Table{}
	for i := range t.rows {
		t.rows[i] = SkillRow{Min: skillRowInactive}
	}
	return t
}

// Get returns a copy of the row at r.
func (t *Table) Get(r Row) SkillRow { return t.rows[r] }

// Set installs row as the contents of r.
func (t *Table) Set(r Row, row SkillRow) { t.rows[r] = row }

// Clear marks the row inactive.
func (t *Table) Clear(r Row) { t.rows[r] = SkillRow{Min: skillRowInactive} }

// Start activates a row with the given parameters, cycle beginning at
// cycleStart. Advance steps CYCLE by one toward zero: a positive start
// counts down, a negative start counts up.
func (t *Table) Start(r Row, min, max, delta, cycleStart, maxCount, factorPercent int32) {
	t.rows[r] = SkillRow{
		Min:           min,
		Max:           max,
		Delta:         delta,
		Cycle:         cycleStart,
		Count:         maxCount,
		MaxCount:      maxCount,
		FactorPercent: factorPercent,
	}
}

// TickResult reports what a row's per-second advance produced, so the
// caller (worldstate) can apply side effects without this package needing
// to know about players/damage/mana.
type TickResult struct {
	Row        Row
	CycleHit   bool // COUNT reached 0 and CYCLE stepped this tick
	CycleValue int32
	Expired    bool // CYCLE reached 0 and the row should clear its status effect
}

// Advance steps every active row's COUNT down by one, and on reaching zero
// resets COUNT to MAX_COUNT and steps CYCLE by one toward zero (per spec
// §4.10, direction from sign). Returns one TickResult per row that fired a
// cycle this call.
func (t *Table) Advance() []TickResult {
	var fired []TickResult
	for i := range t.rows {
		row := &t.rows[i]
		if !row.Active() {
			continue
		}
		row.Count--
		if row.Count > 0 {
			continue
		}
		row.Count = row.MaxCount
		if row.Cycle > 0 {
			row.Cycle--
		} else if row.Cycle < 0 {
			row.Cycle++
		}
		res := TickResult{Row: Row(i), CycleHit: true, CycleValue: row.Cycle}
		if row.Cycle == 0 {
			res.Expired = true
		}
		fired = append(fired, res)
	}
	return fired
}
