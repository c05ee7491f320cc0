package statustimer

import "testing"

func TestNewTableRowsStartInactive(t *testing.T) {
	tbl := NewTable()
	if tbl.Get(RowFed).Active() {
		t.Fatal("expected fresh table rows to be inactive")
	}
}

func TestStartActivatesRow(t *testing.T) {
	tbl := NewTable()
	tbl.Start(RowPoison, 0, 10, -1, -5, 4, 1000)
	if !tbl.Get(RowPoison).Active() {
		t.Fatal("expected row to be active after Start")
	}
}

func TestAdvanceDecrementsCountAndCyclesOnZero(t *testing.T) {
	tbl := NewTable()
	tbl.Start(RowFed, 0, 10, 1, 1, 2, 0)
	fired := tbl.Advance()
	if len(fired) != 0 {
		t.Fatalf("expected no cycle yet, got %v", fired)
	}
	fired = tbl.Advance()
	if len(fired) != 1 || fired[0].Row != RowFed {
		t.Fatalf("expected FED row to fire on second tick, got %v", fired)
	}
	if fired[0].CycleValue != 0 {
		t.Fatalf("expected cycle to step from 1 to 0, got %d", fired[0].CycleValue)
	}
}

func TestAdvanceStepsNegativeCycleUpTowardZero(t *testing.T) {
	tbl := NewTable()
	tbl.Start(RowPoison, 0, 10, -1, -1, 1, 1000)
	fired := tbl.Advance()
	if len(fired) != 1 {
		t.Fatalf("expected row to fire, got %v", fired)
	}
	if fired[0].CycleValue != 0 {
		t.Fatalf("expected cycle to step upward from -1 to 0, got %d", fired[0].CycleValue)
	}
}

func TestAdvanceMarksExpiredWhenCycleReachesZero(t *testing.T) {
	tbl := NewTable()
	tbl.Start(RowLight, 0, 10, 1, -1, 1, 0)
	fired := tbl.Advance()
	if len(fired) != 1 || !fired[0].Expired {
		t.Fatalf("expected row to report expired when cycle reaches 0, got %v", fired)
	}
}

func TestClearMakesRowInactive(t *testing.T) {
	tbl := NewTable()
	tbl.Start(RowSoul, 0, 10, 1, 1, 5, 0)
	tbl.Clear(RowSoul)
	if tbl.Get(RowSoul).Active() {
		t.Fatal("expected row to be inactive after Clear")
	}
}
