package geom

import "testing"

func TestChebyshevDistance(t *testing.T) {
	a := Position{X: 100, Y: 100, Z: 7}
	b := Position{X: 103, Y: 101, Z: 7}
	if got := ChebyshevDistance(a, b); got != 3 {
		t.Fatalf("ChebyshevDistance = %d, want 3", got)
	}
}

func TestSector(t *testing.T) {
	p := Position{X: 65, Y: 31, Z: 7}
	s := p.Sector()
	if s.SX != 2 || s.SY != 0 || s.Z != 7 {
		t.Fatalf("Sector = %+v, want {2 0 7}", s)
	}
}

func TestDirectionToAndOpposite(t *testing.T) {
	from := Position{X: 100, Y: 100, Z: 7}
	to := Position{X: 101, Y: 99, Z: 7}
	d := DirectionTo(from, to)
	if d != NorthEast {
		t.Fatalf("DirectionTo = %v, want NorthEast", d)
	}
	if d.Opposite() != SouthWest {
		t.Fatalf("Opposite = %v, want SouthWest", d.Opposite())
	}
}

func TestDecomposeDiagonal(t *testing.T) {
	a, b := NorthEast.DecomposeDiagonal()
	if a != North || b != East {
		t.Fatalf("DecomposeDiagonal(NorthEast) = %v,%v want North,East", a, b)
	}
}

func TestAreaRadius0IsJustCenter(t *testing.T) {
	center := Position{X: 50, Y: 50, Z: 7}
	positions := Area(center, 0, nil)
	if len(positions) != 1 || positions[0] != center {
		t.Fatalf("Area(radius=0) = %+v, want just center", positions)
	}
}

func TestLineSteps(t *testing.T) {
	origin := Position{X: 10, Y: 10, Z: 7}
	line := Line(origin, East, 3)
	want := []Position{{11, 10, 7}, {12, 10, 7}, {13, 10, 7}}
	for i, p := range want {
		if line[i] != p {
			t.Fatalf("Line[%d] = %+v, want %+v", i, line[i], p)
		}
	}
}

func TestThrowLineOfSightBlocked(t *testing.T) {
	origin := Position{X: 0, Y: 0, Z: 7}
	target := Position{X: 4, Y: 0, Z: 7}
	blocked := func(p Position) bool { return p.X == 2 }
	if ThrowLineOfSight(origin, target, blocked) {
		t.Fatal("expected line of sight to be blocked")
	}
	blockedNone := func(Position) bool { return false }
	if !ThrowLineOfSight(origin, target, blockedNone) {
		t.Fatal("expected clear line of sight")
	}
}

func TestThrowLineOfSightDifferentFloor(t *testing.T) {
	origin := Position{X: 0, Y: 0, Z: 7}
	target := Position{X: 4, Y: 0, Z: 8}
	if ThrowLineOfSight(origin, target, func(Position) bool { return false }) {
		t.Fatal("expected cross-floor throw to fail line of sight")
	}
}
