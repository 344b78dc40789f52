package types

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"
)

func TestNormalizeWrapsIntoDomain(t *testing.T) {
	grids := []Grid{
		{CellSize: 1, Width: 10, Height: 10},
		{CellSize: 1, Width: 7, Height: 3},
		{CellSize: 0.5, Width: 4, Height: 6},
		{CellSize: 2, Width: 32, Height: 18},
	}
	r := rand.New(rand.NewSource(7))

	for _, g := range grids {
		for i := 0; i < 2000; i++ {
			// many grid-widths out of range in both signs
			c := Vec{
				X: float64(r.Intn(2001)-1000) * g.CellSize,
				Y: float64(r.Intn(2001)-1000) * g.CellSize,
			}
			n := g.Normalize(c)
			if !g.Contains(n) {
				t.Fatalf("grid %+v: Normalize(%v) = %v outside domain", g, c, n)
			}
			if again := g.Normalize(n); again != n {
				t.Fatalf("grid %+v: Normalize not idempotent: %v -> %v", g, n, again)
			}
		}
	}
}

func TestNormalizeEdges(t *testing.T) {
	g := Grid{CellSize: 1, Width: 10, Height: 10}
	tests := []struct {
		in, want Vec
	}{
		{Vec{0, 0}, Vec{0, 0}},
		{Vec{5, 0}, Vec{-5, 0}},
		{Vec{-5, 0}, Vec{-5, 0}},
		{Vec{-6, 4}, Vec{4, 4}},
		{Vec{4, 5}, Vec{4, -5}},
		{Vec{25, -26}, Vec{-5, 4}},
	}
	for _, tt := range tests {
		if got := g.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeSnapsToLattice(t *testing.T) {
	g := Grid{CellSize: 0.1, Width: 2, Height: 2}
	// three float steps drift away from 3*0.1
	drifted := Vec{X: 0.1}.Add(Vec{X: 0.1}).Add(Vec{X: 0.1})
	if got, want := g.Normalize(drifted), g.CellAt(13, 10); got != want {
		t.Fatalf("Normalize(%v) = %v, want %v", drifted, got, want)
	}
	if got, want := g.Normalize(Vec{X: 0.99, Y: -1.04}), g.CellAt(0, 0); got != want {
		t.Fatalf("seam snap = %v, want %v", got, want)
	}
}

func TestOddGridCellsIncludeOrigin(t *testing.T) {
	g := Grid{CellSize: 1, Width: 5, Height: 3}
	if c := g.CellAt(2, 1); c != (Vec{}) {
		t.Fatalf("centre cell = %v, want origin", c)
	}
	if c := g.CellAt(0, 0); c != (Vec{X: -2, Y: -1}) {
		t.Fatalf("corner cell = %v", c)
	}
	// a step right from the last column wraps onto the first
	if n := g.Normalize(Vec{X: 3}); n != g.CellAt(0, 1) {
		t.Fatalf("Normalize(3, 0) = %v, want %v", n, g.CellAt(0, 1))
	}
	seen := make(map[Vec]bool)
	for col := 0; col < g.Cols(); col++ {
		for row := 0; row < g.Rows(); row++ {
			c := g.CellAt(col, row)
			if g.Normalize(c) != c {
				t.Fatalf("CellAt(%d,%d) = %v is not normalized", col, row, c)
			}
			seen[c] = true
		}
	}
	if len(seen) != g.CellCount() {
		t.Fatalf("%d distinct cells, want %d", len(seen), g.CellCount())
	}
}

func TestCellCount(t *testing.T) {
	tests := []struct {
		g    Grid
		want int
	}{
		{Grid{CellSize: 1, Width: 10, Height: 10}, 100},
		{Grid{CellSize: 0.5, Width: 2, Height: 3}, 24},
		{Grid{CellSize: 2, Width: 4, Height: 2}, 2},
	}
	for _, tt := range tests {
		if got := tt.g.CellCount(); got != tt.want {
			t.Errorf("%+v CellCount() = %d, want %d", tt.g, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if _, err := NewGrid(1, 10, 10); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
	bad := []Grid{
		{CellSize: 0, Width: 10, Height: 10},
		{CellSize: 1, Width: -1, Height: 10},
		{CellSize: 3, Width: 10, Height: 9},
	}
	for _, g := range bad {
		if err := g.Validate(); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidGrid", g, err)
		}
	}
}

func TestCellAtIndexRoundTrip(t *testing.T) {
	for _, g := range []Grid{
		{CellSize: 1, Width: 6, Height: 4},
		{CellSize: 1, Width: 5, Height: 7},
		{CellSize: 0.1, Width: 2, Height: 1.5},
	} {
		roundTrip(t, g)
	}
}

func roundTrip(t *testing.T, g Grid) {
	t.Helper()
	for col := 0; col < g.Cols(); col++ {
		for row := 0; row < g.Rows(); row++ {
			c := g.CellAt(col, row)
			if !g.Contains(c) {
				t.Fatalf("CellAt(%d,%d) = %v outside grid", col, row, c)
			}
			if gc, gr := g.Index(c); gc != col || gr != row {
				t.Fatalf("Index(%v) = %d,%d want %d,%d", c, gc, gr, col, row)
			}
		}
	}
}

func TestDeltaTakesShortestPath(t *testing.T) {
	g := Grid{CellSize: 1, Width: 10, Height: 10}
	if d := g.Delta(Vec{4, 0}, Vec{-5, 0}); d != (Vec{1, 0}) {
		t.Errorf("Delta across seam = %v, want (1, 0)", d)
	}
	if d := g.Delta(Vec{0, -5}, Vec{0, 4}); d != (Vec{0, -1}) {
		t.Errorf("Delta across seam = %v, want (0, -1)", d)
	}
	if n := g.ManhattanDistance(Vec{4, 4}, Vec{-5, -5}); n != 2 {
		t.Errorf("ManhattanDistance = %d, want 2", n)
	}
}

func TestDirectionOpposites(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v opposite is not an involution", d)
		}
		if d.Vec().Add(d.Opposite().Vec()) != (Vec{}) {
			t.Errorf("%v and its opposite do not cancel", d)
		}
		if d.TurnLeft().TurnRight() != d {
			t.Errorf("%v turn left then right changed heading", d)
		}
	}
	if None.Opposite() != None {
		t.Error("None should have no opposite")
	}
}

func TestInterpolate(t *testing.T) {
	g := Grid{CellSize: 1, Width: 10, Height: 10}

	if got := Interpolate(g, Vec{0, 0}, Vec{1, 0}, 0.5); got != (Vec{0.5, 0}) {
		t.Errorf("mid step = %v, want (0.5, 0)", got)
	}
	// wrapped move slides across the seam instead of across the board
	if got := Interpolate(g, Vec{4, 0}, Vec{-5, 0}, 0.25); got != (Vec{4.25, 0}) {
		t.Errorf("seam step = %v, want (4.25, 0)", got)
	}
	if got := Interpolate(g, Vec{4, 0}, Vec{-5, 0}, 1); got != (Vec{-5, 0}) {
		t.Errorf("end of step = %v, want (-5, 0)", got)
	}
}
