package models

import (
	"errors"
	"math/rand"
	"testing"
)

func mustGrid(t *testing.T, rows, cols int, mines ...Position) *Grid {
	t.Helper()
	g, err := NewGridWithMines(rows, cols, mines)
	if err != nil {
		t.Fatalf("failed to build %dx%d grid: %s", rows, cols, err)
	}
	return g
}

func countMines(g *Grid) int {
	n := 0
	for _, c := range g.cells {
		if c.HasMine() {
			n++
		}
	}
	return n
}

func countVisibility(g *Grid, v Visibility) int {
	n := 0
	for _, c := range g.cells {
		if c.Visibility() == v {
			n++
		}
	}
	return n
}

func TestNewGridMineCount(t *testing.T) {
	for _, d := range []struct {
		rows, cols, mines int
	}{
		{1, 1, 0},
		{1, 1, 1},
		{9, 9, 10},
		{16, 30, 99},
		{5, 5, 25},
	} {
		for seed := int64(0); seed < 5; seed++ {
			g, err := NewGrid(d.rows, d.cols, d.mines, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("failed to build %dx%d/%d grid: %s", d.rows, d.cols, d.mines, err)
			}
			if got := countMines(g); got != d.mines {
				t.Errorf("%dx%d seed %d: wanted %d mines, got %d", d.rows, d.cols, seed, d.mines, got)
			}
			if g.MineCount() != d.mines {
				t.Errorf("MineCount() = %d, want %d", g.MineCount(), d.mines)
			}
		}
	}
}

func TestNewGridPositionsMatchStorage(t *testing.T) {
	g, err := NewGrid(4, 7, 5, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 7; col++ {
			c, err := g.At(row, col)
			if err != nil {
				t.Fatal(err)
			}
			if c.Row() != row || c.Col() != col {
				t.Errorf("cell at (%d,%d) reports %s", row, col, c.Position())
			}
			if c.Visibility() != Hidden {
				t.Errorf("cell at (%d,%d) starts %s", row, col, c.Visibility())
			}
		}
	}
}

func TestNewGridNil(t *testing.T) {
	g, err := NewGrid(9, 9, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := countMines(g); got != 10 {
		t.Errorf("wanted 10 mines, got %d", got)
	}
}

func TestNewGridConfigurationErrors(t *testing.T) {
	for _, d := range []struct {
		rows, cols, mines int
		want              error
	}{
		{0, 9, 0, ErrInvalidDimensions},
		{9, -1, 0, ErrInvalidDimensions},
		{3, 3, -1, ErrNegativeMines},
		{3, 3, 10, ErrTooManyMines},
	} {
		g, err := NewGrid(d.rows, d.cols, d.mines, nil)
		if !errors.Is(err, d.want) {
			t.Errorf("NewGrid(%d, %d, %d): wanted %v, got %v", d.rows, d.cols, d.mines, d.want, err)
		}
		if g != nil {
			t.Errorf("NewGrid(%d, %d, %d) returned a grid with an error", d.rows, d.cols, d.mines)
		}
	}

	if _, err := NewGridWithMines(2, 2, []Position{{0, 0}, {0, 0}}); !errors.Is(err, ErrDuplicateMine) {
		t.Errorf("wanted ErrDuplicateMine, got %v", err)
	}
	if _, err := NewGridWithMines(2, 2, []Position{{2, 0}}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("wanted ErrOutOfBounds, got %v", err)
	}
}

func TestBoundsChecks(t *testing.T) {
	g := mustGrid(t, 3, 4)
	for _, p := range []Position{{-1, 0}, {0, -1}, {3, 0}, {0, 4}, {100, 100}} {
		if _, err := g.At(p.Row, p.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At%s: wanted ErrOutOfBounds, got %v", p, err)
		}
		if _, err := g.Neighbors(p.Row, p.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Neighbors%s: wanted ErrOutOfBounds, got %v", p, err)
		}
		if _, err := g.NeighborMineCount(p.Row, p.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("NeighborMineCount%s: wanted ErrOutOfBounds, got %v", p, err)
		}
		if err := g.Reveal(p.Row, p.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Reveal%s: wanted ErrOutOfBounds, got %v", p, err)
		}
		if err := g.Flag(p.Row, p.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Flag%s: wanted ErrOutOfBounds, got %v", p, err)
		}
	}
	if countVisibility(g, Hidden) != 12 {
		t.Error("out of bounds calls changed the grid")
	}
}

func TestNeighbors(t *testing.T) {
	g := mustGrid(t, 3, 3, Position{0, 0}, Position{2, 2})
	for _, d := range []struct {
		row, col   int
		neighbors  int
		nearbyMine int
	}{
		{0, 0, 3, 0},
		{1, 1, 8, 2},
		{0, 1, 5, 1},
		{2, 1, 5, 1},
		{0, 2, 3, 0},
	} {
		n, err := g.Neighbors(d.row, d.col)
		if err != nil {
			t.Fatal(err)
		}
		if len(n) != d.neighbors {
			t.Errorf("(%d,%d): wanted %d neighbors, got %d", d.row, d.col, d.neighbors, len(n))
		}
		for _, c := range n {
			if c.Row() == d.row && c.Col() == d.col {
				t.Errorf("(%d,%d) listed as its own neighbor", d.row, d.col)
			}
			if abs(c.Row()-d.row) > 1 || abs(c.Col()-d.col) > 1 {
				t.Errorf("(%d,%d): %s is not adjacent", d.row, d.col, c.Position())
			}
		}
		count, err := g.NeighborMineCount(d.row, d.col)
		if err != nil {
			t.Fatal(err)
		}
		if count != d.nearbyMine {
			t.Errorf("(%d,%d): wanted %d nearby mines, got %d", d.row, d.col, d.nearbyMine, count)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestRevealIdempotent(t *testing.T) {
	g := mustGrid(t, 3, 3, Position{0, 0})
	if err := g.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}
	before := append([]Cell(nil), g.cells...)
	if err := g.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i] != g.cells[i] {
			t.Errorf("second reveal changed cell %s", before[i].Position())
		}
	}
}

func TestFloodRevealsEmptyGrid(t *testing.T) {
	for _, d := range []struct {
		rows, cols int
		start      Position
	}{
		{1, 1, Position{0, 0}},
		{9, 9, Position{4, 4}},
		{1, 50, Position{0, 49}},
		{30, 16, Position{29, 0}},
		{400, 400, Position{123, 321}},
	} {
		g := mustGrid(t, d.rows, d.cols)
		if err := g.Reveal(d.start.Row, d.start.Col); err != nil {
			t.Fatal(err)
		}
		if got := countVisibility(g, Revealed); got != d.rows*d.cols {
			t.Errorf("%dx%d: wanted every cell revealed, got %d of %d", d.rows, d.cols, got, d.rows*d.cols)
		}
		if !g.GameWon() {
			t.Errorf("%dx%d: wanted game won after flooding an empty grid", d.rows, d.cols)
		}
	}
}

func TestRevealNumberedCellDoesNotFlood(t *testing.T) {
	g := mustGrid(t, 3, 3, Position{0, 0})
	if err := g.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}
	if got := countVisibility(g, Revealed); got != 1 {
		t.Errorf("wanted exactly one revealed cell, got %d", got)
	}
	c, _ := g.At(1, 1)
	if c.Visibility() != Revealed {
		t.Error("target cell not revealed")
	}
	if g.GameOver() {
		t.Error("game over after a safe reveal")
	}
}

func TestFloodStopsAtNumbers(t *testing.T) {
	// A wall of mines down column 2 splits the board in two.
	g := mustGrid(t, 3, 5, Position{0, 2}, Position{1, 2}, Position{2, 2})
	if err := g.Reveal(1, 0); err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 5; col++ {
			c, _ := g.At(row, col)
			want := Hidden
			if col < 2 {
				want = Revealed
			}
			if c.Visibility() != want {
				t.Errorf("(%d,%d): wanted %s, got %s", row, col, want, c.Visibility())
			}
		}
	}
}

func TestFloodRevealsFlaggedCells(t *testing.T) {
	g := mustGrid(t, 3, 3)
	if err := g.Flag(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := g.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}
	c, _ := g.At(2, 2)
	if c.Visibility() != Revealed {
		t.Errorf("flood left flagged cell %s", c.Visibility())
	}
}

func TestLossLatch(t *testing.T) {
	g := mustGrid(t, 2, 2, Position{0, 0})
	if err := g.Flag(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}
	if !g.GameLost() || !g.GameOver() || g.GameWon() {
		t.Fatal("revealing a flagged mine did not lose the game")
	}
	if p, ok := g.Detonated(); !ok || p != (Position{0, 0}) {
		t.Errorf("wanted detonation at (0,0), got %s %v", p, ok)
	}

	for _, p := range []Position{{0, 1}, {1, 0}, {1, 1}} {
		if err := g.Reveal(p.Row, p.Col); err != nil {
			t.Fatal(err)
		}
		if !g.GameLost() {
			t.Fatalf("loss cleared by reveal of %s", p)
		}
		if g.GameWon() {
			t.Fatalf("won and lost at once after reveal of %s", p)
		}
	}
	if countMines(g) != 1 {
		t.Error("mine count changed")
	}
}

func TestWinIgnoresHiddenMines(t *testing.T) {
	g := mustGrid(t, 2, 2, Position{1, 1})
	for _, p := range []Position{{0, 0}, {0, 1}, {1, 0}} {
		if g.GameWon() {
			t.Fatalf("won before revealing %s", p)
		}
		if err := g.Reveal(p.Row, p.Col); err != nil {
			t.Fatal(err)
		}
	}
	if !g.GameWon() || g.GameLost() {
		t.Fatal("wanted a win with the mine still hidden")
	}
	c, _ := g.At(1, 1)
	if c.Visibility() != Hidden {
		t.Errorf("mine is %s", c.Visibility())
	}

	// The board is finished: touching the mine now changes nothing.
	if err := g.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}
	if !g.GameWon() || g.GameLost() {
		t.Error("reveal after a win changed the outcome")
	}
}

func TestFlagPolicy(t *testing.T) {
	g := mustGrid(t, 2, 2, Position{0, 0})
	if err := g.Flag(1, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := g.At(1, 1); c.Visibility() != Flagged {
		t.Fatalf("wanted flagged, got %s", c.Visibility())
	}
	if err := g.Flag(1, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := g.At(1, 1); c.Visibility() != Flagged {
		t.Fatalf("second flag: wanted flagged, got %s", c.Visibility())
	}
	if g.FlagCount() != 1 {
		t.Errorf("wanted 1 flag, got %d", g.FlagCount())
	}
	if err := g.Unflag(1, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := g.At(1, 1); c.Visibility() != Hidden {
		t.Fatalf("unflag: wanted hidden, got %s", c.Visibility())
	}

	if err := g.Reveal(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Flag(0, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := g.At(0, 1); c.Visibility() != Revealed {
		t.Errorf("flag on a revealed cell: wanted revealed, got %s", c.Visibility())
	}
	if err := g.Unflag(0, 1); err != nil {
		t.Fatal(err)
	}
	if c, _ := g.At(0, 1); c.Visibility() != Revealed {
		t.Errorf("unflag on a revealed cell: wanted revealed, got %s", c.Visibility())
	}
}

func TestMineCountStableAcrossMoves(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	g, err := NewGrid(8, 8, 12, r)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		row, col := r.Intn(8), r.Intn(8)
		switch r.Intn(3) {
		case 0:
			err = g.Reveal(row, col)
		case 1:
			err = g.Flag(row, col)
		default:
			err = g.Unflag(row, col)
		}
		if err != nil {
			t.Fatal(err)
		}
		if got := countMines(g); got != 12 {
			t.Fatalf("move %d: wanted 12 mines, got %d", i, got)
		}
		if g.GameWon() && g.GameLost() {
			t.Fatalf("move %d: won and lost at once", i)
		}
	}
}

func TestSmallExamples(t *testing.T) {
	g := mustGrid(t, 1, 1)
	if err := g.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}
	if !g.GameWon() {
		t.Error("1x1 without mines: wanted win after one reveal")
	}

	g = mustGrid(t, 1, 2, Position{0, 1})
	if err := g.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}
	if n, _ := g.NeighborMineCount(0, 0); n != 1 {
		t.Errorf("wanted 1 nearby mine, got %d", n)
	}
	if c, _ := g.At(0, 0); c.Visibility() != Revealed {
		t.Error("(0,0) not revealed")
	}
	if c, _ := g.At(0, 1); c.Visibility() != Hidden {
		t.Error("(0,1) not hidden")
	}
	// The only safe cell is open, so the game is already won.
	if !g.GameWon() {
		t.Fatal("1x2 with one mine: wanted win after revealing the safe cell")
	}
	if err := g.Reveal(0, 1); err != nil {
		t.Fatal(err)
	}
	if g.GameLost() {
		t.Error("reveal after a win must not lose the game")
	}

	g = mustGrid(t, 2, 2, Position{0, 1})
	if err := g.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}
	if g.GameOver() {
		t.Fatal("game over with safe cells still hidden")
	}
	if err := g.Reveal(0, 1); err != nil {
		t.Fatal(err)
	}
	if !g.GameLost() {
		t.Error("wanted loss after revealing the mine")
	}
}

func BenchmarkFloodReveal(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g, err := NewGridWithMines(200, 200, nil)
		if err != nil {
			b.Fatal(err)
		}
		if err := g.Reveal(100, 100); err != nil {
			b.Fatal(err)
		}
	}
}
