package models

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gammazero/deque"
)

// Grid owns the cells of one board, the mine layout and the reveal/flag rules.
type Grid struct {
	rows      int
	cols      int
	mineCount int
	cells     []Cell // row-major

	// revealedMine latches the first attempt to reveal a mine and is never cleared.
	revealedMine bool
	detonated    Position
}

// NewGrid builds a rows x cols grid and places mines uniformly at random
// without repeating a position. A nil rng is replaced by a time-seeded one.
func NewGrid(rows, cols, mines int, rng *rand.Rand) (*Grid, error) {
	g, err := newEmptyGrid(rows, cols, mines)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.placeMinesRandomly(rng)
	return g, nil
}

// NewGridWithMines builds a grid with mines at exactly the given positions.
func NewGridWithMines(rows, cols int, mines []Position) (*Grid, error) {
	g, err := newEmptyGrid(rows, cols, len(mines))
	if err != nil {
		return nil, err
	}
	for _, p := range mines {
		if !g.inBounds(p.Row, p.Col) {
			return nil, fmt.Errorf("mine at %s: %w", p, ErrOutOfBounds)
		}
		c := &g.cells[g.index(p.Row, p.Col)]
		if c.hasMine {
			return nil, fmt.Errorf("mine at %s: %w", p, ErrDuplicateMine)
		}
		c.hasMine = true
	}
	return g, nil
}

func newEmptyGrid(rows, cols, mines int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrInvalidDimensions)
	}
	if mines < 0 {
		return nil, fmt.Errorf("%d mines: %w", mines, ErrNegativeMines)
	}
	if mines > rows*cols {
		return nil, fmt.Errorf("%d mines on %dx%d: %w", mines, rows, cols, ErrTooManyMines)
	}

	g := &Grid{
		rows:      rows,
		cols:      cols,
		mineCount: mines,
		cells:     make([]Cell, rows*cols),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g.cells[g.index(row, col)] = Cell{row: row, col: col, visibility: Hidden}
		}
	}
	return g, nil
}

// placeMinesRandomly shuffles the list of cell indexes with Fisher-Yates and
// mines the first mineCount of them. Only the prefix that is used gets shuffled.
func (g *Grid) placeMinesRandomly(rng *rand.Rand) {
	indexes := make([]int, len(g.cells))
	for i := range indexes {
		indexes[i] = i
	}

	// https://en.wikipedia.org/wiki/Fisher–Yates_shuffle
	for i := 0; i < g.mineCount; i++ {
		j := i + rng.Intn(len(indexes)-i)
		indexes[i], indexes[j] = indexes[j], indexes[i]
		g.cells[indexes[i]].hasMine = true
	}
}

func (g *Grid) Rows() int      { return g.rows }
func (g *Grid) Cols() int      { return g.cols }
func (g *Grid) MineCount() int { return g.mineCount }

// FlagCount returns the number of Flagged cells.
func (g *Grid) FlagCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].visibility == Flagged {
			n++
		}
	}
	return n
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

// inBounds reports whether the given row and col lie inside the grid.
func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) checkBounds(row, col int) error {
	if !g.inBounds(row, col) {
		return fmt.Errorf("(%d,%d) on %dx%d grid: %w", row, col, g.rows, g.cols, ErrOutOfBounds)
	}
	return nil
}

// At returns a copy of the cell at row, col.
func (g *Grid) At(row, col int) (Cell, error) {
	if err := g.checkBounds(row, col); err != nil {
		return Cell{}, err
	}
	return g.cells[g.index(row, col)], nil
}

// neighborIndexes appends the indexes of the in-bounds cells around row, col
// to dst, scanning row by row from the top left.
func (g *Grid) neighborIndexes(dst []int, row, col int) []int {
	for deltaRow := -1; deltaRow <= 1; deltaRow++ {
		for deltaCol := -1; deltaCol <= 1; deltaCol++ {
			if deltaRow == 0 && deltaCol == 0 {
				continue
			}
			r, c := row+deltaRow, col+deltaCol
			if g.inBounds(r, c) {
				dst = append(dst, g.index(r, c))
			}
		}
	}
	return dst
}

// Neighbors returns the up to eight cells touching row, col.
func (g *Grid) Neighbors(row, col int) ([]Cell, error) {
	if err := g.checkBounds(row, col); err != nil {
		return nil, err
	}
	var buf [8]int
	idx := g.neighborIndexes(buf[:0], row, col)
	out := make([]Cell, len(idx))
	for i, n := range idx {
		out[i] = g.cells[n]
	}
	return out, nil
}

// NeighborMineCount returns how many of the cells touching row, col are mined.
func (g *Grid) NeighborMineCount(row, col int) (int, error) {
	if err := g.checkBounds(row, col); err != nil {
		return 0, err
	}
	return g.nearbyMines(row, col), nil
}

func (g *Grid) nearbyMines(row, col int) int {
	var buf [8]int
	count := 0
	for _, n := range g.neighborIndexes(buf[:0], row, col) {
		if g.cells[n].hasMine {
			count++
		}
	}
	return count
}

// Reveal uncovers the cell at row, col. Revealing a mine loses the game.
// A revealed cell with no mined neighbours reveals all of its neighbours in
// turn, including flagged ones. Once the game is over Reveal does nothing.
func (g *Grid) Reveal(row, col int) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	if g.GameOver() {
		return nil
	}

	start := g.index(row, col)
	if g.cells[start].hasMine {
		g.revealedMine = true
		g.detonated = Position{Row: row, Col: col}
		return nil
	}

	// Cells are each other's neighbours, so the same index can be pushed more
	// than once. Skipping cells that are already revealed is what ends the walk.
	pending := deque.New[int]()
	pending.PushBack(start)
	var buf [8]int
	for pending.Len() > 0 {
		i := pending.PopBack()
		c := &g.cells[i]
		if c.visibility == Revealed {
			continue
		}
		c.visibility = Revealed
		if g.nearbyMines(c.row, c.col) != 0 {
			continue
		}
		for _, n := range g.neighborIndexes(buf[:0], c.row, c.col) {
			if g.cells[n].visibility != Revealed {
				pending.PushBack(n)
			}
		}
	}
	return nil
}

// Flag marks a hidden cell as flagged. Flagging a revealed cell is a no-op.
func (g *Grid) Flag(row, col int) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	if g.GameOver() {
		return nil
	}
	c := &g.cells[g.index(row, col)]
	if c.visibility == Hidden {
		c.visibility = Flagged
	}
	return nil
}

// Unflag turns a flagged cell back into a hidden one.
func (g *Grid) Unflag(row, col int) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	if g.GameOver() {
		return nil
	}
	c := &g.cells[g.index(row, col)]
	if c.visibility == Flagged {
		c.visibility = Hidden
	}
	return nil
}

// GameWon reports whether every safe cell is revealed and no mine was hit.
// Mined cells never need to be revealed or flagged.
func (g *Grid) GameWon() bool {
	if g.revealedMine {
		return false
	}
	for i := range g.cells {
		if !g.cells[i].hasMine && g.cells[i].visibility != Revealed {
			return false
		}
	}
	return true
}

// GameLost reports whether a mine has been revealed.
func (g *Grid) GameLost() bool {
	return g.revealedMine
}

func (g *Grid) GameOver() bool {
	return g.GameWon() || g.GameLost()
}

// Detonated returns the mine that ended the game, if any.
func (g *Grid) Detonated() (Position, bool) {
	return g.detonated, g.revealedMine
}
