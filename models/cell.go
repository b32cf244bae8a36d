package models

import "fmt"

// Visibility is what the player currently sees of a cell.
type Visibility int

const (
	Hidden Visibility = iota
	Flagged
	Revealed
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell is one grid position. Only the owning Grid changes its visibility, and
// its mine flag is fixed when the grid is built.
type Cell struct {
	row        int
	col        int
	visibility Visibility
	hasMine    bool
}

func (c Cell) Row() int               { return c.row }
func (c Cell) Col() int               { return c.col }
func (c Cell) Position() Position     { return Position{Row: c.row, Col: c.col} }
func (c Cell) Visibility() Visibility { return c.visibility }
func (c Cell) HasMine() bool          { return c.hasMine }
