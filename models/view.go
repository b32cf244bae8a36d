package models

// DisplayKind is the only thing a front end learns about a cell.
type DisplayKind int

const (
	DisplayHidden DisplayKind = iota
	DisplayFlagged
	DisplayRevealed
	// The kinds below only appear once the game is lost.
	DisplayMine
	DisplayExploded
	DisplayWrongFlag
)

// CellView is the display category of one cell. Count is the number of mined
// neighbours and is only meaningful for DisplayRevealed.
type CellView struct {
	Kind  DisplayKind
	Count int
}

// View is a read-only picture of the board.
type View struct {
	Rows      int
	Cols      int
	Cells     []CellView // row-major
	Status    Status
	MineCount int
	FlagCount int
}

func (v View) At(row, col int) CellView {
	return v.Cells[row*v.Cols+col]
}

// MinesLeft is the mine count minus the flags placed, which can go negative.
func (v View) MinesLeft() int {
	return v.MineCount - v.FlagCount
}

func (g *Grid) view(status Status) View {
	v := View{
		Rows:      g.rows,
		Cols:      g.cols,
		Cells:     make([]CellView, len(g.cells)),
		Status:    status,
		MineCount: g.mineCount,
	}
	lost := status == Lost
	for i := range g.cells {
		c := &g.cells[i]
		var cv CellView
		switch c.visibility {
		case Revealed:
			cv = CellView{Kind: DisplayRevealed, Count: g.nearbyMines(c.row, c.col)}
		case Flagged:
			v.FlagCount++
			cv.Kind = DisplayFlagged
			if lost && !c.hasMine {
				cv.Kind = DisplayWrongFlag
			}
		default:
			cv.Kind = DisplayHidden
			if lost && c.hasMine {
				cv.Kind = DisplayMine
			}
		}
		v.Cells[i] = cv
	}
	if lost {
		v.Cells[g.index(g.detonated.Row, g.detonated.Col)].Kind = DisplayExploded
	}
	return v
}
