package game

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dimaq12/minesweeper/models"
)

var countColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorPurple,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorWhite,
	8: tcell.ColorGray,
}

type Renderer struct {
	boardTable *tview.Table
	statusView *tview.TextView
	layout     *tview.Flex
}

func NewRenderer() *Renderer {
	board := tview.NewTable().
		SetSelectable(true, true)
	board.SetBorder(true).SetTitle(" Minesweeper ")

	status := tview.NewTextView().
		SetDynamicColors(true)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(board, 0, 1, true).
		AddItem(status, 2, 0, false)

	return &Renderer{
		boardTable: board,
		statusView: status,
		layout:     layout,
	}
}

// DrawBoard replaces every table cell with the contents of v.
func (r *Renderer) DrawBoard(v models.View) {
	r.boardTable.Clear()
	for row := 0; row < v.Rows; row++ {
		for col := 0; col < v.Cols; col++ {
			r.RenderCell(v, row, col)
		}
	}
}

func (r *Renderer) RenderCell(v models.View, row, col int) {
	text, color := cellText(v.At(row, col))
	r.boardTable.SetCell(row, col, tview.NewTableCell(text).
		SetAlign(tview.AlignCenter).
		SetTextColor(color))
}

func cellText(cv models.CellView) (string, tcell.Color) {
	switch cv.Kind {
	case models.DisplayFlagged:
		return "F", tcell.ColorRed
	case models.DisplayRevealed:
		if cv.Count == 0 {
			return " ", tcell.ColorDefault
		}
		return strconv.Itoa(cv.Count), countColors[cv.Count]
	case models.DisplayMine:
		return "M", tcell.ColorRed
	case models.DisplayExploded:
		return "X", tcell.ColorYellow
	case models.DisplayWrongFlag:
		return "!", tcell.ColorYellow
	default:
		return ".", tcell.ColorDefault
	}
}

// SetStatus shows the mine counter, the clock and a message below the board.
func (r *Renderer) SetStatus(v models.View, elapsed time.Duration, message string) {
	r.statusView.SetText(fmt.Sprintf("Mines: %d  Time: %s\n%s",
		v.MinesLeft(), formatElapsed(elapsed), tview.Escape(message)))
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
