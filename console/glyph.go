package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/dimaq12/minesweeper/models"
)

var countColors = [...]color.Attribute{
	1: color.FgBlue,
	2: color.FgGreen,
	3: color.FgRed,
	4: color.FgMagenta,
	5: color.FgYellow,
	6: color.FgCyan,
	7: color.FgWhite,
	8: color.FgHiBlack,
}

func symbol(cv models.CellView) (string, []color.Attribute) {
	switch cv.Kind {
	case models.DisplayHidden:
		return "*", nil
	case models.DisplayFlagged:
		return "F", []color.Attribute{color.FgRed, color.Bold}
	case models.DisplayRevealed:
		if cv.Count == 0 {
			return "_", nil
		}
		return strconv.Itoa(cv.Count), []color.Attribute{countColors[cv.Count]}
	case models.DisplayMine:
		return "M", []color.Attribute{color.FgHiRed}
	case models.DisplayExploded:
		return "X", []color.Attribute{color.FgWhite, color.BgRed, color.Bold}
	case models.DisplayWrongFlag:
		return "!", []color.Attribute{color.FgYellow, color.Bold}
	}
	return "?", nil
}

// Glyph returns the character shown for a cell, coloured when colored is set.
func Glyph(cv models.CellView, colored bool) string {
	s, attrs := symbol(cv)
	if !colored || len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Render draws the board with row and column numbers.
func Render(v models.View, colored bool) string {
	width := len(strconv.Itoa(max(v.Rows, v.Cols) - 1))
	var b strings.Builder

	fmt.Fprintf(&b, "%*s ", width, "")
	for col := 0; col < v.Cols; col++ {
		fmt.Fprintf(&b, " %*d", width, col)
	}
	b.WriteByte('\n')

	pad := strings.Repeat(" ", width-1)
	for row := 0; row < v.Rows; row++ {
		fmt.Fprintf(&b, "%*d ", width, row)
		for col := 0; col < v.Cols; col++ {
			b.WriteByte(' ')
			b.WriteString(pad)
			b.WriteString(Glyph(v.At(row, col), colored))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
