package game

import (
	"github.com/gdamore/tcell/v2"
)

// GameService is what the controller drives in response to key presses.
type GameService interface {
	ShowCell(row, col int)
	FlagCell(row, col int)
	SaveGame()
	NewGame()
	Quit()
}

// GameController maps key presses on the selected cell to game actions.
type GameController struct {
	service GameService
}

func NewGameController(service GameService) *GameController {
	return &GameController{service: service}
}

// HandleKey performs the action bound to event on the cell at row, col.
// Unbound keys are returned so the table can still move the selection.
func (c *GameController) HandleKey(event *tcell.EventKey, row, col int) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter:
		c.service.ShowCell(row, col)
		return nil
	case tcell.KeyEscape:
		c.service.Quit()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'f', 'F':
			c.service.FlagCell(row, col)
		case 's', 'S':
			c.service.SaveGame()
		case 'n', 'N':
			c.service.NewGame()
		case 'q', 'Q':
			c.service.Quit()
		default:
			return event
		}
		return nil
	}
	return event
}
