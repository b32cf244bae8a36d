package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dimaq12/minesweeper/models"
)

// ErrInvalidInput wraps every message shown to the player for a bad command.
var ErrInvalidInput = errors.New("invalid input")

type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandSave
	CommandLoad
	CommandHelp
	CommandQuit
)

// Command is one parsed line of player input.
type Command struct {
	Kind CommandKind
	Move models.Move // CommandMove
	Path string      // CommandSave, CommandLoad
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Parse reads "<type> <row> <col>" or one of the save, load, help and quit
// commands. Rows and columns are checked against a rows x cols board.
func Parse(line string, rows, cols int) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, invalid("Type in <type> <row> <col>, or help")
	}

	switch strings.ToLower(fields[0]) {
	case "save":
		if len(fields) > 2 {
			return Command{}, invalid("Usage: save [path]")
		}
		cmd := Command{Kind: CommandSave}
		if len(fields) == 2 {
			cmd.Path = fields[1]
		}
		return cmd, nil
	case "load":
		if len(fields) != 2 {
			return Command{}, invalid("Usage: load <path>")
		}
		return Command{Kind: CommandLoad, Path: fields[1]}, nil
	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "q", "exit":
		return Command{Kind: CommandQuit}, nil
	}

	kind, err := models.ParseMoveKind(fields[0])
	if err != nil {
		return Command{}, invalid("Move type must be 'r', 'f' or 'u'")
	}
	if len(fields) != 3 {
		return Command{}, invalid("Type in <type> <row> <col>")
	}
	row, rowErr := parseIndex(fields[1])
	col, colErr := parseIndex(fields[2])
	if rowErr != nil || colErr != nil {
		return Command{}, invalid("Row and column must be integers")
	}
	if row >= rows {
		return Command{}, invalid("row must be between 0 and %d", rows-1)
	}
	if col >= cols {
		return Command{}, invalid("column must be between 0 and %d", cols-1)
	}
	return Command{Kind: CommandMove, Move: models.Move{Kind: kind, Row: row, Col: col}}, nil
}

// parseIndex accepts only plain digits, so signs and spaces are rejected.
func parseIndex(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
