// Package console is the line-oriented front end: it prints the board,
// reads commands and applies them to a session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/storage"
)

const helpText = `Commands:
  r <row> <col>   reveal a cell
  f <row> <col>   flag a cell
  u <row> <col>   remove a flag
  save [path]     save the game
  load <path>     load a saved game
  help            show this help
  quit            leave the game`

type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	store   storage.Store
	log     logrus.FieldLogger
	session *models.Session

	// Color enables coloured glyphs.
	Color bool

	now       func() time.Time
	startedAt time.Time
	endedAt   time.Time
}

// New returns a console playing s. store may be nil, which disables save and load.
func New(in io.Reader, out io.Writer, s *models.Session, store storage.Store, log logrus.FieldLogger) *Console {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		store:   store,
		log:     log,
		session: s,
		now:     time.Now,
	}
}

// Session returns the session currently being played, which changes on load.
func (c *Console) Session() *models.Session {
	return c.session
}

// Run plays until the game ends, the player quits or input runs out.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "WELCOME TO MINESWEEPER")

	for !c.session.GameOver() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.display()

		cmd, err := c.takeInput()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}

		switch cmd.Kind {
		case CommandMove:
			c.apply(cmd.Move)
		case CommandSave:
			c.save(ctx, cmd.Path)
		case CommandLoad:
			c.load(ctx, cmd.Path)
		case CommandHelp:
			fmt.Fprintln(c.out, helpText)
		case CommandQuit:
			fmt.Fprintln(c.out, "Quitting...")
			return nil
		}
	}

	c.display()
	if c.session.GameWon() {
		fmt.Fprintln(c.out, "victory")
	} else {
		fmt.Fprintln(c.out, "defeat")
	}
	fmt.Fprintf(c.out, "Time: %s\n", c.elapsed())
	return nil
}

func (c *Console) display() {
	fmt.Fprint(c.out, Render(c.session.View(), c.Color))
}

// takeInput prompts until a valid command is read.
func (c *Console) takeInput() (Command, error) {
	for {
		fmt.Fprint(c.out, "Type in <type> <row> <col>: ")
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return Command{}, err
			}
			return Command{}, io.EOF
		}
		cmd, err := Parse(c.in.Text(), c.session.Rows(), c.session.Cols())
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		return cmd, nil
	}
}

func (c *Console) apply(m models.Move) {
	switch m.Kind {
	case models.Reveal:
		fmt.Fprintf(c.out, "Revealing position %d, %d\n", m.Row, m.Col)
	case models.Flag:
		fmt.Fprintf(c.out, "Flagging position %d, %d\n", m.Row, m.Col)
	case models.Unflag:
		fmt.Fprintf(c.out, "Unflagging position %d, %d\n", m.Row, m.Col)
	}
	if c.startedAt.IsZero() {
		c.startedAt = c.now()
	}

	status, err := c.session.ApplyMove(m)
	if err != nil {
		// Parse already bounds-checked the move.
		c.log.WithError(err).WithField("move", m.String()).Error("move rejected")
		fmt.Fprintln(c.out, err)
		return
	}
	if status != models.InProgress {
		c.endedAt = c.now()
	}
}

func (c *Console) save(ctx context.Context, path string) {
	if c.store == nil {
		fmt.Fprintln(c.out, "Saving is not available")
		return
	}
	saved, err := c.store.Save(ctx, path, c.session)
	if err != nil {
		c.log.WithError(err).Warn("save failed")
		fmt.Fprintf(c.out, "Save failed: %s\n", err)
		return
	}
	fmt.Fprintf(c.out, "Saved to %s\n", saved)
}

func (c *Console) load(ctx context.Context, path string) {
	if c.store == nil {
		fmt.Fprintln(c.out, "Loading is not available")
		return
	}
	s, err := c.store.Load(ctx, path)
	if err != nil {
		c.log.WithError(err).Warn("load failed")
		fmt.Fprintf(c.out, "Load failed: %s\n", err)
		return
	}
	s.SetLogger(c.log)
	c.session = s
	c.startedAt, c.endedAt = time.Time{}, time.Time{}
	fmt.Fprintf(c.out, "Loaded %s\n", path)
}

func (c *Console) elapsed() time.Duration {
	switch {
	case c.startedAt.IsZero():
		return 0
	case c.endedAt.IsZero():
		return c.now().Sub(c.startedAt).Round(time.Second)
	default:
		return c.endedAt.Sub(c.startedAt).Round(time.Second)
	}
}
