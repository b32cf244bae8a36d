package models

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status is the position of a session in its InProgress -> Won|Lost lifecycle.
type Status int

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Session is one game being played: a grid plus the moves applied to it.
type Session struct {
	ID       uuid.UUID
	grid     *Grid
	moves    int
	lastMove *Move
	log      logrus.FieldLogger
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewSession starts a game on a fresh randomly mined grid.
func NewSession(rows, cols, mines int, rng *rand.Rand) (*Session, error) {
	g, err := NewGrid(rows, cols, mines, rng)
	if err != nil {
		return nil, err
	}
	return NewSessionFromGrid(g), nil
}

// NewSessionFromGrid starts a game on an existing grid.
func NewSessionFromGrid(g *Grid) *Session {
	return &Session{
		ID:   uuid.New(),
		grid: g,
		log:  discardLogger(),
	}
}

// SetLogger replaces the logger used for move and status events.
func (s *Session) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = discardLogger()
	}
	s.log = l.WithField("session", s.ID.String())
}

func (s *Session) Rows() int { return s.grid.rows }
func (s *Session) Cols() int { return s.grid.cols }

// Moves returns the number of moves applied so far.
func (s *Session) Moves() int { return s.moves }

// LastMove returns the most recently applied move.
func (s *Session) LastMove() (Move, bool) {
	if s.lastMove == nil {
		return Move{}, false
	}
	return *s.lastMove, true
}

// ApplyMove performs m and returns the resulting status. Moves on a finished
// game change nothing. A move outside the grid or of an unknown kind is
// rejected without touching the board.
func (s *Session) ApplyMove(m Move) (Status, error) {
	if err := s.grid.checkBounds(m.Row, m.Col); err != nil {
		return s.Status(), err
	}
	if !m.Kind.valid() {
		return s.Status(), fmt.Errorf("%s: %w", m.Kind, ErrUnknownMove)
	}
	if s.GameOver() {
		s.log.WithField("move", m.String()).Debug("ignoring move on finished game")
		return s.Status(), nil
	}

	var err error
	switch m.Kind {
	case Reveal:
		err = s.grid.Reveal(m.Row, m.Col)
	case Flag:
		err = s.grid.Flag(m.Row, m.Col)
	case Unflag:
		err = s.grid.Unflag(m.Row, m.Col)
	}
	if err != nil {
		return s.Status(), err
	}

	s.moves++
	s.lastMove = &m
	status := s.Status()
	entry := s.log.WithFields(logrus.Fields{
		"move":   m.String(),
		"moves":  s.moves,
		"status": status.String(),
	})
	if status == InProgress {
		entry.Debug("move applied")
	} else {
		entry.Info("game over")
	}
	return status, nil
}

func (s *Session) Status() Status {
	switch {
	case s.grid.GameLost():
		return Lost
	case s.grid.GameWon():
		return Won
	default:
		return InProgress
	}
}

func (s *Session) GameOver() bool { return s.grid.GameOver() }
func (s *Session) GameWon() bool  { return s.grid.GameWon() }
func (s *Session) GameLost() bool { return s.grid.GameLost() }

// View returns what a front end may show for the current board.
func (s *Session) View() View {
	return s.grid.view(s.Status())
}
