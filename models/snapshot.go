package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is the current layout of Snapshot.
const SnapshotVersion = 1

// Board glyphs, one per cell. Upper-case and '*' mean the cell is mined.
const (
	glyphHidden      = '.'
	glyphHiddenMine  = '*'
	glyphFlagged     = 'f'
	glyphFlaggedMine = 'F'
	glyphRevealed    = 'o'
)

// Snapshot is everything needed to rebuild a Session exactly.
type Snapshot struct {
	Version      int       `json:"version"`
	ID           string    `json:"id"`
	Rows         int       `json:"rows"`
	Cols         int       `json:"cols"`
	Mines        int       `json:"mines"`
	Board        []string  `json:"board"`
	RevealedMine bool      `json:"revealedMine"`
	Detonated    *Position `json:"detonated,omitempty"`
	Status       Status    `json:"status"`
	Moves        int       `json:"moves"`
	LastMove     *Move     `json:"lastMove,omitempty"`
	SavedAt      time.Time `json:"savedAt"`
}

// Snapshot captures the session.
func (s *Session) Snapshot() Snapshot {
	g := s.grid
	board := make([]string, g.rows)
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		b.Reset()
		for col := 0; col < g.cols; col++ {
			b.WriteByte(cellGlyph(g.cells[g.index(row, col)]))
		}
		board[row] = b.String()
	}

	snap := Snapshot{
		Version:      SnapshotVersion,
		ID:           s.ID.String(),
		Rows:         g.rows,
		Cols:         g.cols,
		Mines:        g.mineCount,
		Board:        board,
		RevealedMine: g.revealedMine,
		Status:       s.Status(),
		Moves:        s.moves,
		SavedAt:      time.Now().UTC(),
	}
	if g.revealedMine {
		d := g.detonated
		snap.Detonated = &d
	}
	if s.lastMove != nil {
		m := *s.lastMove
		snap.LastMove = &m
	}
	return snap
}

func cellGlyph(c Cell) byte {
	switch c.visibility {
	case Flagged:
		if c.hasMine {
			return glyphFlaggedMine
		}
		return glyphFlagged
	case Revealed:
		return glyphRevealed
	default:
		if c.hasMine {
			return glyphHiddenMine
		}
		return glyphHidden
	}
}

func corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

// RestoreSession rebuilds a session from snap. Any inconsistency is reported
// as ErrCorruptSnapshot and no session is returned.
func RestoreSession(snap Snapshot) (*Session, error) {
	if snap.Version != SnapshotVersion {
		return nil, corrupt("unsupported version %d", snap.Version)
	}
	id, err := uuid.Parse(snap.ID)
	if err != nil {
		return nil, corrupt("session id %q: %v", snap.ID, err)
	}
	if snap.Rows <= 0 || snap.Cols <= 0 {
		return nil, corrupt("dimensions %dx%d", snap.Rows, snap.Cols)
	}
	if len(snap.Board) != snap.Rows {
		return nil, corrupt("board has %d rows, want %d", len(snap.Board), snap.Rows)
	}

	var mines []Position
	visibility := make([]Visibility, 0, snap.Rows*snap.Cols)
	for row, line := range snap.Board {
		if len(line) != snap.Cols {
			return nil, corrupt("row %d has %d cells, want %d", row, len(line), snap.Cols)
		}
		for col := 0; col < len(line); col++ {
			v, mined, ok := parseGlyph(line[col])
			if !ok {
				return nil, corrupt("unknown cell %q at (%d,%d)", line[col], row, col)
			}
			if mined {
				mines = append(mines, Position{Row: row, Col: col})
			}
			visibility = append(visibility, v)
		}
	}
	if len(mines) != snap.Mines {
		return nil, corrupt("board holds %d mines, want %d", len(mines), snap.Mines)
	}

	g, err := NewGridWithMines(snap.Rows, snap.Cols, mines)
	if err != nil {
		return nil, corrupt("%v", err)
	}
	for i, v := range visibility {
		g.cells[i].visibility = v
	}

	switch {
	case snap.RevealedMine && snap.Detonated == nil:
		return nil, corrupt("revealed mine without a detonation")
	case !snap.RevealedMine && snap.Detonated != nil:
		return nil, corrupt("detonation at %s without a revealed mine", *snap.Detonated)
	case snap.RevealedMine:
		d := *snap.Detonated
		if !g.inBounds(d.Row, d.Col) || !g.cells[g.index(d.Row, d.Col)].hasMine {
			return nil, corrupt("detonation at %s is not a mine", d)
		}
		g.revealedMine = true
		g.detonated = d
	}

	if snap.Moves < 0 {
		return nil, corrupt("move count %d", snap.Moves)
	}
	s := NewSessionFromGrid(g)
	s.ID = id
	s.moves = snap.Moves
	if snap.LastMove != nil {
		m := *snap.LastMove
		if !m.Kind.valid() {
			return nil, corrupt("last move has unknown kind %d", int(m.Kind))
		}
		if !g.inBounds(m.Row, m.Col) {
			return nil, corrupt("last move %s outside the board", m)
		}
		s.lastMove = &m
	}
	if got := s.Status(); got != snap.Status {
		return nil, corrupt("status %q does not match board (%q)", snap.Status, got)
	}
	return s, nil
}

// parseGlyph decodes one board glyph. A revealed mine has no glyph since
// revealing a mine never uncovers it.
func parseGlyph(b byte) (v Visibility, mined, ok bool) {
	switch b {
	case glyphHidden:
		return Hidden, false, true
	case glyphHiddenMine:
		return Hidden, true, true
	case glyphFlagged:
		return Flagged, false, true
	case glyphFlaggedMine:
		return Flagged, true, true
	case glyphRevealed:
		return Revealed, false, true
	}
	return 0, false, false
}

func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case InProgress, Won, Lost:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("unknown status %d", int(s))
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case InProgress.String():
		*s = InProgress
	case Won.String():
		*s = Won
	case Lost.String():
		*s = Lost
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}
