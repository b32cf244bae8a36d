package models

import (
	"fmt"
	"strings"
)

// MoveKind is the action a move performs on its target cell.
type MoveKind int

const (
	Reveal MoveKind = iota
	Flag
	Unflag
)

func (k MoveKind) String() string {
	switch k {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	case Unflag:
		return "unflag"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// ParseMoveKind accepts the long names as well as the one letter forms r, f and u.
func ParseMoveKind(s string) (MoveKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "reveal":
		return Reveal, nil
	case "f", "flag":
		return Flag, nil
	case "u", "unflag":
		return Unflag, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMove)
}

func (k MoveKind) valid() bool {
	switch k {
	case Reveal, Flag, Unflag:
		return true
	}
	return false
}

func (k MoveKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%d: %w", int(k), ErrUnknownMove)
	}
	return []byte(k.String()), nil
}

func (k *MoveKind) UnmarshalText(b []byte) error {
	parsed, err := ParseMoveKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Move is one validated player action.
type Move struct {
	Kind MoveKind `json:"kind"`
	Row  int      `json:"row"`
	Col  int      `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %d %d", m.Kind, m.Row, m.Col)
}
