// Package config holds the command line configuration of the game.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"
)

// Front ends selectable with -ui.
const (
	UITerminal = "tview"
	UIConsole  = "console"
)

const DefaultLevel = 1

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrUnknownUI    = errors.New("unknown ui")
)

type Config struct {
	Level int
	Rows  int
	Cols  int
	Mines int
	Seed  int64 // 0 seeds from the clock

	UI       string
	LoadPath string
	SaveDir  string

	LogPath  string
	LogLevel string

	SSHAddress  string
	SSHBinary   string
	HostKeyFile string
	IdleTimeout time.Duration
}

// BoardDimensions returns rows, cols and mine count for a difficulty level.
func BoardDimensions(level int) (rows, cols, mines int, err error) {
	switch level {
	case 1:
		return 9, 9, 10, nil // beginner
	case 2:
		return 16, 16, 40, nil // intermediate
	case 3:
		return 16, 30, 99, nil // expert
	case 4:
		return 20, 20, 80, nil
	case 5:
		return 30, 30, 180, nil
	default:
		return 0, 0, 0, fmt.Errorf("%d (want 1-5): %w", level, ErrUnknownLevel)
	}
}

// Default returns a beginner game on the terminal UI.
func Default() Config {
	rows, cols, mines, _ := BoardDimensions(DefaultLevel)
	return Config{
		Level:       DefaultLevel,
		Rows:        rows,
		Cols:        cols,
		Mines:       mines,
		UI:          UITerminal,
		SaveDir:     ".",
		LogLevel:    "info",
		IdleTimeout: 10 * time.Minute,
	}
}

// Parse reads command line arguments on top of Default. Explicit -rows,
// -cols and -mines override the values of -level.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	c := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&c.Level, "level", c.Level, "difficulty level 1-5")
	rows := fs.Int("rows", 0, "number of rows (overrides -level)")
	cols := fs.Int("cols", 0, "number of columns (overrides -level)")
	mines := fs.Int("mines", -1, "number of mines (overrides -level)")
	fs.Int64Var(&c.Seed, "seed", 0, "random seed for mine placement, 0 uses the clock")
	fs.StringVar(&c.UI, "ui", c.UI, "front end: tview or console")
	fs.StringVar(&c.LoadPath, "load", "", "resume the game saved at this path")
	fs.StringVar(&c.SaveDir, "save-dir", c.SaveDir, "directory for saved games")
	fs.StringVar(&c.LogPath, "log", "", "path to log file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.StringVar(&c.SSHAddress, "ssh", "", "serve the game over SSH on this address")
	fs.StringVar(&c.SSHBinary, "ssh-binary", "", "binary started for SSH sessions with a terminal (default: this program)")
	fs.StringVar(&c.HostKeyFile, "host-key", "", "SSH host key file (default: generated)")
	fs.DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "close idle SSH connections after this long")
	if err := fs.Parse(args); err != nil {
		return c, err
	}

	r, cl, m, err := BoardDimensions(c.Level)
	if err != nil {
		return c, err
	}
	c.Rows, c.Cols, c.Mines = r, cl, m
	if *rows > 0 {
		c.Rows = *rows
	}
	if *cols > 0 {
		c.Cols = *cols
	}
	if *mines >= 0 {
		c.Mines = *mines
	}
	return c, c.Validate()
}

// Validate checks the values that are not left to the game itself. Board
// dimensions and mine count are checked when the grid is built.
func (c Config) Validate() error {
	switch c.UI {
	case UITerminal, UIConsole:
	default:
		return fmt.Errorf("%q: %w", c.UI, ErrUnknownUI)
	}
	if c.SaveDir == "" {
		return errors.New("save directory must not be empty")
	}
	return nil
}

// Args renders the board part of c as flags for a child process.
func (c Config) Args() []string {
	return []string{
		"-rows", fmt.Sprint(c.Rows),
		"-cols", fmt.Sprint(c.Cols),
		"-mines", fmt.Sprint(c.Mines),
		"-save-dir", c.SaveDir,
	}
}
