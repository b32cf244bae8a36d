// Package game is the terminal UI front end built on tview.
package game

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/storage"
)

const helpMessage = "Enter: reveal  f: flag  s: save  n: new game  q: quit"

// MinesweeperService runs one session in a tview application. All of its
// methods except Run are called on the application's event goroutine.
type MinesweeperService struct {
	session  *models.Session
	config   config.Config
	rng      *rand.Rand
	renderer *Renderer
	app      *tview.Application
	store    storage.Store
	log      logrus.FieldLogger

	message   string
	now       func() time.Time
	startedAt time.Time
	endedAt   time.Time
}

// NewMinesweeperService prepares the UI for s. New games use the board size
// from cfg. store may be nil, which disables saving.
func NewMinesweeperService(s *models.Session, cfg config.Config, store storage.Store, log logrus.FieldLogger) *MinesweeperService {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	svc := &MinesweeperService{
		session:  s,
		config:   cfg,
		rng:      rand.New(rand.NewSource(seed)),
		renderer: NewRenderer(),
		app:      tview.NewApplication(),
		store:    store,
		log:      log,
		message:  helpMessage,
		now:      time.Now,
	}
	svc.redraw()
	return svc
}

func (s *MinesweeperService) Session() *models.Session {
	return s.session
}

// Run shows the board on the terminal and blocks until the player quits.
func (s *MinesweeperService) Run() error {
	s.app.SetRoot(s.renderer.layout, true).EnableMouse(true)
	s.handleInput()

	done := make(chan struct{})
	defer close(done)
	go s.clock(done)

	s.log.WithField("session", s.session.ID.String()).Info("terminal UI started")
	return s.app.Run()
}

// clock refreshes the elapsed time once a second while a game is running.
func (s *MinesweeperService) clock(done <-chan struct{}) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.app.QueueUpdateDraw(s.refreshStatus)
		}
	}
}

func (s *MinesweeperService) handleInput() {
	controller := NewGameController(s)
	table := s.renderer.boardTable
	table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		row, col := table.GetSelection()
		return controller.HandleKey(event, row, col)
	})
}

// ShowCell reveals the cell at row, col.
func (s *MinesweeperService) ShowCell(row, col int) {
	s.apply(models.Move{Kind: models.Reveal, Row: row, Col: col})
}

// FlagCell toggles the flag on the cell at row, col.
func (s *MinesweeperService) FlagCell(row, col int) {
	kind := models.Flag
	if s.session.View().At(row, col).Kind == models.DisplayFlagged {
		kind = models.Unflag
	}
	s.apply(models.Move{Kind: kind, Row: row, Col: col})
}

func (s *MinesweeperService) apply(m models.Move) {
	if s.session.GameOver() {
		return
	}
	if s.startedAt.IsZero() {
		s.startedAt = s.now()
	}
	status, err := s.session.ApplyMove(m)
	if err != nil {
		s.log.WithError(err).WithField("move", m.String()).Error("move rejected")
		s.message = err.Error()
		s.redraw()
		return
	}

	switch status {
	case models.Won:
		s.endedAt = s.now()
		s.message = "Congratulations! You won the game! n: new game  q: quit"
	case models.Lost:
		s.endedAt = s.now()
		s.message = "Game Over! You hit a mine. n: new game  q: quit"
	default:
		s.message = helpMessage
	}
	s.redraw()
}

// SaveGame writes the session under a generated name.
func (s *MinesweeperService) SaveGame() {
	if s.store == nil {
		s.message = "Saving is not available"
		s.redraw()
		return
	}
	path, err := s.store.Save(context.Background(), "", s.session)
	if err != nil {
		s.log.WithError(err).Warn("save failed")
		s.message = "Save failed: " + err.Error()
	} else {
		s.message = "Saved to " + path
	}
	s.redraw()
}

// NewGame replaces the session with a fresh board of the configured size.
func (s *MinesweeperService) NewGame() {
	next, err := models.NewSession(s.config.Rows, s.config.Cols, s.config.Mines, s.rng)
	if err != nil {
		s.log.WithError(err).Error("new game failed")
		s.message = err.Error()
		s.redraw()
		return
	}
	next.SetLogger(s.log)
	s.session = next
	s.startedAt, s.endedAt = time.Time{}, time.Time{}
	s.message = helpMessage
	s.renderer.boardTable.Select(0, 0)
	s.redraw()
}

func (s *MinesweeperService) Quit() {
	s.log.WithField("session", s.session.ID.String()).Info("terminal UI stopped")
	s.app.Stop()
}

// Stop ends Run from any goroutine.
func (s *MinesweeperService) Stop() {
	s.app.Stop()
}

func (s *MinesweeperService) elapsed() time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case s.endedAt.IsZero():
		return s.now().Sub(s.startedAt)
	default:
		return s.endedAt.Sub(s.startedAt)
	}
}

func (s *MinesweeperService) redraw() {
	v := s.session.View()
	s.renderer.DrawBoard(v)
	s.renderer.SetStatus(v, s.elapsed(), s.message)
}

func (s *MinesweeperService) refreshStatus() {
	s.renderer.SetStatus(s.session.View(), s.elapsed(), s.message)
}
