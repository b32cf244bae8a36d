//go:build !windows

// Package sshserver serves games to SSH clients. Clients with a terminal get
// the full screen UI in a child process on a pseudo-terminal, other clients
// play the line console over the channel.
package sshserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"
	gossh "golang.org/x/crypto/ssh"

	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/console"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/storage"
)

const DefaultIdleTimeout = time.Minute

type Server struct {
	Addr        string
	Binary      string // started for clients with a terminal
	HostKeyFile string // empty generates a key per run
	IdleTimeout time.Duration

	Config config.Config
	Store  storage.Store
	Log    logrus.FieldLogger

	mu       sync.Mutex
	server   *ssh.Server
	sessions int64
}

// ListenAndServe blocks until Close is called or the listener fails.
func (s *Server) ListenAndServe() error {
	if s.Addr == "" {
		return errors.New("ssh server address must be specified")
	}
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Close is called.
func (s *Server) Serve(l net.Listener) error {
	if s.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.Log = l
	}
	idle := s.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}

	srv := &ssh.Server{
		Addr:        l.Addr().String(),
		IdleTimeout: idle,
		Handler:     s.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			return true
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			return true
		},
		KeyboardInteractiveHandler: func(ctx ssh.Context, challenger gossh.KeyboardInteractiveChallenge) bool {
			return true
		},
	}
	if s.HostKeyFile != "" {
		if err := srv.SetOption(ssh.HostKeyFile(s.HostKeyFile)); err != nil {
			l.Close()
			return fmt.Errorf("host key: %w", err)
		}
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.Log.WithField("addr", srv.Addr).Info("ssh server listening")
	err := srv.Serve(l)
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	return s.server.Close()
}

func (s *Server) handle(sess ssh.Session) {
	log := s.Log.WithFields(logrus.Fields{
		"user":   sess.User(),
		"remote": sess.RemoteAddr().String(),
	})
	n := atomic.AddInt64(&s.sessions, 1)
	log.WithField("active", n).Info("client connected")
	defer func() {
		log.WithField("active", atomic.AddInt64(&s.sessions, -1)).Info("client disconnected")
	}()

	var err error
	if ptyReq, winCh, isPty := sess.Pty(); isPty {
		err = s.runTerminal(sess, ptyReq, winCh)
	} else {
		err = s.runConsole(sess, log)
	}
	if err != nil {
		log.WithError(err).Warn("session failed")
		io.WriteString(sess, fmt.Sprintf("failed to start minesweeper: %s\n", err))
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}

// runTerminal starts the terminal UI binary on a pseudo-terminal and copies
// bytes between it and the client until the program exits.
func (s *Server) runTerminal(sess ssh.Session, ptyReq ssh.Pty, winCh <-chan ssh.Window) error {
	if s.Binary == "" {
		return errors.New("no binary configured for terminal sessions")
	}
	cmdCtx, cancelCmd := context.WithCancel(sess.Context())
	defer cancelCmd()

	args := append([]string{"-ui", config.UITerminal}, s.Config.Args()...)
	cmd := exec.CommandContext(cmdCtx, s.Binary, args...)
	cmd.Env = append(sess.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize pseudo-terminal: %w", err)
	}
	defer f.Close()

	setWinsize(f, ptyReq.Window)
	go func() {
		for win := range winCh {
			setWinsize(f, win)
		}
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	cancelCmd()
	cmd.Wait()
	return nil
}

func (s *Server) runConsole(sess ssh.Session, log logrus.FieldLogger) error {
	play, err := models.NewSession(s.Config.Rows, s.Config.Cols, s.Config.Mines, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}
	play.SetLogger(log)
	return console.New(sess, sess, play, s.Store, log).Run(sess.Context())
}

func setWinsize(f *os.File, win ssh.Window) {
	pty.Setsize(f, &pty.Winsize{Rows: uint16(win.Height), Cols: uint16(win.Width)})
}
