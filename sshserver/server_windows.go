//go:build windows

package sshserver

import (
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/storage"
)

const DefaultIdleTimeout = time.Minute

// ErrUnsupported is returned on Windows, where pseudo-terminals are not available.
var ErrUnsupported = errors.New("ssh server is not supported on windows")

type Server struct {
	Addr        string
	Binary      string
	HostKeyFile string
	IdleTimeout time.Duration

	Config config.Config
	Store  storage.Store
	Log    logrus.FieldLogger
}

func (s *Server) ListenAndServe() error {
	return ErrUnsupported
}

func (s *Server) Serve(l net.Listener) error {
	l.Close()
	return ErrUnsupported
}

func (s *Server) Close() error {
	return nil
}
