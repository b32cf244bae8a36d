package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/console"
	"github.com/dimaq12/minesweeper/game"
	"github.com/dimaq12/minesweeper/logging"
	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/sshserver"
	"github.com/dimaq12/minesweeper/storage"
)

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "minesweeper: %s\n", err)
		os.Exit(2)
	}

	log, closer, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minesweeper: %s\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("exiting")
		closer.Close()
		fmt.Fprintf(os.Stderr, "minesweeper: %s\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	store := storage.NewFS(cfg.SaveDir, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SSHAddress != "" {
		return serveSSH(ctx, cfg, store, log)
	}

	s, err := startSession(ctx, cfg, store)
	if err != nil {
		return err
	}
	s.SetLogger(log)

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	switch cfg.UI {
	case config.UITerminal:
		if !tty {
			return errors.New("non-interactive terminals are not supported, try -ui console")
		}
		svc := game.NewMinesweeperService(s, cfg, store, log)
		go func() {
			<-ctx.Done()
			svc.Stop()
		}()
		return svc.Run()
	default:
		c := console.New(os.Stdin, os.Stdout, s, store, log)
		c.Color = tty
		return c.Run(ctx)
	}
}

// startSession resumes the game named by -load or deals a new board.
func startSession(ctx context.Context, cfg config.Config, store storage.Store) (*models.Session, error) {
	if cfg.LoadPath != "" {
		return store.Load(ctx, cfg.LoadPath)
	}
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return models.NewSession(cfg.Rows, cfg.Cols, cfg.Mines, rng)
}

func serveSSH(ctx context.Context, cfg config.Config, store storage.Store, log logrus.FieldLogger) error {
	binary := cfg.SSHBinary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate binary for ssh sessions: %w", err)
		}
		binary = exe
	}

	srv := &sshserver.Server{
		Addr:        cfg.SSHAddress,
		Binary:      binary,
		HostKeyFile: cfg.HostKeyFile,
		IdleTimeout: cfg.IdleTimeout,
		Config:      cfg,
		Store:       store,
		Log:         log,
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.Info("shutting down ssh server")
		if err := srv.Close(); err != nil {
			return err
		}
		return <-done
	}
}
