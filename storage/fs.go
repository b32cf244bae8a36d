// Package storage saves and loads game sessions as JSON files.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/sirupsen/logrus"

	"github.com/dimaq12/minesweeper/models"
)

const ext = ".json"

// ErrNotFound is returned when no save exists at the requested path.
var ErrNotFound = errors.New("saved game not found")

// Store persists sessions by name.
type Store interface {
	Save(ctx context.Context, name string, s *models.Session) (string, error)
	Load(ctx context.Context, name string) (*models.Session, error)
	List(ctx context.Context) ([]SaveMeta, error)
}

// SaveMeta is a lightweight listing entry.
type SaveMeta struct {
	Name    string        `json:"name"`
	ID      string        `json:"id"`
	Rows    int           `json:"rows"`
	Cols    int           `json:"cols"`
	Mines   int           `json:"mines"`
	Status  models.Status `json:"status"`
	SavedAt time.Time     `json:"savedAt"`
}

// FS stores sessions below a directory. Absolute names bypass the directory.
type FS struct {
	dir string
	log logrus.FieldLogger
}

func NewFS(dir string, log logrus.FieldLogger) *FS {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &FS{dir: dir, log: log}
}

func (s *FS) pathFor(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Save writes the session and returns the path written. An empty name picks a
// random two-word name.
func (s *FS) Save(ctx context.Context, name string, sess *models.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if sess == nil {
		return "", errors.New("invalid session: nil")
	}
	if strings.TrimSpace(name) == "" {
		name = petname.Generate(2, "-")
	}
	target := s.pathFor(name)

	data, err := json.MarshalIndent(sess.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	// Write next to the target and rename so a crash never leaves half a save.
	f, err := os.CreateTemp(filepath.Dir(target), ".save-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"path":    target,
		"session": sess.ID.String(),
	}).Info("game saved")
	return target, nil
}

// Load reads a saved session. Unreadable content is reported as
// models.ErrCorruptSnapshot.
func (s *FS) Load(ctx context.Context, name string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := s.pathFor(name)
	data, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	sess, _, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}
	s.log.WithFields(logrus.Fields{
		"path":    target,
		"session": sess.ID.String(),
	}).Info("game loaded")
	return sess, nil
}

// decode restores a session and also returns the snapshot it was read from.
func decode(data []byte) (*models.Session, models.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var snap models.Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, snap, fmt.Errorf("%w: %v", models.ErrCorruptSnapshot, err)
	}
	sess, err := models.RestoreSession(snap)
	return sess, snap, err
}

// List returns the saves in the store directory sorted by name. Files that
// are not valid saves are skipped.
func (s *FS) List(ctx context.Context) ([]SaveMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []SaveMeta
	for _, e := range ents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.WithError(err).WithField("path", path).Warn("skipping unreadable save")
			continue
		}
		sess, snap, err := decode(data)
		if err != nil {
			s.log.WithError(err).WithField("path", path).Warn("skipping invalid save")
			continue
		}
		out = append(out, SaveMeta{
			Name:    strings.TrimSuffix(e.Name(), ext),
			ID:      sess.ID.String(),
			Rows:    sess.Rows(),
			Cols:    sess.Cols(),
			Mines:   snap.Mines,
			Status:  sess.Status(),
			SavedAt: snap.SavedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
