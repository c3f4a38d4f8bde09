package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"hotfire/backend/services/runs-service/internal/models"
)

// FS serves runs from a flat directory of CSV files.
type FS struct {
	fs afero.Fs
}

// NewFS returns a source rooted at the given filesystem. Callers usually pass
// afero.NewBasePathFs(afero.NewOsFs(), dir).
func NewFS(fsys afero.Fs) *FS {
	return &FS{fs: fsys}
}

// NewDirFS returns a source over a directory of the host filesystem.
func NewDirFS(dir string) *FS {
	return NewFS(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// List returns the run names of the directory, sorted.
func (s *FS) List(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return nil, fmt.Errorf("source: read data directory: %w", err)
	}
	runs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isRunFile(e.Name()) {
			continue
		}
		runs = append(runs, strings.TrimSuffix(e.Name(), models.RunExtension))
	}
	sort.Strings(runs)
	return runs, nil
}

// Stat describes one run.
func (s *FS) Stat(ctx context.Context, name string) (models.RunInfo, error) {
	name, err := RunName(name)
	if err != nil {
		return models.RunInfo{}, err
	}
	info := models.RunInfo{Name: name}
	fi, err := s.fs.Stat("/" + info.FileName())
	if err != nil {
		return models.RunInfo{}, mapFSError(err)
	}
	if fi.IsDir() {
		return models.RunInfo{}, ErrNotFound
	}
	info.Size = fi.Size()
	info.ModTime = fi.ModTime()
	return info, nil
}

// Load parses the run's rows.
func (s *FS) Load(ctx context.Context, name string) ([]models.Record, error) {
	rc, info, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := ReadRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.FileName(), err)
	}
	return records, nil
}

// Open returns the raw run file.
func (s *FS) Open(ctx context.Context, name string) (io.ReadCloser, models.RunInfo, error) {
	info, err := s.Stat(ctx, name)
	if err != nil {
		return nil, models.RunInfo{}, err
	}
	f, err := s.fs.Open("/" + info.FileName())
	if err != nil {
		return nil, models.RunInfo{}, mapFSError(err)
	}
	return f, info, nil
}

func mapFSError(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return fmt.Errorf("source: %w", err)
}
