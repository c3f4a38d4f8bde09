package source

import (
	"context"
	"errors"
	"io"
	"strings"

	"hotfire/backend/services/runs-service/internal/models"
)

// ErrNotFound is returned when a run does not exist or its name is not acceptable.
var ErrNotFound = errors.New("source: run not found")

// Source provides the stored runs.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Stat(ctx context.Context, name string) (models.RunInfo, error)
	Load(ctx context.Context, name string) ([]models.Record, error)
	Open(ctx context.Context, name string) (io.ReadCloser, models.RunInfo, error)
}

// RunName strips an optional ".csv" suffix and rejects names that could
// escape the data directory.
func RunName(raw string) (string, error) {
	name := strings.TrimSuffix(strings.TrimSpace(raw), models.RunExtension)
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.ContainsRune(name, 0) {
		return "", ErrNotFound
	}
	return name, nil
}

func isRunFile(fileName string) bool {
	return strings.HasSuffix(fileName, models.RunExtension) && len(fileName) > len(models.RunExtension)
}
