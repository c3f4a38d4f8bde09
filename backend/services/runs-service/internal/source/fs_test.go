package source

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRun = "thrust1,thrust1_time, thrust2\n 1.5 ,00:00:01.000,2\n3,00:00:02.000,\n"

func newMemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fsys, "/"+name, []byte(body), 0o644))
	}
	return fsys
}

func TestFSList(t *testing.T) {
	fsys := newMemFS(t, map[string]string{
		"run-b.csv":  sampleRun,
		"run-a.csv":  sampleRun,
		"notes.txt":  "x",
		".csv":       "",
		"sub/x.csv":  sampleRun,
		"README.CSV": "",
	})

	runs, err := NewFS(fsys).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, runs)
}

func TestFSLoad(t *testing.T) {
	src := NewFS(newMemFS(t, map[string]string{"hotfire.csv": sampleRun}))

	for _, name := range []string{"hotfire", "hotfire.csv"} {
		records, err := src.Load(context.Background(), name)
		require.NoError(t, err, name)
		require.Len(t, records, 2)
		assert.Equal(t, "1.5", records[0]["thrust1"])
		assert.Equal(t, "00:00:01.000", records[0]["thrust1_time"])
		assert.Equal(t, "2", records[0]["thrust2"])
		assert.Equal(t, "", records[1]["thrust2"])
	}
}

func TestFSNotFound(t *testing.T) {
	src := NewFS(newMemFS(t, map[string]string{"a.csv": sampleRun, "dir.csv/x.csv": sampleRun}))
	ctx := context.Background()

	for _, name := range []string{"missing", "", "../a", "..", "a/b", `a\b`, "dir"} {
		_, err := src.Load(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}

	_, _, err := src.Open(ctx, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSOpen(t *testing.T) {
	src := NewFS(newMemFS(t, map[string]string{"a.csv": sampleRun}))

	rc, info, err := src.Open(context.Background(), "a.csv")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleRun, string(body))
	assert.Equal(t, "a", info.Name)
	assert.Equal(t, "a.csv", info.FileName())
	assert.Equal(t, int64(len(sampleRun)), info.Size)
}

func TestFSListMissingDirectory(t *testing.T) {
	src := NewFS(afero.NewBasePathFs(afero.NewMemMapFs(), "/does/not/exist"))
	_, err := src.List(context.Background())
	assert.Error(t, err)
}
