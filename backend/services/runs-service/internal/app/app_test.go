package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/config"
	"hotfire/backend/services/runs-service/internal/source"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotfire-1.csv"), []byte("a,a_time\n1,10:00:00.000\n"), 0o644))

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.HTTP.Port = "127.0.0.1:0"
	cfg.Data.Dir = dir
	return cfg
}

func TestNewAndRun(t *testing.T) {
	cfg := testConfig(t)
	application, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer application.Close()

	msg, err := application.runListMessage(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"runs":["hotfire-1"]}`, string(msg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestNewSourceWithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()

	src, client, err := NewSource(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.IsType(t, &source.Cached{}, src)

	records, err := src.Load(context.Background(), "hotfire-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, mr.Keys(), 1)
}

func TestNewSourceWithoutCache(t *testing.T) {
	src, client, err := NewSource(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &source.FS{}, src)
}

func TestNewRejectsBadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.File = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
