package source

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/models"
)

type countingSource struct {
	Source
	loads int
}

func (c *countingSource) Load(ctx context.Context, name string) ([]models.Record, error) {
	c.loads++
	return c.Source.Load(ctx, name)
}

func newCached(t *testing.T, fsys afero.Fs) (*Cached, *countingSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	counting := &countingSource{Source: NewFS(fsys)}
	return NewCached(counting, client, time.Minute, zap.NewNop()), counting, mr
}

func TestCachedLoadHitsRedisOnSecondRead(t *testing.T) {
	fsys := newMemFS(t, map[string]string{"a.csv": sampleRun})
	cached, counting, mr := newCached(t, fsys)
	ctx := context.Background()

	first, err := cached.Load(ctx, "a")
	require.NoError(t, err)
	second, err := cached.Load(ctx, "a.csv")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, counting.loads)
	require.Len(t, mr.Keys(), 1)
	assert.Contains(t, mr.Keys()[0], "runs:records:a:")
	assert.Equal(t, time.Minute, mr.TTL(mr.Keys()[0]))
}

func TestCachedLoadMissesWhenFileChanges(t *testing.T) {
	fsys := newMemFS(t, map[string]string{"a.csv": sampleRun})
	cached, counting, _ := newCached(t, fsys)
	ctx := context.Background()

	_, err := cached.Load(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fsys, "/a.csv", []byte("x,x_time\n9,00:00:01.000\n"), 0o644))
	records, err := cached.Load(ctx, "a")
	require.NoError(t, err)

	assert.Equal(t, 2, counting.loads)
	require.Len(t, records, 1)
	assert.Equal(t, "9", records[0]["x"])
}

func TestCachedLoadFallsBackWhenRedisDown(t *testing.T) {
	fsys := newMemFS(t, map[string]string{"a.csv": sampleRun})
	cached, counting, mr := newCached(t, fsys)
	mr.Close()

	records, err := cached.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, counting.loads)
}

func TestCachedLoadDiscardsCorruptEntry(t *testing.T) {
	fsys := newMemFS(t, map[string]string{"a.csv": sampleRun})
	cached, counting, mr := newCached(t, fsys)
	ctx := context.Background()

	info, err := cached.Stat(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, mr.Set(cached.key(info), "{not json"))

	records, err := cached.Load(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, counting.loads)
}

func TestCachedLoadNotFound(t *testing.T) {
	cached, _, _ := newCached(t, newMemFS(t, nil))
	_, err := cached.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
