package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/catalog"
	"hotfire/backend/services/runs-service/internal/metrics"
	"hotfire/backend/services/runs-service/internal/models"
	"hotfire/backend/services/runs-service/internal/source"
)

const run = `engine_chamber_pressure,engine_chamber_pressure_time,thrust1,thrust2,thrust2_time
0,00:00:00.000,0,0,00:00:00.000
10,12:00:00.000,5,5,12:00:00.000
20,12:00:00.500,6,,12:00:00.500
`

type memoryLog struct {
	events []models.AccessEvent
	err    error
}

func (m *memoryLog) Save(_ context.Context, e models.AccessEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memoryLog) Recent(_ context.Context, limit int) ([]models.AccessEvent, error) {
	if limit > len(m.events) {
		limit = len(m.events)
	}
	return m.events[:limit], nil
}

func newService(t *testing.T, log AccessLog) *RunsService {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/hotfire-1.csv", []byte(run), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/hotfire-2.csv", []byte("a\n"), 0o644))
	return NewRunsService(source.NewFS(fsys), catalog.Default(), Options{AccessLog: log, Metrics: metrics.New()}, zap.NewNop())
}

func TestRunsServiceListAndRecords(t *testing.T) {
	log := &memoryLog{}
	svc := newService(t, log)
	ctx := WithCaller(context.Background(), Caller{Subject: "ops", RemoteAddr: "10.1.1.1:1000"})

	runs, err := svc.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hotfire-1", "hotfire-2"}, runs)

	records, err := svc.Records(ctx, "hotfire-1.csv")
	require.NoError(t, err)
	assert.Len(t, records, 3, "raw rows include the warm-up row")

	require.Len(t, log.events, 2)
	assert.Equal(t, models.AccessEvent{Action: models.ActionList, Subject: "ops", RemoteAddr: "10.1.1.1:1000"}, log.events[0])
	assert.Equal(t, models.ActionView, log.events[1].Action)
	assert.Equal(t, "hotfire-1", log.events[1].Run)
}

func TestRunsServiceCharts(t *testing.T) {
	log := &memoryLog{}
	svc := newService(t, log)

	charts, err := svc.Charts(context.Background(), "hotfire-1.csv")
	require.NoError(t, err)

	assert.Equal(t, "hotfire-1", charts.Run)
	assert.Equal(t, 2, charts.Rows)
	engine := charts.Groups[4].Datasets[0].Points
	require.Len(t, engine, 2)
	assert.Equal(t, 0.0, engine[0].T)
	assert.Equal(t, 0.5, engine[1].T)

	require.NotNil(t, charts.TotalThrust)
	thrust := charts.TotalThrust.Datasets[0].Points
	require.Len(t, thrust, 2)
	assert.Equal(t, 10.0, *thrust[0].Y)
	assert.Equal(t, 6.0, *thrust[1].Y)

	require.Len(t, log.events, 1)
	assert.Equal(t, models.AccessEvent{Action: models.ActionChart, Run: "hotfire-1"}, log.events[0])
}

func TestRunsServiceNotFound(t *testing.T) {
	log := &memoryLog{}
	svc := newService(t, log)
	ctx := context.Background()

	_, err := svc.Records(ctx, "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)
	_, err = svc.Charts(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, source.ErrNotFound)
	_, _, err = svc.Open(ctx, "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)

	assert.Empty(t, log.events)
}

func TestRunsServiceOpen(t *testing.T) {
	log := &memoryLog{}
	svc := newService(t, log)

	rc, info, err := svc.Open(context.Background(), "hotfire-1")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, run, string(body))
	assert.Equal(t, "hotfire-1.csv", info.FileName())
	assert.Equal(t, models.ActionDownload, log.events[0].Action)
	assert.Equal(t, "hotfire-1", log.events[0].Run)
}

func TestRunsServiceAccessLogFailureIsNotFatal(t *testing.T) {
	svc := newService(t, &memoryLog{err: errors.New("db down")})

	runs, err := svc.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunsServiceRecentAccess(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.RecentAccess(context.Background(), 10)
	assert.ErrorIs(t, err, ErrAccessLogDisabled)

	log := &memoryLog{}
	svc = newService(t, log)
	_, _ = svc.ListRuns(context.Background())
	events, err := svc.RecentAccess(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
