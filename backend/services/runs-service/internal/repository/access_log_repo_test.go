package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotfire/backend/services/runs-service/internal/models"
)

func TestAccessLogRepositorySave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO run_access_log").
		WithArgs(models.ActionDownload, "hotfire-7", "ops", "10.0.0.5:5123").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewAccessLogRepository(mock)
	err = repo.Save(context.Background(), models.AccessEvent{
		Action:     models.ActionDownload,
		Run:        "hotfire-7",
		Subject:    "ops",
		RemoteAddr: "10.0.0.5:5123",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessLogRepositoryEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS run_access_log").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	assert.NoError(t, NewAccessLogRepository(mock).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessLogRepositoryRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := mock.NewRows([]string{"id", "action", "run", "subject", "remote_addr", "created_at"}).
		AddRow(int64(2), models.ActionChart, "hotfire-7", "", "127.0.0.1:1", now).
		AddRow(int64(1), models.ActionList, "", "", "127.0.0.1:1", now.Add(-time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM run_access_log").
		WithArgs(10).
		WillReturnRows(rows)

	events, err := NewAccessLogRepository(mock).Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].ID)
	assert.Equal(t, models.ActionChart, events[0].Action)
	assert.Equal(t, "hotfire-7", events[0].Run)
	assert.Equal(t, now, events[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessLogRepositoryRecentError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM run_access_log").
		WithArgs(5).
		WillReturnError(errors.New("connection reset"))

	_, err = NewAccessLogRepository(mock).Recent(context.Background(), 5)
	assert.Error(t, err)
}
