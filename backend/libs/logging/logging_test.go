package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWithLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLoggerWith(tt.level, "json")
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNewLoggerWithOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotfire.log")
	logger, err := NewLoggerWith("info", "json", path)
	require.NoError(t, err)

	logger.Info("run normalized", zap.String("run", "hotfire-1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run normalized"`)
	assert.Contains(t, string(data), `"run":"hotfire-1"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNewLoggerWithConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := NewLoggerWith("info", "console", path)
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.NotContains(t, string(data), `"msg"`)
}
