package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithWriterConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	log, err := NewWithWriter(&Config{}, &console)
	require.NoError(t, err)

	log.Info("Simulating transaction", zap.String("operation", "send-sol"))
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	out := console.String()
	assert.Contains(t, out, "Simulating transaction")
	assert.Contains(t, out, "send-sol")
	assert.NotContains(t, out, "hidden")
}

func TestNewWithWriterFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.log")
	log, err := NewWithWriter(&Config{LogFile: path, MaxSize: 1, Development: true}, &bytes.Buffer{})
	require.NoError(t, err)

	log.Debug("Stake accounts", zap.Int("count", 2))
	require.NoError(t, log.Logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "Stake accounts", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

// syncWriter имитирует консольный поток с заданной ошибкой fsync.
type syncWriter struct {
	bytes.Buffer
	err error
}

func (w *syncWriter) Sync() error { return w.err }

func TestSyncIgnoresUnsyncableConsole(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"stderr pipe", &os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EINVAL}},
		{"stdout pipe", &os.PathError{Op: "sync", Path: "/dev/stdout", Err: syscall.EINVAL}},
		{"stderr tty", &os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.ENOTTY}},
		{"stdout tty", &os.PathError{Op: "sync", Path: "/dev/stdout", Err: syscall.ENOTTY}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sandbox.log")
			log, err := NewWithWriter(&Config{LogFile: path, MaxSize: 1}, &syncWriter{err: tt.err})
			require.NoError(t, err)

			log.Info("Simulation completed")
			assert.NoError(t, log.Sync())
		})
	}
}

func TestSyncReportsRealErrors(t *testing.T) {
	diskFull := &os.PathError{Op: "sync", Path: "/var/log/sandbox.log", Err: syscall.ENOSPC}
	log, err := NewWithWriter(&Config{}, &syncWriter{err: diskFull})
	require.NoError(t, err)

	err = log.Sync()
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ENOSPC))
}

func TestWithOperationAddsCorrelationID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithOperation(base, "stake").Info("first")
	WithOperation(base, "stake").Info("second")

	entries := logs.All()
	require.Len(t, entries, 2)
	first, second := entries[0].ContextMap(), entries[1].ContextMap()
	assert.Equal(t, "stake", first["operation"])
	assert.NotEmpty(t, first["correlation_id"])
	assert.NotEqual(t, first["correlation_id"], second["correlation_id"])
}

func TestTrackPerformance(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	end := TrackPerformance(zap.New(core), "unstake")
	end()

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Starting operation", entries[0].Message)
	assert.Equal(t, "Operation completed", entries[1].Message)
	assert.Contains(t, entries[1].ContextMap(), "duration_ms")
}
