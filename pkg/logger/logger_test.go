package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Run("Successfully create log directory", func(t *testing.T) {
		tempDir := filepath.Join(t.TempDir(), "logs")
		l, err := NewLogger(tempDir, "debug", "hunter-test")
		require.NoError(t, err)
		require.NotNil(t, l)
		l.Info("hello %s", "world")

		_, statErr := os.Stat(tempDir)
		assert.NoError(t, statErr)
	})

	t.Run("Failed to create log directory returns error", func(t *testing.T) {
		rootDir := t.TempDir()
		fileAsDir := filepath.Join(rootDir, "thisIsAFileNotADirectory")
		require.NoError(t, os.WriteFile(fileAsDir, []byte("I am a file"), 0644))

		_, err := NewLogger(fileAsDir, "debug", "hunter-test")
		assert.Error(t, err)
	})

	t.Run("Invalid log directory returns error", func(t *testing.T) {
		_, err := NewLogger("", "warn", "hunter-test")
		assert.ErrorIs(t, err, ErrInvalidLogDir)
	})
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("a %d", 1)
		l.Info("b")
		l.Warn("c")
		l.Error("d")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{input: "debug", want: zapcore.DebugLevel},
		{input: "WARN", want: zapcore.WarnLevel},
		{input: " error ", want: zapcore.ErrorLevel},
		{input: "", want: zapcore.InfoLevel, wantErr: true},
		{input: "verbose", want: zapcore.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestLogger_LevelFilterAndFormat(t *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.InfoLevel)
	l := newFromCore(observedCore)

	l.Debug("debug message")
	l.Info("rewrote %d of %d calls", 2, 3)
	l.Warn("%s: kept as is", "activity_main.xml")

	logs := observedLogs.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "rewrote 2 of 3 calls", logs[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs[1].Level)
	assert.Equal(t, "activity_main.xml: kept as is", logs[1].Message)
	// 调用位置指向调用方而不是包装层
	assert.Contains(t, logs[0].Caller.File, "logger_test.go")
}
