package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZapLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core), LevelInfo)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Warn("warn %s", "x")
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "shown 2", logs.All()[0].Message)

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	assert.Equal(t, 3, logs.Len())

	l.SetLevel(LevelError)
	l.Warn("dropped")
	l.Error("kept")
	assert.Equal(t, 4, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
}

func TestFrameDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core), LevelDebug)

	Frame(l, "TX", 0x6E, []byte{0x51, 0x82, 0x01, 0x10, 0xAC})
	assert.Equal(t, 0, logs.Len())

	SetFrameDebug(true)
	defer SetFrameDebug(false)
	require.True(t, FrameDebugEnabled())

	Frame(l, "TX", 0x6E, []byte{0x51, 0x82, 0x01, 0x10, 0xAC})
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "TX 0x6E (5 bytes)")
	assert.Contains(t, logs.All()[0].Message, "51 82 01 10 ac")
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ddc.log")
	l, err := New(Config{Level: "debug", Format: "json", Output: path, MaxSize: 1})
	require.NoError(t, err)

	l.Info("written to %s", "file")
	require.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}
