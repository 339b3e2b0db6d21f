package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn")
	log.With("file", "Inventario_1 - A.xlsx").Error(ctx, "err", "reason", "wrong password")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, int64(1), entries[0].ContextMap()["a"])
	require.Equal(t, "two", entries[1].ContextMap()["b"])
	require.Equal(t, zapcore.WarnLevel, entries[2].Level)

	last := entries[3]
	require.Equal(t, "err", last.Message)
	require.Equal(t, "Inventario_1 - A.xlsx", last.ContextMap()["file"])
	require.Equal(t, "wrong password", last.ContextMap()["reason"])
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"", FormatText, FormatJSON, FormatZap} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(format, "info", &buf)
			require.NoError(t, err)

			log.Debug(context.Background(), "hidden")
			log.Info(context.Background(), "shown", "k", "v")

			out := buf.String()
			require.Contains(t, out, "shown")
			require.NotContains(t, out, "hidden")
		})
	}
}

func TestNew_JSONIsStructured(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(FormatJSON, "debug", &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "imported", "rows", 3)
	require.True(t, strings.HasPrefix(buf.String(), "{"))
	require.Contains(t, buf.String(), `"rows":3`)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New("xml", "info", &bytes.Buffer{})
	require.Error(t, err)

	_, err = New(FormatText, "loud", &bytes.Buffer{})
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() {
		Nop().With("k", "v").Error(context.Background(), "ignored")
	})
}
