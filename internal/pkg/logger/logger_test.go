package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_FormatByEnv(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(EnvDev, &buf).Info("started", slog.String("k", "v"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "started", rec["msg"])
	require.Equal(t, "v", rec["k"])

	buf.Reset()
	New(EnvLocal, &buf).Info("started")
	require.True(t, strings.Contains(buf.String(), "msg=started"))
}

func TestNew_ProdSkipsDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(EnvProd, &buf)

	require.False(t, l.Enabled(context.Background(), slog.LevelDebug))
	require.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, New("unknown", &buf).Enabled(context.Background(), slog.LevelDebug))
}
