package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
	require.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestInit_WithoutCollector(t *testing.T) {
	instruments, shutdown, err := Init(context.Background(), Options{ServiceName: "pethub-api-test", LogFormat: "text"})
	require.NoError(t, err)
	require.NotNil(t, instruments.Logger)
	require.NotNil(t, instruments.Tracer("test"))
	require.NotNil(t, instruments.Meter("test"))
	require.NoError(t, shutdown(context.Background()))
}
