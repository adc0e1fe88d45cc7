package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	logger, logs := NewTestLogger()

	child := logger.With(slog.String("component", "probe"))
	child.Info("probe ok", slog.Int("columns", 10))
	logger.Warn("slow source")

	records := logs.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "probe", records[0].Attrs["component"])
	assert.Equal(t, int64(10), records[0].Attrs["columns"])
	assert.NotContains(t, records[1].Attrs, "component")

	r := AssertLogged(t, logs, slog.LevelWarn, "slow")
	assert.Equal(t, "slow source", r.Message)

	_, ok := logs.Find("missing")
	assert.False(t, ok)
	AssertNoErrors(t, logs)
}
