package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gramwalk/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, logging.ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "component", "test")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "test", rec["component"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, "debug", "").Debug("rebuilt", "queried", 3)
	assert.Contains(t, buf.String(), "msg=rebuilt")
	assert.Contains(t, buf.String(), "queried=3")
}

func TestValidators(t *testing.T) {
	assert.True(t, logging.ValidLevel("Info"))
	assert.False(t, logging.ValidLevel("loud"))
	assert.True(t, logging.ValidFormat("JSON"))
	assert.False(t, logging.ValidFormat("xml"))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(logging.New(&buf, "info", "text"))

	logging.WithComponent("session").Info("ready")
	assert.Contains(t, buf.String(), "component=session")
}
