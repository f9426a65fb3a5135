package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn", false)
	t.Cleanup(func() { globalLogger = nil })

	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Errorf("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="shown 3"`)
	assert.Contains(t, out, "level=ERROR")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug", true)
	t.Cleanup(func() { globalLogger = nil })

	Debugf("refresh %s", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "refresh abc", line["msg"])
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "threatboard.log")
	require.NoError(t, Init(true, "info", path, false, false))
	t.Cleanup(func() {
		Close()
		globalLogger = nil
	})

	Infof("dashboard published")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "dashboard published"))
}

func TestDisabledAndUninitialized(t *testing.T) {
	globalLogger = nil
	Infof("no logger")

	require.NoError(t, Init(false, "debug", "", true, false))
	t.Cleanup(func() { globalLogger = nil })
	Errorf("disabled")
	assert.NotNil(t, Slog())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
