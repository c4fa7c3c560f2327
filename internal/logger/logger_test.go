package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVerbose(t *testing.T) {
	l := New(nil, nil, false)
	assert.False(t, l.IsVerbose())

	l.SetVerbose(true)
	assert.True(t, l.IsVerbose())

	l.SetVerbose(false)
	assert.False(t, l.IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	var file, console bytes.Buffer
	l := New(&file, &console, true)

	l.Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", console.String())
	assert.Equal(t, "[DEBUG] test message arg\n", file.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	var file, console bytes.Buffer
	l := New(&file, &console, false)

	l.Debug("test message")

	assert.Zero(t, console.Len(), "console is silent unless verbose")
	assert.Equal(t, "[DEBUG] test message\n", file.String())
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil, false)

	l.Info("opened %s", "a.pdf")
	l.Warn("date %q not parsed", "soon")
	l.Section("Export")

	assert.Equal(t, "[INFO] opened a.pdf\n[WARN] date \"soon\" not parsed\n\n=== Export ===\n", buf.String())
}

func TestSetConsole(t *testing.T) {
	var first, second bytes.Buffer
	l := New(nil, &first, true)

	l.Info("one")
	l.SetConsole(&second)
	l.Info("two")

	assert.Equal(t, "[INFO] one\n", first.String())
	assert.Equal(t, "[INFO] two\n", second.String())
}

func TestNilLogger(t *testing.T) {
	var l *Logger

	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Section("x")
		l.SetVerbose(true)
	})
	assert.False(t, l.IsVerbose())
	assert.NoError(t, l.Close())
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() { l.Warn("discarded") })
	assert.NoError(t, l.Close())
}

func TestSetup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := Setup(dir, false)
	require.NoError(t, err)

	l.Warn("persisted %d", 1)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "[WARN] persisted 1\n", string(data))

	// Writes after Close are dropped.
	assert.NotPanics(t, func() { l.Info("late") })
}

func TestSetup_InvalidDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0600))

	_, err := Setup(filepath.Join(f, "logs"), false)
	assert.Error(t, err)
}
