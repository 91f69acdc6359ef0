package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	t.Cleanup(reset)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	return &buf
}

func TestSetVerbose(t *testing.T) {
	t.Cleanup(reset)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Contains(t, buf.String(), "DEBU")
	assert.Contains(t, buf.String(), "test message arg")
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden %d", 1)
	Info("hidden %d", 2)

	assert.Empty(t, buf.String())
}

func TestInfo_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Info("page %d of %d", 3, 7)

	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "page 3 of 7")
}

func TestWarnAndError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("strategy %q unknown", "chapter")
	Error("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, `strategy "chapter" unknown`)
	assert.Contains(t, out, "ERRO")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, prefix)
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Cleaning")
	assert.Equal(t, "\n=== Cleaning ===\n", buf.String())
}

func TestSection_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Section("Cleaning")
	assert.Empty(t, buf.String())
}

func TestSetOutput_KeepsLevel(t *testing.T) {
	t.Cleanup(reset)

	SetVerbose(true)
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("after swap")
	assert.Contains(t, buf.String(), "after swap")
}
