package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", TraceLevel},
		{"DEBUG", DebugLevel},
		{"", InfoLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func newBufferLogger(buf *bytes.Buffer, cfg Config) *Logger {
	return &Logger{config: cfg, out: buf}
}

func TestLoggerPrettyFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, Config{Level: InfoLevel, Component: "rsaforge"})

	entry := Entry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "bundle generated",
		Component: "rsaforge",
		Fields:    map[string]interface{}{"service": "glaszetter", "attempt": 2},
	}

	result := l.formatPretty(entry)
	assert.Equal(t, "2025-01-01 12:00:00 [INFO] rsaforge: bundle generated {attempt=2, service=glaszetter}", result)
}

func TestLoggerDryRunMarker(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, Config{Level: InfoLevel, NoOp: true})
	l.Log(InfoLevel, "would create campaign")
	assert.Contains(t, buf.String(), "[DRY-RUN] would create campaign")
}

func TestLoggerJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, Config{Level: InfoLevel, JSON: true, Component: "rsaforge"})

	l.Log(InfoLevel, "gate scored", Float("total", 84), Strings("relaxed", []string{"Glaszetter 1"}))

	var parsed Entry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed))
	assert.Equal(t, "gate scored", parsed.Message)
	assert.Equal(t, "INFO", parsed.Level)
	assert.Equal(t, "rsaforge", parsed.Component)
	assert.Equal(t, 84.0, parsed.Fields["total"])
	assert.Equal(t, []interface{}{"Glaszetter 1"}, parsed.Fields["relaxed"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, Config{Level: WarnLevel})

	l.Log(InfoLevel, "info message")
	l.Log(DebugLevel, "debug message")
	l.Log(WarnLevel, "warn message")
	l.Log(ErrorLevel, "error message")

	output := buf.String()
	assert.NotContains(t, output, "info message")
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "key", Value: "value"}, String("key", "value"))
	assert.Equal(t, Field{Key: "count", Value: 42}, Int("count", 42))
	assert.Equal(t, Field{Key: "score", Value: 0.5}, Float("score", 0.5))
	assert.Equal(t, Field{Key: "enabled", Value: true}, Bool("enabled", true))

	src := []string{"a", "b"}
	f := Strings("items", src)
	src[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, f.Value)
}

func TestErrField(t *testing.T) {
	assert.Equal(t, Field{Key: "error", Value: "boom"}, Err(errors.New("boom")))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestConvenienceFunctions(t *testing.T) {
	require.NoError(t, Initialize(Config{Level: InfoLevel, Component: "test"}))

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("info line")
	Debug("debug line")
	Warn("warn line")

	output := buf.String()
	assert.Contains(t, output, "info line")
	assert.Contains(t, output, "warn line")
	assert.NotContains(t, output, "debug line")
	assert.True(t, Enabled(WarnLevel))
	assert.False(t, Enabled(TraceLevel))
}

func TestLoggerColorAndCaller(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, Config{Level: TraceLevel, UseColor: true})
	l.Log(DebugLevel, "allocating")

	out := buf.String()
	assert.Contains(t, out, "[\033[36mDEBUG\033[0m] allocating")
	assert.Contains(t, out, "logger_test.go:")
}

func TestFallbackLogging(t *testing.T) {
	original := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = original }()

	assert.NotPanics(t, func() {
		Info("fallback test message")
		Warn("dropped")
	})
	assert.False(t, Enabled(ErrorLevel))
}
