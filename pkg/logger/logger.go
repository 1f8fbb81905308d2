// Package logger is the process-wide structured logger for rsaforge. Output
// goes to stderr so generated reports on stdout stay machine-readable; lines
// are either human text or one JSON object each.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level orders messages by severity; a logger drops anything below its own.
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

// ANSI colors for the pretty format.
var levelColors = map[string]string{
	"TRACE": "37",
	"DEBUG": "36",
	"INFO":  "32",
	"WARN":  "33",
	"ERROR": "31",
}

func (l Level) String() string {
	if l < TraceLevel || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a --log-level value onto a Level. Matching is case-insensitive
// and an empty value means info.
func ParseLevel(s string) (Level, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "info":
		return InfoLevel, nil
	case "warning":
		return WarnLevel, nil
	default:
		for i, name := range levelNames {
			if strings.ToLower(name) == v {
				return Level(i), nil
			}
		}
	}
	return InfoLevel, fmt.Errorf("unknown log level %q (want trace, debug, info, warn or error)", s)
}

// Config selects the threshold and output format. NoOp tags every pretty line
// as a dry run.
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	NoOp      bool
}

// Logger serializes writes from concurrent batch workers onto one writer.
type Logger struct {
	config Config
	mu     sync.Mutex
	out    io.Writer
}

var defaultLogger *Logger

// Initialize replaces the process logger. It writes to stderr until
// SetOutput says otherwise.
func Initialize(config Config) error {
	defaultLogger = &Logger{config: config, out: os.Stderr}
	return nil
}

// Enabled reports whether a message at level would be written. Callers use it
// to skip building fields for hot-path trace lines.
func Enabled(level Level) bool {
	return defaultLogger != nil && level >= defaultLogger.config.Level
}

// Log writes one line. Trace and debug lines carry the caller's file and line.
func (l *Logger) Log(level Level, message string, fields ...Field) {
	l.write(level, message, fields, 2)
}

// write skips callerSkip frames above itself to find the caller to report.
func (l *Logger) write(level Level, message string, fields []Field, callerSkip int) {
	if level < l.config.Level {
		return
	}
	entry := Entry{
		Time:      time.Now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
		Fields:    make(map[string]interface{}, len(fields)),
	}
	if level <= DebugLevel {
		if _, file, line, ok := runtime.Caller(callerSkip); ok {
			entry.File, entry.Line = file, line
		}
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	var line string
	if l.config.JSON {
		data, _ := json.Marshal(entry)
		line = string(data)
	} else {
		line = l.formatPretty(entry)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}

func (l *Logger) paint(code, text string) string {
	if !l.config.UseColor || code == "" {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

// formatPretty renders "time [LEVEL] component: message {k=v, ...} (file:line)"
// with fields in key order.
func (l *Logger) formatPretty(entry Entry) string {
	var sb strings.Builder
	sb.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, " [%s]", l.paint(levelColors[entry.Level], entry.Level))
	if entry.Component != "" {
		fmt.Fprintf(&sb, " %s:", entry.Component)
	}
	if l.config.NoOp {
		sb.WriteString(" " + l.paint("35", "[DRY-RUN]"))
	}
	sb.WriteString(" " + entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Fields[k])
		}
		sb.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	if entry.File != "" {
		fmt.Fprintf(&sb, " (%s:%d)", entry.File, entry.Line)
	}
	return sb.String()
}

// Field is one key/value attached to a line.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Float(key string, value float64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Strings copies values so later mutation by the caller does not leak into a
// line still being written.
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: append([]string(nil), values...)}
}

// Err stores the error text under "error"; a nil error logs as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Entry is one rendered line; its JSON form is what --json-logs emits.
type Entry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	File      string                 `json:"file,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func logAt(level Level, message string, fields []Field) {
	if defaultLogger != nil {
		defaultLogger.write(level, message, fields, 3)
	}
}

// Trace, Debug, Warn and Error are dropped before Initialize. Info falls back
// to a bare stderr line so startup messages are never lost.

func Trace(message string, fields ...Field) { logAt(TraceLevel, message, fields) }

func Debug(message string, fields ...Field) { logAt(DebugLevel, message, fields) }

func Info(message string, fields ...Field) {
	if defaultLogger == nil {
		fmt.Fprintf(os.Stderr, "[INFO] rsaforge: %s\n", message)
		return
	}
	logAt(InfoLevel, message, fields)
}

func Warn(message string, fields ...Field) { logAt(WarnLevel, message, fields) }

func Error(message string, fields ...Field) { logAt(ErrorLevel, message, fields) }

// SetOutput redirects the process logger, mainly for tests.
func SetOutput(w io.Writer) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out = w
}
