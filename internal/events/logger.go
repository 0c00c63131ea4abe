package events

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents logging severity.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Config controls logger behavior.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	File   string // log file path; empty logs to stderr

	// Rotation settings, used when File is set.
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// Logger provides structured leveled logging. A Logger is immutable;
// WithField and friends return derived loggers sharing the output.
type Logger struct {
	mu     *sync.Mutex
	level  LogLevel
	format string
	output io.Writer
	fields map[string]interface{}
}

// New creates a logger from config.
func New(cfg *Config) *Logger {
	var output io.Writer = os.Stderr
	if cfg.File != "" {
		output = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
	}

	return &Logger{
		mu:     &sync.Mutex{},
		level:  parseLevel(cfg.Level),
		format: cfg.Format,
		output: output,
		fields: map[string]interface{}{},
	}
}

// NewTestLogger creates a logger writing to the given sink, for tests.
func NewTestLogger(level LogLevel, format string, output io.Writer) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		level:  level,
		format: format,
		output: output,
		fields: map[string]interface{}{},
	}
}

// WithField returns a logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		mu:     l.mu,
		level:  l.level,
		format: l.format,
		output: l.output,
		fields: merged,
	}
}

// WithError adds an error field.
func (l *Logger) WithError(err error) *Logger {
	return l.WithField("error", err.Error())
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string) { l.log(DebugLevel, msg) }

// Info logs at info level.
func (l *Logger) Info(msg string) { l.log(InfoLevel, msg) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string) { l.log(WarnLevel, msg) }

// Error logs at error level.
func (l *Logger) Error(msg string) { l.log(ErrorLevel, msg) }

func (l *Logger) log(level LogLevel, msg string) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == "json" {
		l.writeJSON(level, msg)
	} else {
		l.writeText(level, msg)
	}
}

func (l *Logger) writeJSON(level LogLevel, msg string) {
	entry := map[string]interface{}{
		"time":  time.Now().UTC().Format(time.RFC3339Nano),
		"level": levelString(level),
		"msg":   msg,
	}
	for k, v := range l.fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.output, `{"level":"error","msg":"marshal log entry: %v"}`+"\n", err)
		return
	}
	_, _ = l.output.Write(append(data, '\n'))
}

func (l *Logger) writeText(level LogLevel, msg string) {
	// Format: TIME [LEVEL] Message key=value key=value
	fmt.Fprintf(l.output, "%s [%s] %s",
		time.Now().UTC().Format(time.RFC3339),
		strings.ToUpper(levelString(level)),
		msg,
	)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(l.output, " %s=%v", k, l.fields[k])
	}

	fmt.Fprintln(l.output)
}

func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func levelString(l LogLevel) string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}
