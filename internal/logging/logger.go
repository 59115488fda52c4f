package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger writes structured JSON log lines.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	level  Level
	fields map[string]interface{}
}

// Default is the package-level logger used by the convenience functions.
var Default = New()

func New() *Logger {
	return &Logger{
		output: os.Stdout,
		level:  LevelInfo,
		fields: make(map[string]interface{}),
	}
}

func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	return l
}

func (l *Logger) SetLevel(level Level) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	return l
}

// WithFields returns a child logger that always carries the given fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{output: l.output, level: l.level, fields: merged}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) log(level Level, msg string, additional ...map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}

	if len(l.fields) > 0 || len(additional) > 0 {
		e.Fields = make(map[string]interface{}, len(l.fields))
		for k, v := range l.fields {
			e.Fields[k] = v
		}
		for _, m := range additional {
			for k, v := range m {
				e.Fields[k] = v
			}
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = l.output.Write(data)
}

// Package-level convenience functions over Default.

func Debug(msg string, fields ...map[string]interface{}) { Default.Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { Default.Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { Default.Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { Default.Error(msg, fields...) }
