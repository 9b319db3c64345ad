package logging

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
)

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Level orders log lines by importance.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

var threshold atomic.Int32

func init() { threshold.Store(int32(LevelInfo)) }

// SetLevel drops lines below the named level. Unknown names keep info.
func SetLevel(name string) {
	lvl := LevelInfo
	for i, n := range levelNames {
		if strings.EqualFold(name, n) {
			lvl = Level(i)
		}
	}
	threshold.Store(int32(lvl))
}

// Logger writes bracketed key=value lines tagged with a request id.
type Logger struct {
	requestID string
	fields    string
}

// FromContext returns a logger bound to the request id in ctx.
func FromContext(ctx context.Context) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "none"
	}
	return &Logger{requestID: rid}
}

// With returns a copy that appends key=value to every line.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{requestID: l.requestID, fields: fmt.Sprintf("%s %s=%v", l.fields, key, value)}
}

func (l *Logger) emit(lvl Level, operation, msg string) {
	if int32(lvl) < threshold.Load() {
		return
	}
	line := fmt.Sprintf("[%s] request_id=%s operation=%s%s", lvl, l.requestID, operation, l.fields)
	if msg != "" {
		line += " " + msg
	}
	log.Print(line)
}

func (l *Logger) Error(operation string, err error) {
	l.emit(LevelError, operation, fmt.Sprintf("error=%v", err))
}

func (l *Logger) Errorf(operation, format string, args ...any) {
	l.emit(LevelError, operation, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(operation string, err error) {
	l.emit(LevelWarn, operation, fmt.Sprintf("error=%v", err))
}

func (l *Logger) Warnf(operation, format string, args ...any) {
	l.emit(LevelWarn, operation, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(operation, format string, args ...any) {
	l.emit(LevelInfo, operation, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(operation, format string, args ...any) {
	l.emit(LevelDebug, operation, fmt.Sprintf(format, args...))
}
