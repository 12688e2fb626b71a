package log

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// bufferSize bounds the number of entries awaiting delivery.
const bufferSize = 1024

// Logger emits structured entries through an async Buffer. Loggers derived
// with With share the parent's buffer and level.
type Logger struct {
	level  *atomic.Int32
	buffer *Buffer
	// base is never mutated after construction.
	base map[string]any
}

// New creates a logger writing entries at or above level to transporters.
func New(level Level, transporters ...Transporter) *Logger {
	l := &Logger{
		level:  new(atomic.Int32),
		buffer: NewBuffer(bufferSize, transporters...),
	}
	l.level.Store(int32(level))
	return l
}

// SetLevel changes the minimum level for l and every logger derived from it.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// With returns a logger that adds keysAndValues to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	base := make(map[string]any, len(l.base)+len(keysAndValues)/2)
	for k, v := range l.base {
		base[k] = v
	}
	addPairs(base, keysAndValues)
	return &Logger{level: l.level, buffer: l.buffer, base: base}
}

// Dropped reports how many entries were lost to buffer overflow.
func (l *Logger) Dropped() int64 {
	return l.buffer.DroppedCount()
}

// Close flushes queued entries and stops delivery.
func (l *Logger) Close() {
	l.buffer.Close()
}

// emit builds and queues an entry. depth counts the frames from emit up to
// the call site being recorded.
func (l *Logger) emit(depth int, ctx context.Context, level Level, msg string, keysAndValues []any) {
	if !l.Level().Enables(level) {
		return
	}

	entry := NewEntry(level, msg)
	entry.Caller = callerAt(depth)
	for k, v := range l.base {
		entry.Fields[k] = v
	}
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			setField(entry.Fields, k, v)
		}
	}
	addPairs(entry.Fields, keysAndValues)

	l.buffer.Send(*entry)
}

// addPairs copies alternating key/value arguments into fields, skipping
// non-string keys and a trailing key without a value.
func addPairs(fields map[string]any, keysAndValues []any) {
	for i := 1; i < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i-1].(string); ok {
			setField(fields, key, keysAndValues[i])
		}
	}
}

// callerAt formats the file:line of the frame skip levels above the
// function that called callerAt.
func callerAt(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

func (l *Logger) Trace(msg string, keysAndValues ...any) { l.emit(2, nil, Trace, msg, keysAndValues) }
func (l *Logger) Debug(msg string, keysAndValues ...any) { l.emit(2, nil, Debug, msg, keysAndValues) }
func (l *Logger) Info(msg string, keysAndValues ...any) { l.emit(2, nil, Info, msg, keysAndValues) }
func (l *Logger) Warn(msg string, keysAndValues ...any) { l.emit(2, nil, Warn, msg, keysAndValues) }
func (l *Logger) Error(msg string, keysAndValues ...any) { l.emit(2, nil, Error, msg, keysAndValues) }

// Fatal logs at Fatal level. It does not exit.
func (l *Logger) Fatal(msg string, keysAndValues ...any) { l.emit(2, nil, Fatal, msg, keysAndValues) }

// The Ctx variants also pick up the request ID and fields carried by ctx.

func (l *Logger) DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(2, ctx, Debug, msg, keysAndValues)
}

func (l *Logger) InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(2, ctx, Info, msg, keysAndValues)
}

func (l *Logger) WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(2, ctx, Warn, msg, keysAndValues)
}

func (l *Logger) ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(2, ctx, Error, msg, keysAndValues)
}

// --- process-wide logger ---

var (
	globalMu     sync.RWMutex
	globalLogger *Logger

	discardOnce sync.Once
	discard     *Logger
)

type discardTransporter struct{}

func (discardTransporter) Name() string      { return "discard" }
func (discardTransporter) Write(Entry) error { return nil }
func (discardTransporter) Close() error      { return nil }

// SetDefault installs l as the process-wide logger. nil restores the
// discarding logger.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the process-wide logger. Until SetDefault is called it
// returns a shared logger that discards everything.
func Default() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}
	discardOnce.Do(func() {
		discard = New(Fatal+1, discardTransporter{})
	})
	return discard
}

func GlobalInfo(msg string, keysAndValues ...any) {
	Default().emit(2, nil, Info, msg, keysAndValues)
}

func GlobalWarn(msg string, keysAndValues ...any) {
	Default().emit(2, nil, Warn, msg, keysAndValues)
}

func GlobalError(msg string, keysAndValues ...any) {
	Default().emit(2, nil, Error, msg, keysAndValues)
}

func GlobalDebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(2, ctx, Debug, msg, keysAndValues)
}

func GlobalInfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(2, ctx, Info, msg, keysAndValues)
}

func GlobalWarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(2, ctx, Warn, msg, keysAndValues)
}

func GlobalErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(2, ctx, Error, msg, keysAndValues)
}
