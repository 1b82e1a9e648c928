// Package logger is the launcher's leveled printf logger. Components derive a
// prefixed child (profile_repo, profiles, worker, http) and pass it down
// through the context so job and request logs carry their origin.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR"}

// ANSI colors per level; cyan, green, yellow, red.
var levelColors = [...]string{DEBUG: "\033[36m", INFO: "\033[32m", WARN: "\033[33m", ERROR: "\033[31m"}

const colorReset = "\033[0m"

func (l Level) String() string {
	if l < DEBUG || l > ERROR {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	level, _ := LookupLevel(s)
	return level
}

// LookupLevel is like ParseLevel but reports whether s named a level. Config
// validation uses it to reject typos instead of silently logging at INFO.
func LookupLevel(s string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return WARN, true
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), true
		}
	}
	return INFO, false
}

// Logger writes one line per message:
//
//	2024-03-01 12:00:00.000 INFO  [profiles] [profile_service.go:120] creating profile: name=alice key=value
//
// Loggers derived with WithPrefix or WithFields share their parent's writer
// and lock, so lines from concurrent workers never interleave.
type Logger struct {
	mu       *sync.Mutex
	out      io.Writer
	level    Level
	prefix   string
	fields   map[string]any
	colorize bool
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.out = w }
}

// WithLevel drops messages below level.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

func WithPrefix(prefix string) Option {
	return func(l *Logger) { l.prefix = prefix }
}

// WithColors wraps the level name in ANSI colors. Off by default since the
// launcher mostly logs to files and pipes.
func WithColors(enabled bool) Option {
	return func(l *Logger) { l.colorize = enabled }
}

// New returns an INFO logger on stderr, adjusted by opts.
func New(opts ...Option) *Logger {
	l := &Logger{
		mu:    &sync.Mutex{},
		out:   os.Stderr,
		level: INFO,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(WithOutput(io.Discard), WithLevel(ERROR+1))
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// SetDefault replaces the process-wide logger. The CLI calls it once after
// loading config.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func (l *Logger) derive() *Logger {
	c := *l
	return &c
}

func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a child logger carrying fields in addition to the
// parent's. Later keys win.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c := l.derive()
	c.fields = merged
	return c
}

// WithError adds err as the "error" field. A nil err returns l unchanged.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// WithPrefix returns a child logger tagged with prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	c := l.derive()
	c.prefix = prefix
	return c
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) Debug(msg string, args ...any) { l.write(DEBUG, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(INFO, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(WARN, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(ERROR, msg, args) }

func Debug(msg string, args ...any) { Default().write(DEBUG, msg, args) }
func Info(msg string, args ...any)  { Default().write(INFO, msg, args) }
func Warn(msg string, args ...any)  { Default().write(WARN, msg, args) }
func Error(msg string, args ...any) { Default().write(ERROR, msg, args) }

// write must be called directly from one of the level methods above; the
// caller lookup skips exactly that frame.
func (l *Logger) write(level Level, msg string, args []any) {
	if !l.Enabled(level) {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(l.levelLabel(level))
	b.WriteByte(' ')
	if l.prefix != "" {
		fmt.Fprintf(&b, "[%s] ", l.prefix)
	}
	if at := callerLocation(3); at != "" {
		fmt.Fprintf(&b, "[%s] ", at)
	}
	if len(args) > 0 {
		fmt.Fprintf(&b, msg, args...)
	} else {
		b.WriteString(msg)
	}
	appendFields(&b, l.fields)
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

func (l *Logger) levelLabel(level Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if !l.colorize || level < DEBUG || level > ERROR {
		return label
	}
	return levelColors[level] + label + colorReset
}

// callerLocation returns "file.go:line" for the frame skip levels up.
func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// appendFields writes " key=value" pairs in key order so log lines diff
// cleanly between runs.
func appendFields(b *strings.Builder, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, fields[k])
	}
}

type ctxKey struct{}

// FromContext returns the logger stored by NewContext, or Default.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
			return l
		}
	}
	return Default()
}

// NewContext stores l in ctx. The worker pool and HTTP middleware use it to
// hand prefixed loggers to jobs and handlers.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
