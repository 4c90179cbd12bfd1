package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"golang.org/x/term"
)

// Config selects how bgreport logs.
type Config struct {
	Format    string    // json, console or auto (console when Output is a terminal)
	Level     string    // trace, debug, info, warn, error or disabled
	Component string    // command name attached to every event
	FilePath  string    // optional file receiving a JSON copy of every event
	Output    io.Writer // defaults to os.Stderr
}

const (
	logDirPerm  os.FileMode = 0o700
	logFilePerm os.FileMode = 0o600
)

type requestIDKey struct{}

// sink is the process-wide logging destination.
type sink struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	file   *os.File
}

var (
	current = &sink{}

	isTerminalFn = term.IsTerminal
)

func init() {
	current.logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	log.Logger = current.logger
}

// Init replaces the global logger. The previous log file, if any, is closed
// once the new destination is in place.
func Init(cfg Config) (zerolog.Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return log.Logger, err
	}
	file, err := openLogFile(cfg.FilePath)
	if err != nil {
		return log.Logger, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(level)

	writer := formatWriter(cfg.Format, out)
	if file != nil {
		writer = zerolog.MultiLevelWriter(writer, file)
	}
	lc := zerolog.New(writer).With().Timestamp()
	component := strings.TrimSpace(cfg.Component)
	if component != "" {
		lc = lc.Str("component", component)
	}

	current.mu.Lock()
	previous := current.file
	current.logger = lc.Logger()
	current.file = file
	log.Logger = current.logger
	current.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return current.logger, nil
}

// Shutdown flushes and closes the log file.
func Shutdown() {
	current.mu.Lock()
	defer current.mu.Unlock()
	if current.file == nil {
		return
	}
	if err := current.file.Sync(); err != nil && !errors.Is(err, os.ErrClosed) {
		fmt.Fprintf(os.Stderr, "logging: sync log file: %v\n", err)
	}
	_ = current.file.Close()
	current.file = nil
}

// Enabled reports whether events at level would be written.
func Enabled(level zerolog.Level) bool {
	return level >= zerolog.GlobalLevel()
}

// WithRequestID attaches id to ctx, generating one when id is blank.
func WithRequestID(ctx context.Context, id string) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id = strings.TrimSpace(id); id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, id), id
}

// RequestID returns the request ID carried by ctx.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns the global logger, tagged with ctx's request ID.
func FromContext(ctx context.Context) zerolog.Logger {
	current.mu.RLock()
	logger := current.logger
	current.mu.RUnlock()

	if id := RequestID(ctx); id != "" {
		return logger.With().Str("request_id", id).Logger()
	}
	return logger
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func formatWriter(format string, out io.Writer) io.Writer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case "auto", "":
		if f, ok := out.(*os.File); ok && isTerminalFn(int(f.Fd())) {
			return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
		}
	}
	return out
}

// openLogFile opens path for appending, creating its directory. Symlinks and
// other non-regular files are refused. A blank path yields nil.
func openLogFile(path string) (*os.File, error) {
	if path = strings.TrimSpace(path); path == "" {
		return nil, nil
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), logDirPerm); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return nil, fmt.Errorf("log file %s is a symlink", path)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("log file %s is not a regular file", path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
