// Package logger wraps zap's SugaredLogger with a process-wide default.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	global *Logger
)

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// Init builds the global logger writing to stderr. env "production" selects
// JSON output; anything else is the colored development console.
func Init(level, env string) error {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	set(&Logger{SugaredLogger: l.Sugar()})
	return nil
}

// InitFile builds the global logger writing JSON lines to path. The TUI uses
// this so log output never lands on the alternate screen.
func InitFile(level, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("building file logger: %w", err)
	}
	set(&Logger{SugaredLogger: l.Sugar()})
	return nil
}

// New wraps an existing zap logger, mainly for tests.
func New(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(zap.NewNop())
}

// Get returns the global logger, falling back to a development logger.
func Get() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		l, _ := zap.NewDevelopment()
		global = &Logger{SugaredLogger: l.Sugar()}
	}
	return global
}

// With creates a child logger with additional key/value fields.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return global.Sync()
	}
	return nil
}

func set(l *Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

func parseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
