// Package log wires up the zap loggers shared by the rest of the module. All
// loggers hang off a single root whose level can be changed at runtime;
// setting ROICHECK_DEBUG=1 starts it at debug level.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const debugEnv = "ROICHECK_DEBUG"

var (
	level = zap.NewAtomicLevelAt(levelFromEnv())
	root  = mustBuild(level)
)

func levelFromEnv() zapcore.Level {
	if os.Getenv(debugEnv) == "1" {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// New builds a standalone JSON logger writing to stderr at the given level.
func New(lvl zapcore.Level) (*zap.Logger, error) {
	return config(zap.NewAtomicLevelAt(lvl)).Build()
}

func config(lvl zap.AtomicLevel) zap.Config {
	return zap.Config{
		Level:       lvl,
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
}

func mustBuild(lvl zap.AtomicLevel) *zap.Logger {
	l, err := config(lvl).Build()
	if err != nil {
		panic(err)
	}
	return l
}

// Named returns a child of the root logger tagged with the given name.
func Named(name string) *zap.Logger { return root.Named(name) }

// SetLevel changes the level of the root logger and every logger derived from
// it.
func SetLevel(lvl zapcore.Level) { level.SetLevel(lvl) }

// Level reports the root logger's current level.
func Level() zapcore.Level { return level.Level() }

// Sync flushes buffered log entries. Errors from syncing stderr are ignored.
func Sync() { _ = root.Sync() }
