package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's sugared logger with the key-value call style
// used throughout the project.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger writing to stderr. Verbose mode
// lowers the level to debug.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// the development config cannot fail to build; fall back anyway
		return &Logger{zap.NewNop().Sugar()}
	}
	return &Logger{logger.Sugar()}
}

// Nop returns a logger that discards everything. Useful as a default
// for library consumers that do not care about diagnostics.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
