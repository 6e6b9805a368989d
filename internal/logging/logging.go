package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger writing to stderr.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger logs at debug level when verbose, info otherwise. Colour is only
// used when stderr is a terminal.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return newLogger(zapcore.Lock(os.Stderr), level, isatty.IsTerminal(os.Stderr.Fd()))
}

func newLogger(out zapcore.WriteSyncer, level zapcore.Level, color bool) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, level)
	return &Logger{zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
