// Package sfflog builds the zap.SugaredLogger used across sffkit for the
// non-fatal diagnostics of the sff and act loaders (bad link indices,
// duplicate palettes, short ACT files), replacing the teacher's fmt.Printf
// diagnostics. The atlas packer does not log; its height-doubling retry
// is silent.
package sfflog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely sffkit logs.
type Config struct {
	// FilePath, when non-empty, sends logs to a rotated file instead of
	// stderr.
	FilePath   string
	MaxSizeMB  int // default 10
	MaxBackups int // default 3
	MaxAgeDays int // default 28
	Verbose    bool
}

// New builds a SugaredLogger per Config. Callers that don't care about
// logging (library use of internal/sff directly) can simply pass a nil
// *zap.SugaredLogger to that package's Options instead of calling this.
func New(cfg Config) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	if cfg.FilePath != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		})
	} else {
		sink = zapcore.Lock(zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), sink, level)
	return zap.New(core).Sugar(), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
