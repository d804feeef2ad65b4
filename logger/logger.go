// Package logger holds the process-wide structured logger. It is silent until
// InitLogger is called, so library callers see no output by default.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = zap.NewNop().Sugar()

type Config struct {
	Level      string // debug, info, warn, error
	File       string // optional JSON log file, rotated
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// InitLogger replaces Logger with a console logger on stderr, teed into a
// rotating JSON file when cfg.File is set
func InitLogger(cfg Config) (err error) {
	var level zapcore.Level
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if err = level.UnmarshalText([]byte(cfg.Level)); err != nil {
		err = fmt.Errorf("logger: level %q: %w", cfg.Level, err)
		return
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level),
	}
	if cfg.File != "" {
		sink := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(sink), level))
	}
	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
	return
}

// Sync flushes buffered entries, call before exit
func Sync() {
	_ = Logger.Sync()
}
