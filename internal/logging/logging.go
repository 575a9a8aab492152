// Package logging builds the zap logger used by the savings-plan binaries.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/savings-plan/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a configured level name onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
}

// New builds the service logger. A non-empty override replaces
// loggingConfig.Level; an empty level logs at info. config.Load already
// lowers the level to debug when debug mode is on and no level is set, so
// binaries pass the loaded LoggingConfig straight through. Format "json"
// (the default) uses zap's production encoder and "console" its development
// encoder. With OutputFile set, both regular and internal zap errors go to
// that file, whose directory is created when missing.
func New(loggingConfig config.LoggingConfig, override string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if override != "" {
		level = override
	}
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zapConfig, err := encoderConfig(loggingConfig.Format)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if err := ensureWritable(loggingConfig.OutputFile); err != nil {
			return nil, err
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func encoderConfig(format string) (zap.Config, error) {
	switch format {
	case "", "json":
		return zap.NewProductionConfig(), nil
	case "console":
		return zap.NewDevelopmentConfig(), nil
	}
	return zap.Config{}, fmt.Errorf("invalid log format: %s", format)
}

// ensureWritable fails when the log file cannot be opened for append.
func ensureWritable(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
