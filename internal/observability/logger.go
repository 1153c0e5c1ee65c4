// Package observability builds the application loggers.
package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide CLI logger, set once by NewCLILogger from
// the root command. Core packages receive it as a constructor argument
// and never read this variable themselves.
var Logger *zap.Logger

// NewCLILogger builds a console logger writing to stderr, optionally
// duplicated to a log file. verbose forces debug level regardless of
// the configured level.
func NewCLILogger(level, file string, verbose bool) (*zap.Logger, error) {
	lvl := parseLevel(level)
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	outputs := []string{"stderr"}
	if file == "" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// One encoder serves every sink; drop color codes so the log
		// file stays readable.
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		outputs = append(outputs, file)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// NewServerLogger builds a JSON logger for the status server.
func NewServerLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build server logger: %w", err)
	}
	return logger, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
