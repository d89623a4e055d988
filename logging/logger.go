// Package logging builds the zap logger shared by the hosts.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrUnknownLevel is returned for a level name zap does not know.
var ErrUnknownLevel = errors.New("logging: unknown level")

// Options controls logger construction.
type Options struct {
	Level string
	// JSON switches from the console encoder to JSON lines.
	JSON bool
}

// ParseLevel maps a level name to a zap level. An empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zap.InfoLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	case "fatal":
		return zap.FatalLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// New builds a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoding := "console"
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if opts.JSON {
		encoding = "json"
		encoderConfig = zap.NewProductionEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}
