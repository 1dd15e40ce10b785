// Package logging builds the zap logger shared by the CLI and the ranker.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger writing to stderr at the given level ("debug",
// "info", "warn", "error") in "console" or "json" format.
func New(level, format string) (*zap.Logger, error) {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", level, err)
		}
	}
	var enc zapcore.Encoder
	switch format {
	case "console", "":
		enc = zapcore.NewConsoleEncoder(encoderConfig())
	case "json":
		enc = zapcore.NewJSONEncoder(encoderConfig())
	default:
		return nil, fmt.Errorf("logging: invalid format %q", format)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
