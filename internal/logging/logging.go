// Package logging builds the diagnostic logger used by eccstat. Diagnostics
// go to stderr so stdout stays reserved for table and NDJSON output.
package logging

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger level and appearance
type Options struct {
	// Verbose enables DEBUG messages
	Verbose bool
	// Quiet keeps only ERROR messages; it wins over Verbose
	Quiet bool
	// Colors enables colored level names
	Colors bool
	// Datetime prefixes each entry with an ISO8601 timestamp
	Datetime bool
}

// Level returns the minimum level for the options
func (o Options) Level() zapcore.Level {
	switch {
	case o.Quiet:
		return zapcore.ErrorLevel
	case o.Verbose:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func (o Options) encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	if o.Datetime {
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		// Empty time encoder function (to disable date/time logging)
		cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {}
	}

	if o.Colors {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg
}

// New builds a console logger writing to stderr
func New(opts Options) (*zap.SugaredLogger, error) {
	zapConfig := zap.NewProductionConfig()

	// Use human-readable messages instead of JSON
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig = opts.encoderConfig()
	zapConfig.DisableStacktrace = !opts.Verbose
	zapConfig.DisableCaller = !opts.Verbose
	zapConfig.Sampling = nil
	zapConfig.Level.SetLevel(opts.Level())
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	unsugared, err := zapConfig.Build()
	if err != nil {
		return nil, errors.Wrap(err, "error while constructing a logger")
	}
	return unsugared.Sugar(), nil
}

// NewWriter builds a console logger writing to w
func NewWriter(w io.Writer, opts Options) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(opts.encoderConfig()),
		zapcore.AddSync(w),
		opts.Level(),
	)
	return zap.New(core).Sugar()
}
