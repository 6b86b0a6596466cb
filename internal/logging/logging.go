// Package logging builds the zap logger used by the a1site binaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	msgKey   = "msg"
	levelKey = "level"
	timeKey  = "ts"
)

type Options struct {
	Level    string // debug, info, warn, error
	Format   string // json or console
	GELFAddr string // optional; entries are teed to this GELF UDP endpoint
	Service  string
}

// New returns a logger and a cleanup func that syncs it and closes the GELF
// connection, if any.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var cfg zap.Config
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	var gw *GELFWriter
	var buildOpts []zap.Option
	if opts.GELFAddr != "" {
		service := opts.Service
		if service == "" {
			service = "a1site"
		}
		gw, err = NewGELFWriter(opts.GELFAddr, service)
		if err != nil {
			return nil, nil, err
		}
		core := gelfCore(gw, cfg.Level)
		buildOpts = append(buildOpts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, core)
		}))
	}

	logger, err := cfg.Build(buildOpts...)
	if err != nil {
		if gw != nil {
			_ = gw.Close()
		}
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	if opts.Service != "" {
		logger = logger.With(zap.String("service", opts.Service))
	}

	cleanup := func() {
		_ = logger.Sync()
		if gw != nil {
			_ = gw.Close()
		}
	}
	return logger, cleanup, nil
}

// gelfCore encodes entries as JSON with epoch-second timestamps, the shape
// GELFWriter.encode expects.
func gelfCore(w *GELFWriter, level zapcore.LevelEnabler) zapcore.Core {
	enc := zapcore.EncoderConfig{
		MessageKey:     msgKey,
		LevelKey:       levelKey,
		TimeKey:        timeKey,
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.EpochTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
}
