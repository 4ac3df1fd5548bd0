// Package logging builds the zap logger and reports validation findings
// through it.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChicagoDave/phppkit/internal/config"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

// New builds a logger from cfg. "json" gives production output, anything
// else the console encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// Report logs every error and warning in r, then the summary.
func Report(logger *zap.Logger, r *validation.Report) {
	if r == nil {
		return
	}
	for _, e := range r.Errors {
		logger.Error(e.Message, fields(e)...)
	}
	for _, w := range r.Warnings {
		logger.Warn(w.Message, fields(w)...)
	}
	for _, i := range r.Info {
		logger.Debug(i.Message, fields(i)...)
	}
	logger.Info("validation finished", zap.Bool("valid", r.Valid), zap.String("summary", r.Summary))
}

func fields(r validation.Result) []zap.Field {
	fs := []zap.Field{zap.String("level", string(r.Level))}
	if r.Kind != "" {
		fs = append(fs, zap.String("kind", string(r.Kind)))
	}
	if r.Path != "" {
		fs = append(fs, zap.String("path", r.Path))
	}
	if r.ActualValue != nil {
		fs = append(fs, zap.Any("value", r.ActualValue))
	}
	return fs
}
