package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ChicagoDave/phppkit/internal/config"
	"github.com/ChicagoDave/phppkit/pkg/validation"
)

func TestNewLevels(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := New(config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if l.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("%s: info should be disabled at warn", format)
		}
		if !l.Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("%s: error should be enabled at warn", format)
		}
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestReport(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := validation.NewReport()
	r.AddError(validation.Result{Level: validation.LevelSchema, Message: "bad", Path: "offsets[0].base"})
	r.Warnf(validation.LevelGeometry, validation.KindGeometryResolution, "dhw.branches[0].pipe_segments[1]", "unknown handle")

	Report(zap.New(core), r)

	if logs.Len() != 3 {
		t.Fatalf("logged %d entries, want 3", logs.Len())
	}
	if got := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); got != 1 {
		t.Errorf("errors logged = %d, want 1", got)
	}
	w := logs.FilterMessage("unknown handle").All()
	if len(w) != 1 || w[0].ContextMap()["kind"] != "geometry_resolution" {
		t.Errorf("warning entry = %+v", w)
	}
	last := logs.All()[2]
	if last.ContextMap()["valid"] != false {
		t.Errorf("summary entry = %+v", last.ContextMap())
	}
}
