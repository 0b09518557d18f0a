package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func jsonLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: "json"}, "flowkit-test", &buf)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json", Output: "stdout"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestJSONOutput_Fields(t *testing.T) {
	l, buf := jsonLogger(t, "debug")
	l.WithComponent(ComponentPipeline).Info("node completed", Fields(FieldNode, "Blur", FieldSlices, 3))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["message"] != "node completed" {
		t.Errorf("unexpected message %v", got["message"])
	}
	if got[FieldComponent] != ComponentPipeline {
		t.Errorf("expected component=pipeline, got %v", got[FieldComponent])
	}
	if got[FieldNode] != "Blur" {
		t.Errorf("expected node=Blur, got %v", got[FieldNode])
	}
	if got[FieldService] != "flowkit-test" {
		t.Errorf("expected service field, got %v", got[FieldService])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := jsonLogger(t, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	if n := len(decodeLines(t, buf)); n != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", n)
	}
	if l.Enabled(zerolog.DebugLevel) {
		t.Error("debug should be disabled at warn level")
	}
	if !l.Enabled(zerolog.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}

func TestWithContext(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	ctx := ContextWithPipeline(context.Background(), "pipe-1", "run-7")
	l.WithContext(ctx).Info("run started")

	got := decodeLines(t, buf)[0]
	if got[FieldPipelineID] != "pipe-1" || got[FieldRunID] != "run-7" {
		t.Errorf("expected pipeline/run ids, got %v", got)
	}
}

func TestWithContext_Empty(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithContext(context.Background()).Info("plain")

	got := decodeLines(t, buf)[0]
	if _, ok := got[FieldRunID]; ok {
		t.Error("expected no run id")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(errors.New("boom")).Error("failed")

	got := decodeLines(t, buf)[0]
	if got["key"] != "value" {
		t.Errorf("expected key=value, got %v", got["key"])
	}
	if got["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", got["error"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("dropped")
	if l.Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger should not be enabled")
	}
}

func TestInit(t *testing.T) {
	Init(Config{Level: "info", Format: "json", Output: "stdout", ServiceName: "init-svc"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "init-svc" {
		t.Errorf("expected service from config, got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(Config{Level: "debug", Format: "console", Output: "stdout"})
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	if WithComponent("x") == nil {
		t.Fatal("expected component logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"pretty", Config{Level: "debug", Format: "pretty"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "pipeline", &buf)
	l.Info("hello", Fields("node", "Blur"))

	out := buf.String()
	if !strings.Contains(out, "[PIP][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "node:") {
		t.Errorf("expected message and field, got %q", out)
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("registered")
	Register("custom-component", l)
	if Get("custom-component") != l {
		t.Error("expected registered logger")
	}
	found := false
	for _, n := range Names() {
		if n == "custom-component" {
			found = true
		}
	}
	if !found {
		t.Error("expected name in Names()")
	}
}

func TestGetUnregistered(t *testing.T) {
	if Get("never-registered") == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestRegisterDefaults(t *testing.T) {
	RegisterDefaults()
	for _, name := range []string{ComponentPipeline, ComponentNode, ComponentLoader, ComponentTask, ComponentServer, ComponentTelemetry} {
		registry.mu.RLock()
		_, ok := registry.loggers[name]
		registry.mu.RUnlock()
		if !ok {
			t.Errorf("expected %q registered", name)
		}
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored-key-not-string", "dangling")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
	if len(m) != 2 {
		t.Errorf("expected 2 fields, got %d", len(m))
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("process", errors.New("bad"))
	if ef[FieldOperation] != "process" || ef[FieldError] != "bad" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("process", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("unexpected merged fields %v", merged)
	}
}

func TestOutputWriter(t *testing.T) {
	if outputWriter("stderr") != os.Stderr {
		t.Error("expected stderr")
	}
	if outputWriter("anything") != os.Stdout {
		t.Error("expected stdout default")
	}
}
