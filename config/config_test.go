package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"

	"github.com/kbukum/flowkit/errors"
)

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestResolveFiles(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]bool
		opts       LoaderConfig
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "service file in config dir",
			files:      map[string]bool{"./config/denoise.yml": true, "./.env": true},
			wantConfig: "./config/denoise.yml",
			wantEnv:    "./.env",
		},
		{
			name:       "service env file preferred",
			files:      map[string]bool{"./.env.denoise": true, "./.env": true},
			wantEnv:    "./.env.denoise",
			wantConfig: "",
		},
		{
			name:       "fallback config",
			files:      map[string]bool{"./flowkit.yml": true},
			wantConfig: "./flowkit.yml",
		},
		{
			name:       "explicit paths win",
			files:      map[string]bool{"./denoise.yml": true},
			opts:       LoaderConfig{ConfigFile: "/etc/denoise.yaml", EnvFile: "/etc/.env"},
			wantConfig: "/etc/denoise.yaml",
			wantEnv:    "/etc/.env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &mockFS{files: tt.files}}
			got := r.ResolveFiles("denoise", tt.opts)
			if got.ConfigFile != tt.wantConfig {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tt.wantConfig)
			}
			if got.EnvFile != tt.wantEnv {
				t.Errorf("EnvFile = %q, want %q", got.EnvFile, tt.wantEnv)
			}
		})
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("EXECUTION_PARALLELISM")
	want := []string{"execution_parallelism", "execution.parallelism"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("envKeyVariants mismatch (-want +got):\n%s", diff)
	}

	if got := envKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("single segment variants = %v", got)
	}

	deep := envKeyVariants("LOGGING_NO_COLOR")
	found := false
	for _, v := range deep {
		if v == "logging.no_color" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected logging.no_color among %v", deep)
	}
}

func TestLoadConfig_EnvFileLoadedThroughFileSystem(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	var cfg EngineConfig
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs), WithEnvPrefix("FLOWKIT_TEST_UNUSED")); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff([]string{"./.env"}, fs.loaded); diff != "" {
		t.Errorf("loaded env files mismatch (-want +got):\n%s", diff)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
name: denoise
environment: production
logging:
  level: warn
  format: json
execution:
  parallelism: 4
  tracing: true
pipelines:
  dirs: ["./defs"]
`)

	cfg, err := Load("denoise", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "denoise" || cfg.Environment != "production" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Debug {
		t.Error("production should not enable debug")
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.ServiceName != "denoise" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Execution.Parallelism != 4 || !cfg.Execution.Tracing {
		t.Errorf("unexpected execution config %+v", cfg.Execution)
	}
	if diff := cmp.Diff([]string{"./defs"}, cfg.Pipelines.Dirs); diff != "" {
		t.Errorf("dirs mismatch (-want +got):\n%s", diff)
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		t.Fatalf("PipelineOptions() error = %v", err)
	}
	if len(opts) != 2 {
		t.Errorf("expected parallelism and tracing options, got %d", len(opts))
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "name: denoise\nexecution:\n  parallelism: 2\n")
	t.Setenv("FLOWKIT_TEST_EXECUTION_PARALLELISM", "8")

	cfg, err := Load("denoise", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Execution.Parallelism != 8 {
		t.Errorf("Parallelism = %d, want 8", cfg.Execution.Parallelism)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "execution:\n  metrics: false\n")

	cfg, err := Load("fallback", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("Name = %q, want fallback", cfg.Name)
	}
	if cfg.Environment != "development" || !cfg.Debug || cfg.Logging.Level != "debug" {
		t.Errorf("unexpected development defaults %+v", cfg.ServiceConfig)
	}
	if diff := cmp.Diff([]string{"./pipelines"}, cfg.Pipelines.Dirs); diff != "" {
		t.Errorf("default dirs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Enabled || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
}

func TestLoad_ServerAndLoader(t *testing.T) {
	dir := t.TempDir()
	def := "name: denoise\nnodes:\n  - operation: Blur\n"
	if err := os.WriteFile(filepath.Join(dir, "denoise.yaml"), []byte(def), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, "name: svc\nserver:\n  enabled: true\n  port: 9090\npipelines:\n  dirs: [\""+dir+"\"]\n")

	cfg, err := Load("svc", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Server.Enabled || cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 15 {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}

	loaded, err := cfg.Loader().Load("denoise")
	if err != nil {
		t.Fatalf("Loader().Load() error = %v", err)
	}
	if loaded.Name != "denoise" || loaded.Nodes[0].Operation != "Blur" {
		t.Errorf("unexpected definition %+v", loaded)
	}
}

func TestLoad_Telemetry(t *testing.T) {
	path := writeConfig(t, `
name: denoise
version: v2.0.0
environment: staging
execution:
  tracing: true
  metrics: true
telemetry:
  tracer:
    endpoint: 127.0.0.1:1
    insecure: true
    sample_rate: 0.25
  meter:
    endpoint: 127.0.0.1:1
    interval: 30s
`)
	cfg, err := Load("denoise", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telemetry.Tracer.SampleRate != 0.25 || !cfg.Telemetry.Tracer.Insecure {
		t.Errorf("unexpected tracer config %+v", cfg.Telemetry.Tracer)
	}
	if cfg.Telemetry.Meter.Interval != 30*time.Second {
		t.Errorf("meter interval = %v, want 30s", cfg.Telemetry.Meter.Interval)
	}

	tp, mp := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})
	providers, err := cfg.StartTelemetry(context.Background())
	if err != nil {
		t.Fatalf("StartTelemetry() error = %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = providers.Shutdown(ctx)
	}()
	if providers.Tracer == nil || providers.Meter == nil {
		t.Fatalf("expected both providers, got %+v", providers)
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		t.Fatalf("PipelineOptions() error = %v", err)
	}
	if len(opts) != 3 {
		t.Errorf("expected parallelism, tracing and metrics options, got %d", len(opts))
	}
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	path := writeConfig(t, "name: svc\ntelemetry:\n  tracer:\n    sample_rate: 2\n")
	if _, err := Load("svc", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST")); err == nil {
		t.Fatal("expected sample rate validation error")
	}
}

func TestLoad_InvalidServerPort(t *testing.T) {
	path := writeConfig(t, "name: svc\nserver:\n  port: 70000\n")
	if _, err := Load("svc", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST")); err == nil {
		t.Fatal("expected server validation error")
	}
}

func TestLoad_InvalidParallelism(t *testing.T) {
	path := writeConfig(t, "name: denoise\nexecution:\n  parallelism: -3\n")

	_, err := Load("denoise", WithConfigFile(path), WithEnvPrefix("FLOWKIT_TEST"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, false},
		{"missing name", ServiceConfig{Environment: "staging"}, true},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
