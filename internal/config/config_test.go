package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CONSENSUS_DB", "INVOKER_KIND", "INVOKER_ADDR", "OPENAI_BASE_URL", "OPENAI_API_KEY", "CONSENSUS_CALL_DELAY_MS"} {
		t.Setenv(k, "")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.FallbackMaxTokens != 150 || cfg.CallDelayMS != 500 || cfg.HistoryLimit != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if diff := cmp.Diff(integrity.DefaultWeights(), cfg.IntegrityWeights); diff != "" {
		t.Fatalf("weights (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("empty path should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha-small", "beta-large"}, cfg.Backends); diff != "" {
		t.Fatalf("backends (-want +got):\n%s", diff)
	}
	if cfg.Thresholds.Proceed != 0.85 || cfg.Thresholds.Note != 0.4 {
		t.Fatalf("thresholds = %+v", cfg.Thresholds)
	}
	if cfg.Invoker.Kind != "grpc" || cfg.Invoker.Addr != "generator:9000" {
		t.Fatalf("invoker = %+v", cfg.Invoker)
	}
	// untouched fields keep defaults
	if cfg.FallbackMaxTokens != 150 || cfg.Invoker.TimeoutSeconds != 30 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if s, ok := cfg.NewScheduler().(collector.BoundedParallel); !ok || s.Limit != 3 {
		t.Fatalf("expected bounded parallel(3), got %#v", cfg.NewScheduler())
	}
	g := cfg.GateConfig()
	if g.ProceedThreshold != 0.85 || g.NoteThreshold != 0.4 || g.AmbiguityTopic != 0.8 {
		t.Fatalf("gate config = %+v", g)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONSENSUS_DB", "/tmp/x.db")
	t.Setenv("INVOKER_KIND", "grpc")
	t.Setenv("INVOKER_ADDR", "gen:1")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONSENSUS_CALL_DELAY_MS", "0")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.Invoker.Kind != "grpc" || cfg.Invoker.Addr != "gen:1" || cfg.Invoker.APIKey != "sk-test" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.CallDelay() != 0 {
		t.Fatalf("call delay = %v", cfg.CallDelay())
	}
	if s, ok := cfg.NewScheduler().(collector.Sequential); !ok || s.Spacing != 0 {
		t.Fatalf("expected zero-spacing sequential scheduler, got %#v", cfg.NewScheduler())
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("backends: [unterminated"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Fatal("expected parse error")
	}
	empty := filepath.Join(t.TempDir(), "empty-backends.yaml")
	os.WriteFile(empty, []byte("backends: []\n"), 0o644)
	if _, err := Load(empty); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no-backends", func(c *Config) { c.Backends = nil }},
		{"no-default", func(c *Config) { c.DefaultBackend = "" }},
		{"weight-range", func(c *Config) { c.IntegrityWeights.Topic = 1.5 }},
		{"thresholds-order", func(c *Config) { c.Thresholds = Thresholds{Proceed: 0.5, Note: 0.5} }},
		{"scheduler", func(c *Config) { c.Scheduler = "random" }},
		{"parallel-bound", func(c *Config) { c.Scheduler = "parallel"; c.MaxParallel = 0 }},
		{"invoker-kind", func(c *Config) { c.Invoker.Kind = "carrier-pigeon" }},
		{"negative-delay", func(c *Config) { c.CallDelayMS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	if cfg.CallDelay() != 500*time.Millisecond || cfg.InvokerTimeout() != 30*time.Second {
		t.Fatalf("durations: %v %v", cfg.CallDelay(), cfg.InvokerTimeout())
	}
}
