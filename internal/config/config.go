package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/collector"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/gate"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/rank"
)

// ErrInvalid is returned by Validate for unusable configurations.
var ErrInvalid = errors.New("invalid config")

// #region types

// Thresholds frame proceeding answers by integrity score.
type Thresholds struct {
	Proceed float64 `yaml:"proceed"`
	Note    float64 `yaml:"note"`
}

// Invoker selects and configures the model invoker.
type Invoker struct {
	Kind           string `yaml:"kind"` // "openai" | "grpc"
	Addr           string `yaml:"addr"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config is the full controller configuration.
type Config struct {
	Backends          []string          `yaml:"backends"`
	DefaultBackend    string            `yaml:"default_backend"`
	FallbackMaxTokens int               `yaml:"fallback_max_tokens"`
	CallDelayMS       int               `yaml:"call_delay_ms"`
	Scheduler         string            `yaml:"scheduler"` // "sequential" | "parallel"
	MaxParallel       int               `yaml:"max_parallel"`
	BrevityBackends   []string          `yaml:"brevity_backends"`
	NuanceBackends    []string          `yaml:"nuance_backends"`
	HistoryLimit      int               `yaml:"history_limit"`
	Thresholds        Thresholds        `yaml:"thresholds"`
	IntegrityWeights  integrity.Weights `yaml:"integrity_weights"`
	SystemPrompt      string            `yaml:"system_prompt"`
	Invoker           Invoker           `yaml:"invoker"`
	DBPath            string            `yaml:"db_path"`
	LogLevel          string            `yaml:"log_level"`
	LogFormat         string            `yaml:"log_format"`
}

// #endregion types

// #region defaults

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backends: []string{
			"mistralai/mistral-7b-instruct",
			"meta-llama/llama-3-8b-instruct",
			"anthropic/claude-3-haiku",
		},
		DefaultBackend:    "meta-llama/llama-3-8b-instruct",
		FallbackMaxTokens: 150,
		CallDelayMS:       500,
		Scheduler:         "sequential",
		MaxParallel:       2,
		BrevityBackends:   []string{"mistral"},
		NuanceBackends:    []string{"claude"},
		HistoryLimit:      10,
		Thresholds:        Thresholds{Proceed: 0.8, Note: 0.5},
		IntegrityWeights:  integrity.DefaultWeights(),
		SystemPrompt:      "You are a helpful, precise assistant. Answer the user's message directly.",
		Invoker: Invoker{
			Kind:           "openai",
			Addr:           "localhost:50051",
			BaseURL:        "https://openrouter.ai/api/v1",
			TimeoutSeconds: 30,
		},
		DBPath:    "consensus.db",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// #endregion defaults

// #region load

// Load reads the YAML file at path over Default, then applies env overrides.
// An empty path skips the file. Reads env vars: CONSENSUS_DB, INVOKER_KIND,
// INVOKER_ADDR, OPENAI_BASE_URL, OPENAI_API_KEY, CONSENSUS_CALL_DELAY_MS.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DBPath = envOr("CONSENSUS_DB", cfg.DBPath)
	cfg.Invoker.Kind = envOr("INVOKER_KIND", cfg.Invoker.Kind)
	cfg.Invoker.Addr = envOr("INVOKER_ADDR", cfg.Invoker.Addr)
	cfg.Invoker.BaseURL = envOr("OPENAI_BASE_URL", cfg.Invoker.BaseURL)
	cfg.Invoker.APIKey = envOr("OPENAI_API_KEY", cfg.Invoker.APIKey)
	if v := os.Getenv("CONSENSUS_CALL_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CallDelayMS = n
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

// #region validate

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return fmt.Errorf("%w: no backends", ErrInvalid)
	}
	if c.DefaultBackend == "" {
		return fmt.Errorf("%w: default_backend is empty", ErrInvalid)
	}
	w := c.IntegrityWeights
	for name, v := range map[string]float64{
		"length": w.Length, "sentiment": w.Sentiment, "topic": w.Topic, "tone": w.Tone,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: integrity weight %s=%v outside [0,1]", ErrInvalid, name, v)
		}
	}
	t := c.Thresholds
	if t.Note < 0 || t.Proceed > 1 || t.Note >= t.Proceed {
		return fmt.Errorf("%w: thresholds note=%v proceed=%v", ErrInvalid, t.Note, t.Proceed)
	}
	switch c.Scheduler {
	case "sequential":
	case "parallel":
		if c.MaxParallel < 1 {
			return fmt.Errorf("%w: max_parallel must be >= 1", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown scheduler %q", ErrInvalid, c.Scheduler)
	}
	switch c.Invoker.Kind {
	case "openai", "grpc":
	default:
		return fmt.Errorf("%w: unknown invoker kind %q", ErrInvalid, c.Invoker.Kind)
	}
	if c.FallbackMaxTokens <= 0 || c.CallDelayMS < 0 || c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: fallback_max_tokens and history_limit must be positive, call_delay_ms non-negative", ErrInvalid)
	}
	return nil
}

// #endregion validate

// #region derive

// CallDelay is the minimum spacing between sequential backend calls.
func (c Config) CallDelay() time.Duration {
	return time.Duration(c.CallDelayMS) * time.Millisecond
}

// InvokerTimeout is the per-call timeout handed to the invoker.
func (c Config) InvokerTimeout() time.Duration {
	return time.Duration(c.Invoker.TimeoutSeconds) * time.Second
}

// NewScheduler builds the configured scheduler policy.
func (c Config) NewScheduler() collector.Scheduler {
	if c.Scheduler == "parallel" {
		return collector.BoundedParallel{Limit: c.MaxParallel}
	}
	return collector.Sequential{Spacing: c.CallDelay()}
}

// GateConfig maps the thresholds onto the gate defaults.
func (c Config) GateConfig() gate.GateConfig {
	g := gate.DefaultGateConfig()
	g.ProceedThreshold = c.Thresholds.Proceed
	g.NoteThreshold = c.Thresholds.Note
	return g
}

// Designations returns the ranker bonus designations.
func (c Config) Designations() rank.Designations {
	return rank.Designations{Brevity: c.BrevityBackends, Nuance: c.NuanceBackends}
}

// #endregion derive
