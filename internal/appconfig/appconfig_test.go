package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	doc := `
queries_path: custom/queries.yaml
tokens: [BTC, DOGE]
agent:
  name: my-agent
  model: sonar-reasoning
  api_key: pplx-test
judge:
  enabled: true
  project: test-project
timeout_seconds: 30
delay_seconds: 2
concurrency: 4
`
	path := filepath.Join(t.TempDir(), "tokeneval.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.QueriesPath != "custom/queries.yaml" {
		t.Errorf("QueriesPath = %q", cfg.QueriesPath)
	}
	if len(cfg.Tokens) != 2 || cfg.Tokens[0] != "BTC" {
		t.Errorf("Tokens = %v", cfg.Tokens)
	}
	if cfg.AgentName() != "my-agent" {
		t.Errorf("AgentName() = %q", cfg.AgentName())
	}
	if !cfg.Judge.Enabled || cfg.Judge.Project != "test-project" {
		t.Errorf("Judge = %+v", cfg.Judge)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
	if cfg.Delay() != 2*time.Second {
		t.Errorf("Delay() = %v", cfg.Delay())
	}
	if cfg.CollectConcurrency() != 4 {
		t.Errorf("CollectConcurrency() = %d", cfg.CollectConcurrency())
	}
}

func TestLoadExplicitZeroDelay(t *testing.T) {
	// delay_seconds: 0 in the file must disable pacing, not fall back to
	// the loader default.
	doc := "delay_seconds: 0\n"
	path := filepath.Join(t.TempDir(), "tokeneval.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Delay() != 0 {
		t.Errorf("Delay() = %v, want 0", cfg.Delay())
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Agent.Endpoint != defaultAgentEndpoint {
		t.Errorf("Agent.Endpoint = %q", cfg.Agent.Endpoint)
	}
	if cfg.Agent.Model != defaultAgentModel {
		t.Errorf("Agent.Model = %q", cfg.Agent.Model)
	}
	if cfg.RequestTimeout() != defaultRequestTimeout {
		t.Errorf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
	if cfg.Delay() != defaultDelay {
		t.Errorf("Delay() = %v", cfg.Delay())
	}
	// With no explicit agent name the model doubles as the display name.
	if cfg.AgentName() != defaultAgentModel {
		t.Errorf("AgentName() = %q", cfg.AgentName())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil, want error")
	}
}
