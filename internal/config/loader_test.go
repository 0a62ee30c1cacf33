package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDirDefaultsWithoutFiles(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("COHERE_API_KEY", "secret-from-env")

	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if cfg.LLM.DefaultProvider != "cohere" {
		t.Errorf("expected default provider cohere, got %q", cfg.LLM.DefaultProvider)
	}
	cohere, ok := cfg.LLM.Providers["cohere"]
	if !ok {
		t.Fatal("expected cohere provider in defaults")
	}
	if cohere.APIKey != "secret-from-env" {
		t.Errorf("expected api key from env, got %q", cohere.APIKey)
	}
	if cohere.Model != "command" {
		t.Errorf("expected model command, got %q", cohere.Model)
	}
	if temp, ok := cfg.LLM.Temperature(""); !ok || temp != 0.7 {
		t.Errorf("expected temperature 0.7, got %v (set=%v)", temp, ok)
	}
	if cfg.Generation.HistoryCapacity != 100 {
		t.Errorf("expected history capacity 100, got %d", cfg.Generation.HistoryCapacity)
	}
	if cfg.Generation.PreviewLength != 100 {
		t.Errorf("expected preview length 100, got %d", cfg.Generation.PreviewLength)
	}
	if cfg.Generation.ErrorMessage != DefaultErrorMessage {
		t.Errorf("unexpected error message %q", cfg.Generation.ErrorMessage)
	}
	if cfg.Generation.SessionTTL != 24*time.Hour {
		t.Errorf("expected session ttl 24h, got %v", cfg.Generation.SessionTTL)
	}
}

func TestLoadDirExpandsEnvAndMergesEnvFile(t *testing.T) {
	dir := t.TempDir()
	base := `
app:
  name: content-gen
server:
  http:
    port: ${CG_PORT:9090}
llm:
  default_provider: local
  providers:
    local:
      kind: mock
      model: ${CG_MODEL}
generation:
  history_backend: memory
  history_capacity: 5
`
	override := `
generation:
  history_capacity: 7
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("APP_ENV", "staging")
	t.Setenv("CG_MODEL", "echo-1")

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if cfg.App.Name != "content-gen" {
		t.Errorf("expected app name from file, got %q", cfg.App.Name)
	}
	if cfg.Server.HTTP.Port != 9090 {
		t.Errorf("expected default-expanded port 9090, got %d", cfg.Server.HTTP.Port)
	}
	local := cfg.LLM.Providers["local"]
	if local.Kind != "mock" || local.Model != "echo-1" {
		t.Errorf("unexpected local provider %+v", local)
	}
	if cfg.Generation.HistoryCapacity != 7 {
		t.Errorf("expected env file override 7, got %d", cfg.Generation.HistoryCapacity)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CG_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"${CG_SET}", "value"},
		{"${CG_SET:fallback}", "value"},
		{"${CG_UNSET_VAR:fallback}", "fallback"},
		{"${CG_UNSET_VAR:}", ""},
		{"${CG_UNSET_VAR}", "${CG_UNSET_VAR}"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandEnv(tt.in); got != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLLMConfigTemperature(t *testing.T) {
	zero, warm := 0.0, 0.9
	cfg := LLMConfig{
		DefaultProvider: "cold",
		Providers: map[string]ProviderConfig{
			"cold":  {Kind: "mock", Temperature: &zero},
			"warm":  {Kind: "mock", Temperature: &warm},
			"unset": {Kind: "mock"},
		},
	}

	if temp, ok := cfg.Temperature(""); !ok || temp != 0 {
		t.Errorf("explicit zero should be kept, got %v (set=%v)", temp, ok)
	}
	if temp, ok := cfg.Temperature("warm"); !ok || temp != 0.9 {
		t.Errorf("expected 0.9, got %v (set=%v)", temp, ok)
	}
	if _, ok := cfg.Temperature("unset"); ok {
		t.Error("unset temperature should report not set")
	}
	if _, ok := cfg.Temperature("missing"); ok {
		t.Error("unknown provider should report not set")
	}
}

func TestLoadDirKeepsZeroTemperature(t *testing.T) {
	dir := t.TempDir()
	base := `
llm:
  default_provider: local
  providers:
    local:
      kind: mock
      temperature: 0
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if temp, ok := cfg.LLM.Temperature(""); !ok || temp != 0 {
		t.Errorf("expected explicit 0 temperature, got %v (set=%v)", temp, ok)
	}
}
