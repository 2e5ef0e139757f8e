package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"GoAdvisorAI/app/models"
)

const sampleConfig = `
app_name: Test Assistant
model:
  name: HuggingFaceH4/zephyr-7b-beta
  token: ${TEST_HF_TOKEN}
  max_new_tokens: 256
  timeout_seconds: 60
flow:
  encoding: merged
  persist_hidden_instruction: true
  persona: You are a test persona.
  stages:
    - name: awaiting_problem
      instruction: Ask questions.
      max_new_tokens: 128
    - name: awaiting_clarification
      instruction: Diagnose.
clients:
  - type: discord
    enabled: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_HF_TOKEN", "secret-token")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Token != "secret-token" {
		t.Fatalf("env not expanded: %q", cfg.Model.Token)
	}
	if cfg.Flow.Encoding != "merged" || len(cfg.Flow.Stages) != 2 {
		t.Fatalf("unexpected flow: %#v", cfg.Flow)
	}
	if cfg.Flow.Stages[0].MaxNewTokens != 128 {
		t.Fatalf("stage tokens lost: %#v", cfg.Flow.Stages[0])
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mangled string
	}{
		{"missing_persona", strings.Replace(sampleConfig, "persona: You are a test persona.", "", 1)},
		{"missing_model_name", strings.Replace(sampleConfig, "name: HuggingFaceH4/zephyr-7b-beta", "", 1)},
		{"bad_encoding", strings.Replace(sampleConfig, "encoding: merged", "encoding: chatml", 1)},
		{"no_stages", sampleConfig[:strings.Index(sampleConfig, "  stages:")] + "  stages: []\n"},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, cse.mangled)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configs invalid: %v", err)
	}
	controller, err := cfg.BuildController(&models.MockModel{}, nil)
	if err != nil || controller == nil {
		t.Fatalf("default configs cannot build a controller: %v", err)
	}
}

func TestBuildFlow(t *testing.T) {
	t.Setenv("TEST_HF_TOKEN", "x")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flow := cfg.BuildFlow()
	if flow.Encoding != models.EncodingMerged || !flow.PersistHiddenInstruction {
		t.Fatalf("unexpected flow: %#v", flow)
	}
	if len(flow.Stages) != 2 || flow.Stages[1].Instruction != "Diagnose." {
		t.Fatalf("stages not carried over: %#v", flow.Stages)
	}
}
