package configs

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"GoAdvisorAI/app/clients"
)

type Config struct {
	AppName string           `yaml:"app_name,omitempty"`
	Model   ModelConfig      `yaml:"model" validate:"required"`
	Flow    FlowConfig       `yaml:"flow" validate:"required"`
	Storage StorageConfig    `yaml:"storage,omitempty"`
	Cases   CasesConfig      `yaml:"cases,omitempty"`
	Clients []clients.Config `yaml:"clients,omitempty"`
}

type ModelConfig struct {
	Name               string  `yaml:"name" validate:"required"`
	Token              string  `yaml:"token,omitempty"`
	MaxNewTokens       int     `yaml:"max_new_tokens,omitempty" validate:"gte=0"`
	Temperature        float64 `yaml:"temperature,omitempty" validate:"gte=0,lte=2"`
	TopP               float64 `yaml:"top_p,omitempty" validate:"gte=0,lte=1"`
	RepetitionPenalty  float64 `yaml:"repetition_penalty,omitempty" validate:"gte=0"`
	TimeoutSeconds     int     `yaml:"timeout_seconds,omitempty" validate:"gte=0"`
	WarmupDelaySeconds int     `yaml:"warmup_delay_seconds,omitempty" validate:"gte=0"`
}

type FlowConfig struct {
	Encoding                 string        `yaml:"encoding,omitempty" validate:"omitempty,oneof=interleave merged"`
	PersistHiddenInstruction bool          `yaml:"persist_hidden_instruction,omitempty"`
	Persona                  string        `yaml:"persona" validate:"required"`
	Stages                   []StageConfig `yaml:"stages" validate:"required,min=1,dive"`
}

type StageConfig struct {
	Name         string `yaml:"name" validate:"required"`
	Instruction  string `yaml:"instruction" validate:"required"`
	MaxNewTokens int    `yaml:"max_new_tokens,omitempty" validate:"gte=0"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"`
}

type CasesConfig struct {
	Enabled         bool   `yaml:"enabled,omitempty"`
	Collection      string `yaml:"collection,omitempty"`
	EmbeddingsModel string `yaml:"embeddings_model,omitempty"`
	VectorSize      int    `yaml:"vector_size,omitempty" validate:"gte=0"`
	TopK            int    `yaml:"top_k,omitempty" validate:"gte=0"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configs file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configs: %w", err)
	}
	return nil
}
