package models

import (
	"context"
	"fmt"
	"strings"
)

type Interface interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
	EmbedText(ctx context.Context, input string) ([]float32, error)
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage rejects any role outside the closed {system, user, assistant}
// set so a malformed log fails at construction instead of at encode time.
func NewMessage(role Role, content string) (Message, error) {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return Message{Role: role, Content: content}, nil
	default:
		return Message{}, fmt.Errorf("%w: unknown role %q", ErrEncoding, role)
	}
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: strings.TrimSpace(content)}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

type GenerationOptions struct {
	MaxNewTokens      int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
}

const (
	defaultMaxNewTokens      = 512
	defaultTemperature       = 0.7
	defaultTopP              = 0.95
	defaultRepetitionPenalty = 1.1
)

func (o GenerationOptions) withDefaults() GenerationOptions {
	if o.MaxNewTokens <= 0 {
		o.MaxNewTokens = defaultMaxNewTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	if o.TopP <= 0 {
		o.TopP = defaultTopP
	}
	if o.RepetitionPenalty <= 0 {
		o.RepetitionPenalty = defaultRepetitionPenalty
	}
	return o
}
