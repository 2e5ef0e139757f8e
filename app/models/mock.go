package models

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockModel struct {
	mock.Mock
}

var _ Interface = &MockModel{}

func (m *MockModel) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

func (m *MockModel) EmbedText(ctx context.Context, input string) ([]float32, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}
