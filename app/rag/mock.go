package rag

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockLibrary struct {
	mock.Mock
}

var _ Interface = &MockLibrary{}

func (m *MockLibrary) Search(ctx context.Context, problem string, k int) ([]Case, error) {
	args := m.Called(ctx, problem, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Case), args.Error(1)
}

func (m *MockLibrary) SaveCase(ctx context.Context, c Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockLibrary) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLibrary) Close() error {
	args := m.Called()
	return args.Error(0)
}
