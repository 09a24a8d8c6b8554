package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"veridoc/internal/port"
)

// MockProvider is a mock implementation of port.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Model() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Invoke(ctx context.Context, input port.InvokeInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}
