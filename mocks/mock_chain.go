package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"veridoc/internal/port"
	"veridoc/internal/provider"
)

// MockProviderChain is a mock implementation of service.ProviderChain.
type MockProviderChain struct {
	mock.Mock
}

func (m *MockProviderChain) Invoke(ctx context.Context, input port.InvokeInput) (*provider.Outcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Outcome), args.Error(1)
}
