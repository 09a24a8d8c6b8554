package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"veridoc/internal/port"
)

// MockPageRasterizer is a mock implementation of port.PageRasterizer.
type MockPageRasterizer struct {
	mock.Mock
}

func (m *MockPageRasterizer) RenderPages(ctx context.Context, pdfBytes []byte) ([]port.PageImage, error) {
	args := m.Called(ctx, pdfBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.PageImage), args.Error(1)
}

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, pdfBytes []byte) (string, error) {
	args := m.Called(ctx, pdfBytes)
	return args.String(0), args.Error(1)
}
