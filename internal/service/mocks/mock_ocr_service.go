package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"ocrdoc/internal/model"
)

type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) Extract(ctx context.Context, r io.Reader) (*model.ExtractionResult, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionResult), args.Error(1)
}

func (m *MockOCRService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
