package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
