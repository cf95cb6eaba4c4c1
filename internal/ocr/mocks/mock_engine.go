package mocks

import (
	"context"
	"image"

	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Name() string {
	return "mock"
}

func (m *MockEngine) Recognize(ctx context.Context, img image.Image, langs []string) (string, error) {
	args := m.Called(ctx, img, langs)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) Ping(ctx context.Context, langs []string) error {
	args := m.Called(ctx, langs)
	return args.Error(0)
}
