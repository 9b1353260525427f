package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docmeta/internal/model"
	"docmeta/internal/service"
)

type MockAnalyticsService struct {
	mock.Mock
}

var _ service.AnalyticsService = (*MockAnalyticsService)(nil)

func (m *MockAnalyticsService) Stats(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalyticsSnapshot), args.Error(1)
}

func (m *MockAnalyticsService) Export(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if f, ok := args.Get(0).(func(io.Writer) error); ok {
		return f(w)
	}
	return args.Error(0)
}
