package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docmeta/internal/ai"
	"docmeta/internal/model"
)

type MockAnalyzer struct {
	mock.Mock
}

var _ ai.Analyzer = (*MockAnalyzer)(nil)

func (m *MockAnalyzer) SuggestMetadata(ctx context.Context, fileName, fileType, preview string) (*model.AIAnalysisResult, error) {
	args := m.Called(ctx, fileName, fileType, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AIAnalysisResult), args.Error(1)
}

func (m *MockAnalyzer) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	args := m.Called(ctx, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
