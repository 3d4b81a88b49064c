package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"iga/internal/port"
)

// MockGrammarChecker is a mock implementation of port.GrammarChecker.
type MockGrammarChecker struct {
	mock.Mock
}

func (m *MockGrammarChecker) Check(ctx context.Context, text string) (*port.GrammarReport, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.GrammarReport), args.Error(1)
}

// MockCitationChecker is a mock implementation of port.CitationChecker.
type MockCitationChecker struct {
	mock.Mock
}

func (m *MockCitationChecker) MissingReferences(ctx context.Context, text string) (int, error) {
	args := m.Called(ctx, text)
	return args.Int(0), args.Error(1)
}

// MockEssayModel is a mock implementation of port.EssayModel.
type MockEssayModel struct {
	mock.Mock
}

func (m *MockEssayModel) Evaluate(ctx context.Context, text string) (float64, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(float64), args.Error(1)
}

// MockKeywordCounter is a mock implementation of port.KeywordCounter.
type MockKeywordCounter struct {
	mock.Mock
}

func (m *MockKeywordCounter) Occurrence(text string) []port.KeywordCount {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]port.KeywordCount)
}
