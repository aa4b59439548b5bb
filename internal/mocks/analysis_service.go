package mocks

import (
	"context"

	"github.com/paperiq/paperiq-api/internal/domain"
)

// MockAnalysisService implements service.AnalysisService for testing
type MockAnalysisService struct {
	// AnalyzeAndRecordFn allows test cases to override the behavior
	AnalyzeAndRecordFn func(ctx context.Context, username, text string) (domain.AnalysisResult, int, error)

	// Default values used when the function isn't explicitly defined
	Results  domain.AnalysisResult
	Position int
	Err      error
}

// AnalyzeAndRecord implements the service.AnalysisService interface
func (m *MockAnalysisService) AnalyzeAndRecord(
	ctx context.Context,
	username, text string,
) (domain.AnalysisResult, int, error) {
	if m.AnalyzeAndRecordFn != nil {
		return m.AnalyzeAndRecordFn(ctx, username, text)
	}

	return m.Results, m.Position, m.Err
}
