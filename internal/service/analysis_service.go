// Package service contains the application services that coordinate the
// stores, the analysis engine and the API layer.
package service

import (
	"context"
	"log/slog"

	"github.com/paperiq/paperiq-api/internal/analyzer"
	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/platform/logger"
	"github.com/paperiq/paperiq-api/internal/store"
)

// AnalysisService provides analysis-related operations.
type AnalysisService interface {
	// AnalyzeAndRecord submits text to the analysis engine and, on success,
	// appends the result to the user's history. Returns the engine payload
	// and the assigned history position.
	AnalyzeAndRecord(ctx context.Context, username, text string) (domain.AnalysisResult, int, error)
}

// analysisService is the default AnalysisService implementation.
type analysisService struct {
	engine  analyzer.Client
	history store.HistoryStore
}

// NewAnalysisService creates an AnalysisService backed by the given engine
// client and history store.
func NewAnalysisService(engine analyzer.Client, history store.HistoryStore) AnalysisService {
	return &analysisService{
		engine:  engine,
		history: history,
	}
}

// AnalyzeAndRecord implements AnalysisService.
// The engine call happens first; nothing is recorded for a failed analysis,
// so history never contains entries without results.
func (s *analysisService) AnalyzeAndRecord(
	ctx context.Context,
	username, text string,
) (domain.AnalysisResult, int, error) {
	log := logger.FromContext(ctx)

	results, err := s.engine.Analyze(ctx, text)
	if err != nil {
		log.Warn("analysis engine call failed",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return nil, 0, err
	}

	position, err := s.history.Append(ctx, username, text, results)
	if err != nil {
		log.Error("failed to record analysis in history",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return nil, 0, err
	}

	log.Debug("analysis recorded",
		slog.String("username", username),
		slog.Int("position", position))

	return results, position, nil
}
