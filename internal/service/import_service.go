package service

import (
	"context"

	"github.com/ai919/funquiz-backend/internal/importer"
	"github.com/rs/zerolog"
)

// ImportService fronts the bundle import pipeline and keeps the quiz payload
// cache in sync with committed imports.
type ImportService struct {
	pipeline    *importer.Pipeline
	quizService *QuizService
	log         zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(pipeline *importer.Pipeline, quizService *QuizService, log zerolog.Logger) *ImportService {
	return &ImportService{
		pipeline:    pipeline,
		quizService: quizService,
		log:         log.With().Str("component", "import_service").Logger(),
	}
}

// Import runs the pipeline on a raw bundle document. After a committed (non
// dry-run) import the cached payload is refreshed; a cache failure does not
// fail the import, since storage already holds the authoritative state.
func (s *ImportService) Import(ctx context.Context, raw []byte, params importer.Params) (*importer.Outcome, error) {
	outcome, err := s.pipeline.Import(ctx, raw, params)
	if err != nil {
		return nil, err
	}

	if !outcome.DryRun {
		if err := s.quizService.SyncCache(ctx, outcome.QuizID); err != nil {
			s.log.Warn().Err(err).
				Str("quiz_id", outcome.QuizID.String()).
				Msg("Cache sync failed after import")
		}
	}

	return outcome, nil
}
