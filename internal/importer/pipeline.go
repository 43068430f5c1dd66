package importer

import (
	"context"

	"github.com/ai919/funquiz-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Action distinguishes whether an import created a new quiz or replaced an
// existing one.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Params are the caller-supplied import switches. Both are deliberately
// explicit: the pipeline never guesses overwrite intent and never assumes a
// write mode.
type Params struct {
	Overwrite bool
	DryRun    bool
}

// Outcome is the structured report of a finished import. In dry-run mode the
// quiz ID is the identity the apply produced inside the rolled-back
// transaction, a preview rather than persisted state.
type Outcome struct {
	Action         Action    `json:"action"`
	QuizID         uuid.UUID `json:"quiz_id"`
	QuestionsCount int       `json:"questions_count"`
	ResultsCount   int       `json:"results_count"`
	DryRun         bool      `json:"dry_run"`
	Overwrite      bool      `json:"overwrite"`
}

// Pipeline validates, enriches and atomically applies quiz bundles.
type Pipeline struct {
	store  Store
	glyphs *GlyphResolver
	log    zerolog.Logger
}

// NewPipeline creates an import pipeline on top of a transactional store.
func NewPipeline(store Store, glyphs *GlyphResolver, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		glyphs: glyphs,
		log:    log.With().Str("component", "importer").Logger(),
	}
}

// Import decodes a raw bundle document and runs the full pipeline.
// Failures come back as *Error with a validation, conflict or storage kind;
// storage errors are returned only after the transaction has rolled back.
func (p *Pipeline) Import(ctx context.Context, raw []byte, params Params) (*Outcome, error) {
	bundle, violations := DecodeBundle(raw)
	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}
	return p.ImportBundle(ctx, bundle, params)
}

// ImportBundle runs the pipeline on an already-decoded bundle.
func (p *Pipeline) ImportBundle(ctx context.Context, bundle *QuizBundle, params Params) (*Outcome, error) {
	if violations := ValidateBundle(bundle); len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	// Enrich the glyph in memory before anything is reported, so a dry-run
	// preview shows exactly the glyph a committed import would persist.
	bundle.Test.Glyph = p.glyphs.Resolve(bundle.Test.Glyph, bundle.Test.Tags, bundle.Test.Slug)

	existingID, exists, err := p.store.FindQuizIDBySlug(ctx, bundle.Test.Slug)
	if err != nil {
		return nil, newStorageError("look up slug", err)
	}
	if exists && !params.Overwrite {
		return nil, newConflictError(bundle.Test.Slug)
	}

	action := ActionCreate
	if exists {
		action = ActionUpdate
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return nil, newStorageError("begin transaction", err)
	}

	quizID, err := applyBundle(ctx, tx, bundle, existingID, exists)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, newStorageError("apply bundle", err)
	}

	if params.DryRun {
		// The apply ran for real so constraint-level failures surface even in
		// preview mode; rolling back leaves storage untouched.
		if err := tx.Rollback(ctx); err != nil {
			return nil, newStorageError("roll back dry-run", err)
		}
	} else {
		if err := tx.Commit(ctx); err != nil {
			return nil, newStorageError("commit", err)
		}
	}

	outcome := &Outcome{
		Action:         action,
		QuizID:         quizID,
		QuestionsCount: len(bundle.Questions),
		ResultsCount:   len(bundle.Results),
		DryRun:         params.DryRun,
		Overwrite:      params.Overwrite,
	}

	p.log.Info().
		Str("slug", bundle.Test.Slug).
		Str("quiz_id", quizID.String()).
		Str("action", string(action)).
		Bool("dry_run", params.DryRun).
		Int("questions", outcome.QuestionsCount).
		Int("results", outcome.ResultsCount).
		Msg("Bundle import finished")

	return outcome, nil
}

// applyBundle performs the write sequence inside tx: upsert the quiz row,
// then fully replace its results and its question/option tree. Replacement is
// delete-then-insert, not a merge; no row of a previous version survives.
func applyBundle(ctx context.Context, tx Tx, bundle *QuizBundle, existingID uuid.UUID, exists bool) (uuid.UUID, error) {
	quiz := bundle.quizRow()

	if exists {
		quiz.ID = existingID
		if err := tx.UpdateQuiz(ctx, quiz); err != nil {
			return uuid.Nil, err
		}
	} else {
		if err := tx.InsertQuiz(ctx, quiz); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.DeleteResults(ctx, quiz.ID); err != nil {
		return uuid.Nil, err
	}
	for i, r := range bundle.Results {
		row := &model.QuizResult{
			QuizID:      quiz.ID,
			Code:        r.Code,
			Title:       r.Title,
			Description: r.Description,
			ImageURL:    r.ImageURL,
			MinScore:    r.MinScore,
			MaxScore:    r.MaxScore,
			Position:    i + 1,
		}
		if err := tx.InsertResult(ctx, row); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.DeleteQuestions(ctx, quiz.ID); err != nil {
		return uuid.Nil, err
	}
	for i, q := range bundle.Questions {
		qRow := &model.QuizQuestion{
			QuizID:   quiz.ID,
			Text:     q.Text,
			Hint:     q.Hint,
			Position: i + 1,
		}
		if err := tx.InsertQuestion(ctx, qRow); err != nil {
			return uuid.Nil, err
		}
		for j, o := range q.Options {
			oRow := &model.QuizOption{
				QuestionID: qRow.ID,
				Key:        o.Key,
				Text:       o.Text,
				ResultCode: o.Result,
				Score:      ResolveScore(o, bundle.Test.Scoring),
				Position:   j + 1,
			}
			if err := tx.InsertOption(ctx, oRow); err != nil {
				return uuid.Nil, err
			}
		}
	}

	return quiz.ID, nil
}
