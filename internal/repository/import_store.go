package repository

import (
	"context"
	"errors"

	"github.com/ai919/funquiz-backend/internal/importer"
	"github.com/ai919/funquiz-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportStore is the PostgreSQL implementation of the import pipeline's
// transactional store contract. The transaction runs at the connection's
// default READ COMMITTED level: the slug UNIQUE constraint fails the loser of
// a concurrent create, and the quiz row lock taken by the upsert serializes
// concurrent overwrites of one identity before any child rows are touched.
type ImportStore struct {
	pool *pgxpool.Pool
}

// NewImportStore creates a new ImportStore.
func NewImportStore(pool *pgxpool.Pool) *ImportStore {
	return &ImportStore{pool: pool}
}

// FindQuizIDBySlug resolves a slug to the existing quiz identity, if any.
func (s *ImportStore) FindQuizIDBySlug(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT id FROM quizzes WHERE slug = $1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// Begin opens an import transaction.
func (s *ImportStore) Begin(ctx context.Context) (importer.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &importTx{tx: tx}, nil
}

type importTx struct {
	tx pgx.Tx
}

func (t *importTx) InsertQuiz(ctx context.Context, q *model.Quiz) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO quizzes (slug, title, subtitle, description, color, tags, status, sort_order,
		                      scoring_mode, scoring_config, display_mode, play_count_label, glyph, features)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		q.Slug, q.Title, q.Subtitle, q.Description, q.Color, q.Tags, q.Status, q.SortOrder,
		q.ScoringMode, q.ScoringConfig, q.DisplayMode, q.PlayCountLabel, q.Glyph, q.Features,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (t *importTx) UpdateQuiz(ctx context.Context, q *model.Quiz) error {
	return t.tx.QueryRow(ctx,
		`UPDATE quizzes
		 SET slug = $1, title = $2, subtitle = $3, description = $4, color = $5, tags = $6,
		     status = $7, sort_order = $8, scoring_mode = $9, scoring_config = $10,
		     display_mode = $11, play_count_label = $12, glyph = $13, features = $14,
		     updated_at = NOW()
		 WHERE id = $15
		 RETURNING created_at, updated_at`,
		q.Slug, q.Title, q.Subtitle, q.Description, q.Color, q.Tags, q.Status, q.SortOrder,
		q.ScoringMode, q.ScoringConfig, q.DisplayMode, q.PlayCountLabel, q.Glyph, q.Features,
		q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

func (t *importTx) DeleteResults(ctx context.Context, quizID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM quiz_results WHERE quiz_id = $1`, quizID)
	return err
}

func (t *importTx) InsertResult(ctx context.Context, r *model.QuizResult) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO quiz_results (quiz_id, code, title, description, image_url, min_score, max_score, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		r.QuizID, r.Code, r.Title, r.Description, r.ImageURL, r.MinScore, r.MaxScore, r.Position,
	).Scan(&r.ID)
}

func (t *importTx) DeleteQuestions(ctx context.Context, quizID uuid.UUID) error {
	// quiz_options cascades on question deletion.
	_, err := t.tx.Exec(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quizID)
	return err
}

func (t *importTx) InsertQuestion(ctx context.Context, q *model.QuizQuestion) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO quiz_questions (quiz_id, text, hint, position)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		q.QuizID, q.Text, q.Hint, q.Position,
	).Scan(&q.ID)
}

func (t *importTx) InsertOption(ctx context.Context, o *model.QuizOption) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO quiz_options (question_id, key, text, result_code, score, position)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		o.QuestionID, o.Key, o.Text, o.ResultCode, o.Score, o.Position,
	).Scan(&o.ID)
}

func (t *importTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *importTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
