package repository

import (
	"context"

	"github.com/ai919/funquiz-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quizColumns = `id, slug, title, subtitle, description, color, tags, status, sort_order,
	scoring_mode, scoring_config, display_mode, play_count_label, glyph, features,
	created_at, updated_at`

// QuizRepository handles quiz read and delete access. Quiz content is written
// exclusively through the import store.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Slug, &q.Title, &q.Subtitle, &q.Description, &q.Color, &q.Tags,
		&q.Status, &q.SortOrder, &q.ScoringMode, &q.ScoringConfig, &q.DisplayMode,
		&q.PlayCountLabel, &q.Glyph, &q.Features, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetBySlug retrieves a quiz by its author-chosen slug.
func (r *QuizRepository) GetBySlug(ctx context.Context, slug string) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE slug = $1`, slug,
	).Scan(&q.ID, &q.Slug, &q.Title, &q.Subtitle, &q.Description, &q.Color, &q.Tags,
		&q.Status, &q.SortOrder, &q.ScoringMode, &q.ScoringConfig, &q.DisplayMode,
		&q.PlayCountLabel, &q.Glyph, &q.Features, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListPaginated retrieves quizzes ordered by sort order then recency, with an
// optional search over title and slug.
func (r *QuizRepository) ListPaginated(ctx context.Context, limit, offset int, search string) ([]model.Quiz, int, error) {
	countQuery := `SELECT COUNT(*) FROM quizzes`
	listQuery := `SELECT ` + quizColumns + ` FROM quizzes`

	var countArgs, listArgs []interface{}
	if search != "" {
		pattern := "%" + search + "%"
		countQuery += ` WHERE title ILIKE $1 OR slug ILIKE $1`
		listQuery += ` WHERE title ILIKE $1 OR slug ILIKE $1
			ORDER BY sort_order ASC, created_at DESC LIMIT $2 OFFSET $3`
		countArgs = append(countArgs, pattern)
		listArgs = append(listArgs, pattern, limit, offset)
	} else {
		listQuery += ` ORDER BY sort_order ASC, created_at DESC LIMIT $1 OFFSET $2`
		listArgs = append(listArgs, limit, offset)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Slug, &q.Title, &q.Subtitle, &q.Description, &q.Color,
			&q.Tags, &q.Status, &q.SortOrder, &q.ScoringMode, &q.ScoringConfig, &q.DisplayMode,
			&q.PlayCountLabel, &q.Glyph, &q.Features, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

// ListPublished returns all published quizzes.
// Used for cache prewarming on application startup.
func (r *QuizRepository) ListPublished(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE status = $1 ORDER BY sort_order ASC`,
		model.QuizStatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Slug, &q.Title, &q.Subtitle, &q.Description, &q.Color,
			&q.Tags, &q.Status, &q.SortOrder, &q.ScoringMode, &q.ScoringConfig, &q.DisplayMode,
			&q.PlayCountLabel, &q.Glyph, &q.Features, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// ListResults retrieves a quiz's result buckets in bundle order.
func (r *QuizRepository) ListResults(ctx context.Context, quizID uuid.UUID) ([]model.QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, code, title, description, image_url, min_score, max_score, position
		 FROM quiz_results WHERE quiz_id = $1 ORDER BY position`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var res model.QuizResult
		if err := rows.Scan(&res.ID, &res.QuizID, &res.Code, &res.Title, &res.Description,
			&res.ImageURL, &res.MinScore, &res.MaxScore, &res.Position); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListQuestions retrieves a quiz's questions with their options, both in
// bundle order.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.QuizQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, text, hint, position
		 FROM quiz_questions WHERE quiz_id = $1 ORDER BY position`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.QuizQuestion
	byID := make(map[int64]int)
	for rows.Next() {
		var q model.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Hint, &q.Position); err != nil {
			return nil, err
		}
		byID[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	optRows, err := r.pool.Query(ctx,
		`SELECT o.id, o.question_id, o.key, o.text, o.result_code, o.score, o.position
		 FROM quiz_options o
		 JOIN quiz_questions q ON o.question_id = q.id
		 WHERE q.quiz_id = $1
		 ORDER BY q.position, o.position`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var o model.QuizOption
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.Key, &o.Text, &o.ResultCode,
			&o.Score, &o.Position); err != nil {
			return nil, err
		}
		if idx, ok := byID[o.QuestionID]; ok {
			questions[idx].Options = append(questions[idx].Options, o)
		}
	}
	return questions, optRows.Err()
}

// Delete removes a quiz; its questions, options and results cascade.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}
