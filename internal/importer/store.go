package importer

import (
	"context"

	"github.com/ai919/funquiz-backend/internal/model"
	"github.com/google/uuid"
)

// Store is the storage access the pipeline needs. The slug lookup runs
// outside any transaction; every write goes through a Tx obtained from Begin.
type Store interface {
	// FindQuizIDBySlug returns the identity of the quiz with the given slug,
	// or false when no such quiz exists.
	FindQuizIDBySlug(ctx context.Context, slug string) (uuid.UUID, bool, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is one import transaction. Implementations must make no write visible to
// readers before Commit, and Rollback must restore storage exactly as it was.
// Rollback after Commit is a no-op so callers can defer it unconditionally.
type Tx interface {
	// InsertQuiz inserts a new quiz row and fills in its generated identity.
	InsertQuiz(ctx context.Context, q *model.Quiz) error
	// UpdateQuiz overwrites all mutable columns of the row identified by q.ID.
	UpdateQuiz(ctx context.Context, q *model.Quiz) error

	DeleteResults(ctx context.Context, quizID uuid.UUID) error
	InsertResult(ctx context.Context, r *model.QuizResult) error

	// DeleteQuestions removes the quiz's questions and, transitively, their
	// options.
	DeleteQuestions(ctx context.Context, quizID uuid.UUID) error
	// InsertQuestion inserts a question row and fills in its generated ID.
	InsertQuestion(ctx context.Context, q *model.QuizQuestion) error
	InsertOption(ctx context.Context, o *model.QuizOption) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
