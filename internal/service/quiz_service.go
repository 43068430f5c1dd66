package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ai919/funquiz-backend/internal/config"
	"github.com/ai919/funquiz-backend/internal/model"
	"github.com/ai919/funquiz-backend/internal/repository"
	"github.com/ai919/funquiz-backend/internal/response"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QuizPayload is the Redis-cached play payload an external player service
// reads for a published quiz.
type QuizPayload struct {
	Quiz      model.Quiz           `json:"quiz"`
	Questions []model.QuizQuestion `json:"questions"`
	Results   []model.QuizResult   `json:"results"`
}

// QuizService handles quiz reads, deletion and Redis payload caching.
type QuizService struct {
	quizRepo *repository.QuizRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo: quizRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// GetByID retrieves a quiz with its full question/option/result tree.
func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*QuizPayload, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildPayload(ctx, quiz)
}

// GetBySlug retrieves a quiz payload addressed by its author-chosen slug.
func (s *QuizService) GetBySlug(ctx context.Context, slug string) (*QuizPayload, error) {
	quiz, err := s.quizRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.buildPayload(ctx, quiz)
}

// List retrieves quizzes with pagination and optional title/slug search.
func (s *QuizService) List(ctx context.Context, page, perPage int, search string) ([]model.Quiz, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	quizzes, total, err := s.quizRepo.ListPaginated(ctx, limit, offset, search)
	if err != nil {
		return nil, nil, err
	}

	if quizzes == nil {
		quizzes = []model.Quiz{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return quizzes, pagination, nil
}

// Delete removes a quiz and drops its cached payload.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.InvalidateCache(ctx, quiz.Slug); err != nil {
		s.log.Warn().Err(err).Str("slug", quiz.Slug).Msg("Cache invalidation failed after delete")
	}

	s.log.Info().Str("quiz_id", id.String()).Str("slug", quiz.Slug).Msg("Quiz deleted")
	return nil
}

// SyncCache brings the Redis payload entry in line with a quiz's current
// state: published quizzes get a fresh payload, everything else is dropped.
func (s *QuizService) SyncCache(ctx context.Context, id uuid.UUID) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}

	if quiz.Status != model.QuizStatusPublished {
		return s.InvalidateCache(ctx, quiz.Slug)
	}
	return s.WarmCache(ctx, quiz)
}

// WarmCache loads a quiz's full tree and writes the play payload to Redis.
func (s *QuizService) WarmCache(ctx context.Context, quiz *model.Quiz) error {
	payload, err := s.buildPayload(ctx, quiz)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	key := config.CacheKey.QuizPayloadKey(quiz.Slug)
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("cache payload: %w", err)
	}

	s.log.Debug().Str("slug", quiz.Slug).Msg("Quiz payload cached")
	return nil
}

// InvalidateCache drops the cached payload for a slug.
func (s *QuizService) InvalidateCache(ctx context.Context, slug string) error {
	return s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(slug)).Err()
}

// PrewarmAllCaches loads every published quiz into Redis.
// Called on startup before the server accepts traffic.
func (s *QuizService) PrewarmAllCaches(ctx context.Context) error {
	quizzes, err := s.quizRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published: %w", err)
	}

	for i := range quizzes {
		if err := s.WarmCache(ctx, &quizzes[i]); err != nil {
			return fmt.Errorf("warm %s: %w", quizzes[i].Slug, err)
		}
	}

	s.log.Info().Int("count", len(quizzes)).Msg("Quiz payload caches prewarmed")
	return nil
}

func (s *QuizService) buildPayload(ctx context.Context, quiz *model.Quiz) (*QuizPayload, error) {
	questions, err := s.quizRepo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	results, err := s.quizRepo.ListResults(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	if questions == nil {
		questions = []model.QuizQuestion{}
	}
	if results == nil {
		results = []model.QuizResult{}
	}

	return &QuizPayload{Quiz: *quiz, Questions: questions, Results: results}, nil
}
