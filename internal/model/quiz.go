package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuizStatus enumerates the lifecycle states of a quiz.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
	QuizStatusArchived  QuizStatus = "archived"
)

// ScoringMode enumerates how answer scores map to results.
type ScoringMode string

const (
	ScoringModeSimple     ScoringMode = "simple"
	ScoringModeDimensions ScoringMode = "dimensions"
	ScoringModeRange      ScoringMode = "range"
	ScoringModeCustom     ScoringMode = "custom"
)

// DisplayMode enumerates how the quiz is presented to players.
type DisplayMode string

const (
	DisplayModeSinglePage DisplayMode = "single_page"
	DisplayModeStepByStep DisplayMode = "step_by_step"
)

// Quiz is the persisted quiz entity. Its UUID identity is assigned by storage
// and is distinct from the author-chosen slug: re-importing a slug mutates the
// same identity in place, it never creates a second row.
type Quiz struct {
	ID             uuid.UUID       `json:"id"`
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Subtitle       string          `json:"subtitle,omitempty"`
	Description    string          `json:"description"`
	Color          string          `json:"color,omitempty"`
	Tags           []string        `json:"tags"`
	Status         QuizStatus      `json:"status"`
	SortOrder      int             `json:"sort_order"`
	ScoringMode    ScoringMode     `json:"scoring_mode"`
	ScoringConfig  json.RawMessage `json:"scoring_config,omitempty"`
	DisplayMode    DisplayMode     `json:"display_mode"`
	PlayCountLabel string          `json:"play_count_label,omitempty"`
	Glyph          string          `json:"glyph,omitempty"`
	Features       json.RawMessage `json:"features,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// QuizResult is a scored result bucket belonging to a quiz.
// Code is a soft key: duplicates within one quiz are preserved as-is.
type QuizResult struct {
	ID          int64     `json:"id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	MinScore    *int      `json:"min_score,omitempty"`
	MaxScore    *int      `json:"max_score,omitempty"`
	Position    int       `json:"position"`
}

// QuizQuestion is a single question row. Position is 1-based and mirrors the
// order of the imported bundle.
type QuizQuestion struct {
	ID       int64        `json:"id"`
	QuizID   uuid.UUID    `json:"quiz_id"`
	Text     string       `json:"text"`
	Hint     string       `json:"hint,omitempty"`
	Position int          `json:"position"`
	Options  []QuizOption `json:"options,omitempty"`
}

// QuizOption is an answer option. ResultCode references a QuizResult.Code but
// is deliberately not a foreign key — the referenced result may be authored in
// a later edit pass.
type QuizOption struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Key        string `json:"key"`
	Text       string `json:"text"`
	ResultCode string `json:"result_code,omitempty"`
	Score      int    `json:"score"`
	Position   int    `json:"position"`
}
