package importer

import (
	"encoding/json"

	"github.com/ai919/funquiz-backend/internal/model"
)

// QuizBundle is the complete import document for one quiz: metadata, ordered
// questions with their options, and scored result buckets. It is the input
// shape only; the applier maps it onto the persisted model.
type QuizBundle struct {
	Test      TestMeta         `json:"test"`
	Questions []BundleQuestion `json:"questions" validate:"dive"`
	Results   []BundleResult   `json:"results" validate:"dive"`
}

// TestMeta carries the quiz-level metadata of a bundle.
type TestMeta struct {
	Slug        string          `json:"slug" validate:"required,max=64"`
	Title       string          `json:"title" validate:"required,max=255"`
	Subtitle    string          `json:"subtitle" validate:"omitempty,max=255"`
	Description string          `json:"description" validate:"required"`
	Color       string          `json:"color" validate:"omitempty,max=32"`
	Tags        []string        `json:"tags"`
	Status      string          `json:"status" validate:"required,oneof=draft published archived"`
	SortOrder   int             `json:"sort_order"`
	ScoringMode string          `json:"scoring_mode" validate:"omitempty,oneof=simple dimensions range custom"`
	Scoring     *ScoringConfig  `json:"scoring_config"`
	DisplayMode string          `json:"display_mode" validate:"omitempty,oneof=single_page step_by_step"`
	PlayCount   string          `json:"play_count" validate:"omitempty,max=32"`
	Glyph       string          `json:"glyph"`
	Features    map[string]bool `json:"features"`
}

// ScoringConfig is the author-optional scoring configuration. It is modeled
// as a narrow typed structure instead of a free-form map so lookups are
// type-checked; unknown keys in the source document are ignored.
type ScoringConfig struct {
	OptionScores map[string]int `json:"option_scores,omitempty"`
	Dimensions   []string       `json:"dimensions,omitempty"`
}

// BundleQuestion is one question of a bundle; order in the slice is the
// display order.
type BundleQuestion struct {
	Text    string         `json:"text" validate:"required"`
	Hint    string         `json:"hint"`
	Options []BundleOption `json:"options" validate:"dive"`
}

// BundleOption is one answer option. Result is a soft reference to a
// BundleResult code and is deliberately not checked at import time. Score is
// an optional explicit override that beats the scoring configuration.
type BundleOption struct {
	Key    string `json:"key" validate:"required,max=16"`
	Text   string `json:"text" validate:"required"`
	Result string `json:"result"`
	Score  *int   `json:"score"`
}

// BundleResult is one scored result bucket. Codes are not required to be
// unique — duplicates are preserved as separate rows.
type BundleResult struct {
	Code        string `json:"code" validate:"required,max=64"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"image_url"`
	MinScore    *int   `json:"min_score"`
	MaxScore    *int   `json:"max_score"`
}

// quizRow maps the bundle metadata onto a persisted quiz row, filling in the
// enum defaults the schema expects when the author omitted them.
func (b *QuizBundle) quizRow() *model.Quiz {
	t := b.Test

	scoringMode := model.ScoringMode(t.ScoringMode)
	if scoringMode == "" {
		scoringMode = model.ScoringModeSimple
	}
	displayMode := model.DisplayMode(t.DisplayMode)
	if displayMode == "" {
		displayMode = model.DisplayModeSinglePage
	}

	var scoringConfig json.RawMessage
	if t.Scoring != nil {
		scoringConfig, _ = json.Marshal(t.Scoring)
	}
	var features json.RawMessage
	if len(t.Features) > 0 {
		features, _ = json.Marshal(t.Features)
	}

	return &model.Quiz{
		Slug:           t.Slug,
		Title:          t.Title,
		Subtitle:       t.Subtitle,
		Description:    t.Description,
		Color:          t.Color,
		Tags:           t.Tags,
		Status:         model.QuizStatus(t.Status),
		SortOrder:      t.SortOrder,
		ScoringMode:    scoringMode,
		ScoringConfig:  scoringConfig,
		DisplayMode:    displayMode,
		PlayCountLabel: t.PlayCount,
		Glyph:          t.Glyph,
		Features:       features,
	}
}
