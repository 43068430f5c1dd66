package importer

import (
	"strings"
	"testing"
)

func validBundle() *QuizBundle {
	return &QuizBundle{
		Test: TestMeta{
			Slug:        "which-cat-are-you",
			Title:       "Which Cat Are You?",
			Description: "Find your inner cat.",
			Status:      "published",
			Tags:        []string{"personality"},
		},
		Questions: []BundleQuestion{
			{
				Text: "Pick a nap spot.",
				Options: []BundleOption{
					{Key: "a", Text: "Sunny windowsill", Result: "tabby"},
					{Key: "b", Text: "Laundry basket", Result: "stray"},
				},
			},
		},
		Results: []BundleResult{
			{Code: "tabby", Title: "Tabby", Description: "Cozy and predictable."},
			{Code: "stray", Title: "Stray", Description: "Free spirit."},
		},
	}
}

func hasViolation(violations []Violation, field string) bool {
	for _, v := range violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func TestValidateBundleAcceptsValidBundle(t *testing.T) {
	if violations := ValidateBundle(validBundle()); len(violations) != 0 {
		t.Fatalf("ValidateBundle() = %+v, want no violations", violations)
	}
}

func TestValidateBundleRequiredFields(t *testing.T) {
	b := validBundle()
	b.Test.Slug = ""
	b.Test.Title = ""
	b.Test.Description = ""
	b.Test.Status = ""

	violations := ValidateBundle(b)
	for _, field := range []string{"test.slug", "test.title", "test.description", "test.status"} {
		if !hasViolation(violations, field) {
			t.Errorf("missing violation for %s, got %+v", field, violations)
		}
	}
}

func TestValidateBundleRejectsUnknownStatus(t *testing.T) {
	b := validBundle()
	b.Test.Status = "live"

	if violations := ValidateBundle(b); !hasViolation(violations, "test.status") {
		t.Fatalf("ValidateBundle() = %+v, want violation on test.status", violations)
	}
}

func TestValidateBundleRejectsUnknownScoringMode(t *testing.T) {
	b := validBundle()
	b.Test.ScoringMode = "weighted"

	if violations := ValidateBundle(b); !hasViolation(violations, "test.scoring_mode") {
		t.Fatalf("ValidateBundle() = %+v, want violation on test.scoring_mode", violations)
	}
}

func TestValidateBundleRejectsBadSlugCharacters(t *testing.T) {
	for _, slug := range []string{"Has-Upper", "with space", "emoji-🎯", "dot.dot"} {
		b := validBundle()
		b.Test.Slug = slug

		if violations := ValidateBundle(b); !hasViolation(violations, "test.slug") {
			t.Errorf("slug %q: want violation on test.slug, got %+v", slug, violations)
		}
	}
}

func TestValidateBundleRejectsDuplicateOptionKeys(t *testing.T) {
	b := validBundle()
	b.Questions[0].Options = append(b.Questions[0].Options,
		BundleOption{Key: "a", Text: "Duplicate key"})

	violations := ValidateBundle(b)
	if !hasViolation(violations, "questions[0].options[2].key") {
		t.Fatalf("ValidateBundle() = %+v, want duplicate-key violation", violations)
	}
}

func TestValidateBundleAllowsSameKeyAcrossQuestions(t *testing.T) {
	b := validBundle()
	b.Questions = append(b.Questions, BundleQuestion{
		Text: "Pick a snack.",
		Options: []BundleOption{
			{Key: "a", Text: "Tuna"},
			{Key: "b", Text: "Cheese"},
		},
	})

	if violations := ValidateBundle(b); len(violations) != 0 {
		t.Fatalf("ValidateBundle() = %+v, want no violations", violations)
	}
}

func TestValidateBundleRejectsLongOptionKey(t *testing.T) {
	b := validBundle()
	b.Questions[0].Options[0].Key = strings.Repeat("k", 17)

	if violations := ValidateBundle(b); !hasViolation(violations, "questions[0].options[0].key") {
		t.Fatalf("ValidateBundle() = %+v, want max-length violation on option key", violations)
	}
}

func TestValidateBundleRequiredResultFields(t *testing.T) {
	b := validBundle()
	b.Results[0].Code = ""
	b.Results[1].Title = ""

	violations := ValidateBundle(b)
	if !hasViolation(violations, "results[0].code") {
		t.Errorf("missing violation for results[0].code, got %+v", violations)
	}
	if !hasViolation(violations, "results[1].title") {
		t.Errorf("missing violation for results[1].title, got %+v", violations)
	}
}

func TestDecodeBundleRejectsInvalidJSON(t *testing.T) {
	b, violations := DecodeBundle([]byte(`{"test": `))
	if b != nil {
		t.Fatalf("DecodeBundle() returned a bundle for invalid JSON")
	}
	if !hasViolation(violations, "$") {
		t.Fatalf("DecodeBundle() = %+v, want document-level violation", violations)
	}
}

func TestDecodeBundleParsesValidDocument(t *testing.T) {
	raw := []byte(`{
		"test": {
			"slug": "which-cat-are-you",
			"title": "Which Cat Are You?",
			"description": "Find your inner cat.",
			"status": "draft",
			"scoring_config": {"option_scores": {"a": 2}}
		},
		"questions": [
			{"text": "Pick a nap spot.", "options": [
				{"key": "a", "text": "Sunny windowsill"},
				{"key": "b", "text": "Laundry basket", "score": 5}
			]}
		],
		"results": [
			{"code": "tabby", "title": "Tabby", "description": "Cozy."}
		]
	}`)

	b, violations := DecodeBundle(raw)
	if len(violations) != 0 {
		t.Fatalf("DecodeBundle() violations = %+v", violations)
	}
	if b.Test.Scoring == nil || b.Test.Scoring.OptionScores["a"] != 2 {
		t.Fatalf("scoring config not decoded: %+v", b.Test.Scoring)
	}
	if got := b.Questions[0].Options[1].Score; got == nil || *got != 5 {
		t.Fatalf("option score override not decoded: %v", got)
	}
}
