package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/ai919/funquiz-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fakeState is the in-memory table set a fake transaction stages against.
type fakeState struct {
	quizzes   map[uuid.UUID]*model.Quiz
	results   map[uuid.UUID][]model.QuizResult
	questions map[uuid.UUID][]model.QuizQuestion
	options   map[int64][]model.QuizOption
	nextID    int64
}

func newFakeState() *fakeState {
	return &fakeState{
		quizzes:   make(map[uuid.UUID]*model.Quiz),
		results:   make(map[uuid.UUID][]model.QuizResult),
		questions: make(map[uuid.UUID][]model.QuizQuestion),
		options:   make(map[int64][]model.QuizOption),
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = s.nextID
	for id, q := range s.quizzes {
		cp := *q
		c.quizzes[id] = &cp
	}
	for id, rows := range s.results {
		c.results[id] = append([]model.QuizResult(nil), rows...)
	}
	for id, rows := range s.questions {
		c.questions[id] = append([]model.QuizQuestion(nil), rows...)
	}
	for id, rows := range s.options {
		c.options[id] = append([]model.QuizOption(nil), rows...)
	}
	return c
}

// fakeStore implements Store over fakeState. Transactions stage writes on a
// clone and swap it in on Commit, so Rollback observably discards everything.
type fakeStore struct {
	state *fakeState

	begun      int
	committed  int
	rolledBack int

	failOn string // name of the Tx method that should fail, empty for none
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newFakeState()}
}

func (s *fakeStore) FindQuizIDBySlug(_ context.Context, slug string) (uuid.UUID, bool, error) {
	for id, q := range s.state.quizzes {
		if q.Slug == slug {
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

func (s *fakeStore) Begin(_ context.Context) (Tx, error) {
	if s.failOn == "Begin" {
		return nil, errors.New("injected Begin failure")
	}
	s.begun++
	return &fakeTx{store: s, staged: s.state.clone()}, nil
}

type fakeTx struct {
	store  *fakeStore
	staged *fakeState
	done   bool
}

func (t *fakeTx) fail(op string) error {
	if t.store.failOn == op {
		return errors.New("injected " + op + " failure")
	}
	return nil
}

func (t *fakeTx) InsertQuiz(_ context.Context, q *model.Quiz) error {
	if err := t.fail("InsertQuiz"); err != nil {
		return err
	}
	q.ID = uuid.New()
	cp := *q
	t.staged.quizzes[q.ID] = &cp
	return nil
}

func (t *fakeTx) UpdateQuiz(_ context.Context, q *model.Quiz) error {
	if err := t.fail("UpdateQuiz"); err != nil {
		return err
	}
	if _, ok := t.staged.quizzes[q.ID]; !ok {
		return errors.New("quiz not found")
	}
	cp := *q
	t.staged.quizzes[q.ID] = &cp
	return nil
}

func (t *fakeTx) DeleteResults(_ context.Context, quizID uuid.UUID) error {
	if err := t.fail("DeleteResults"); err != nil {
		return err
	}
	delete(t.staged.results, quizID)
	return nil
}

func (t *fakeTx) InsertResult(_ context.Context, r *model.QuizResult) error {
	if err := t.fail("InsertResult"); err != nil {
		return err
	}
	t.staged.nextID++
	r.ID = t.staged.nextID
	t.staged.results[r.QuizID] = append(t.staged.results[r.QuizID], *r)
	return nil
}

func (t *fakeTx) DeleteQuestions(_ context.Context, quizID uuid.UUID) error {
	if err := t.fail("DeleteQuestions"); err != nil {
		return err
	}
	for _, q := range t.staged.questions[quizID] {
		delete(t.staged.options, q.ID)
	}
	delete(t.staged.questions, quizID)
	return nil
}

func (t *fakeTx) InsertQuestion(_ context.Context, q *model.QuizQuestion) error {
	if err := t.fail("InsertQuestion"); err != nil {
		return err
	}
	t.staged.nextID++
	q.ID = t.staged.nextID
	t.staged.questions[q.QuizID] = append(t.staged.questions[q.QuizID], *q)
	return nil
}

func (t *fakeTx) InsertOption(_ context.Context, o *model.QuizOption) error {
	if err := t.fail("InsertOption"); err != nil {
		return err
	}
	t.staged.nextID++
	o.ID = t.staged.nextID
	t.staged.options[o.QuestionID] = append(t.staged.options[o.QuestionID], *o)
	return nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	if err := t.fail("Commit"); err != nil {
		return err
	}
	t.store.state = t.staged
	t.store.committed++
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.store.rolledBack++
	t.done = true
	return nil
}

func newTestPipeline(store *fakeStore) *Pipeline {
	return NewPipeline(store, DefaultGlyphResolver(), zerolog.Nop())
}

func catBundle() *QuizBundle {
	b := validBundle()
	b.Test.Scoring = &ScoringConfig{OptionScores: map[string]int{"a": 2, "b": 7}}
	return b
}

func seedQuiz(store *fakeStore, slug string) uuid.UUID {
	id := uuid.New()
	store.state.quizzes[id] = &model.Quiz{ID: id, Slug: slug, Title: "Old Title", Status: model.QuizStatusDraft}
	store.state.nextID++
	qID := store.state.nextID
	store.state.questions[id] = []model.QuizQuestion{{ID: qID, QuizID: id, Text: "Old question", Position: 1}}
	store.state.options[qID] = []model.QuizOption{{ID: qID + 1000, QuestionID: qID, Key: "x", Text: "Old option", Position: 1}}
	store.state.results[id] = []model.QuizResult{{ID: qID + 2000, QuizID: id, Code: "old", Title: "Old", Position: 1}}
	return id
}

func TestImportCreatesQuiz(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	outcome, err := p.ImportBundle(context.Background(), catBundle(), Params{})
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}

	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create", outcome.Action)
	}
	if outcome.QuestionsCount != 1 || outcome.ResultsCount != 2 {
		t.Errorf("counts = %d/%d, want 1/2", outcome.QuestionsCount, outcome.ResultsCount)
	}
	if outcome.DryRun {
		t.Error("outcome reports dry-run for a committed import")
	}
	if store.committed != 1 || store.rolledBack != 0 {
		t.Fatalf("committed=%d rolledBack=%d, want 1/0", store.committed, store.rolledBack)
	}

	quiz, ok := store.state.quizzes[outcome.QuizID]
	if !ok {
		t.Fatal("quiz row not persisted")
	}
	if quiz.Slug != "which-cat-are-you" {
		t.Errorf("slug = %q", quiz.Slug)
	}
	// The personality tag maps to the brain glyph.
	if quiz.Glyph != "🧠" {
		t.Errorf("glyph = %q, want 🧠", quiz.Glyph)
	}

	questions := store.state.questions[outcome.QuizID]
	if len(questions) != 1 {
		t.Fatalf("persisted %d questions, want 1", len(questions))
	}
	if questions[0].Position != 1 {
		t.Errorf("question position = %d, want 1", questions[0].Position)
	}

	options := store.state.options[questions[0].ID]
	if len(options) != 2 {
		t.Fatalf("persisted %d options, want 2", len(options))
	}
	// Scores come from the scoring config option_scores map.
	if options[0].Score != 2 || options[1].Score != 7 {
		t.Errorf("option scores = %d/%d, want 2/7", options[0].Score, options[1].Score)
	}
	if options[0].Position != 1 || options[1].Position != 2 {
		t.Errorf("option positions = %d/%d, want 1/2", options[0].Position, options[1].Position)
	}

	results := store.state.results[outcome.QuizID]
	if len(results) != 2 {
		t.Fatalf("persisted %d results, want 2", len(results))
	}
	if results[0].Position != 1 || results[1].Position != 2 {
		t.Errorf("result positions = %d/%d, want 1/2", results[0].Position, results[1].Position)
	}
}

func TestImportExplicitOptionScoreOverridesConfig(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	b := catBundle()
	b.Questions[0].Options[0].Score = intPtr(99)

	outcome, err := p.ImportBundle(context.Background(), b, Params{})
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}

	questions := store.state.questions[outcome.QuizID]
	options := store.state.options[questions[0].ID]
	if options[0].Score != 99 {
		t.Errorf("option score = %d, want explicit override 99", options[0].Score)
	}
	if options[1].Score != 7 {
		t.Errorf("option score = %d, want config value 7", options[1].Score)
	}
}

func TestImportConflictWithoutOverwrite(t *testing.T) {
	store := newFakeStore()
	existingID := seedQuiz(store, "which-cat-are-you")
	p := newTestPipeline(store)

	_, err := p.ImportBundle(context.Background(), catBundle(), Params{})
	ie, ok := AsError(err)
	if !ok || ie.Kind != ErrorKindConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
	if ie.Slug != "which-cat-are-you" {
		t.Errorf("conflict slug = %q", ie.Slug)
	}

	// Conflicts are detected before any transaction opens.
	if store.begun != 0 {
		t.Errorf("begun = %d transactions, want 0", store.begun)
	}
	if store.state.quizzes[existingID].Title != "Old Title" {
		t.Error("existing quiz was modified on a rejected import")
	}
}

func TestImportOverwriteReplacesExistingQuiz(t *testing.T) {
	store := newFakeStore()
	existingID := seedQuiz(store, "which-cat-are-you")
	p := newTestPipeline(store)

	outcome, err := p.ImportBundle(context.Background(), catBundle(), Params{Overwrite: true})
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}

	if outcome.Action != ActionUpdate {
		t.Errorf("action = %s, want update", outcome.Action)
	}
	if outcome.QuizID != existingID {
		t.Errorf("quiz ID changed on overwrite: %s -> %s", existingID, outcome.QuizID)
	}

	quiz := store.state.quizzes[existingID]
	if quiz.Title != "Which Cat Are You?" {
		t.Errorf("title = %q, want replaced title", quiz.Title)
	}

	// Replacement is total: nothing of the previous version survives.
	questions := store.state.questions[existingID]
	if len(questions) != 1 || questions[0].Text != "Pick a nap spot." {
		t.Fatalf("questions = %+v, want only the new question", questions)
	}
	results := store.state.results[existingID]
	for _, r := range results {
		if r.Code == "old" {
			t.Error("old result row survived the replacement")
		}
	}
	for _, opts := range store.state.options {
		for _, o := range opts {
			if o.Text == "Old option" {
				t.Error("old option row survived the replacement")
			}
		}
	}
}

func TestImportOverwriteDryRunLeavesStorageUntouched(t *testing.T) {
	store := newFakeStore()
	existingID := seedQuiz(store, "which-cat-are-you")
	p := newTestPipeline(store)

	outcome, err := p.ImportBundle(context.Background(), catBundle(), Params{Overwrite: true, DryRun: true})
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}

	if !outcome.DryRun {
		t.Error("outcome does not report dry-run")
	}
	if outcome.Action != ActionUpdate {
		t.Errorf("action = %s, want update preview", outcome.Action)
	}
	if outcome.QuizID != existingID {
		t.Errorf("preview quiz ID = %s, want existing %s", outcome.QuizID, existingID)
	}
	if store.committed != 0 || store.rolledBack != 1 {
		t.Fatalf("committed=%d rolledBack=%d, want 0/1", store.committed, store.rolledBack)
	}

	if store.state.quizzes[existingID].Title != "Old Title" {
		t.Error("dry-run modified the stored quiz")
	}
	if qs := store.state.questions[existingID]; len(qs) != 1 || qs[0].Text != "Old question" {
		t.Error("dry-run modified the stored questions")
	}
}

func TestImportDryRunCreateLeavesNoRows(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	outcome, err := p.ImportBundle(context.Background(), catBundle(), Params{DryRun: true})
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}
	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create preview", outcome.Action)
	}
	if len(store.state.quizzes) != 0 {
		t.Fatalf("dry-run persisted %d quizzes", len(store.state.quizzes))
	}
	if store.rolledBack != 1 {
		t.Errorf("rolledBack = %d, want 1", store.rolledBack)
	}
}

func TestImportPreservesDuplicateResultCodes(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	b := catBundle()
	b.Results = append(b.Results, BundleResult{Code: "tabby", Title: "Tabby Twin", Description: "Also cozy."})

	outcome, err := p.ImportBundle(context.Background(), b, Params{})
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}
	if outcome.ResultsCount != 3 {
		t.Errorf("results count = %d, want 3", outcome.ResultsCount)
	}

	results := store.state.results[outcome.QuizID]
	if len(results) != 3 {
		t.Fatalf("persisted %d result rows, want 3", len(results))
	}
	tabbies := 0
	for _, r := range results {
		if r.Code == "tabby" {
			tabbies++
		}
	}
	if tabbies != 2 {
		t.Errorf("persisted %d rows with code tabby, want both duplicates", tabbies)
	}
	if results[2].Position != 3 {
		t.Errorf("duplicate-code row position = %d, want 3", results[2].Position)
	}
}

func TestImportValidationFailsBeforeAnyTransaction(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	b := catBundle()
	b.Questions[0].Options = append(b.Questions[0].Options,
		BundleOption{Key: "a", Text: "Duplicate"})

	_, err := p.ImportBundle(context.Background(), b, Params{})
	ie, ok := AsError(err)
	if !ok || ie.Kind != ErrorKindValidation {
		t.Fatalf("error = %v, want validation", err)
	}
	if len(ie.Violations) == 0 {
		t.Fatal("validation error carries no violations")
	}
	if store.begun != 0 {
		t.Errorf("begun = %d transactions, want 0", store.begun)
	}
}

func TestImportStorageFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	store.failOn = "InsertOption"
	p := newTestPipeline(store)

	_, err := p.ImportBundle(context.Background(), catBundle(), Params{})
	ie, ok := AsError(err)
	if !ok || ie.Kind != ErrorKindStorage {
		t.Fatalf("error = %v, want storage", err)
	}
	if store.rolledBack != 1 || store.committed != 0 {
		t.Fatalf("rolledBack=%d committed=%d, want 1/0", store.rolledBack, store.committed)
	}
	if len(store.state.quizzes) != 0 {
		t.Fatal("failed import left rows behind")
	}
}

func TestImportGlyphIsIdempotentAcrossReimports(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	b := catBundle()
	b.Test.Tags = nil // force the hash fallback

	first, err := p.ImportBundle(context.Background(), b, Params{})
	if err != nil {
		t.Fatalf("first import error = %v", err)
	}
	firstGlyph := store.state.quizzes[first.QuizID].Glyph

	b2 := catBundle()
	b2.Test.Tags = nil
	if _, err := p.ImportBundle(context.Background(), b2, Params{Overwrite: true}); err != nil {
		t.Fatalf("second import error = %v", err)
	}
	secondGlyph := store.state.quizzes[first.QuizID].Glyph

	if firstGlyph == "" || firstGlyph != secondGlyph {
		t.Fatalf("glyph changed across re-imports: %q -> %q", firstGlyph, secondGlyph)
	}
}

func TestImportDecodesRawDocument(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store)

	_, err := p.Import(context.Background(), []byte("not json"), Params{})
	ie, ok := AsError(err)
	if !ok || ie.Kind != ErrorKindValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}
