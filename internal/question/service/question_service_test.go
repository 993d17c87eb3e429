package service

import (
	"context"
	"errors"
	"testing"

	"questrack/internal/question/model"
	"questrack/internal/question/repository"
	pkgerrors "questrack/pkg/errors"
)

type fakeQuestionRepo struct {
	questions  []model.Question
	lastFilter model.Filter
	listErr    error
	getErr     error
	statusErr  error
	statusSet  map[int64]model.Status
}

func (f *fakeQuestionRepo) List(_ context.Context, _ int64, filter model.Filter) ([]model.Question, int64, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.questions, int64(len(f.questions)), nil
}

func (f *fakeQuestionRepo) Get(_ context.Context, _ int64, questionID int64) (model.Question, error) {
	if f.getErr != nil {
		return model.Question{}, f.getErr
	}
	for _, q := range f.questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return model.Question{}, repository.ErrQuestionNotFound
}

func (f *fakeQuestionRepo) SetStatus(_ context.Context, _ int64, questionID int64, status model.Status) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	if f.statusSet == nil {
		f.statusSet = make(map[int64]model.Status)
	}
	f.statusSet[questionID] = status
	return nil
}

type fakeSavedRepo struct {
	saved       map[int64]bool
	saveErr     error
	invalidated int
}

func (f *fakeSavedRepo) ListSaved(context.Context, int64) ([]model.Question, error) {
	out := make([]model.Question, 0, len(f.saved))
	for id := range f.saved {
		out = append(out, model.Question{ID: id, IsSaved: true})
	}
	return out, nil
}

func (f *fakeSavedRepo) Save(_ context.Context, _ int64, questionID int64) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved[questionID] {
		return repository.ErrAlreadySaved
	}
	f.saved[questionID] = true
	return nil
}

func (f *fakeSavedRepo) Remove(_ context.Context, _ int64, questionID int64) error {
	if !f.saved[questionID] {
		return repository.ErrSavedNotFound
	}
	delete(f.saved, questionID)
	return nil
}

func (f *fakeSavedRepo) InvalidateSaved(context.Context, int64) error {
	f.invalidated++
	return nil
}

func newTestService() (*QuestionService, *fakeQuestionRepo, *fakeSavedRepo) {
	questions := &fakeQuestionRepo{questions: []model.Question{
		{ID: 1, QNo: 1, TopicName: "arrays", Status: model.StatusTodo, Difficulty: model.DifficultyEasy},
		{ID: 2, QNo: 2, TopicName: "graphs", Status: model.StatusSolved, Difficulty: model.DifficultyHard},
	}}
	saved := &fakeSavedRepo{saved: map[int64]bool{}}
	return NewQuestionService(questions, saved), questions, saved
}

func TestListQuestionsValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		input ListInput
		code  pkgerrors.ErrorCode
	}{
		{name: "missing user", input: ListInput{}, code: pkgerrors.Unauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListQuestions(ctx, tc.input)
			if !pkgerrors.Is(err, tc.code) {
				t.Fatalf("expected code %d, got %v", tc.code, err)
			}
		})
	}
}

func TestListQuestionsUnknownFilterMatchesNothing(t *testing.T) {
	cases := []struct {
		name  string
		input ListInput
	}{
		{name: "lower-case status", input: ListInput{UserID: 1, Status: "solved"}},
		{name: "unknown status", input: ListInput{UserID: 1, Status: "DONE"}},
		{name: "lower-case difficulty", input: ListInput{UserID: 1, Difficulty: "hard"}},
		{name: "unknown difficulty", input: ListInput{UserID: 1, Difficulty: "EXTREME", Page: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			out, err := svc.ListQuestions(context.Background(), tc.input)
			if err != nil {
				t.Fatalf("unknown filter value must not fail: %v", err)
			}
			if out.Total != 0 || out.Questions == nil || len(out.Questions) != 0 {
				t.Fatalf("expected an empty page, got %+v", out)
			}
			if out.PageSize != model.DefaultPageSize || out.Page < 1 {
				t.Fatalf("unexpected paging: page=%d size=%d", out.Page, out.PageSize)
			}
			if repo.lastFilter != (model.Filter{}) {
				t.Fatalf("repository should not be queried, got %+v", repo.lastFilter)
			}
		})
	}
}

func TestListQuestionsNormalizesPaging(t *testing.T) {
	svc, repo, _ := newTestService()

	out, err := svc.ListQuestions(context.Background(), ListInput{UserID: 1, Status: "SOLVED", PageSize: 1000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out.Page != 1 || out.PageSize != model.MaxPageSize {
		t.Fatalf("unexpected paging: page=%d size=%d", out.Page, out.PageSize)
	}
	if repo.lastFilter.Status != model.StatusSolved || repo.lastFilter.PageSize != model.MaxPageSize {
		t.Fatalf("unexpected filter passed to repository: %+v", repo.lastFilter)
	}
	if out.Total != 2 || len(out.Questions) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestListQuestionsDatabaseError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.listErr = errors.New("connection refused")

	_, err := svc.ListQuestions(context.Background(), ListInput{UserID: 1})
	if !pkgerrors.Is(err, pkgerrors.DatabaseError) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetQuestion(context.Background(), 1, 99)
	if !pkgerrors.Is(err, pkgerrors.QuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}
}

func TestSetStatusInvalidatesSavedList(t *testing.T) {
	svc, repo, saved := newTestService()
	ctx := context.Background()

	if err := svc.SetStatus(ctx, 1, 2, "ATTEMPTED"); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if repo.statusSet[2] != model.StatusAttempted {
		t.Fatalf("status not recorded: %v", repo.statusSet)
	}
	if saved.invalidated != 1 {
		t.Fatalf("expected saved list invalidation, got %d", saved.invalidated)
	}

	if err := svc.SetStatus(ctx, 1, 2, "DONE"); !pkgerrors.Is(err, pkgerrors.InvalidStatus) {
		t.Fatalf("expected InvalidStatus, got %v", err)
	}

	repo.statusErr = repository.ErrQuestionNotFound
	if err := svc.SetStatus(ctx, 1, 3, "TODO"); !pkgerrors.Is(err, pkgerrors.QuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}
	if saved.invalidated != 1 {
		t.Fatalf("failed update must not invalidate, got %d", saved.invalidated)
	}
}

func TestSavedQuestionsOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.ListSaved(ctx, 1, 2); !pkgerrors.Is(err, pkgerrors.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	if err := svc.SaveQuestion(ctx, 0, 1, 1); !pkgerrors.Is(err, pkgerrors.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if err := svc.RemoveQuestion(ctx, 3, 1, 1); !pkgerrors.Is(err, pkgerrors.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestSaveAndRemoveQuestion(t *testing.T) {
	svc, _, saved := newTestService()
	ctx := context.Background()

	if err := svc.SaveQuestion(ctx, 1, 1, 2); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := svc.SaveQuestion(ctx, 1, 1, 2); !pkgerrors.Is(err, pkgerrors.RecordAlreadyExists) {
		t.Fatalf("expected RecordAlreadyExists, got %v", err)
	}

	list, err := svc.ListSaved(ctx, 1, 1)
	if err != nil || len(list) != 1 || list[0].ID != 2 {
		t.Fatalf("unexpected saved list: %v %v", list, err)
	}

	if err := svc.RemoveQuestion(ctx, 1, 1, 2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.RemoveQuestion(ctx, 1, 1, 2); !pkgerrors.Is(err, pkgerrors.SavedQuestionNotFound) {
		t.Fatalf("expected SavedQuestionNotFound, got %v", err)
	}

	saved.saveErr = repository.ErrQuestionMissing
	if err := svc.SaveQuestion(ctx, 1, 1, 42); !pkgerrors.Is(err, pkgerrors.QuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}
}
