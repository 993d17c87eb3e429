package service

import (
	"context"
	"errors"
	"fmt"

	"questrack/internal/question/model"
	"questrack/internal/question/repository"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/logger"

	"go.uber.org/zap"
)

// QuestionService serves the user-relative question catalog and saved list.
type QuestionService struct {
	questions repository.QuestionRepository
	saved     repository.SavedQuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions repository.QuestionRepository, saved repository.SavedQuestionRepository) *QuestionService {
	return &QuestionService{questions: questions, saved: saved}
}

// ListInput represents a catalog query.
type ListInput struct {
	UserID     int64
	Status     string
	Difficulty string
	Topic      string
	Page       int
	PageSize   int
}

// ListOutput is one page of the catalog.
type ListOutput struct {
	Questions []model.Question
	Total     int64
	Page      int
	PageSize  int
}

// ListQuestions returns one page of the catalog as seen by the caller.
func (s *QuestionService) ListQuestions(ctx context.Context, input ListInput) (ListOutput, error) {
	if input.UserID <= 0 {
		return ListOutput{}, pkgerrors.New(pkgerrors.Unauthorized)
	}
	filter := model.Filter{
		Status:     model.Status(input.Status),
		Difficulty: model.Difficulty(input.Difficulty),
		Topic:      input.Topic,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	filter = filter.Normalize()
	// Filter values are matched exactly. One outside the fixed set matches no row.
	if (filter.Status != "" && !filter.Status.Valid()) || (filter.Difficulty != "" && !filter.Difficulty.Valid()) {
		return ListOutput{Questions: []model.Question{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}

	questions, total, err := s.questions.List(ctx, input.UserID, filter)
	if err != nil {
		return ListOutput{}, pkgerrors.Wrap(fmt.Errorf("list questions failed: %w", err), pkgerrors.DatabaseError)
	}
	return ListOutput{
		Questions: questions,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

// GetQuestion returns a single question as seen by the caller.
func (s *QuestionService) GetQuestion(ctx context.Context, userID, questionID int64) (model.Question, error) {
	if userID <= 0 {
		return model.Question{}, pkgerrors.New(pkgerrors.Unauthorized)
	}
	if questionID <= 0 {
		return model.Question{}, pkgerrors.New(pkgerrors.InvalidParams)
	}
	question, err := s.questions.Get(ctx, userID, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return model.Question{}, pkgerrors.New(pkgerrors.QuestionNotFound)
		}
		return model.Question{}, pkgerrors.Wrap(fmt.Errorf("get question failed: %w", err), pkgerrors.DatabaseError)
	}
	return question, nil
}

// SetStatus records the caller's solve status for a question.
func (s *QuestionService) SetStatus(ctx context.Context, userID, questionID int64, status string) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.Unauthorized)
	}
	if questionID <= 0 {
		return pkgerrors.New(pkgerrors.InvalidParams)
	}
	st := model.Status(status)
	if !st.Valid() {
		return pkgerrors.New(pkgerrors.InvalidStatus).WithDetail("status", status)
	}
	if err := s.questions.SetStatus(ctx, userID, questionID, st); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return pkgerrors.New(pkgerrors.QuestionNotFound)
		}
		return pkgerrors.Wrap(fmt.Errorf("set status failed: %w", err), pkgerrors.StatusUpdateFailed)
	}
	// The saved list embeds status, so its cached copy is stale now.
	if err := s.saved.InvalidateSaved(ctx, userID); err != nil {
		logger.Warn(ctx, "invalidate saved list failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

// ListSaved returns the owner's saved questions ordered by sequence number.
func (s *QuestionService) ListSaved(ctx context.Context, callerID, ownerID int64) ([]model.Question, error) {
	if err := checkOwner(callerID, ownerID); err != nil {
		return nil, err
	}
	questions, err := s.saved.ListSaved(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(fmt.Errorf("list saved questions failed: %w", err), pkgerrors.DatabaseError)
	}
	return questions, nil
}

// SaveQuestion adds a question to the owner's saved list.
func (s *QuestionService) SaveQuestion(ctx context.Context, callerID, ownerID, questionID int64) error {
	if err := checkOwner(callerID, ownerID); err != nil {
		return err
	}
	if questionID <= 0 {
		return pkgerrors.New(pkgerrors.InvalidParams)
	}
	if err := s.saved.Save(ctx, ownerID, questionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrQuestionMissing):
			return pkgerrors.New(pkgerrors.QuestionNotFound)
		case errors.Is(err, repository.ErrAlreadySaved):
			return pkgerrors.New(pkgerrors.RecordAlreadyExists).WithMessage("Question already saved")
		}
		return pkgerrors.Wrap(fmt.Errorf("save question failed: %w", err), pkgerrors.SaveQuestionFailed)
	}
	return nil
}

// RemoveQuestion drops a question from the owner's saved list.
func (s *QuestionService) RemoveQuestion(ctx context.Context, callerID, ownerID, questionID int64) error {
	if err := checkOwner(callerID, ownerID); err != nil {
		return err
	}
	if questionID <= 0 {
		return pkgerrors.New(pkgerrors.InvalidParams)
	}
	if err := s.saved.Remove(ctx, ownerID, questionID); err != nil {
		if errors.Is(err, repository.ErrSavedNotFound) {
			return pkgerrors.New(pkgerrors.SavedQuestionNotFound)
		}
		return pkgerrors.Wrap(fmt.Errorf("remove question failed: %w", err), pkgerrors.RemoveQuestionFailed)
	}
	return nil
}

func checkOwner(callerID, ownerID int64) error {
	if callerID <= 0 {
		return pkgerrors.New(pkgerrors.Unauthorized)
	}
	if ownerID <= 0 {
		return pkgerrors.New(pkgerrors.InvalidParams)
	}
	if callerID != ownerID {
		return pkgerrors.ForbiddenError("saved questions belong to another user")
	}
	return nil
}
