package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"questrack/internal/common/cache"
	"questrack/internal/common/db"
	"questrack/internal/question/model"
)

const (
	defaultSavedListTTL      = 10 * time.Minute
	defaultSavedListEmptyTTL = time.Minute
	savedListKeyPrefix       = "saved:questions:"
)

var (
	ErrAlreadySaved    = errors.New("question already saved")
	ErrSavedNotFound   = errors.New("saved question not found")
	ErrQuestionMissing = errors.New("question does not exist")
)

// SavedQuestionRepository stores a user's saved questions. ListSaved is
// served cache-aside from Redis; every write invalidates the user's entry.
type SavedQuestionRepository interface {
	ListSaved(ctx context.Context, userID int64) ([]model.Question, error)
	Save(ctx context.Context, userID, questionID int64) error
	Remove(ctx context.Context, userID, questionID int64) error
	InvalidateSaved(ctx context.Context, userID int64) error
}

type MySQLSavedQuestionRepository struct {
	db       db.Database
	cache    cache.BasicOps
	ttl      time.Duration
	emptyTTL time.Duration
}

func NewSavedQuestionRepository(database db.Database, cacheClient cache.BasicOps) SavedQuestionRepository {
	return NewSavedQuestionRepositoryWithTTL(database, cacheClient, defaultSavedListTTL, defaultSavedListEmptyTTL)
}

func NewSavedQuestionRepositoryWithTTL(database db.Database, cacheClient cache.BasicOps, ttl, emptyTTL time.Duration) SavedQuestionRepository {
	if ttl <= 0 {
		ttl = defaultSavedListTTL
	}
	if emptyTTL <= 0 {
		emptyTTL = defaultSavedListEmptyTTL
	}
	return &MySQLSavedQuestionRepository{
		db:       database,
		cache:    cacheClient,
		ttl:      ttl,
		emptyTTL: emptyTTL,
	}
}

func (r *MySQLSavedQuestionRepository) ListSaved(ctx context.Context, userID int64) ([]model.Question, error) {
	if r.cache == nil {
		return r.listSavedFromDB(ctx, userID)
	}
	questions, err := cache.GetWithCached[[]model.Question](
		ctx,
		r.cache,
		savedListKey(userID),
		cache.JitterTTL(r.ttl),
		cache.JitterTTL(r.emptyTTL),
		func(questions []model.Question) bool { return len(questions) == 0 },
		marshalQuestions,
		unmarshalQuestions,
		func(ctx context.Context) ([]model.Question, error) {
			return r.listSavedFromDB(ctx, userID)
		},
	)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

func (r *MySQLSavedQuestionRepository) Save(ctx context.Context, userID, questionID int64) error {
	return r.write(ctx, userID, func(ctx context.Context) error {
		var exists int
		err := r.db.QueryRow(ctx, "SELECT 1 FROM question WHERE id = ?", questionID).Scan(&exists)
		if err != nil {
			if db.IsNoRows(err) {
				return ErrQuestionMissing
			}
			return err
		}
		_, err = r.db.Exec(ctx, "INSERT INTO saved_question (user_id, question_id) VALUES (?, ?)", userID, questionID)
		if err != nil {
			if db.IsDuplicateEntry(err) {
				return ErrAlreadySaved
			}
			return err
		}
		return nil
	})
}

func (r *MySQLSavedQuestionRepository) Remove(ctx context.Context, userID, questionID int64) error {
	return r.write(ctx, userID, func(ctx context.Context) error {
		result, err := r.db.Exec(ctx, "DELETE FROM saved_question WHERE user_id = ? AND question_id = ?", userID, questionID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSavedNotFound
		}
		return nil
	})
}

func (r *MySQLSavedQuestionRepository) InvalidateSaved(ctx context.Context, userID int64) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Del(ctx, savedListKey(userID))
}

func (r *MySQLSavedQuestionRepository) write(ctx context.Context, userID int64, fn func(context.Context) error) error {
	if r.cache == nil {
		return fn(ctx)
	}
	return cache.UpdateCached(ctx, r.cache, fn, savedListKey(userID))
}

func (r *MySQLSavedQuestionRepository) listSavedFromDB(ctx context.Context, userID int64) ([]model.Question, error) {
	query := `
		SELECT q.id, q.q_no, q.topic_name, q.difficulty, COALESCE(s.status, 'TODO'), TRUE
		FROM saved_question sq
		JOIN question q ON q.id = sq.question_id
		LEFT JOIN user_question_status s ON s.question_id = q.id AND s.user_id = sq.user_id
		WHERE sq.user_id = ?
		ORDER BY q.q_no ASC, q.id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func savedListKey(userID int64) string {
	return savedListKeyPrefix + strconv.FormatInt(userID, 10)
}

func marshalQuestions(questions []model.Question) string {
	payload, err := json.Marshal(questions)
	if err != nil {
		return ""
	}
	return string(payload)
}

func unmarshalQuestions(data string) ([]model.Question, error) {
	if data == "" {
		return nil, nil
	}
	var questions []model.Question
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
