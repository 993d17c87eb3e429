package repository

import (
	"context"
	"errors"
	"strings"

	"questrack/internal/common/db"
	"questrack/internal/question/model"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
)

// questionColumns projects a catalog row plus the viewer's status and saved flag.
// Both placeholders in questionFrom bind the viewer's user id.
const (
	questionColumns = "q.id, q.q_no, q.topic_name, q.difficulty, COALESCE(s.status, 'TODO'), sq.user_id IS NOT NULL"
	questionFrom    = `
		FROM question q
		LEFT JOIN user_question_status s ON s.question_id = q.id AND s.user_id = ?
		LEFT JOIN saved_question sq ON sq.question_id = q.id AND sq.user_id = ?`
)

type QuestionRepository interface {
	List(ctx context.Context, userID int64, filter model.Filter) ([]model.Question, int64, error)
	Get(ctx context.Context, userID, questionID int64) (model.Question, error)
	SetStatus(ctx context.Context, userID, questionID int64, status model.Status) error
}

type MySQLQuestionRepository struct {
	db db.Database
}

func NewQuestionRepository(database db.Database) QuestionRepository {
	return &MySQLQuestionRepository{db: database}
}

func (r *MySQLQuestionRepository) List(ctx context.Context, userID int64, filter model.Filter) ([]model.Question, int64, error) {
	filter = filter.Normalize()
	where, whereArgs := buildWhere(filter)

	args := append([]any{userID, userID}, whereArgs...)

	var total int64
	countQuery := "SELECT COUNT(*)" + questionFrom + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Question{}, 0, nil
	}

	listQuery := "SELECT " + questionColumns + questionFrom + where + " ORDER BY q.q_no ASC, q.id ASC LIMIT ? OFFSET ?"
	rows, err := r.db.Query(ctx, listQuery, append(args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *MySQLQuestionRepository) Get(ctx context.Context, userID, questionID int64) (model.Question, error) {
	query := "SELECT " + questionColumns + questionFrom + " WHERE q.id = ?"
	row := r.db.QueryRow(ctx, query, userID, userID, questionID)
	question, err := scanQuestion(row)
	if err != nil {
		if db.IsNoRows(err) {
			return model.Question{}, ErrQuestionNotFound
		}
		return model.Question{}, err
	}
	return question, nil
}

func (r *MySQLQuestionRepository) SetStatus(ctx context.Context, userID, questionID int64, status model.Status) error {
	return r.db.Transaction(ctx, func(tx db.Transaction) error {
		var exists int
		err := tx.QueryRow(ctx, "SELECT 1 FROM question WHERE id = ?", questionID).Scan(&exists)
		if err != nil {
			if db.IsNoRows(err) {
				return ErrQuestionNotFound
			}
			return err
		}

		query := `
			INSERT INTO user_question_status (user_id, question_id, status)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE status = VALUES(status)`
		_, err = tx.Exec(ctx, query, userID, questionID, string(status))
		return err
	})
}

func buildWhere(filter model.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		conds = append(conds, "COALESCE(s.status, 'TODO') = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Difficulty != "" {
		conds = append(conds, "q.difficulty = ?")
		args = append(args, string(filter.Difficulty))
	}
	if topic := strings.TrimSpace(filter.Topic); topic != "" {
		conds = append(conds, "q.topic_name LIKE ?")
		args = append(args, "%"+escapeLike(topic)+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanQuestions(rows db.Rows) ([]model.Question, error) {
	defer func() { _ = rows.Close() }()

	questions := make([]model.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func scanQuestion(scanner db.Scanner) (model.Question, error) {
	var (
		question   model.Question
		status     string
		difficulty string
	)
	err := scanner.Scan(
		&question.ID,
		&question.QNo,
		&question.TopicName,
		&difficulty,
		&status,
		&question.IsSaved,
	)
	if err != nil {
		return model.Question{}, err
	}
	question.Status = model.Status(status)
	question.Difficulty = model.Difficulty(difficulty)
	return question, nil
}
