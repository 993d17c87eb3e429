package model

// Status is the viewer's solve status for a question.
type Status string

const (
	StatusTodo      Status = "TODO"
	StatusSolved    Status = "SOLVED"
	StatusAttempted Status = "ATTEMPTED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusSolved, StatusAttempted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusSolved, StatusAttempted:
		return true
	}
	return false
}

// Difficulty is the fixed difficulty rating of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Difficulties lists every difficulty in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a catalog entry as seen by one user: Status and IsSaved are
// relative to the viewer.
type Question struct {
	ID         int64      `json:"id"`
	QNo        int        `json:"q_no"`
	TopicName  string     `json:"topic_name"`
	Status     Status     `json:"status"`
	Difficulty Difficulty `json:"difficulty"`
	IsSaved    bool       `json:"is_saved"`
}

// Filter narrows a question listing. Zero values mean "any".
type Filter struct {
	Status     Status
	Difficulty Difficulty
	Topic      string
	Page       int
	PageSize   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps pagination into range.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset returns the row offset of the filter's page.
func (f Filter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}
