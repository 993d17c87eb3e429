// Package render turns a question read into the view model of a list page.
package render

import (
	"strconv"

	"questrack/internal/question/model"
	"questrack/internal/web/style"
)

// State is the branch a list render takes.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmpty
	StateEmptyFiltered
	StateList
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateEmptyFiltered:
		return "empty-filtered"
	case StateList:
		return "list"
	}
	return "unknown"
}

// Action is the toggle shown on a row.
type Action string

const (
	ActionSave   Action = "save"
	ActionRemove Action = "remove"
)

// ListKind holds the copy of one list page.
type ListKind struct {
	Header        string
	ErrorMessage  string
	EmptyMessage  string
	FilteredEmpty string
	// RemoveOnly lists are made of saved questions, so every row offers remove.
	RemoveOnly bool
}

var (
	QuestionsList = ListKind{
		Header:        "Questions",
		ErrorMessage:  "Failed to fetch questions! Refresh the page or check your internet connection.",
		EmptyMessage:  "No questions found!",
		FilteredEmpty: "No questions found! Try using different filters.",
	}
	SavedList = ListKind{
		Header:       "Saved Questions",
		ErrorMessage: "Failed to fetch saved questions! Refresh the page or check your internet connection.",
		EmptyMessage: "No saved questions found!",
		RemoveOnly:   true,
	}
)

// ListInput is everything a list render depends on.
type ListInput struct {
	Loading       bool
	Error         bool
	Questions     []model.Question
	FilterApplied bool
}

// Row is one rendered question.
type Row struct {
	ID              int64
	QNo             int
	TopicName       string
	Href            string
	StatusIcon      string
	StatusColor     string
	DifficultyLabel string
	DifficultyColor string
	Action          Action
}

// ListView is the outcome of a list render.
type ListView struct {
	State   State
	Header  string
	Message string
	Rows    []Row
}

// RenderList picks exactly one state in fixed priority: loading, error,
// empty, filtered empty, list. Rows keep the delivered order.
func RenderList(kind ListKind, in ListInput) ListView {
	switch {
	case in.Loading:
		return ListView{State: StateLoading, Header: kind.Header}
	case in.Error:
		return ListView{State: StateError, Header: kind.Header, Message: kind.ErrorMessage}
	case len(in.Questions) == 0 && (!in.FilterApplied || kind.FilteredEmpty == ""):
		return ListView{State: StateEmpty, Header: kind.Header, Message: kind.EmptyMessage}
	case len(in.Questions) == 0:
		return ListView{State: StateEmptyFiltered, Header: kind.Header, Message: kind.FilteredEmpty}
	}

	rows := make([]Row, 0, len(in.Questions))
	for _, q := range in.Questions {
		rows = append(rows, NewRow(kind, q))
	}
	return ListView{State: StateList, Header: kind.Header, Rows: rows}
}

// NewRow builds the row of q.
func NewRow(kind ListKind, q model.Question) Row {
	st := style.StatusStyle(string(q.Status))
	action := ActionSave
	if q.IsSaved || kind.RemoveOnly {
		action = ActionRemove
	}
	return Row{
		ID:              q.ID,
		QNo:             q.QNo,
		TopicName:       q.TopicName,
		Href:            DetailHref(q.ID),
		StatusIcon:      st.Icon,
		StatusColor:     st.Color,
		DifficultyLabel: style.Label(string(q.Difficulty)),
		DifficultyColor: style.DifficultyColor(string(q.Difficulty)),
		Action:          action,
	}
}

// DetailHref is the detail page of a question.
func DetailHref(questionID int64) string {
	return "/pages/questions/" + strconv.FormatInt(questionID, 10)
}
