package render

import (
	"testing"

	"questrack/internal/question/model"
)

func sampleQuestions() []model.Question {
	return []model.Question{
		{ID: 10, QNo: 3, TopicName: "graphs", Status: model.StatusSolved, Difficulty: model.DifficultyHard, IsSaved: true},
		{ID: 4, QNo: 1, TopicName: "arrays", Status: model.StatusTodo, Difficulty: model.DifficultyEasy},
		{ID: 7, QNo: 2, TopicName: "dp", Status: model.StatusAttempted, Difficulty: model.DifficultyMedium},
	}
}

func TestRenderListPriority(t *testing.T) {
	cases := []struct {
		name      string
		in        ListInput
		wantState State
		wantMsg   string
	}{
		{
			name:      "loading wins over everything",
			in:        ListInput{Loading: true, Error: true, Questions: sampleQuestions(), FilterApplied: true},
			wantState: StateLoading,
		},
		{
			name:      "error",
			in:        ListInput{Error: true, Questions: sampleQuestions()},
			wantState: StateError,
			wantMsg:   "Failed to fetch questions! Refresh the page or check your internet connection.",
		},
		{
			name:      "empty without filter",
			in:        ListInput{},
			wantState: StateEmpty,
			wantMsg:   "No questions found!",
		},
		{
			name:      "empty with filter",
			in:        ListInput{Questions: []model.Question{}, FilterApplied: true},
			wantState: StateEmptyFiltered,
			wantMsg:   "No questions found! Try using different filters.",
		},
		{
			name:      "list",
			in:        ListInput{Questions: sampleQuestions(), FilterApplied: true},
			wantState: StateList,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := RenderList(QuestionsList, tc.in)
			if view.State != tc.wantState {
				t.Fatalf("state = %s, want %s", view.State, tc.wantState)
			}
			if view.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", view.Message, tc.wantMsg)
			}
			if tc.wantState != StateList && len(view.Rows) != 0 {
				t.Fatalf("non-list state must not carry rows")
			}
		})
	}
}

func TestEmptyMessagesDiffer(t *testing.T) {
	if QuestionsList.EmptyMessage == QuestionsList.FilteredEmpty {
		t.Fatalf("filtered and unfiltered empty messages must differ")
	}
}

func TestRenderListRows(t *testing.T) {
	questions := sampleQuestions()
	view := RenderList(QuestionsList, ListInput{Questions: questions})

	if len(view.Rows) != len(questions) {
		t.Fatalf("rows = %d, want %d", len(view.Rows), len(questions))
	}
	for i, row := range view.Rows {
		q := questions[i]
		if row.ID != q.ID || row.QNo != q.QNo {
			t.Fatalf("row %d out of delivered order: %+v", i, row)
		}
		wantAction := ActionSave
		if q.IsSaved {
			wantAction = ActionRemove
		}
		if row.Action != wantAction {
			t.Fatalf("row %d: action %s, want %s", i, row.Action, wantAction)
		}
	}

	first := view.Rows[0]
	if first.Href != "/pages/questions/10" {
		t.Fatalf("unexpected href: %s", first.Href)
	}
	if first.StatusIcon != "circle-check" || first.StatusColor != "text-emerald-700" {
		t.Fatalf("unexpected status style: %+v", first)
	}
	if first.DifficultyLabel != "Hard" || first.DifficultyColor != "text-red-600" {
		t.Fatalf("unexpected difficulty style: %+v", first)
	}
	if view.Rows[2].DifficultyLabel != "Medium" || view.Rows[2].StatusIcon != "circle-dot" {
		t.Fatalf("unexpected third row: %+v", view.Rows[2])
	}
}

func TestRenderListUnknownValuesAreUnstyled(t *testing.T) {
	view := RenderList(QuestionsList, ListInput{Questions: []model.Question{{ID: 1, Status: "SKIPPED", Difficulty: "INSANE"}}})
	row := view.Rows[0]
	if row.StatusIcon != "" || row.StatusColor != "" || row.DifficultyColor != "" {
		t.Fatalf("unknown values must render unstyled: %+v", row)
	}
}

func TestRenderSavedList(t *testing.T) {
	view := RenderList(SavedList, ListInput{FilterApplied: true})
	if view.State != StateEmpty || view.Message != "No saved questions found!" {
		t.Fatalf("unexpected saved empty view: %+v", view)
	}

	view = RenderList(SavedList, ListInput{Error: true})
	if view.Message != "Failed to fetch saved questions! Refresh the page or check your internet connection." {
		t.Fatalf("unexpected saved error message: %q", view.Message)
	}

	view = RenderList(SavedList, ListInput{Questions: []model.Question{{ID: 1}, {ID: 2, IsSaved: true}}})
	if view.Header != "Saved Questions" {
		t.Fatalf("unexpected header: %q", view.Header)
	}
	for _, row := range view.Rows {
		if row.Action != ActionRemove {
			t.Fatalf("saved rows must offer remove: %+v", row)
		}
	}
}
