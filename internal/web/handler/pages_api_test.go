package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authmw "questrack/internal/auth/middleware"
	authsvc "questrack/internal/auth/service"
	"questrack/internal/question/controller"
	"questrack/internal/question/model"
	"questrack/internal/question/repository"
	"questrack/internal/question/service"
	"questrack/internal/web/apiclient"
	"questrack/internal/web/fetch"
	"questrack/internal/web/query"
	"questrack/internal/web/session"
	pkgerrors "questrack/pkg/errors"

	"github.com/gin-gonic/gin"
)

// catalogStore backs the real question service with rows held in memory.
type catalogStore struct {
	questions []model.Question
}

func (s *catalogStore) List(_ context.Context, _ int64, filter model.Filter) ([]model.Question, int64, error) {
	out := make([]model.Question, 0)
	for _, q := range s.questions {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

func (s *catalogStore) Get(_ context.Context, _ int64, questionID int64) (model.Question, error) {
	for _, q := range s.questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return model.Question{}, repository.ErrQuestionNotFound
}

func (s *catalogStore) SetStatus(context.Context, int64, int64, model.Status) error { return nil }

func (s *catalogStore) ListSaved(context.Context, int64) ([]model.Question, error) {
	return []model.Question{}, nil
}

func (s *catalogStore) Save(context.Context, int64, int64) error { return nil }
func (s *catalogStore) Remove(context.Context, int64, int64) error { return nil }

func (s *catalogStore) InvalidateSaved(context.Context, int64) error { return nil }

type bearerAuth struct{}

func (bearerAuth) Authenticate(_ context.Context, raw string) (authsvc.Identity, error) {
	if raw == "alice-token" {
		return authsvc.Identity{UserID: 1}, nil
	}
	return authsvc.Identity{}, pkgerrors.New(pkgerrors.TokenInvalid)
}

func newPagesOverAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &catalogStore{questions: []model.Question{
		{ID: 1, QNo: 1, TopicName: "Two Sum", Status: model.StatusSolved, Difficulty: model.DifficultyEasy},
		{ID: 2, QNo: 2, TopicName: "Course Schedule", Status: model.StatusTodo, Difficulty: model.DifficultyHard},
	}}
	apiRouter := gin.New()
	group := apiRouter.Group("/api/v1", authmw.BearerAuth(bearerAuth{}))
	controller.NewQuestionController(service.NewQuestionService(store, store)).RegisterRoutes(group)
	server := httptest.NewServer(apiRouter)
	t.Cleanup(server.Close)

	cache, err := query.NewClient(query.Config{StaleTime: time.Minute, RenderWait: 2 * time.Second})
	if err != nil {
		t.Fatalf("query client init failed: %v", err)
	}
	client := apiclient.New(apiclient.Config{BaseURL: server.URL, Timeout: 2 * time.Second})

	router := gin.New()
	router.SetHTMLTemplate(Templates())
	NewPages(fetch.NewAdapter(cache, client), client).
		Register(router, session.NewProvider(cookieAuth{}, "qt_session"), session.GateConfig{SignInPath: "/pages/signin"})
	return router
}

func TestQuestionsPageUnknownFilterIsEmptyNotError(t *testing.T) {
	router := newPagesOverAPI(t)

	cases := []struct {
		name   string
		target string
	}{
		{name: "lower-case status", target: "/pages/questions?status=todo"},
		{name: "unknown status", target: "/pages/questions?status=DONE"},
		{name: "lower-case difficulty", target: "/pages/questions?difficulty=hard"},
		{name: "unknown status with bad page", target: "/pages/questions?status=DONE&page=abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doPage(router, http.MethodGet, tc.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			body := rec.Body.String()
			if strings.Contains(body, "Failed to fetch questions!") {
				t.Fatalf("unknown filter value rendered as a fetch failure:\n%s", body)
			}
			if !strings.Contains(body, `data-state="empty-filtered"`) ||
				!strings.Contains(body, "No questions found! Try using different filters.") {
				t.Fatalf("expected filtered empty state:\n%s", body)
			}
			if strings.Contains(body, `data-active="true"`) {
				t.Fatalf("no status option matches an unknown value exactly")
			}
		})
	}
}

func TestQuestionsPageBadPageFallsBackToFirst(t *testing.T) {
	router := newPagesOverAPI(t)

	body := doPage(router, http.MethodGet, "/pages/questions?status=SOLVED&page=abc", nil).Body.String()
	if !strings.Contains(body, `data-state="list"`) || !strings.Contains(body, "Two Sum") {
		t.Fatalf("expected the first page of solved questions:\n%s", body)
	}
	if strings.Contains(body, "Course Schedule") {
		t.Fatalf("status filter not applied:\n%s", body)
	}
}
