package handler

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"questrack/internal/question/model"
	"questrack/internal/web/apiclient"
	"questrack/internal/web/fetch"
	"questrack/internal/web/filter"
	"questrack/internal/web/query"
	"questrack/internal/web/render"
	"questrack/internal/web/session"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SpinnerTemplate = "spinner.html"
	skeletonRowsNum = 6
	// refreshSeconds is how soon a page that rendered a loading state reloads.
	refreshSeconds = "1"
)

// Templates parses the page templates.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"skeletonRows": func() []int { return make([]int, skeletonRowsNum) },
	}
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// Mutations are the writes the action endpoints forward to question-service.
type Mutations interface {
	SaveQuestion(ctx context.Context, token string, userID, questionID int64) error
	RemoveQuestion(ctx context.Context, token string, userID, questionID int64) error
	SetStatus(ctx context.Context, token string, questionID int64, status string) error
}

var _ Mutations = (*apiclient.Client)(nil)

// Pages serves the HTML pages and their form actions.
type Pages struct {
	reads  *fetch.Adapter
	writes Mutations
}

func NewPages(reads *fetch.Adapter, writes Mutations) *Pages {
	return &Pages{reads: reads, writes: writes}
}

// Register mounts the pages on router. router must have Templates installed.
func (p *Pages) Register(router gin.IRouter, provider *session.Provider, gate session.GateConfig) {
	if gate.SpinnerTemplate == "" {
		gate.SpinnerTemplate = SpinnerTemplate
	}
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/pages/questions")
	})

	pages := router.Group("/pages", session.RequireSession(provider, gate))
	pages.GET("/questions", p.Questions)
	pages.GET("/saved", p.Saved)
	pages.GET("/questions/:id", p.Question)
	pages.POST("/questions/:id/save", p.Save)
	pages.POST("/questions/:id/remove", p.Remove)
	pages.POST("/questions/:id/status", p.SetStatus)
}

type listData struct {
	render.ListView
	Back string
}

type questionsPage struct {
	Title       string
	Refresh     string
	StatusLinks []filter.Link
	List        listData
	Page        int
	TotalPages  int
	PrevHref    string
	NextHref    string
}

// Questions renders the status filter and one page of the catalog.
func (p *Pages) Questions(c *gin.Context) {
	sess := session.FromContext(c)
	params := c.Request.URL.Query()

	res := p.reads.Questions(c.Request.Context(), viewer(sess), params)
	view := render.RenderList(render.QuestionsList, render.ListInput{
		Loading:       res.IsLoading(),
		Error:         res.IsError(),
		Questions:     res.Data.Items,
		FilterApplied: filter.FilterApplied(params),
	})

	data := questionsPage{
		Title:       "Questions",
		StatusLinks: filter.StatusLinks(params),
		List:        listData{ListView: view, Back: c.Request.URL.RequestURI()},
	}
	if res.IsLoading() {
		data.Refresh = refreshSeconds
	}
	if res.Status == query.StatusSuccess && res.Data.TotalPages > 1 {
		data.Page = res.Data.Page
		data.TotalPages = res.Data.TotalPages
		if res.Data.Page > 1 {
			data.PrevHref = filter.WithParam(params, filter.ParamPage, strconv.Itoa(res.Data.Page-1))
		}
		if res.Data.Page < res.Data.TotalPages {
			data.NextHref = filter.WithParam(params, filter.ParamPage, strconv.Itoa(res.Data.Page+1))
		}
	}
	p.html(c, "questions.html", data)
}

type savedPage struct {
	Title   string
	Refresh string
	List    listData
}

// Saved renders the viewer's saved questions.
func (p *Pages) Saved(c *gin.Context) {
	sess := session.FromContext(c)

	res := p.reads.SavedQuestions(c.Request.Context(), viewer(sess))
	view := render.RenderList(render.SavedList, render.ListInput{
		Loading:   res.IsLoading(),
		Error:     res.IsError(),
		Questions: res.Data,
	})

	data := savedPage{
		Title: "Saved Questions",
		List:  listData{ListView: view, Back: c.Request.URL.RequestURI()},
	}
	if res.IsLoading() {
		data.Refresh = refreshSeconds
	}
	p.html(c, "saved.html", data)
}

type questionPage struct {
	Title    string
	Refresh  string
	Loading  bool
	Message  string
	Row      render.Row
	Statuses []filter.Link
}

// Question renders one question with its status and save controls.
func (p *Pages) Question(c *gin.Context) {
	questionID, ok := pathID(c)
	if !ok {
		return
	}
	sess := session.FromContext(c)

	res := p.reads.Question(c.Request.Context(), viewer(sess), questionID)
	data := questionPage{Title: "Question"}
	switch {
	case res.IsLoading():
		data.Loading = true
		data.Refresh = refreshSeconds
	case res.IsError():
		if pkgerrors.Is(res.Err, pkgerrors.QuestionNotFound) {
			p.errorPage(c, http.StatusNotFound, "Question not found!")
			return
		}
		data.Message = "Failed to fetch question! Refresh the page or check your internet connection."
	default:
		data.Title = res.Data.TopicName
		data.Row = render.NewRow(render.QuestionsList, res.Data)
		data.Statuses = filter.StatusLinks(map[string][]string{filter.ParamStatus: {string(res.Data.Status)}})
	}
	p.html(c, "question.html", data)
}

// Save adds a question to the viewer's saved list.
func (p *Pages) Save(c *gin.Context) {
	p.mutate(c, func(ctx context.Context, sess session.Session, questionID int64) error {
		return p.writes.SaveQuestion(ctx, sess.Token, sess.UserID, questionID)
	})
}

// Remove drops a question from the viewer's saved list.
func (p *Pages) Remove(c *gin.Context) {
	p.mutate(c, func(ctx context.Context, sess session.Session, questionID int64) error {
		return p.writes.RemoveQuestion(ctx, sess.Token, sess.UserID, questionID)
	})
}

// SetStatus records the viewer's status for a question.
func (p *Pages) SetStatus(c *gin.Context) {
	status := c.PostForm("status")
	if !model.Status(status).Valid() {
		p.errorPage(c, http.StatusBadRequest, "Invalid status!")
		return
	}
	p.mutate(c, func(ctx context.Context, sess session.Session, questionID int64) error {
		return p.writes.SetStatus(ctx, sess.Token, questionID, status)
	})
}

// mutate runs a write, drops the viewer's cached reads and sends the browser back.
func (p *Pages) mutate(c *gin.Context, write func(context.Context, session.Session, int64) error) {
	questionID, ok := pathID(c)
	if !ok {
		return
	}
	sess := session.FromContext(c)
	ctx := c.Request.Context()

	err := write(ctx, sess, questionID)
	// Already-saved and already-removed leave the list in the state the viewer asked for.
	if err != nil && !pkgerrors.Is(err, pkgerrors.RecordAlreadyExists) && !pkgerrors.Is(err, pkgerrors.SavedQuestionNotFound) {
		logger.Error(ctx, "question action failed", zap.Int64("question_id", questionID), zap.String("path", c.FullPath()), zap.Error(err))
		e := pkgerrors.GetError(err)
		p.errorPage(c, e.Code.HTTPStatus(), "Action failed! "+e.Error())
		return
	}
	p.reads.Invalidate(sess.UserID)
	c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("redirect")))
}

func (p *Pages) html(c *gin.Context, name string, data any) {
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, name, data)
}

func (p *Pages) errorPage(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Title": "Error", "Message": message})
}

func viewer(sess session.Session) fetch.Viewer {
	return fetch.Viewer{UserID: sess.UserID, Token: sess.Token}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Title": "Error", "Message": "Invalid question id!"})
		return 0, false
	}
	return id, true
}

// safeRedirect only follows same-site absolute paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/pages/questions"
	}
	return target
}
