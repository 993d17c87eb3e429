// Package fetch binds page reads to the query cache. Every read is keyed by
// the viewer, and is disabled when there is no viewer.
package fetch

import (
	"context"
	"net/url"
	"strconv"

	"questrack/internal/question/model"
	"questrack/internal/web/apiclient"
	"questrack/internal/web/query"
)

const (
	KindSavedQuestions = "saved-questions"
	KindQuestions      = "questions"
	KindQuestion       = "question"
)

// QuestionAPI is the remote question service.
type QuestionAPI interface {
	ListQuestions(ctx context.Context, token string, query url.Values) (apiclient.Page, error)
	GetQuestion(ctx context.Context, token string, questionID int64) (model.Question, error)
	ListSaved(ctx context.Context, token string, userID int64) ([]model.Question, error)
}

// Viewer is who a read is made for. A zero UserID disables the read.
type Viewer struct {
	UserID int64
	Token  string
}

// Adapter issues cached reads against QuestionAPI.
type Adapter struct {
	cache *query.Client
	api   QuestionAPI
}

func NewAdapter(cache *query.Client, api QuestionAPI) *Adapter {
	return &Adapter{cache: cache, api: api}
}

// SavedQuestions reads the viewer's saved list, keyed by (saved-questions, user).
func (a *Adapter) SavedQuestions(ctx context.Context, viewer Viewer) query.Result[[]model.Question] {
	key := query.Key{Kind: KindSavedQuestions, UserID: viewer.UserID}
	return query.Fetch(ctx, a.cache, key, viewer.UserID != 0, func(ctx context.Context) ([]model.Question, error) {
		return a.api.ListSaved(ctx, viewer.Token, viewer.UserID)
	})
}

// Questions reads one filtered catalog page for the viewer.
func (a *Adapter) Questions(ctx context.Context, viewer Viewer, params url.Values) query.Result[apiclient.Page] {
	key := query.Key{Kind: KindQuestions, UserID: viewer.UserID, Params: listParams(params).Encode()}
	return query.Fetch(ctx, a.cache, key, viewer.UserID != 0, func(ctx context.Context) (apiclient.Page, error) {
		return a.api.ListQuestions(ctx, viewer.Token, params)
	})
}

// Question reads one question for the viewer.
func (a *Adapter) Question(ctx context.Context, viewer Viewer, questionID int64) query.Result[model.Question] {
	key := query.Key{Kind: KindQuestion, UserID: viewer.UserID, Params: "id=" + strconv.FormatInt(questionID, 10)}
	return query.Fetch(ctx, a.cache, key, viewer.UserID != 0, func(ctx context.Context) (model.Question, error) {
		return a.api.GetQuestion(ctx, viewer.Token, questionID)
	})
}

// Invalidate drops every cached read of userID.
func (a *Adapter) Invalidate(userID int64) {
	a.cache.InvalidateUser(userID)
}

// listParams keeps only parameters that change the API response so that
// unrelated query parameters share a cache entry.
func listParams(params url.Values) url.Values {
	out := url.Values{}
	for _, key := range []string{"status", "difficulty", "topic", "page", "page_size"} {
		if v := params.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	return out
}
