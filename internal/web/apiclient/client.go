// Package apiclient calls question-service on behalf of a signed-in viewer.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"questrack/internal/common/http/middleware"
	"questrack/internal/question/model"
	pkgerrors "questrack/pkg/errors"
	"questrack/pkg/utils/contextkey"
)

const defaultTimeout = 5 * time.Second

// Config locates question-service.
type Config struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// Page is one page of the question catalog.
type Page struct {
	Items      []model.Question `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type envelope struct {
	Code    pkgerrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
}

// Client is a thin JSON client for the question API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// ListQuestions fetches one catalog page. Only the filter and paging
// parameters of query are forwarded.
func (c *Client) ListQuestions(ctx context.Context, token string, query url.Values) (Page, error) {
	forward := url.Values{}
	for _, key := range []string{"status", "difficulty", "topic", "page", "page_size"} {
		if v := query.Get(key); v != "" {
			forward.Set(key, v)
		}
	}
	path := "/api/v1/questions"
	if len(forward) > 0 {
		path += "?" + forward.Encode()
	}
	var page Page
	err := c.do(ctx, http.MethodGet, path, token, nil, &page)
	if page.Items == nil {
		page.Items = []model.Question{}
	}
	return page, err
}

// GetQuestion fetches a single question.
func (c *Client) GetQuestion(ctx context.Context, token string, questionID int64) (model.Question, error) {
	var q model.Question
	err := c.do(ctx, http.MethodGet, "/api/v1/questions/"+strconv.FormatInt(questionID, 10), token, nil, &q)
	return q, err
}

// SetStatus records the viewer's status for a question.
func (c *Client) SetStatus(ctx context.Context, token string, questionID int64, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, "/api/v1/questions/"+strconv.FormatInt(questionID, 10)+"/status", token, body, nil)
}

// ListSaved fetches the saved questions of userID.
func (c *Client) ListSaved(ctx context.Context, token string, userID int64) ([]model.Question, error) {
	questions := []model.Question{}
	if err := c.do(ctx, http.MethodGet, savedPath(userID), token, nil, &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// SaveQuestion adds questionID to userID's saved list.
func (c *Client) SaveQuestion(ctx context.Context, token string, userID, questionID int64) error {
	return c.do(ctx, http.MethodPost, savedPath(userID)+"/"+strconv.FormatInt(questionID, 10), token, nil, nil)
}

// RemoveQuestion drops questionID from userID's saved list.
func (c *Client) RemoveQuestion(ctx context.Context, token string, userID, questionID int64) error {
	return c.do(ctx, http.MethodDelete, savedPath(userID)+"/"+strconv.FormatInt(questionID, 10), token, nil, nil)
}

func savedPath(userID int64) string {
	return "/api/v1/users/" + strconv.FormatInt(userID, 10) + "/saved-questions"
}

// do sends one request and decodes the response envelope into out.
// Transport failures map to UpstreamUnavailable; a non-success envelope
// keeps the upstream code so callers can branch on it.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(fmt.Errorf("encode request failed: %w", err), pkgerrors.InternalServerError)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", c.baseURL, path), reader)
	if err != nil {
		return pkgerrors.Wrap(fmt.Errorf("build request failed: %w", err), pkgerrors.InternalServerError)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if traceID, ok := ctx.Value(contextkey.TraceID).(string); ok && traceID != "" {
		req.Header.Set(middleware.TraceIDHeader, traceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(fmt.Errorf("request failed: %w", err), pkgerrors.UpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(fmt.Errorf("read response body failed: %w", err), pkgerrors.UpstreamUnavailable)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return pkgerrors.Newf(pkgerrors.UpstreamBadResponse, "unexpected response (status %d)", resp.StatusCode)
	}
	if env.Code != pkgerrors.Success {
		if env.Code == 0 {
			return pkgerrors.Newf(pkgerrors.UpstreamBadResponse, "unexpected response (status %d)", resp.StatusCode)
		}
		e := pkgerrors.New(env.Code)
		if env.Message != "" {
			e = e.WithMessage(env.Message)
		}
		return e
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return pkgerrors.Wrap(fmt.Errorf("decode response data failed: %w", err), pkgerrors.UpstreamBadResponse)
	}
	return nil
}
