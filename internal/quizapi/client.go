// Package quizapi is a typed client for the personality quiz backend.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/quiz"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response ends up in an error.
const maxErrorBody = 512

// Endpoint paths.
const (
	PathQuestions = "/questions"
	PathSubmit    = "/quiz/submit"
)

// ErrNoQuestions is returned when the backend serves an empty question set.
var ErrNoQuestions = errors.New("quiz has no questions")

// API is what the TUI needs from the backend.
type API interface {
	Questions(ctx context.Context) ([]quiz.Question, error)
	Submit(ctx context.Context, s quiz.Submission) (quiz.Result, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Body)
}

// Client provides typed access to the quiz backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A non-positive timeout uses
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Questions fetches the question set.
func (c *Client) Questions(ctx context.Context) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := c.do(ctx, http.MethodGet, PathQuestions, nil, &qs); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	logger.Debug("quizapi: fetched %d questions", len(qs))
	return qs, nil
}

// Submit posts the answers and returns the scored result.
func (c *Client) Submit(ctx context.Context, s quiz.Submission) (quiz.Result, error) {
	var r quiz.Result
	if err := c.do(ctx, http.MethodPost, PathSubmit, s, &r); err != nil {
		return quiz.Result{}, err
	}
	if r.TopPersonality.Name == "" {
		return quiz.Result{}, fmt.Errorf("POST %s: response has no top personality", PathSubmit)
	}
	logger.Debug("quizapi: result %q", r.TopPersonality.Name)
	return r, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
