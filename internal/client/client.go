// Package client is a JSON client for the quiz HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"detran-quiz/internal/config"
	"detran-quiz/internal/dto"
)

const defaultTimeout = 15 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	// Message is the server's {error} text, or the raw body when it is not JSON.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// Filter narrows questions and stats. SubtopicID wins over TopicID on the server.
type Filter struct {
	TopicID    *int64
	SubtopicID *int64
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use httptest servers).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(cfg config.ClientConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Topics(ctx context.Context) ([]dto.TopicResponse, error) {
	var topics []dto.TopicResponse
	if err := c.get(ctx, "/topics", nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (c *Client) Subtopics(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error) {
	var subtopics []dto.SubtopicResponse
	path := "/topics/" + strconv.FormatInt(topicID, 10) + "/subtopics"
	if err := c.get(ctx, path, nil, &subtopics); err != nil {
		return nil, err
	}
	return subtopics, nil
}

// Questions lists the questions userID has not answered correctly yet.
func (c *Client) Questions(ctx context.Context, userID string, f Filter) ([]dto.QuestionResponse, error) {
	var questions []dto.QuestionResponse
	if err := c.get(ctx, "/questions", filterQuery(userID, f), &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		return nil, fmt.Errorf("unexpected response: questions payload is not a list")
	}
	return questions, nil
}

func (c *Client) Stats(ctx context.Context, userID string, f Filter) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	if err := c.get(ctx, "/stats", filterQuery(userID, f), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Submit(ctx context.Context, userID, questionID string, isCorrect bool) error {
	body, err := json.Marshal(dto.SubmitRequest{UserID: userID, QuestionID: questionID, IsCorrect: &isCorrect})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var out dto.SubmitResponse
	return c.do(req, &out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var body dto.ErrorResponse
		if json.Unmarshal(respBody, &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func filterQuery(userID string, f Filter) url.Values {
	q := url.Values{}
	q.Set("user_id", userID)
	if f.TopicID != nil {
		q.Set("topic_id", strconv.FormatInt(*f.TopicID, 10))
	}
	if f.SubtopicID != nil {
		q.Set("subtopic_id", strconv.FormatInt(*f.SubtopicID, 10))
	}
	return q
}
