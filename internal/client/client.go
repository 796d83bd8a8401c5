// Package client implements the outbound HTTP client for the content worker.
// All operations go through a single envelope primitive that POSTs
// {endpoint, payload} to the configured worker URL.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"learnflow/internal/domain"
	"learnflow/internal/util"

	"go.uber.org/zap"
)

// Worker endpoint names recognized by the proxy.
const (
	EndpointExplore       = "explore"
	EndpointPlayground    = "playground"
	EndpointTest          = "test"
	EndpointStreamExplore = "streamExplore"
)

// Client forwards requests to the content worker. It is safe for concurrent
// use; each call is independent and constructs fresh data.
type Client struct {
	workerURL  string
	httpClient *http.Client
	notifier   domain.RateLimitNotifier
	logger     *zap.Logger
}

// envelope is the fixed request body shape the worker expects.
type envelope struct {
	Endpoint string      `json:"endpoint"`
	Payload  interface{} `json:"payload"`
}

// rateLimitBody is the subset of a 429 body the client reads.
type rateLimitBody struct {
	RetryAfter int `json:"retryAfter"`
}

// New creates a Client for the given worker URL. httpClient may carry a
// timeout; notifier may be nil when no rate-limit notice is wanted, and a
// nil logger falls back to a no-op logger.
func New(workerURL string, httpClient *http.Client, notifier domain.RateLimitNotifier, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		workerURL:  workerURL,
		httpClient: httpClient,
		notifier:   notifier,
		logger:     logger,
	}
}

// Post issues one POST {endpoint, payload} request and returns the raw JSON
// body of a successful response. Status handling is a single switch: 2xx
// decodes, 429 notifies the rate-limit notifier and fails with RATE_LIMITED,
// anything else fails with REQUEST_FAILED carrying the status code.
func (c *Client) Post(ctx context.Context, endpoint string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(envelope{Endpoint: endpoint, Payload: payload})
	if err != nil {
		return nil, domain.NewInternalError("failed to encode request envelope", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.workerURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewInternalError("failed to build worker request", err)
	}
	requestID := util.NewULID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("worker request to %q failed", endpoint), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewInternalError("failed to read worker response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var rl rateLimitBody
		_ = json.Unmarshal(respBody, &rl)
		c.logger.Warn("Worker rate limited request",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Int("retry_after", rl.RetryAfter),
		)
		if c.notifier != nil {
			c.notifier.NotifyRateLimited(ctx, rl.RetryAfter)
		}
		return nil, domain.NewRateLimitedError(rl.RetryAfter)

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Error("Worker request failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.NewRequestFailedError(resp.StatusCode)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, domain.NewEmptyResponseError()
	}
	if !json.Valid(respBody) {
		return nil, domain.NewMalformedJSONError(fmt.Errorf("invalid JSON from endpoint %q", endpoint))
	}

	return json.RawMessage(respBody), nil
}

type explorePayload struct {
	Query       string             `json:"query"`
	UserContext domain.UserContext `json:"userContext"`
}

type playgroundPayload struct {
	Topic       string             `json:"topic"`
	Level       int                `json:"level"`
	UserContext domain.UserContext `json:"userContext"`
}

type testPayload struct {
	Topic    string `json:"topic"`
	ExamType string `json:"examType"`
}

type streamExplorePayload struct {
	Query       string             `json:"query"`
	UserContext domain.UserContext `json:"userContext"`
	History     []domain.ChatTurn  `json:"history"`
}

// Explore fetches raw exploratory content for a query.
func (c *Client) Explore(ctx context.Context, query string, user domain.UserContext) (json.RawMessage, error) {
	return c.Post(ctx, EndpointExplore, explorePayload{Query: query, UserContext: user})
}

// Playground fetches one raw practice question.
func (c *Client) Playground(ctx context.Context, topic string, level int, user domain.UserContext) (json.RawMessage, error) {
	return c.Post(ctx, EndpointPlayground, playgroundPayload{Topic: topic, Level: level, UserContext: user})
}

// Test fetches a raw batch of exam questions.
func (c *Client) Test(ctx context.Context, topic string, examType domain.ExamType) (json.RawMessage, error) {
	return c.Post(ctx, EndpointTest, testPayload{Topic: topic, ExamType: string(examType)})
}

// StreamExplore fetches a raw provider envelope for a follow-up explore
// conversation. Despite the name this is a single non-incremental response.
func (c *Client) StreamExplore(ctx context.Context, query string, user domain.UserContext, history []domain.ChatTurn) (json.RawMessage, error) {
	return c.Post(ctx, EndpointStreamExplore, streamExplorePayload{Query: query, UserContext: user, History: history})
}
