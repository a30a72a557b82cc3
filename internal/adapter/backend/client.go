// Package backend provides the HTTP client for the remote run and feedback
// operations, including the SSE streaming variant of the run.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

const (
	runPath       = "/api/run-agent"
	runStreamPath = "/api/run-agent/stream"
	feedbackPath  = "/api/feedback"

	// maxErrorBody caps how much of a failed response ends up in an error.
	maxErrorBody = 4096
)

// Client is an HTTP client for the remote backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend client. timeout bounds each whole request,
// streaming included.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RunTask posts {query, models} and returns the whole result.
func (c *Client) RunTask(ctx context.Context, query string, participantIDs []string) (*domain.RunResult, error) {
	const op = "run_task"

	models := participantIDs
	if models == nil {
		models = []string{}
	}
	var resp domain.RunTaskResponse
	if err := c.postJSON(ctx, op, runPath, domain.RunTaskRequest{Query: query, Models: models}, &resp); err != nil {
		return nil, err
	}
	return resp.ToResult(), nil
}

// SubmitFeedback posts {model, feedback}. The returned ack is not checked
// here; any status is handed back to the caller.
func (c *Client) SubmitFeedback(ctx context.Context, participantID, text string) (*domain.FeedbackAck, error) {
	const op = "submit_feedback"

	var ack domain.FeedbackAck
	if err := c.postJSON(ctx, op, feedbackPath, domain.FeedbackRequest{Model: participantID, Feedback: text}, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "%s: marshal request", op)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "%s: create request", op)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.RemoteCallError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RemoteCallError{Op: op, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.UnexpectedResponseError{Op: op, Got: truncate(string(data), 200)}
	}
	return nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.RemoteCallError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(bodyBytes)),
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
