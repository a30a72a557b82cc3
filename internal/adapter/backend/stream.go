package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// SSEEvent represents a parsed SSE event.
type SSEEvent struct {
	Event string
	Data  string
}

// EventHandler is called for each SSE event from the backend.
type EventHandler func(event SSEEvent) error

// errStreamDone stops parsing once the final event arrived.
var errStreamDone = errors.New("stream done")

// RunTaskStream runs a task over the SSE endpoint. onEvent sees every timeline
// and model_update event; the returned result comes from the final event only.
func (c *Client) RunTaskStream(ctx context.Context, query string, participantIDs []string, onEvent func(domain.StreamEvent)) (*domain.RunResult, error) {
	const op = "run_task_stream"

	params := url.Values{}
	params.Set("query", query)
	if len(participantIDs) > 0 {
		params.Set("models", strings.Join(participantIDs, ","))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+runStreamPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: create request", op)
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.RemoteCallError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	var result *domain.RunResult
	err = parseSSE(resp.Body, func(event SSEEvent) error {
		var ev domain.StreamEvent
		if err := json.Unmarshal([]byte(event.Data), &ev); err != nil {
			return &domain.UnexpectedResponseError{Op: op, Got: truncate(event.Data, 200)}
		}
		if onEvent != nil {
			onEvent(ev)
		}
		if ev.Type == domain.StreamEventFinal {
			final := domain.RunTaskResponse{Models: ev.Models, SynthesizedInsight: ev.SynthesizedInsight}
			result = final.ToResult()
			return errStreamDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStreamDone) {
		var unexpected *domain.UnexpectedResponseError
		if errors.As(err, &unexpected) {
			return nil, err
		}
		return nil, &domain.RemoteCallError{Op: op, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if result == nil {
		return nil, &domain.UnexpectedResponseError{Op: op, Got: "stream ended without final event"}
	}
	return result, nil
}

// parseSSE parses an SSE stream and calls the handler for each event.
func parseSSE(reader io.Reader, handler EventHandler) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var event SSEEvent

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line marks end of event
		if line == "" {
			if event.Event != "" || event.Data != "" {
				if err := handler(event); err != nil {
					return err
				}
				event = SSEEvent{}
			}
			continue
		}

		if strings.HasPrefix(line, "event:") {
			event.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if event.Data != "" {
				event.Data += "\n" + data
			} else {
				event.Data = data
			}
		}
		// Comments (lines starting with :) and other fields are ignored
	}

	// Handle any remaining event
	if event.Event != "" || event.Data != "" {
		if err := handler(event); err != nil {
			return err
		}
	}

	return scanner.Err()
}
