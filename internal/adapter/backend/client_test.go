package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

func TestRunTaskPostsQueryAndModels(t *testing.T) {
	var gotReq domain.RunTaskRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/run-agent" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"models":[{"name":"Model A","specialty":"Math","initial_output":"i","final_output":"f"}],"synthesized_insight":"I"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	result, err := client.RunTask(context.Background(), "X", []string{"Model A"})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	if gotReq.Query != "X" || len(gotReq.Models) != 1 || gotReq.Models[0] != "Model A" {
		t.Fatalf("unexpected request payload: %+v", gotReq)
	}
	if result.SynthesizedInsight != "I" {
		t.Fatalf("unexpected insight: %q", result.SynthesizedInsight)
	}
	if len(result.Participants) != 1 || result.Participants[0].ID != "Model A" || result.Participants[0].FinalOutput != "f" {
		t.Fatalf("unexpected participants: %+v", result.Participants)
	}
}

func TestRunTaskSendsEmptyModelsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		fmt.Fprint(w, `{"models":[],"synthesized_insight":""}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.RunTask(context.Background(), "X", nil); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if string(raw["models"]) != "[]" {
		t.Fatalf("expected empty models array, got %s", raw["models"])
	}
}

func TestRunTaskNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.RunTask(context.Background(), "X", nil)

	remote, ok := err.(*domain.RemoteCallError)
	if !ok {
		t.Fatalf("expected RemoteCallError, got %T: %v", err, err)
	}
	if remote.StatusCode != http.StatusBadGateway || !strings.Contains(remote.Message, "backend exploded") {
		t.Fatalf("unexpected error: %+v", remote)
	}
}

func TestRunTaskTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second)
	_, err := client.RunTask(context.Background(), "X", nil)
	if _, ok := err.(*domain.RemoteCallError); !ok {
		t.Fatalf("expected RemoteCallError, got %T: %v", err, err)
	}
}

func TestRunTaskMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.RunTask(context.Background(), "X", nil)
	if _, ok := err.(*domain.UnexpectedResponseError); !ok {
		t.Fatalf("expected UnexpectedResponseError, got %T: %v", err, err)
	}
}

func TestSubmitFeedback(t *testing.T) {
	var gotReq domain.FeedbackRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feedback" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		fmt.Fprint(w, `{"status":"queued"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	ack, err := client.SubmitFeedback(context.Background(), "Model B", "great")
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}
	if gotReq.Model != "Model B" || gotReq.Feedback != "great" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if ack.Status != "queued" {
		t.Fatalf("status must be passed through, got %q", ack.Status)
	}
}
