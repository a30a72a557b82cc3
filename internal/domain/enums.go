// Package domain defines the core domain models for the panel engine.
package domain

// RunPhase represents the phase of the run controller.
type RunPhase string

const (
	RunPhaseIdle      RunPhase = "IDLE"
	RunPhaseRunning   RunPhase = "RUNNING"
	RunPhaseSucceeded RunPhase = "SUCCEEDED"
	RunPhaseFailed    RunPhase = "FAILED"
)

// IsTerminal reports whether no run is in flight for the phase.
func (p RunPhase) IsTerminal() bool {
	switch p {
	case RunPhaseSucceeded, RunPhaseFailed:
		return true
	}
	return false
}

// EventType represents the type of an engine event published to observers.
type EventType string

const (
	EventTypeRunState          EventType = "run.state"
	EventTypeRunTimeline       EventType = "run.timeline"
	EventTypeRunUpdate         EventType = "run.update"
	EventTypeFeedbackSubmitted EventType = "feedback.submitted"
	EventTypeFeedbackFailed    EventType = "feedback.failed"
)

// StreamEventType is the "type" field of a streamed backend event.
type StreamEventType string

const (
	StreamEventTimeline    StreamEventType = "timeline"
	StreamEventModelUpdate StreamEventType = "model_update"
	StreamEventFinal       StreamEventType = "final"
)

// FeedbackStatusOK is the only acknowledgement status accepted from the feedback operation.
const FeedbackStatusOK = "ok"
