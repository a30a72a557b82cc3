package domain

import (
	"time"
)

// ParticipantOutput is one participant's contribution to a run result.
type ParticipantOutput struct {
	ID            string `json:"id"`
	Specialty     string `json:"specialty"`
	InitialOutput string `json:"initial_output"`
	FinalOutput   string `json:"final_output"`
}

// RunResult is produced exactly once per successful run and never modified.
type RunResult struct {
	Participants       []ParticipantOutput `json:"participants"`
	SynthesizedInsight string              `json:"synthesized_insight"`
}

// Clone returns a deep copy of the result.
func (r *RunResult) Clone() *RunResult {
	if r == nil {
		return nil
	}
	out := &RunResult{SynthesizedInsight: r.SynthesizedInsight}
	if r.Participants != nil {
		out.Participants = append([]ParticipantOutput(nil), r.Participants...)
	}
	return out
}

// TimelineEvent is one decorative progress step of a run.
type TimelineEvent struct {
	Title  string        `json:"title"`
	Note   string        `json:"note"`
	Offset time.Duration `json:"offset"`
}

// SessionSnapshot is the immutable record of a completed run.
type SessionSnapshot struct {
	ID                     string     `json:"id"`
	CreatedAt              time.Time  `json:"created_at"`
	Query                  string     `json:"query"`
	SelectedParticipantIDs []string   `json:"selected_participant_ids"`
	Result                 *RunResult `json:"result"`
}

// FeedbackEntry is the record of one successful feedback submission.
type FeedbackEntry struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ParticipantID string    `json:"participant_id"`
	Text          string    `json:"text"`
}

// FeedbackAck is the response of the feedback operation.
type FeedbackAck struct {
	Status string `json:"status"`
}

// RunState is the visible state of the run controller.
type RunState struct {
	Phase       RunPhase        `json:"phase"`
	Generation  uint64          `json:"generation"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	Query       string          `json:"query"`
	SelectedIDs []string        `json:"selected_ids"`
	Result      *RunResult      `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	Timeline    []TimelineEvent `json:"timeline"`
	// RestoredFrom is the snapshot id when the state was replayed from history.
	RestoredFrom string `json:"restored_from,omitempty"`
}
