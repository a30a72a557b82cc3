package domain

// RunTaskRequest is the body of the remote run operation.
type RunTaskRequest struct {
	Query  string   `json:"query"`
	Models []string `json:"models"`
}

// WireParticipant is a participant entry as the backend reports it.
type WireParticipant struct {
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	InitialOutput string `json:"initial_output"`
	FinalOutput   string `json:"final_output"`
}

// RunTaskResponse is the response of the remote run operation.
type RunTaskResponse struct {
	Models             []WireParticipant `json:"models"`
	SynthesizedInsight string            `json:"synthesized_insight"`
}

// ToResult converts the wire response into a RunResult.
func (r *RunTaskResponse) ToResult() *RunResult {
	result := &RunResult{
		Participants:       make([]ParticipantOutput, 0, len(r.Models)),
		SynthesizedInsight: r.SynthesizedInsight,
	}
	for _, m := range r.Models {
		result.Participants = append(result.Participants, ParticipantOutput{
			ID:            m.Name,
			Specialty:     m.Specialty,
			InitialOutput: m.InitialOutput,
			FinalOutput:   m.FinalOutput,
		})
	}
	return result
}

// NewRunTaskResponse converts a RunResult into its wire form.
func NewRunTaskResponse(result *RunResult) *RunTaskResponse {
	resp := &RunTaskResponse{
		Models:             make([]WireParticipant, 0, len(result.Participants)),
		SynthesizedInsight: result.SynthesizedInsight,
	}
	for _, p := range result.Participants {
		resp.Models = append(resp.Models, WireParticipant{
			Name:          p.ID,
			Specialty:     p.Specialty,
			InitialOutput: p.InitialOutput,
			FinalOutput:   p.FinalOutput,
		})
	}
	return resp
}

// FeedbackRequest is the body of the remote feedback operation.
type FeedbackRequest struct {
	Model    string `json:"model"`
	Feedback string `json:"feedback"`
}

// SubmitRunRequest is the body of POST /v1/runs on the engine API.
type SubmitRunRequest struct {
	Query string `json:"query"`
}

// SubmitFeedbackRequest is the body of POST /v1/feedback on the engine API.
type SubmitFeedbackRequest struct {
	ParticipantID string `json:"participant_id"`
	Text          string `json:"text"`
}
