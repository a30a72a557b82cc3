package domain

// StreamEvent is one event of the streaming run operation.
type StreamEvent struct {
	Type StreamEventType `json:"type"`

	// timeline
	Title string `json:"title,omitempty"`
	Note  string `json:"note,omitempty"`

	// model_update
	Model string `json:"model,omitempty"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`

	// final
	Models             []WireParticipant `json:"models,omitempty"`
	SynthesizedInsight string            `json:"synthesized_insight,omitempty"`
}

// Event is an engine event delivered to observers.
type Event struct {
	// Seq increases by one per published event; delivery order is not guaranteed.
	Seq     uint64      `json:"seq"`
	Type    EventType   `json:"type"`
	Ts      int64       `json:"ts"` // Unix milliseconds
	Payload interface{} `json:"payload,omitempty"`
}
