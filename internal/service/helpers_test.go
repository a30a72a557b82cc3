package service

import (
	"sync"
	"testing"
	"time"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/history"
	"github.com/xiaot623/gogo/panel/internal/repository"
)

var testOffsets = []time.Duration{0, 5 * time.Millisecond, 10 * time.Millisecond, 15 * time.Millisecond}

type published struct {
	Type    domain.EventType
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(eventType domain.EventType, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) count(eventType domain.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func newTestRunController(t *testing.T) (*RunController, *history.Store[domain.SessionSnapshot], *recordingPublisher) {
	t.Helper()
	sessions := history.New[domain.SessionSnapshot](repository.SlotSessions, 20, repository.NewMemoryStore())
	pub := &recordingPublisher{}
	return NewRunController(sessions, pub, testOffsets), sessions, pub
}

func sampleResult(insight string) *domain.RunResult {
	return &domain.RunResult{
		Participants: []domain.ParticipantOutput{
			{ID: "Model A", Specialty: "Math", InitialOutput: "draft", FinalOutput: "2"},
		},
		SynthesizedInsight: insight,
	}
}
