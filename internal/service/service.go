package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/events"
	"github.com/xiaot623/gogo/panel/internal/history"
	"github.com/xiaot623/gogo/panel/internal/repository"
	"github.com/xiaot623/gogo/panel/internal/selection"
)

// Backend is the pair of remote operations the engine calls.
type Backend interface {
	RunTask(ctx context.Context, query string, participantIDs []string) (*domain.RunResult, error)
	SubmitFeedback(ctx context.Context, participantID, text string) (*domain.FeedbackAck, error)
}

// StreamingBackend can also run a task while reporting intermediate events.
type StreamingBackend interface {
	Backend
	RunTaskStream(ctx context.Context, query string, participantIDs []string, onEvent func(domain.StreamEvent)) (*domain.RunResult, error)
}

// Options tunes the coordinator.
type Options struct {
	Catalog          []domain.Participant
	SessionCapacity  int
	FeedbackCapacity int
	TimelineOffsets  []time.Duration
	// Stream uses RunTaskStream when the backend supports it.
	Stream bool
}

// DefaultOptions returns the reference capacities and catalog.
func DefaultOptions() Options {
	return Options{
		Catalog:          domain.DefaultCatalog,
		SessionCapacity:  20,
		FeedbackCapacity: 100,
	}
}

// Service composes the selection set, the two controllers and their history
// stores around an injected backend, storage and event publisher.
type Service struct {
	backend   Backend
	publisher events.Publisher
	catalog   []domain.Participant
	stream    bool

	selection *selection.Set
	sessions  *history.Store[domain.SessionSnapshot]
	feedback  *history.Store[domain.FeedbackEntry]
	runs      *RunController
	reviews   *FeedbackController
}

func New(backend Backend, storage repository.SlotStore, publisher events.Publisher, opts Options) *Service {
	defaults := DefaultOptions()
	if len(opts.Catalog) == 0 {
		opts.Catalog = defaults.Catalog
	}
	if opts.SessionCapacity <= 0 {
		opts.SessionCapacity = defaults.SessionCapacity
	}
	if opts.FeedbackCapacity <= 0 {
		opts.FeedbackCapacity = defaults.FeedbackCapacity
	}
	if publisher == nil {
		publisher = events.Nop{}
	}

	sessions := history.New[domain.SessionSnapshot](repository.SlotSessions, opts.SessionCapacity, storage)
	feedback := history.New[domain.FeedbackEntry](repository.SlotFeedback, opts.FeedbackCapacity, storage)

	return &Service{
		backend:   backend,
		publisher: publisher,
		catalog:   append([]domain.Participant(nil), opts.Catalog...),
		stream:    opts.Stream,
		selection: selection.New(),
		sessions:  sessions,
		feedback:  feedback,
		runs:      NewRunController(sessions, publisher, opts.TimelineOffsets),
		reviews:   NewFeedbackController(feedback, publisher),
	}
}

// Open loads both histories. Unreadable history degrades to empty and is
// only logged.
func (s *Service) Open(ctx context.Context) {
	if err := s.sessions.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("session history unavailable, starting empty")
	}
	if err := s.feedback.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("feedback history unavailable, starting empty")
	}
	log.Debug().Int("sessions", s.sessions.Len()).Int("feedback", s.feedback.Len()).Msg("history loaded")
}

// Submit runs query against the current selection.
func (s *Service) Submit(ctx context.Context, query string) (*domain.RunResult, error) {
	return s.runs.Submit(ctx, query, s.selection.Selected(), s.runFunc())
}

func (s *Service) runFunc() RunFunc {
	if streamer, ok := s.backend.(StreamingBackend); ok && s.stream {
		return func(ctx context.Context, query string, participantIDs []string) (*domain.RunResult, error) {
			return streamer.RunTaskStream(ctx, query, participantIDs, func(ev domain.StreamEvent) {
				if ev.Type != domain.StreamEventFinal {
					s.publisher.Publish(domain.EventTypeRunUpdate, ev)
				}
			})
		}
	}
	return s.backend.RunTask
}

// Reset returns the run controller to Idle.
func (s *Service) Reset() {
	s.runs.Reset()
}

// Restore replays a stored session and makes its selection the live one.
func (s *Service) Restore(snapshotID string) bool {
	snapshot, ok := s.runs.Restore(snapshotID)
	if !ok {
		return false
	}
	s.selection.Replace(snapshot.SelectedParticipantIDs)
	return true
}

// SubmitFeedback sends feedback on one participant's output.
func (s *Service) SubmitFeedback(ctx context.Context, participantID, text string) (*domain.FeedbackEntry, error) {
	return s.reviews.Submit(ctx, participantID, text, s.backend.SubmitFeedback)
}

func (s *Service) FeedbackPending(participantID string) bool {
	return s.reviews.Pending(participantID)
}

func (s *Service) FeedbackPendingAll() map[string]int {
	return s.reviews.PendingAll()
}

func (s *Service) FeedbackError(participantID string) string {
	return s.reviews.LastError(participantID)
}

// Toggle flips a participant in the live selection.
func (s *Service) Toggle(participantID string) bool {
	return s.selection.Toggle(participantID)
}

func (s *Service) Selection() []string {
	return s.selection.Selected()
}

func (s *Service) State() domain.RunState {
	return s.runs.State()
}

func (s *Service) Sessions() []domain.SessionSnapshot {
	return s.sessions.All()
}

func (s *Service) Feedback() []domain.FeedbackEntry {
	return s.feedback.All()
}

func (s *Service) Catalog() []domain.Participant {
	return append([]domain.Participant(nil), s.catalog...)
}

// newID returns a time-ordered unique id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
