package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/events"
	"github.com/xiaot623/gogo/panel/internal/history"
	"github.com/xiaot623/gogo/panel/internal/timeline"
)

// RunFunc is the remote run operation: real backend, stream, or simulation.
type RunFunc func(ctx context.Context, query string, participantIDs []string) (*domain.RunResult, error)

// RunController owns the run state machine. Every submit, reset and restore
// bumps a generation counter; a run whose generation is no longer current when
// its RunFunc returns is discarded.
type RunController struct {
	mu           sync.Mutex
	gen          uint64
	phase        domain.RunPhase
	startedAt    *time.Time
	query        string
	selected     []string
	result       *domain.RunResult
	errMsg       string
	restoredFrom string

	timeline  *timeline.Scheduler
	offsets   []time.Duration
	sessions  *history.Store[domain.SessionSnapshot]
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

// NewRunController creates an idle controller writing snapshots to sessions.
func NewRunController(sessions *history.Store[domain.SessionSnapshot], publisher events.Publisher, offsets []time.Duration) *RunController {
	if publisher == nil {
		publisher = events.Nop{}
	}
	c := &RunController{
		phase:     domain.RunPhaseIdle,
		offsets:   offsets,
		sessions:  sessions,
		publisher: publisher,
		now:       time.Now,
		newID:     newID,
	}
	c.timeline = timeline.NewScheduler(func(ev domain.TimelineEvent) {
		publisher.Publish(domain.EventTypeRunTimeline, ev)
	})
	return c
}

// Submit starts a run and blocks until run resolves. An empty query is
// rejected with domain.ErrValidation before anything else happens. If another
// submit, a reset or a restore happens while run is in flight, its outcome is
// dropped and domain.ErrSuperseded is returned.
func (c *RunController) Submit(ctx context.Context, query string, selectedIDs []string, run RunFunc) (*domain.RunResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Wrap(domain.ErrValidation, "query is required")
	}
	if run == nil {
		return nil, errors.New("run function is required")
	}
	selected := append([]string{}, selectedIDs...)

	c.mu.Lock()
	c.gen++
	gen := c.gen
	startedAt := c.now()
	c.phase = domain.RunPhaseRunning
	c.startedAt = &startedAt
	c.query = query
	c.selected = selected
	c.result = nil
	c.errMsg = ""
	c.restoredFrom = ""
	c.timeline.Start(startedAt, timeline.Plan(selected, c.offsets))
	c.publishStateLocked()
	c.mu.Unlock()

	log.Info().Uint64("run_generation", gen).Str("query", query).Strs("participants", selected).Msg("run started")

	result, err := run(ctx, query, append([]string{}, selected...))
	if err == nil && result == nil {
		err = &domain.UnexpectedResponseError{Op: "run", Got: "empty result"}
	}

	c.mu.Lock()
	if gen != c.gen {
		current := c.gen
		c.mu.Unlock()
		log.Info().Uint64("run_generation", gen).Uint64("current_generation", current).Msg("discarding stale run completion")
		return nil, errors.Wrapf(domain.ErrSuperseded, "run %d", gen)
	}

	c.timeline.Cancel()

	if err != nil {
		c.phase = domain.RunPhaseFailed
		c.errMsg = err.Error()
		c.publishStateLocked()
		c.mu.Unlock()
		log.Warn().Err(err).Uint64("run_generation", gen).Msg("run failed")
		return nil, err
	}

	result = result.Clone()
	c.phase = domain.RunPhaseSucceeded
	c.result = result

	snapshot := domain.SessionSnapshot{
		ID:                     c.newID(),
		CreatedAt:              c.now(),
		Query:                  query,
		SelectedParticipantIDs: append([]string{}, selected...),
		Result:                 result,
	}
	// The in-memory insert happens under the lock so history order follows
	// completion order; the storage write does not hold it.
	c.sessions.Prepend(snapshot)
	c.publishStateLocked()
	c.mu.Unlock()

	if err := c.sessions.Persist(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Str("snapshot_id", snapshot.ID).Msg("failed to persist session history")
	}

	log.Info().Uint64("run_generation", gen).Str("snapshot_id", snapshot.ID).Int("participants", len(result.Participants)).Msg("run succeeded")
	return result.Clone(), nil
}

// Reset returns to Idle. A run in flight becomes stale. History is untouched.
func (c *RunController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.timeline.Clear()
	c.phase = domain.RunPhaseIdle
	c.startedAt = nil
	c.query = ""
	c.selected = nil
	c.result = nil
	c.errMsg = ""
	c.restoredFrom = ""
	c.publishStateLocked()
}

// State returns a copy of the visible run state.
func (c *RunController) State() domain.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Generation returns the current run generation.
func (c *RunController) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *RunController) stateLocked() domain.RunState {
	state := domain.RunState{
		Phase:        c.phase,
		Generation:   c.gen,
		Query:        c.query,
		SelectedIDs:  append([]string{}, c.selected...),
		Result:       c.result.Clone(),
		Error:        c.errMsg,
		Timeline:     c.timeline.Events(),
		RestoredFrom: c.restoredFrom,
	}
	if c.startedAt != nil {
		startedAt := *c.startedAt
		state.StartedAt = &startedAt
	}
	return state
}

func (c *RunController) publishStateLocked() {
	c.publisher.Publish(domain.EventTypeRunState, c.stateLocked())
}
