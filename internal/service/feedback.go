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
)

// FeedbackFunc is the remote feedback operation.
type FeedbackFunc func(ctx context.Context, participantID, text string) (*domain.FeedbackAck, error)

// FeedbackController submits feedback per participant. Submissions for
// different participants, or repeated ones for the same participant, run
// independently; pending counts are tracked per participant.
type FeedbackController struct {
	mu      sync.Mutex
	pending map[string]int
	lastErr map[string]string

	store     *history.Store[domain.FeedbackEntry]
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

func NewFeedbackController(store *history.Store[domain.FeedbackEntry], publisher events.Publisher) *FeedbackController {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &FeedbackController{
		pending:   make(map[string]int),
		lastErr:   make(map[string]string),
		store:     store,
		publisher: publisher,
		now:       time.Now,
		newID:     newID,
	}
}

// Submit sends feedback and records it when the backend acknowledges with
// "ok". Blank text is dropped silently: (nil, nil), no call made. Any other
// acknowledgement yields *domain.UnexpectedResponseError. Nothing is retried.
func (c *FeedbackController) Submit(ctx context.Context, participantID, text string, submit FeedbackFunc) (*domain.FeedbackEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		log.Debug().Str("participant_id", participantID).Msg("ignoring empty feedback")
		return nil, nil
	}
	if submit == nil {
		return nil, errors.New("feedback function is required")
	}

	c.begin(participantID)
	defer c.end(participantID)

	ack, err := submit(ctx, participantID, text)
	if err == nil && (ack == nil || ack.Status != domain.FeedbackStatusOK) {
		got := "<nil>"
		if ack != nil {
			got = ack.Status
		}
		err = &domain.UnexpectedResponseError{Op: "feedback", Got: got}
	}
	if err != nil {
		c.fail(participantID, err)
		return nil, err
	}

	entry := domain.FeedbackEntry{
		ID:            c.newID(),
		CreatedAt:     c.now(),
		ParticipantID: participantID,
		Text:          text,
	}
	if err := c.store.InsertFront(context.WithoutCancel(ctx), entry); err != nil {
		log.Warn().Err(err).Str("feedback_id", entry.ID).Msg("failed to persist feedback history")
	}
	c.publisher.Publish(domain.EventTypeFeedbackSubmitted, entry)

	log.Info().Str("participant_id", participantID).Str("feedback_id", entry.ID).Msg("feedback recorded")
	return &entry, nil
}

// Pending reports whether a submission for participantID is in flight.
func (c *FeedbackController) Pending(participantID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[participantID] > 0
}

// PendingAll returns in-flight submission counts by participant.
func (c *FeedbackController) PendingAll() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.pending))
	for id, n := range c.pending {
		out[id] = n
	}
	return out
}

// LastError returns the error of the latest failed submission for
// participantID, cleared when a new submission starts.
func (c *FeedbackController) LastError(participantID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr[participantID]
}

func (c *FeedbackController) begin(participantID string) {
	c.mu.Lock()
	c.pending[participantID]++
	delete(c.lastErr, participantID)
	c.mu.Unlock()
}

func (c *FeedbackController) end(participantID string) {
	c.mu.Lock()
	c.pending[participantID]--
	if c.pending[participantID] <= 0 {
		delete(c.pending, participantID)
	}
	c.mu.Unlock()
}

func (c *FeedbackController) fail(participantID string, err error) {
	c.mu.Lock()
	c.lastErr[participantID] = err.Error()
	c.mu.Unlock()

	c.publisher.Publish(domain.EventTypeFeedbackFailed, map[string]string{
		"participant_id": participantID,
		"error":          err.Error(),
	})
	log.Warn().Err(err).Str("participant_id", participantID).Msg("feedback submission failed")
}
