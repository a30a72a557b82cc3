// Package simulate is an in-process stand-in for the remote backend. It
// honours the same run and feedback contracts without any network access.
package simulate

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/policy"
)

// Backend is the simulated backend.
type Backend struct {
	catalog []domain.Participant
	router  *policy.Engine
	// delay is the simulated latency of one stage of work.
	delay time.Duration
}

// New creates a simulated backend routing with policyContent (policy.DefaultPolicy
// when empty).
func New(ctx context.Context, catalog []domain.Participant, policyContent string, delay time.Duration) (*Backend, error) {
	if policyContent == "" {
		policyContent = policy.DefaultPolicy
	}
	router, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		return nil, errors.Wrap(err, "simulated backend: routing policy")
	}
	return &Backend{
		catalog: append([]domain.Participant(nil), catalog...),
		router:  router,
		delay:   delay,
	}, nil
}

// RunTask computes every routed participant concurrently.
func (b *Backend) RunTask(ctx context.Context, query string, participantIDs []string) (*domain.RunResult, error) {
	chosen, err := b.route(ctx, participantIDs)
	if err != nil {
		return nil, err
	}

	outputs := make([]domain.ParticipantOutput, len(chosen))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range chosen {
		g.Go(func() error {
			if err := sleep(gctx, b.delay); err != nil {
				return err
			}
			outputs[i] = domain.ParticipantOutput{
				ID:            p.ID,
				Specialty:     p.Specialty,
				InitialOutput: draft(p, query, participantIDs),
				FinalOutput:   refine(p, query),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &domain.RemoteCallError{Op: "run_task", Message: err.Error()}
	}

	return &domain.RunResult{
		Participants:       outputs,
		SynthesizedInsight: synthesize(outputs),
	}, nil
}

// RunTaskStream reports progress in the streaming event order: assignment,
// initial outputs, cross-review, final outputs, synthesis, final result.
func (b *Backend) RunTaskStream(ctx context.Context, query string, participantIDs []string, onEvent func(domain.StreamEvent)) (*domain.RunResult, error) {
	if onEvent == nil {
		onEvent = func(domain.StreamEvent) {}
	}
	chosen, err := b.route(ctx, participantIDs)
	if err != nil {
		return nil, err
	}

	assigned := make([]string, 0, len(chosen))
	for _, p := range chosen {
		assigned = append(assigned, p.ID)
	}
	onEvent(domain.StreamEvent{Type: domain.StreamEventTimeline, Title: "Assigned tasks to selected models", Note: strings.Join(assigned, ", ")})

	outputs := make([]domain.ParticipantOutput, len(chosen))
	for i, p := range chosen {
		if err := sleep(ctx, b.delay); err != nil {
			return nil, &domain.RemoteCallError{Op: "run_task_stream", Message: err.Error()}
		}
		outputs[i] = domain.ParticipantOutput{ID: p.ID, Specialty: p.Specialty, InitialOutput: draft(p, query, participantIDs)}
		onEvent(domain.StreamEvent{Type: domain.StreamEventModelUpdate, Model: p.ID, Field: "initial_output", Value: outputs[i].InitialOutput})
	}

	onEvent(domain.StreamEvent{Type: domain.StreamEventTimeline, Title: "Cross-review & collaboration", Note: "Models read each other and refine"})

	for i, p := range chosen {
		if err := sleep(ctx, b.delay); err != nil {
			return nil, &domain.RemoteCallError{Op: "run_task_stream", Message: err.Error()}
		}
		outputs[i].FinalOutput = refine(p, query)
		onEvent(domain.StreamEvent{Type: domain.StreamEventModelUpdate, Model: p.ID, Field: "final_output", Value: outputs[i].FinalOutput})
	}

	onEvent(domain.StreamEvent{Type: domain.StreamEventTimeline, Title: "Synthesizer merged results", Note: "Conflicts resolved, caveats added"})

	result := &domain.RunResult{Participants: outputs, SynthesizedInsight: synthesize(outputs)}
	final := domain.NewRunTaskResponse(result)
	onEvent(domain.StreamEvent{Type: domain.StreamEventFinal, Models: final.Models, SynthesizedInsight: final.SynthesizedInsight})
	return result, nil
}

// SubmitFeedback accepts every submission.
func (b *Backend) SubmitFeedback(ctx context.Context, participantID, text string) (*domain.FeedbackAck, error) {
	log.Info().Str("participant_id", participantID).Str("feedback", text).Msg("feedback received")
	return &domain.FeedbackAck{Status: domain.FeedbackStatusOK}, nil
}

// Catalog returns the participants the backend knows.
func (b *Backend) Catalog() []domain.Participant {
	return append([]domain.Participant(nil), b.catalog...)
}

func (b *Backend) route(ctx context.Context, participantIDs []string) ([]domain.Participant, error) {
	ids, err := b.router.Route(ctx, b.catalog, participantIDs)
	if err != nil {
		return nil, &domain.RemoteCallError{Op: "route", Message: err.Error()}
	}
	byID := make(map[string]domain.Participant, len(b.catalog))
	for _, p := range b.catalog {
		byID[p.ID] = p
	}
	chosen := make([]domain.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			chosen = append(chosen, p)
		}
	}
	return chosen, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
