package backend

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/simulate"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "PANEL_MODE"
	// ModeMock selects the in-process simulated backend.
	ModeMock = "MOCK"
)

// Backend is the contract shared by the HTTP client and the simulation.
type Backend interface {
	RunTask(ctx context.Context, query string, participantIDs []string) (*domain.RunResult, error)
	RunTaskStream(ctx context.Context, query string, participantIDs []string, onEvent func(domain.StreamEvent)) (*domain.RunResult, error)
	SubmitFeedback(ctx context.Context, participantID, text string) (*domain.FeedbackAck, error)
}

// Ensure both implementations satisfy Backend.
var (
	_ Backend = (*Client)(nil)
	_ Backend = (*simulate.Backend)(nil)
)

// Settings selects and configures a backend.
type Settings struct {
	// Mode overrides PANEL_MODE when set.
	Mode     string
	BaseURL  string
	Timeout  time.Duration
	Catalog  []domain.Participant
	SimDelay time.Duration
}

// New returns the simulated backend in MOCK mode and an HTTP client otherwise.
func New(ctx context.Context, s Settings) (Backend, error) {
	mode := s.Mode
	if mode == "" {
		mode = os.Getenv(EnvMode)
	}

	if strings.EqualFold(mode, ModeMock) {
		log.Info().Msg("MOCK mode, using simulated backend")
		sim, err := simulate.New(ctx, s.Catalog, "", s.SimDelay)
		if err != nil {
			return nil, err
		}
		return sim, nil
	}

	log.Debug().Str("base_url", s.BaseURL).Msg("using remote backend")
	return NewClient(s.BaseURL, s.Timeout), nil
}
