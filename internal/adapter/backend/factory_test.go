package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/simulate"
)

func TestNewSelectsSimulationInMockMode(t *testing.T) {
	b, err := New(context.Background(), Settings{Mode: "mock", Catalog: domain.DefaultCatalog})
	require.NoError(t, err)
	require.IsType(t, &simulate.Backend{}, b)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv(EnvMode, ModeMock)
	b, err := New(context.Background(), Settings{Catalog: domain.DefaultCatalog})
	require.NoError(t, err)
	require.IsType(t, &simulate.Backend{}, b)
}

func TestNewDefaultsToHTTPClient(t *testing.T) {
	t.Setenv(EnvMode, "")
	b, err := New(context.Background(), Settings{BaseURL: "http://localhost:8000", Timeout: time.Second})
	require.NoError(t, err)
	require.IsType(t, &Client{}, b)
}
