package policy

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	require.NoError(t, err)
	return engine
}

func TestRouteEmptySelectionMeansAll(t *testing.T) {
	engine := newTestEngine(t)

	ids, err := engine.Route(context.Background(), domain.DefaultCatalog, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogIDs(domain.DefaultCatalog), ids)
}

func TestRouteKeepsCatalogOrderAndDropsUnknown(t *testing.T) {
	engine := newTestEngine(t)

	ids, err := engine.Route(context.Background(), domain.DefaultCatalog, []string{"Model E", "nope", "Model A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Model A", "Model E"}, ids)
}

func TestRouteOnlyUnknownSelectsNobody(t *testing.T) {
	engine := newTestEngine(t)

	ids, err := engine.Route(context.Background(), domain.DefaultCatalog, []string{"nope"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCustomPolicy(t *testing.T) {
	const onlyMath = `
package panel_routing

participants = [p.id | p := input.catalog[_]; p.specialty == "Math"]
`
	engine, err := NewEngine(context.Background(), onlyMath)
	require.NoError(t, err)

	ids, err := engine.Route(context.Background(), domain.DefaultCatalog, []string{"Model B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Model A"}, ids)
}

func TestNewEngineRejectsInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package broken\n\nthis is not rego")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prepare rego")
	assert.NotEqual(t, err, errors.Cause(err), "error carries its cause")
}
