// Package policy evaluates the participant routing policy with OPA.
package policy

import (
	"context"
	"github.com/open-policy-agent/opa/rego"
	"github.com/pkg/errors"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.panel_routing.participants"),
		rego.Module("panel_routing.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare rego")
	}

	return &Engine{query: query}, nil
}

// Route returns the ids of the catalog participants that should handle a run
// for the requested selection, in catalog order.
func (e *Engine) Route(ctx context.Context, catalog []domain.Participant, requested []string) ([]string, error) {
	entries := make([]interface{}, 0, len(catalog))
	for _, p := range catalog {
		entries = append(entries, map[string]interface{}{
			"id":        p.ID,
			"specialty": p.Specialty,
		})
	}
	models := make([]interface{}, 0, len(requested))
	for _, id := range requested {
		models = append(models, id)
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"catalog": entries,
		"models":  models,
	}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to evaluate policy")
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return []string{}, nil
	}

	values, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, errors.Errorf("routing policy returned %T, want array", results[0].Expressions[0].Value)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		id, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("routing policy returned non-string id %v", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DefaultPolicy routes an empty selection to the whole catalog and otherwise
// to the catalog entries that were asked for. Unknown ids are ignored.
const DefaultPolicy = `
package panel_routing

default participants = []

participants = ids {
	count(input.models) == 0
	ids := [p.id | p := input.catalog[_]]
}

participants = ids {
	count(input.models) > 0
	ids := [p.id | p := input.catalog[_]; requested(p.id)]
}

requested(id) {
	input.models[_] == id
}
`
