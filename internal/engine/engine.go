// Package engine implements the per-user conversation state machine: the
// multi-turn add-recipe flow and the step-by-step cooking flow.
//
// The engine never produces user-facing text. Every turn returns a typed
// outcome that the router renders; store writes happen only at authoring
// commit and at cooking completion.
package engine

import (
	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/logger"
)

// Engine drives both conversation flows. It depends only on interfaces and
// is fully testable with in-memory stores.
type Engine struct {
	recipes domain.RecipeStore
	states  domain.StateStore
	log     *logger.Logger
}

// New creates an engine with the given dependencies.
func New(recipes domain.RecipeStore, states domain.StateStore, log *logger.Logger) *Engine {
	return &Engine{recipes: recipes, states: states, log: log}
}
