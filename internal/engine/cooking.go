package engine

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/chefbot/internal/domain"
)

// CookingUpdate is what one cooking turn emitted.
type CookingUpdate struct {
	Recipe    *domain.Recipe
	StepIndex int  // 0-based index of the step to show; meaningless when Done
	Done      bool // walkthrough finished, cook event logged
}

// StartCooking begins a walkthrough of the recipe, overwriting any active
// dialogue state. It emits step 0 and remembers that step 1 comes next.
// Returns ErrNotFound, with no state created, when the recipe is not
// visible to the user.
func (e *Engine) StartCooking(ctx context.Context, userID, recipeID int64) (*CookingUpdate, error) {
	r, err := e.recipes.ByID(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	st := &domain.ConversationState{
		Kind:    domain.StateCooking,
		Cooking: &domain.CookingState{RecipeID: recipeID, StepIndex: 1},
	}
	if err := e.states.Save(ctx, userID, st); err != nil {
		return nil, fmt.Errorf("starting cooking: %w", err)
	}
	e.log.Info("user %d started cooking #%d %q", userID, recipeID, r.Title)
	return &CookingUpdate{Recipe: r, StepIndex: 0}, nil
}

// AdvanceCooking emits the next step of the active walkthrough, or
// completes it: once every step has been shown, a cook event is appended
// and the state destroyed. recipeID guards against stale next-step buttons;
// an advance for a recipe that is not the active one returns
// ErrNoActiveFlow, as does an advance with no cooking state at all.
func (e *Engine) AdvanceCooking(ctx context.Context, userID, recipeID int64) (*CookingUpdate, error) {
	st, err := e.states.Load(ctx, userID)
	if err != nil || st.Kind != domain.StateCooking || st.Cooking.RecipeID != recipeID {
		return nil, domain.ErrNoActiveFlow
	}
	c := st.Cooking

	r, err := e.recipes.ByID(ctx, c.RecipeID, userID)
	if err != nil {
		// Recipe vanished mid-flow; drop the stale state.
		_ = e.states.Clear(ctx, userID)
		return nil, err
	}

	if c.StepIndex >= len(r.Steps) {
		if err := e.recipes.LogCook(ctx, userID, r.ID); err != nil {
			return nil, fmt.Errorf("logging cook: %w", err)
		}
		if err := e.states.Clear(ctx, userID); err != nil {
			return nil, fmt.Errorf("clearing state: %w", err)
		}
		e.log.Info("user %d finished cooking #%d", userID, r.ID)
		return &CookingUpdate{Recipe: r, Done: true}, nil
	}

	upd := &CookingUpdate{Recipe: r, StepIndex: c.StepIndex}
	c.StepIndex++
	if err := e.states.Save(ctx, userID, st); err != nil {
		return nil, fmt.Errorf("advancing cooking: %w", err)
	}
	return upd, nil
}
