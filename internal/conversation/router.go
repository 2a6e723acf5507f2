package conversation

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/engine"
	"github.com/hammamikhairi/chefbot/internal/logger"
)

// Router classifies inbound events and produces replies. Routing priority:
// slash command, active dialogue state, menu action, pure digits (recipe
// card), comma-separated words (ingredient search), free text (keyword
// search), fallback. No failure ever escapes a turn; storage errors become
// an apology message.
type Router struct {
	recipes domain.RecipeStore
	states  domain.StateStore
	engine  *engine.Engine
	log     *logger.Logger
}

// NewRouter creates a router with the given dependencies.
func NewRouter(recipes domain.RecipeStore, states domain.StateStore, eng *engine.Engine, log *logger.Logger) *Router {
	return &Router{recipes: recipes, states: states, engine: eng, log: log}
}

// HandleText processes one plain message event.
func (r *Router) HandleText(ctx context.Context, ev Event) Reply {
	// Slash commands outrank any active dialogue. A pending delete flag is
	// one-shot, so a command spends it too.
	if ev.Command && ev.Action != domain.ActionNone {
		r.expireDeletePrompt(ctx, ev.UserID)
		return r.menuAction(ctx, ev)
	}

	// Starting a new authoring flow abandons whatever was active.
	if ev.Action == domain.ActionAdd {
		return r.startAuthoring(ctx, ev.UserID)
	}

	// An active dialogue state consumes the input next.
	if st, err := r.states.Load(ctx, ev.UserID); err == nil {
		switch st.Kind {
		case domain.StateAuthoring:
			return r.authoringTurn(ctx, ev.UserID, ev.Text)
		case domain.StateAwaitingDelete:
			if reply, consumed := r.deleteTurn(ctx, ev); consumed {
				return reply
			}
			// The flag is one-shot; non-numeric input cleared it and
			// routes normally below.
		}
		// A pending cooking state is driven by inline buttons only; plain
		// text routes normally around it.
	}

	// Menu labels.
	if ev.Action != domain.ActionNone {
		return r.menuAction(ctx, ev)
	}

	text := strings.TrimSpace(ev.Text)
	switch {
	case isDigits(text):
		return r.showRecipe(ctx, ev.UserID, text)
	case strings.Contains(text, ","):
		return r.byIngredients(ctx, ev.UserID, text)
	case text != "":
		return r.search(ctx, ev.UserID, text)
	}
	return Reply{Text: msgFallback, MainMenu: true}
}

// HandleCook processes a cooking inline-button press. A step index of zero
// starts the walkthrough; anything else requests the next step of the
// active one.
func (r *Router) HandleCook(ctx context.Context, userID, recipeID int64, stepIndex int) Reply {
	var (
		upd *engine.CookingUpdate
		err error
	)
	if stepIndex == 0 {
		upd, err = r.engine.StartCooking(ctx, userID, recipeID)
	} else {
		upd, err = r.engine.AdvanceCooking(ctx, userID, recipeID)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoActiveFlow):
		return Reply{Text: msgNotFound, Alert: true}
	case err != nil:
		return r.apology(err)
	}

	if upd.Done {
		return Reply{Text: msgCookDone}
	}
	return Reply{
		Text: stepText(upd.Recipe, upd.StepIndex),
		Next: &StepRef{RecipeID: recipeID, NextIndex: upd.StepIndex + 1},
		Edit: true,
	}
}

func (r *Router) menuAction(ctx context.Context, ev Event) Reply {
	userID := ev.UserID
	switch ev.Action {
	case domain.ActionStart:
		return Reply{Text: msgGreeting, MainMenu: true}

	case domain.ActionPing:
		return Reply{Text: msgPong}

	case domain.ActionHelp:
		return Reply{Text: msgHelp, MainMenu: true}

	case domain.ActionStats:
		st, err := r.recipes.Stats(ctx, userID)
		if err != nil {
			return r.apology(err)
		}
		return Reply{Text: statsText(st)}

	case domain.ActionListAll:
		rs, err := r.recipes.ListForUser(ctx, userID, false)
		if err != nil {
			return r.apology(err)
		}
		if len(rs) == 0 {
			return Reply{Text: msgEmptyList}
		}
		return Reply{Text: listAllText(rs)}

	case domain.ActionQuick:
		rs, err := r.recipes.ListForUser(ctx, userID, true)
		if err != nil {
			return r.apology(err)
		}
		if len(rs) == 0 {
			return Reply{Text: msgNoQuick}
		}
		return Reply{Text: quickListText(rs)}

	case domain.ActionSearchPrompt:
		return Reply{Text: msgSearchPrompt}

	case domain.ActionRandom:
		rec, err := r.recipes.RandomRecipe(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			return Reply{Text: msgNoRecipes}
		}
		if err != nil {
			return r.apology(err)
		}
		return Reply{Text: recipeCard(rec), Cook: &CookRef{RecipeID: rec.ID}}

	case domain.ActionIngredientsPrompt:
		return Reply{Text: msgIngredPrompt}

	case domain.ActionTip:
		return Reply{Text: chefTip()}

	case domain.ActionMealPlan:
		return Reply{Text: msgPlanPrompt}

	case domain.ActionGoalCut:
		return Reply{Text: planThreeDays(false)}

	case domain.ActionGoalBulk:
		return Reply{Text: planThreeDays(true)}

	case domain.ActionLearn:
		return Reply{Text: msgLearnHint}

	case domain.ActionDeletePrompt:
		st := &domain.ConversationState{Kind: domain.StateAwaitingDelete}
		if err := r.states.Save(ctx, userID, st); err != nil {
			return r.apology(err)
		}
		return Reply{Text: msgDeletePrompt}

	case domain.ActionFavorites:
		return Reply{Text: msgFavorites}

	case domain.ActionShopping:
		return Reply{Text: msgShopping}
	}
	return Reply{Text: msgFallback, MainMenu: true}
}

func (r *Router) startAuthoring(ctx context.Context, userID int64) Reply {
	out, err := r.engine.StartAuthoring(ctx, userID)
	if err != nil {
		return r.apology(err)
	}
	return authoringReply(out)
}

func (r *Router) authoringTurn(ctx context.Context, userID int64, text string) Reply {
	out, err := r.engine.HandleAuthoringInput(ctx, userID, text)
	if err != nil {
		return r.apology(err)
	}
	return authoringReply(out)
}

var authoringPrompts = map[engine.AuthoringOutcome]string{
	engine.OutcomeAskTitle:        msgAskTitle,
	engine.OutcomeAskDescription:  msgAskDescription,
	engine.OutcomeAskIngredients:  msgAskIngredients,
	engine.OutcomeIngredientAdded: msgIngredAdded,
	engine.OutcomeBadIngredient:   msgBadIngredient,
	engine.OutcomeNeedIngredient:  msgNeedIngredient,
	engine.OutcomeAskSteps:        msgAskSteps,
	engine.OutcomeStepsAdded:      msgStepsAdded,
	engine.OutcomeNeedStep:        msgNeedStep,
	engine.OutcomeAskCookTime:     msgAskCookTime,
	engine.OutcomeBadCookTime:     msgBadCookTime,
}

func authoringReply(out engine.AuthoringOutcome) Reply {
	if out == engine.OutcomeSaved {
		return Reply{Text: msgRecipeSaved, MainMenu: true}
	}
	return Reply{Text: authoringPrompts[out]}
}

// expireDeletePrompt drops a pending delete flag so it never outlives the
// next interaction, whatever form that interaction takes.
func (r *Router) expireDeletePrompt(ctx context.Context, userID int64) {
	st, err := r.states.Load(ctx, userID)
	if err != nil || st.Kind != domain.StateAwaitingDelete {
		return
	}
	if err := r.states.Clear(ctx, userID); err != nil {
		r.log.Warn("clearing delete prompt: %v", err)
	}
}

// deleteTurn handles the one input following the delete prompt. The flag is
// one-shot: it is cleared whatever the input turns out to be, and only a
// numeric input is consumed as a delete request.
func (r *Router) deleteTurn(ctx context.Context, ev Event) (Reply, bool) {
	if err := r.states.Clear(ctx, ev.UserID); err != nil {
		return r.apology(err), true
	}
	text := strings.TrimSpace(ev.Text)
	if ev.Action != domain.ActionNone || !isDigits(text) {
		return Reply{}, false
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Reply{}, false
	}

	ok, err := r.recipes.DeleteOwned(ctx, id, ev.UserID)
	if err != nil {
		return r.apology(err), true
	}
	if !ok {
		return Reply{Text: msgDeleteDenied}, true
	}
	return Reply{Text: msgDeleted}, true
}

func (r *Router) showRecipe(ctx context.Context, userID int64, text string) Reply {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Reply{Text: msgNotFound}
	}
	rec, err := r.recipes.ByID(ctx, id, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return Reply{Text: msgNotFound}
	}
	if err != nil {
		return r.apology(err)
	}
	return Reply{Text: recipeCard(rec), Cook: &CookRef{RecipeID: rec.ID}}
}

func (r *Router) search(ctx context.Context, userID int64, query string) Reply {
	rs, err := r.recipes.Search(ctx, query, userID)
	if err != nil {
		return r.apology(err)
	}
	if len(rs) == 0 {
		return Reply{Text: msgNothingFound}
	}
	return Reply{Text: resultsText("<b>Нашёл рецепты:</b>", rs, true)}
}

func (r *Router) byIngredients(ctx context.Context, userID int64, text string) Reply {
	var words []string
	for _, w := range strings.Split(text, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	rs, err := r.recipes.ByIngredients(ctx, words, userID)
	if err != nil {
		return r.apology(err)
	}
	if len(rs) == 0 {
		return Reply{Text: msgNoIngredMatch}
	}
	return Reply{Text: resultsText("<b>Подходит:</b>", rs, false)}
}

func (r *Router) apology(err error) Reply {
	r.log.Error("handler failure: %v", err)
	return Reply{Text: msgStorageFail}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
