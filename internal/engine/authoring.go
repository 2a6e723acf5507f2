package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/chefbot/internal/domain"
)

// DoneToken is the sentinel, matched case-insensitively, that finishes the
// ingredient and step stages.
const DoneToken = "готово"

// AuthoringOutcome tells the router what the authoring machine did with an
// input and which prompt to show next.
type AuthoringOutcome int

const (
	// OutcomeAskTitle — flow (re)started, waiting for the title.
	OutcomeAskTitle AuthoringOutcome = iota
	// OutcomeAskDescription — title accepted.
	OutcomeAskDescription
	// OutcomeAskIngredients — description accepted.
	OutcomeAskIngredients
	// OutcomeIngredientAdded — one ingredient parsed and accumulated.
	OutcomeIngredientAdded
	// OutcomeBadIngredient — malformed line; nothing accumulated.
	OutcomeBadIngredient
	// OutcomeNeedIngredient — completion token with zero ingredients.
	OutcomeNeedIngredient
	// OutcomeAskSteps — ingredient stage finished.
	OutcomeAskSteps
	// OutcomeStepsAdded — step lines appended.
	OutcomeStepsAdded
	// OutcomeNeedStep — completion token with zero steps.
	OutcomeNeedStep
	// OutcomeAskCookTime — step stage finished.
	OutcomeAskCookTime
	// OutcomeBadCookTime — input did not parse as a positive integer.
	OutcomeBadCookTime
	// OutcomeSaved — recipe committed, flow finished.
	OutcomeSaved
)

// StartAuthoring begins the add-recipe flow for the user, overwriting any
// active dialogue state.
func (e *Engine) StartAuthoring(ctx context.Context, userID int64) (AuthoringOutcome, error) {
	st := &domain.ConversationState{
		Kind:      domain.StateAuthoring,
		Authoring: &domain.AuthoringState{Stage: domain.StageTitle},
	}
	if err := e.states.Save(ctx, userID, st); err != nil {
		return 0, fmt.Errorf("starting authoring: %w", err)
	}
	e.log.Info("user %d started adding a recipe", userID)
	return OutcomeAskTitle, nil
}

// HandleAuthoringInput feeds one message to the user's active authoring
// flow. Returns ErrNoActiveFlow if the user is not in one.
func (e *Engine) HandleAuthoringInput(ctx context.Context, userID int64, input string) (AuthoringOutcome, error) {
	st, err := e.states.Load(ctx, userID)
	if err != nil || st.Kind != domain.StateAuthoring {
		return 0, domain.ErrNoActiveFlow
	}
	a := st.Authoring
	text := strings.TrimSpace(input)

	switch a.Stage {
	case domain.StageTitle:
		if text == "" {
			return OutcomeAskTitle, nil
		}
		a.Title = text
		a.Stage = domain.StageDescription
		return OutcomeAskDescription, e.save(ctx, userID, st)

	case domain.StageDescription:
		if text == "" {
			return OutcomeAskDescription, nil
		}
		a.Description = text
		a.Stage = domain.StageIngredients
		return OutcomeAskIngredients, e.save(ctx, userID, st)

	case domain.StageIngredients:
		if isDone(text) {
			if len(a.Ingredients) == 0 {
				return OutcomeNeedIngredient, nil
			}
			a.Stage = domain.StageSteps
			return OutcomeAskSteps, e.save(ctx, userID, st)
		}
		ing, ok := parseIngredientLine(text)
		if !ok {
			return OutcomeBadIngredient, nil
		}
		a.Ingredients = append(a.Ingredients, ing)
		return OutcomeIngredientAdded, e.save(ctx, userID, st)

	case domain.StageSteps:
		if isDone(text) {
			if len(a.Steps) == 0 {
				return OutcomeNeedStep, nil
			}
			a.Stage = domain.StageCookTime
			return OutcomeAskCookTime, e.save(ctx, userID, st)
		}
		for _, line := range strings.Split(input, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				a.Steps = append(a.Steps, s)
			}
		}
		return OutcomeStepsAdded, e.save(ctx, userID, st)

	case domain.StageCookTime:
		tmin, err := strconv.Atoi(text)
		if err != nil || tmin <= 0 {
			return OutcomeBadCookTime, nil
		}
		draft := domain.Draft{
			Title:       a.Title,
			Description: a.Description,
			Ingredients: a.Ingredients,
			Steps:       a.Steps,
			CookTimeMin: tmin,
		}
		id, err := e.recipes.AddUserRecipe(ctx, userID, draft)
		if err != nil {
			return 0, fmt.Errorf("saving recipe: %w", err)
		}
		if err := e.states.Clear(ctx, userID); err != nil {
			return 0, fmt.Errorf("clearing state: %w", err)
		}
		e.log.Info("user %d saved recipe #%d %q", userID, id, draft.Title)
		return OutcomeSaved, nil
	}

	return 0, fmt.Errorf("authoring: unknown stage %v", a.Stage)
}

func (e *Engine) save(ctx context.Context, userID int64, st *domain.ConversationState) error {
	if err := e.states.Save(ctx, userID, st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// isDone matches the completion token case-insensitively, Cyrillic included.
func isDone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), DoneToken)
}

// parseIngredientLine parses "name;grams;kcal". The numeric fields accept a
// comma as the decimal separator.
func parseIngredientLine(s string) (domain.Ingredient, bool) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return domain.Ingredient{}, false
	}
	name := strings.TrimSpace(parts[0])
	grams, errG := parseDecimal(parts[1])
	kcal, errK := parseDecimal(parts[2])
	if name == "" || errG != nil || errK != nil {
		return domain.Ingredient{}, false
	}
	return domain.Ingredient{Name: name, Grams: grams, Kcal: kcal}, true
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
