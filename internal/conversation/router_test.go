package conversation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/engine"
	"github.com/hammamikhairi/chefbot/internal/logger"
	"github.com/hammamikhairi/chefbot/internal/storage"
)

func setupRouter(t *testing.T) (*Router, *storage.SQLiteStore, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), log)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	states := storage.NewMemoryStateStore(log)
	eng := engine.New(store, states, log)
	return NewRouter(store, states, eng, log), store, context.Background()
}

func addRecipe(t *testing.T, ctx context.Context, store *storage.SQLiteStore, owner int64, title string, steps ...string) int64 {
	t.Helper()
	id, err := store.AddUserRecipe(ctx, owner, domain.Draft{
		Title:       title,
		Description: "описание",
		Ingredients: []domain.Ingredient{{Name: "яйцо", Grams: 60, Kcal: 90}},
		Steps:       steps,
		CookTimeMin: 10,
	})
	if err != nil {
		t.Fatalf("adding %s: %v", title, err)
	}
	return id
}

func TestMenuActions(t *testing.T) {
	r, _, ctx := setupRouter(t)

	tests := []struct {
		name     string
		action   domain.Action
		want     string
		mainMenu bool
	}{
		{"start", domain.ActionStart, msgGreeting, true},
		{"ping", domain.ActionPing, msgPong, false},
		{"help", domain.ActionHelp, msgHelp, true},
		{"empty list", domain.ActionListAll, msgEmptyList, false},
		{"no quick dishes", domain.ActionQuick, msgNoQuick, false},
		{"search prompt", domain.ActionSearchPrompt, msgSearchPrompt, false},
		{"random on empty", domain.ActionRandom, msgNoRecipes, false},
		{"ingredients prompt", domain.ActionIngredientsPrompt, msgIngredPrompt, false},
		{"plan prompt", domain.ActionMealPlan, msgPlanPrompt, false},
		{"learn hint", domain.ActionLearn, msgLearnHint, false},
		{"favorites", domain.ActionFavorites, msgFavorites, false},
		{"shopping", domain.ActionShopping, msgShopping, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.HandleText(ctx, Event{UserID: 1, Action: tt.action})
			if got.Text != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got.Text)
			}
			if got.MainMenu != tt.mainMenu {
				t.Fatalf("expected MainMenu=%v, got %v", tt.mainMenu, got.MainMenu)
			}
		})
	}
}

func TestMealPlanGoals(t *testing.T) {
	r, _, ctx := setupRouter(t)

	got := r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionGoalCut})
	if !strings.Contains(got.Text, "Похудение") || !strings.Contains(got.Text, "День 3") {
		t.Fatalf("cut plan missing goal or days: %q", got.Text)
	}
	got = r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionGoalBulk})
	if !strings.Contains(got.Text, "Набор массы") {
		t.Fatalf("bulk plan missing goal: %q", got.Text)
	}
}

func TestNumericInputOpensCard(t *testing.T) {
	r, store, ctx := setupRouter(t)
	id := addRecipe(t, ctx, store, 1, "Омлет", "Взбить", "Жарить")

	got := r.HandleText(ctx, Event{UserID: 1, Text: fmt.Sprintf("%d", id)})
	if !strings.Contains(got.Text, "Омлет") {
		t.Fatalf("expected recipe card, got %q", got.Text)
	}
	if got.Cook == nil || got.Cook.RecipeID != id {
		t.Fatalf("expected cook button for #%d, got %+v", id, got.Cook)
	}

	got = r.HandleText(ctx, Event{UserID: 1, Text: "99999"})
	if got.Text != msgNotFound {
		t.Fatalf("expected %q, got %q", msgNotFound, got.Text)
	}
}

func TestFreeTextSearch(t *testing.T) {
	r, store, ctx := setupRouter(t)
	addRecipe(t, ctx, store, 1, "омлет с сыром", "Жарить")

	got := r.HandleText(ctx, Event{UserID: 1, Text: "омлет"})
	if !strings.Contains(got.Text, "омлет с сыром") {
		t.Fatalf("expected a hit, got %q", got.Text)
	}
	got = r.HandleText(ctx, Event{UserID: 1, Text: "пельмени"})
	if got.Text != msgNothingFound {
		t.Fatalf("expected %q, got %q", msgNothingFound, got.Text)
	}
}

func TestCommaInputSearchesIngredients(t *testing.T) {
	r, store, ctx := setupRouter(t)
	addRecipe(t, ctx, store, 1, "Завтрак", "Жарить")

	got := r.HandleText(ctx, Event{UserID: 1, Text: "яйцо, масло"})
	if got.Text != msgNoIngredMatch {
		t.Fatalf("expected %q, got %q", msgNoIngredMatch, got.Text)
	}
	got = r.HandleText(ctx, Event{UserID: 1, Text: "яйцо,"})
	if !strings.Contains(got.Text, "Завтрак") {
		t.Fatalf("expected a hit, got %q", got.Text)
	}
}

func TestEmptyTextFallsBack(t *testing.T) {
	r, _, ctx := setupRouter(t)

	got := r.HandleText(ctx, Event{UserID: 1, Text: "   "})
	if got.Text != msgFallback || !got.MainMenu {
		t.Fatalf("expected fallback with menu, got %+v", got)
	}
}

func TestAuthoringConsumesFreeText(t *testing.T) {
	r, _, ctx := setupRouter(t)

	got := r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionAdd})
	if got.Text != msgAskTitle {
		t.Fatalf("expected title prompt, got %q", got.Text)
	}
	// The next message is the title, not a search.
	got = r.HandleText(ctx, Event{UserID: 1, Text: "Плов"})
	if got.Text != msgAskDescription {
		t.Fatalf("expected description prompt, got %q", got.Text)
	}
	// Even numeric input belongs to the flow.
	got = r.HandleText(ctx, Event{UserID: 1, Text: "12345"})
	if got.Text != msgAskIngredients {
		t.Fatalf("expected ingredients prompt, got %q", got.Text)
	}
}

func TestCommandOutranksAuthoring(t *testing.T) {
	r, _, ctx := setupRouter(t)

	r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionAdd})
	got := r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionPing, Text: "/ping", Command: true})
	if got.Text != msgPong {
		t.Fatalf("expected pong during flow, got %q", got.Text)
	}
	// The flow survives the interruption.
	got = r.HandleText(ctx, Event{UserID: 1, Text: "Плов"})
	if got.Text != msgAskDescription {
		t.Fatalf("expected flow to continue, got %q", got.Text)
	}
}

func TestFullAuthoringDialogue(t *testing.T) {
	r, store, ctx := setupRouter(t)

	r.HandleText(ctx, Event{UserID: 9, Action: domain.ActionAdd})
	turns := []struct {
		input string
		want  string
	}{
		{"Гренки", msgAskDescription},
		{"Хрустящий завтрак", msgAskIngredients},
		{"Хлеб;100;250", msgIngredAdded},
		{"что-то невнятное", msgBadIngredient},
		{"готово", msgAskSteps},
		{"Обжарить хлеб", msgStepsAdded},
		{"ГОТОВО", msgAskCookTime},
		{"пять", msgBadCookTime},
		{"5", msgRecipeSaved},
	}
	for _, tt := range turns {
		got := r.HandleText(ctx, Event{UserID: 9, Text: tt.input})
		if got.Text != tt.want {
			t.Fatalf("input %q: expected %q, got %q", tt.input, tt.want, got.Text)
		}
	}

	rs, err := store.ListForUser(ctx, 9, false)
	if err != nil || len(rs) != 1 {
		t.Fatalf("expected 1 saved recipe, got %d (err=%v)", len(rs), err)
	}
	if rs[0].Title != "Гренки" {
		t.Fatalf("expected saved title, got %q", rs[0].Title)
	}
}

func TestDeleteDialogue(t *testing.T) {
	r, store, ctx := setupRouter(t)
	own := addRecipe(t, ctx, store, 1, "Мой рецепт", "Шаг")
	foreign := addRecipe(t, ctx, store, 2, "Чужой рецепт", "Шаг")

	// Deleting someone else's recipe is refused.
	got := r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionDeletePrompt})
	if got.Text != msgDeletePrompt {
		t.Fatalf("expected delete prompt, got %q", got.Text)
	}
	got = r.HandleText(ctx, Event{UserID: 1, Text: fmt.Sprintf("%d", foreign)})
	if got.Text != msgDeleteDenied {
		t.Fatalf("expected denial, got %q", got.Text)
	}

	// The flag is one-shot: the next number opens a card again.
	got = r.HandleText(ctx, Event{UserID: 1, Text: fmt.Sprintf("%d", own)})
	if got.Cook == nil {
		t.Fatalf("expected recipe card after flag expired, got %q", got.Text)
	}

	// Deleting an owned recipe works.
	r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionDeletePrompt})
	got = r.HandleText(ctx, Event{UserID: 1, Text: fmt.Sprintf("%d", own)})
	if got.Text != msgDeleted {
		t.Fatalf("expected deletion, got %q", got.Text)
	}

	// Non-numeric input clears the flag and routes as a search.
	r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionDeletePrompt})
	got = r.HandleText(ctx, Event{UserID: 1, Text: "борщ"})
	if got.Text != msgNothingFound {
		t.Fatalf("expected search routing, got %q", got.Text)
	}
}

func TestCommandSpendsDeletePrompt(t *testing.T) {
	r, store, ctx := setupRouter(t)
	id := addRecipe(t, ctx, store, 1, "Мой рецепт", "Шаг")

	r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionDeletePrompt})
	got := r.HandleText(ctx, Event{UserID: 1, Action: domain.ActionPing, Text: "/ping", Command: true})
	if got.Text != msgPong {
		t.Fatalf("expected pong, got %q", got.Text)
	}

	// The command spent the one-shot flag: a number now opens a card.
	got = r.HandleText(ctx, Event{UserID: 1, Text: fmt.Sprintf("%d", id)})
	if got.Cook == nil {
		t.Fatalf("expected recipe card, got %q", got.Text)
	}
	if _, err := store.ByID(ctx, id, 1); err != nil {
		t.Fatalf("recipe was deleted: %v", err)
	}
}

func TestHandleCookWalkthrough(t *testing.T) {
	r, store, ctx := setupRouter(t)
	id := addRecipe(t, ctx, store, 1, "Гренки", "Нарезать хлеб", "Обжарить")

	got := r.HandleCook(ctx, 1, id, 0)
	if !strings.Contains(got.Text, "Шаг 1/2") {
		t.Fatalf("expected first step, got %q", got.Text)
	}
	// Steps replace the card message in place.
	if !got.Edit || got.Next == nil || got.Next.NextIndex != 1 {
		t.Fatalf("expected in-place step with next button, got %+v", got)
	}

	got = r.HandleCook(ctx, 1, id, got.Next.NextIndex)
	if !strings.Contains(got.Text, "Шаг 2/2") || !got.Edit {
		t.Fatalf("expected second step as edit, got %+v", got)
	}

	got = r.HandleCook(ctx, 1, id, got.Next.NextIndex)
	if got.Text != msgCookDone || got.Edit {
		t.Fatalf("expected completion message, got %+v", got)
	}

	// Pressing the dead button again alerts.
	got = r.HandleCook(ctx, 1, id, 2)
	if got.Text != msgNotFound || !got.Alert {
		t.Fatalf("expected stale-button alert, got %+v", got)
	}

	st, err := store.Stats(ctx, 1)
	if err != nil || st.Cooked != 1 {
		t.Fatalf("expected 1 cook event, got %+v (err=%v)", st, err)
	}
}

func TestHandleCookUnknownRecipe(t *testing.T) {
	r, _, ctx := setupRouter(t)

	got := r.HandleCook(ctx, 1, 42, 0)
	if got.Text != msgNotFound || !got.Alert {
		t.Fatalf("expected not-found alert, got %+v", got)
	}
}

func TestRecipeCardEscapesUserText(t *testing.T) {
	r, store, ctx := setupRouter(t)
	id := addRecipe(t, ctx, store, 1, "<script>алерт</script>", "Шаг")

	got := r.HandleText(ctx, Event{UserID: 1, Text: fmt.Sprintf("%d", id)})
	if strings.Contains(got.Text, "<script>") {
		t.Fatalf("unescaped markup in card: %q", got.Text)
	}
	if !strings.Contains(got.Text, "&lt;script&gt;") {
		t.Fatalf("expected escaped title, got %q", got.Text)
	}
}
