package domain

import "context"

// RecipeStore is the persistent catalog of recipes plus the cook-event log.
// Implementations may be SQLite-backed or in-memory for tests.
//
// Lookups report a missing or invisible recipe as ErrNotFound; every other
// error is a storage failure and is wrapped and propagated.
type RecipeStore interface {
	// InsertShared bulk-inserts catalog recipes with no owner. Drafts
	// missing required fields are skipped, not errors. Returns the number
	// of recipes actually inserted.
	InsertShared(ctx context.Context, drafts []Draft) (int, error)

	// AddUserRecipe stores a private recipe for owner and returns its ID.
	// Totals are computed here.
	AddUserRecipe(ctx context.Context, owner int64, d Draft) (int64, error)

	// Search does a case-insensitive substring match over title,
	// description and the serialized ingredient list. Visible set is
	// shared plus the owner's own recipes, newest first, capped at 40.
	Search(ctx context.Context, keyword string, owner int64) ([]Recipe, error)

	// ByIngredients matches recipes whose ingredient text or title
	// contains all words as one ordered substring chain. Same visibility,
	// order and cap as Search.
	ByIngredients(ctx context.Context, words []string, owner int64) ([]Recipe, error)

	// ListForUser returns all visible recipes newest first. With quickOnly
	// it returns only recipes cookable in 15 minutes or less, ordered by
	// cook time ascending then newest first.
	ListForUser(ctx context.Context, owner int64, quickOnly bool) ([]Recipe, error)

	// ByID returns the recipe if it is shared or owned by owner.
	ByID(ctx context.Context, id, owner int64) (*Recipe, error)

	// DeleteOwned deletes the recipe only if owner owns it and reports
	// whether a row was deleted. Shared recipes are never deletable here.
	DeleteOwned(ctx context.Context, id, owner int64) (bool, error)

	// RandomRecipe picks uniformly among visible recipes; ErrNotFound if
	// there are none.
	RandomRecipe(ctx context.Context, owner int64) (*Recipe, error)

	// LogCook appends a cook event. Fire-and-forget: the recipe is not
	// checked for existence.
	LogCook(ctx context.Context, owner, recipeID int64) error

	// Stats returns the counters for the statistics card.
	Stats(ctx context.Context, owner int64) (Stats, error)
}

// StateStore keeps per-user conversation state for the duration of a
// dialogue. State lives in process memory; losing it on restart is fine.
type StateStore interface {
	// Load returns the active state for a user, or ErrNotFound.
	Load(ctx context.Context, userID int64) (*ConversationState, error)
	// Save stores the state for a user, replacing any previous one.
	Save(ctx context.Context, userID int64, st *ConversationState) error
	// Clear removes the state for a user. Clearing an absent state is not
	// an error.
	Clear(ctx context.Context, userID int64) error
}
