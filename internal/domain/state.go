package domain

// StateKind tags the active multi-turn flow for a user.
type StateKind int

const (
	// StateAuthoring means the user is mid-way through adding a recipe.
	StateAuthoring StateKind = iota + 1
	// StateCooking means the user is stepping through a recipe.
	StateCooking
	// StateAwaitingDelete means the delete prompt was shown and the next
	// numeric input is a recipe ID to delete, not a lookup.
	StateAwaitingDelete
)

// String returns a human-readable state kind.
func (k StateKind) String() string {
	switch k {
	case StateAuthoring:
		return "authoring"
	case StateCooking:
		return "cooking"
	case StateAwaitingDelete:
		return "awaiting_delete"
	default:
		return "unknown"
	}
}

// AuthoringStage is a stage of the add-recipe dialogue. Stages are strictly
// linear; the only loops are the ingredient and step self-loops.
type AuthoringStage int

const (
	StageTitle AuthoringStage = iota
	StageDescription
	StageIngredients
	StageSteps
	StageCookTime
)

// String returns a human-readable stage name.
func (s AuthoringStage) String() string {
	switch s {
	case StageTitle:
		return "title"
	case StageDescription:
		return "description"
	case StageIngredients:
		return "ingredients"
	case StageSteps:
		return "steps"
	case StageCookTime:
		return "cook_time"
	default:
		return "unknown"
	}
}

// AuthoringState accumulates recipe fields across authoring turns.
type AuthoringState struct {
	Stage       AuthoringStage
	Title       string
	Description string
	Ingredients []Ingredient
	Steps       []string
}

// CookingState tracks a step-by-step walkthrough. StepIndex is the index of
// the next step to show.
type CookingState struct {
	RecipeID  int64
	StepIndex int
}

// ConversationState is the tagged per-user dialogue state. Exactly the
// pointer field matching Kind is set. A user has at most one of these at a
// time; starting a new flow overwrites whatever was there.
type ConversationState struct {
	Kind      StateKind
	Authoring *AuthoringState
	Cooking   *CookingState
}
