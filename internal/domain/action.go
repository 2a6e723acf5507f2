package domain

// Action classifies what an inbound event asks for. The transport adapter
// maps slash commands and keyboard labels to actions so that the router
// never matches on display strings.
type Action int

const (
	// ActionNone marks free text that matched no command or label. The
	// router decides what it means (state input, lookup, search, ...).
	ActionNone Action = iota

	// Slash commands.
	ActionStart
	ActionPing
	ActionHelp

	// Keyboard labels.
	ActionSearchPrompt
	ActionAdd
	ActionLearn
	ActionListAll
	ActionDeletePrompt
	ActionStats
	ActionRandom
	ActionTip
	ActionIngredientsPrompt
	ActionQuick
	ActionMealPlan
	ActionGoalCut
	ActionGoalBulk
	ActionFavorites
	ActionShopping
)

// String returns a snake_case action name for logging.
func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionPing:
		return "ping"
	case ActionHelp:
		return "help"
	case ActionSearchPrompt:
		return "search_prompt"
	case ActionAdd:
		return "add"
	case ActionLearn:
		return "learn"
	case ActionListAll:
		return "list_all"
	case ActionDeletePrompt:
		return "delete_prompt"
	case ActionStats:
		return "stats"
	case ActionRandom:
		return "random"
	case ActionTip:
		return "tip"
	case ActionIngredientsPrompt:
		return "ingredients_prompt"
	case ActionQuick:
		return "quick"
	case ActionMealPlan:
		return "meal_plan"
	case ActionGoalCut:
		return "goal_cut"
	case ActionGoalBulk:
		return "goal_bulk"
	case ActionFavorites:
		return "favorites"
	case ActionShopping:
		return "shopping"
	default:
		return "none"
	}
}
