// Package conversation routes inbound chat events to the recipe store and
// the conversation engine, and renders the replies.
package conversation

import "github.com/hammamikhairi/chefbot/internal/domain"

// Event is one inbound user event. The transport maps slash commands and
// keyboard labels to actions before the router sees them, so the router
// never matches on display strings.
type Event struct {
	UserID  int64
	Action  domain.Action
	Text    string
	Command bool // the action came from a slash command, not a button
}

// CookRef asks the transport to attach a "start cooking" button.
type CookRef struct {
	RecipeID int64
}

// StepRef asks the transport to attach a "next step" button encoding the
// recipe and the index of the step it will request.
type StepRef struct {
	RecipeID  int64
	NextIndex int
}

// Reply is the router's answer to one event. Text is HTML-formatted.
type Reply struct {
	Text     string
	MainMenu bool     // attach the main reply keyboard
	Cook     *CookRef // attach a "start cooking" inline button
	Next     *StepRef // attach a "next step" inline button
	Edit     bool     // edit the originating message instead of sending a new one
	Alert    bool     // show as a callback popup instead of a message
}
