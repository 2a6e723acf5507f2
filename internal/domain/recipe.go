// Package domain defines the core types and interfaces for the recipe bot.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"math"
	"time"
)

// SharedOwner marks a recipe that belongs to the shared catalog. Telegram
// user IDs are always positive, so zero is safe as the "no owner" value.
const SharedOwner int64 = 0

// Recipe represents a stored recipe, shared or private.
type Recipe struct {
	ID          int64
	Owner       int64 // SharedOwner for catalog recipes, a user ID otherwise
	Title       string
	Description string
	Ingredients []Ingredient
	Steps       []string
	CookTimeMin int
	TotalKcal   int
	TotalGrams  int
}

// Shared reports whether the recipe belongs to the shared catalog.
func (r *Recipe) Shared() bool { return r.Owner == SharedOwner }

// Ingredient is a single ingredient with its weight and calorie count.
// The JSON tags define the serialized form used both in the database and
// in the bundled catalog file.
type Ingredient struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
	Kcal  float64 `json:"kcal"`
}

// Draft is an unsaved recipe: the fields collected by the authoring flow
// or read from the catalog file, before the store assigns an ID and totals.
type Draft struct {
	Title       string
	Description string
	Ingredients []Ingredient
	Steps       []string
	CookTimeMin int
}

// Valid reports whether the draft has every required field.
func (d *Draft) Valid() bool {
	return d.Title != "" && d.Description != "" &&
		len(d.Ingredients) > 0 && len(d.Steps) > 0 && d.CookTimeMin > 0
}

// Totals sums kilocalories and grams over an ingredient list, rounded to
// the nearest integer.
func Totals(ings []Ingredient) (kcal, grams int) {
	var k, g float64
	for _, i := range ings {
		k += i.Kcal
		g += i.Grams
	}
	return int(math.Round(k)), int(math.Round(g))
}

// CookEvent marks the completion of a full step walkthrough. Append-only.
type CookEvent struct {
	ID       int64
	UserID   int64
	RecipeID int64
	At       time.Time
}

// Stats holds the per-user counters shown by the statistics action.
type Stats struct {
	Shared int // recipes in the shared catalog
	Owned  int // private recipes of this user
	Cooked int // cook events logged by this user
}
