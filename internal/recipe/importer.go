// Package recipe seeds the shared catalog from the bundled JSON file.
package recipe

import (
	"context"
	"encoding/json"
	"os"

	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/logger"
)

// catalogEntry is the wire form of one catalog draft. cook_time_min is a
// json.Number so float-valued entries still coerce to an integer.
type catalogEntry struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	CookTimeMin json.Number         `json:"cook_time_min"`
}

// draft converts the entry to a domain draft and reports whether every
// required field is present.
func (e *catalogEntry) draft() (domain.Draft, bool) {
	tmin := 0
	if i, err := e.CookTimeMin.Int64(); err == nil {
		tmin = int(i)
	} else if f, err := e.CookTimeMin.Float64(); err == nil {
		tmin = int(f)
	}
	d := domain.Draft{
		Title:       e.Title,
		Description: e.Description,
		Ingredients: e.Ingredients,
		Steps:       e.Steps,
		CookTimeMin: tmin,
	}
	return d, d.Valid()
}

// Importer loads recipe drafts into the shared catalog on startup.
type Importer struct {
	store domain.RecipeStore
	log   *logger.Logger
}

// NewImporter creates a catalog importer writing to store.
func NewImporter(store domain.RecipeStore, log *logger.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// ImportFile reads a JSON array of recipe drafts from path and inserts the
// complete ones as shared recipes, returning the number inserted. Entries
// missing a required field are skipped. A missing or unreadable file logs
// and returns 0 — a broken catalog must never prevent startup. Re-running
// with the same file re-inserts duplicates; there is no dedup.
func (im *Importer) ImportFile(ctx context.Context, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		im.log.Info("catalog file not loaded: %v", err)
		return 0
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		im.log.Error("catalog parse failed: %v", err)
		return 0
	}

	drafts := make([]domain.Draft, 0, len(entries))
	for _, e := range entries {
		d, ok := e.draft()
		if !ok {
			im.log.Debug("skipping incomplete catalog entry %q", e.Title)
			continue
		}
		drafts = append(drafts, d)
	}

	n, err := im.store.InsertShared(ctx, drafts)
	if err != nil {
		im.log.Error("catalog insert failed after %d recipes: %v", n, err)
		return n
	}
	im.log.Info("imported %d catalog recipes from %s", n, path)
	return n
}
