// Package storage provides the SQLite-backed recipe store and the in-memory
// conversation state store.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeStore = (*SQLiteStore)(nil)

// searchLimit caps every list-returning query.
const searchLimit = 40

// quickCookTimeMin is the cook-time ceiling for the quick-dish filter.
const quickCookTimeMin = 15

// SQLiteStore persists recipes and cook events in a SQLite database.
// Reads run concurrently; the driver serializes writes.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens (or creates) the database at path, applies pragmas and
// runs migrations.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS recipes(
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id          INTEGER,          -- NULL = shared catalog
			title            TEXT NOT NULL,
			description      TEXT NOT NULL,
			ingredients_json TEXT NOT NULL,
			steps_json       TEXT NOT NULL,
			cook_time_min    INTEGER NOT NULL,
			total_kcal       INTEGER NOT NULL,
			total_grams      INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cook_logs(
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   INTEGER NOT NULL,
			recipe_id INTEGER NOT NULL,
			ts        DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_recipes_user ON recipes(user_id);
		CREATE INDEX IF NOT EXISTS idx_recipes_time ON recipes(cook_time_min);
		CREATE INDEX IF NOT EXISTS idx_logs_user    ON cook_logs(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// recipeCols is the column list every recipe query selects, in scan order.
const recipeCols = `id, user_id, title, description, ingredients_json, steps_json, cook_time_min, total_kcal, total_grams`

// ownerArg maps the domain owner value to the nullable user_id column.
func ownerArg(owner int64) sql.NullInt64 {
	return sql.NullInt64{Int64: owner, Valid: owner != domain.SharedOwner}
}

func (s *SQLiteStore) insert(ctx context.Context, owner sql.NullInt64, d domain.Draft) (int64, error) {
	ings, err := json.Marshal(d.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("storage: marshal ingredients: %w", err)
	}
	steps, err := json.Marshal(d.Steps)
	if err != nil {
		return 0, fmt.Errorf("storage: marshal steps: %w", err)
	}
	kcal, grams := domain.Totals(d.Ingredients)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes(user_id, title, description, ingredients_json, steps_json, cook_time_min, total_kcal, total_grams)
		VALUES(?,?,?,?,?,?,?,?)`,
		owner, d.Title, d.Description, string(ings), string(steps), d.CookTimeMin, kcal, grams)
	if err != nil {
		return 0, fmt.Errorf("storage: insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: last insert id: %w", err)
	}
	return id, nil
}

// InsertShared bulk-inserts catalog recipes. Drafts missing required fields
// are skipped so one bad entry never fails the batch.
func (s *SQLiteStore) InsertShared(ctx context.Context, drafts []domain.Draft) (int, error) {
	inserted := 0
	for _, d := range drafts {
		if !d.Valid() {
			s.log.Debug("skipping incomplete catalog draft %q", d.Title)
			continue
		}
		if _, err := s.insert(ctx, sql.NullInt64{}, d); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// AddUserRecipe stores a private recipe and returns its assigned ID.
func (s *SQLiteStore) AddUserRecipe(ctx context.Context, owner int64, d domain.Draft) (int64, error) {
	id, err := s.insert(ctx, ownerArg(owner), d)
	if err != nil {
		return 0, err
	}
	s.log.Info("user %d added recipe #%d %q", owner, id, d.Title)
	return id, nil
}

// Search matches keyword case-insensitively against title, description and
// the serialized ingredient list.
func (s *SQLiteStore) Search(ctx context.Context, keyword string, owner int64) ([]domain.Recipe, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	return s.queryRecipes(ctx, `
		SELECT `+recipeCols+` FROM recipes
		WHERE (user_id IS NULL OR user_id = ?)
		  AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients_json) LIKE ?)
		ORDER BY id DESC LIMIT ?`,
		owner, like, like, like, searchLimit)
}

// ByIngredients matches recipes containing all words as one ordered
// substring chain ("%w1%w2%"): words match in serialization order only, not
// independently. The pattern is frozen compatibility behavior.
func (s *SQLiteStore) ByIngredients(ctx context.Context, words []string, owner int64) ([]domain.Recipe, error) {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	like := "%" + strings.Join(lowered, "%") + "%"
	return s.queryRecipes(ctx, `
		SELECT `+recipeCols+` FROM recipes
		WHERE (user_id IS NULL OR user_id = ?)
		  AND (LOWER(ingredients_json) LIKE ? OR LOWER(title) LIKE ?)
		ORDER BY id DESC LIMIT ?`,
		owner, like, like, searchLimit)
}

// ListForUser returns all visible recipes, or only quick ones.
func (s *SQLiteStore) ListForUser(ctx context.Context, owner int64, quickOnly bool) ([]domain.Recipe, error) {
	if quickOnly {
		return s.queryRecipes(ctx, `
			SELECT `+recipeCols+` FROM recipes
			WHERE (user_id IS NULL OR user_id = ?) AND cook_time_min <= ?
			ORDER BY cook_time_min, id DESC`,
			owner, quickCookTimeMin)
	}
	return s.queryRecipes(ctx, `
		SELECT `+recipeCols+` FROM recipes
		WHERE (user_id IS NULL OR user_id = ?)
		ORDER BY id DESC`,
		owner)
}

// ByID returns the recipe if it is shared or owned by owner.
func (s *SQLiteStore) ByID(ctx context.Context, id, owner int64) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recipeCols+` FROM recipes
		WHERE id = ? AND (user_id IS NULL OR user_id = ?)`,
		id, owner)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		s.log.Debug("recipe not found: #%d for user %d", id, owner)
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: recipe by id: %w", err)
	}
	return r, nil
}

// DeleteOwned deletes the recipe only when owner owns it. Shared recipes
// have a NULL user_id and therefore never match.
func (s *SQLiteStore) DeleteOwned(ctx context.Context, id, owner int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, owner)
	if err != nil {
		return false, fmt.Errorf("storage: delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: rows affected: %w", err)
	}
	if n > 0 {
		s.log.Info("user %d deleted recipe #%d", owner, id)
	}
	return n > 0, nil
}

// RandomRecipe picks uniformly among visible recipes.
func (s *SQLiteStore) RandomRecipe(ctx context.Context, owner int64) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recipeCols+` FROM recipes
		WHERE (user_id IS NULL OR user_id = ?)
		ORDER BY RANDOM() LIMIT 1`,
		owner)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: random recipe: %w", err)
	}
	return r, nil
}

// LogCook appends a cook event. The recipe is deliberately not checked for
// existence.
func (s *SQLiteStore) LogCook(ctx context.Context, owner, recipeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cook_logs(user_id, recipe_id) VALUES(?,?)`, owner, recipeID)
	if err != nil {
		return fmt.Errorf("storage: log cook: %w", err)
	}
	s.log.Debug("user %d cooked recipe #%d", owner, recipeID)
	return nil
}

// Stats returns the shared/owned/cooked counters for a user.
func (s *SQLiteStore) Stats(ctx context.Context, owner int64) (domain.Stats, error) {
	var st domain.Stats
	queries := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&st.Shared, `SELECT COUNT(*) FROM recipes WHERE user_id IS NULL`, nil},
		{&st.Owned, `SELECT COUNT(*) FROM recipes WHERE user_id = ?`, []any{owner}},
		{&st.Cooked, `SELECT COUNT(*) FROM cook_logs WHERE user_id = ?`, []any{owner}},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return domain.Stats{}, fmt.Errorf("storage: stats: %w", err)
		}
	}
	return st, nil
}

func (s *SQLiteStore) queryRecipes(ctx context.Context, query string, args ...any) ([]domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan recipe: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate recipes: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		r     domain.Recipe
		owner sql.NullInt64
		ings  []byte
		steps []byte
	)
	err := row.Scan(&r.ID, &owner, &r.Title, &r.Description, &ings, &steps,
		&r.CookTimeMin, &r.TotalKcal, &r.TotalGrams)
	if err != nil {
		return nil, err
	}
	if owner.Valid {
		r.Owner = owner.Int64
	}
	if err := json.Unmarshal(ings, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients of recipe #%d: %w", r.ID, err)
	}
	if err := json.Unmarshal(steps, &r.Steps); err != nil {
		return nil, fmt.Errorf("decode steps of recipe #%d: %w", r.ID, err)
	}
	return &r, nil
}
