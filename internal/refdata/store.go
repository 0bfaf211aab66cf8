// Package refdata exposes the game's reference item dataset as a read-only
// queryable store. It satisfies the savegame.RefData contract: an Items
// table (ItemDataID, TID, MaxCount) and an Ingredients table joinable to
// Items on Ingredients.TID = Items.ItemDataID.
package refdata

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Anwar-ar/DaveSaveEd/internal/logging"
)

// Store wraps the reference SQLite database. Opened once, read by many
// sequential lookups, closed at process teardown. The point-lookup
// statements are prepared at open and reused across every bulk loop.
type Store struct {
	db  *sql.DB
	log logging.Logger

	stmtIngredient *sql.Stmt
	stmtMaterial   *sql.Stmt
}

// Open opens a reference store. Paths ending in .sql or .sql.gz are treated
// as SQL dumps and loaded into an in-memory database; anything else is
// opened as a SQLite database file.
func Open(path string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard
	}
	if isDumpPath(path) {
		return openFromDump(path, log)
	}
	s, err := open(path, log)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// OpenMemory opens an empty in-memory store. Tests and dump loading
// populate it through ExecScript.
func OpenMemory(log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard
	}
	return open(":memory:", log)
}

func open(dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection only: lookups are sequential, and a :memory: database
	// exists per connection, so pooling would scatter the loaded schema.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log}
	if err := s.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) configure() error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

// prepare builds the reusable point-lookup statements. Called after the
// schema exists (post dump load, or immediately for database files).
func (s *Store) prepare() error {
	var err error
	s.stmtIngredient, err = s.db.Prepare(`SELECT MaxCount FROM Items WHERE ItemDataID = ?`)
	if err != nil {
		return fmt.Errorf("prepare ingredient lookup: %w", err)
	}
	s.stmtMaterial, err = s.db.Prepare(`SELECT MaxCount FROM Items WHERE TID = ?`)
	if err != nil {
		return fmt.Errorf("prepare material lookup: %w", err)
	}
	return nil
}

// ExecScript executes a multi-statement SQL script, then (re)prepares the
// lookup statements against the resulting schema.
func (s *Store) ExecScript(script string) error {
	if _, err := s.db.Exec(script); err != nil {
		return fmt.Errorf("exec reference script: %w", err)
	}
	return s.prepare()
}

// Close releases the prepared statements and the database.
func (s *Store) Close() error {
	if s.stmtIngredient != nil {
		_ = s.stmtIngredient.Close()
	}
	if s.stmtMaterial != nil {
		_ = s.stmtMaterial.Close()
	}
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IngredientMaxCount looks up Items.MaxCount by ItemDataID.
func (s *Store) IngredientMaxCount(id int64) (int64, bool, error) {
	return s.lookup(s.stmtIngredient, id)
}

// MaterialMaxCount looks up Items.MaxCount by TID.
func (s *Store) MaterialMaxCount(tid int64) (int64, bool, error) {
	return s.lookup(s.stmtMaterial, tid)
}

func (s *Store) lookup(stmt *sql.Stmt, id int64) (int64, bool, error) {
	if stmt == nil {
		return 0, false, fmt.Errorf("reference store not initialized")
	}
	var maxCount int64
	err := stmt.QueryRow(id).Scan(&maxCount)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup max count: %w", err)
	}
	return maxCount, true, nil
}

// EachEligibleIngredient enumerates every ingredient row joined to its item,
// yielding the ingredient identifier, its parent item TID and the item's
// MaxCount.
func (s *Store) EachEligibleIngredient(fn func(ingredientID, parentID, maxCount int64) error) error {
	rows, err := s.db.Query(`
		SELECT I.TID, T.TID, T.MaxCount
		FROM Ingredients AS I
		JOIN Items AS T ON I.TID = T.ItemDataID
	`)
	if err != nil {
		return fmt.Errorf("query eligible ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ingredientID, parentID, maxCount int64
		if err := rows.Scan(&ingredientID, &parentID, &maxCount); err != nil {
			return fmt.Errorf("scan eligible ingredient: %w", err)
		}
		if err := fn(ingredientID, parentID, maxCount); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate eligible ingredients: %w", err)
	}
	return nil
}

// CountIngredients returns the number of rows the eligibility join yields.
func (s *Store) CountIngredients() (int, error) {
	row := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM Ingredients AS I
		JOIN Items AS T ON I.TID = T.ItemDataID
	`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count ingredients: %w", err)
	}
	return n, nil
}

func isDumpPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".sql") || strings.HasSuffix(lower, ".sql.gz")
}
