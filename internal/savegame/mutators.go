package savegame

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Anwar-ar/DaveSaveEd/internal/logging"
)

// RefData is the contract the bulk mutators require from the reference
// dataset: point lookups of an item's maximum stack size, and enumeration
// of every eligible ingredient row with its parent item.
type RefData interface {
	// IngredientMaxCount looks up Items.MaxCount by ItemDataID. The second
	// return is false when no row matches.
	IngredientMaxCount(id int64) (int64, bool, error)
	// MaterialMaxCount looks up Items.MaxCount by TID.
	MaterialMaxCount(tid int64) (int64, bool, error)
	// EachEligibleIngredient calls fn once per ingredient row joined to its
	// item, in store order. A non-nil error from fn stops the enumeration.
	EachEligibleIngredient(fn func(ingredientID, parentID, maxCount int64) error) error
}

// MutationReport counts the outcome of one bulk operation.
type MutationReport struct {
	Updated int
	Added   int
	Skipped int
}

// protagonistName is the staff entry that must keep its level; raising the
// player character's own staff level corrupts progression.
const protagonistName = "Staff_Dave"

const (
	defaultLastGainTime     = "04/01/2025 12:34:56"
	defaultLastGainGameTime = "10/03/2022 08:30:52"
)

// ingredientEntry is the complete field set of an Ingredients record.
// Synthesized entries must be indistinguishable from hand-authored ones
// except by value, so every field is always present.
type ingredientEntry struct {
	IngredientsID    int64  `json:"ingredientsID"`
	Level            int    `json:"level"`
	ParentID         int64  `json:"parentID"`
	Count            int64  `json:"count"`
	BranchCount      int    `json:"branchCount"`
	LastGainTime     string `json:"lastGainTime"`
	LastGainGameTime string `json:"lastGainGameTime"`
	IsNew            bool   `json:"isNew"`
	PlaceTagMask     int    `json:"placeTagMask"`
}

// MaxOwnIngredients sets the count of every owned ingredient to its tier
// target. It never inserts entries. Entries without a valid integer
// ingredientsID, entries with no reference row, and entries whose stack
// tier maps to a skip are counted as skipped.
func (m *Manager) MaxOwnIngredients(ref RefData) (MutationReport, error) {
	var rep MutationReport

	if err := m.requireCollection("Ingredients", "MaxOwnIngredients", ref); err != nil {
		return rep, err
	}

	entries := m.collectIDEntries("Ingredients", "ingredientsID", &rep)
	for _, e := range entries {
		maxCount, found, err := ref.IngredientMaxCount(e.id)
		if err != nil {
			logging.Logf(m.log, logging.Error, "MaxCount lookup failed for ingredient ID %d: %v", e.id, err)
			return rep, fmt.Errorf("lookup ingredient max count: %w", err)
		}
		if !found {
			logging.Logf(m.log, logging.Warning, "MaxCount not found for existing ingredient ID %d in Items table, skipping update", e.id)
			rep.Skipped++
			continue
		}

		target := m.classify(e.id, maxCount)
		if target == 0 {
			rep.Skipped++
			continue
		}
		if err := m.doc.Set("Ingredients."+e.key+".count", target); err != nil {
			return rep, err
		}
		rep.Updated++
	}

	logging.Logf(m.log, logging.Info, "MaxOwnIngredients: updated %d owned ingredients, skipped %d", rep.Updated, rep.Skipped)
	return rep, nil
}

// MaxOwnMaterials sets the totalCount of every owned inventory slot to its
// tier target, looking slots up by itemID against Items.TID. Same shape and
// skip policy as MaxOwnIngredients.
func (m *Manager) MaxOwnMaterials(ref RefData) (MutationReport, error) {
	var rep MutationReport

	if err := m.requireCollection("InventoryItemSlot", "MaxOwnMaterials", ref); err != nil {
		return rep, err
	}

	entries := m.collectIDEntries("InventoryItemSlot", "itemID", &rep)
	for _, e := range entries {
		maxCount, found, err := ref.MaterialMaxCount(e.id)
		if err != nil {
			logging.Logf(m.log, logging.Error, "MaxCount lookup failed for TID %d: %v", e.id, err)
			return rep, fmt.Errorf("lookup material max count: %w", err)
		}
		if !found {
			logging.Logf(m.log, logging.Warning, "MaxCount not found for existing TID %d in Items table, skipping update", e.id)
			rep.Skipped++
			continue
		}

		target := m.classify(e.id, maxCount)
		if target == 0 {
			rep.Skipped++
			continue
		}
		if err := m.doc.Set("InventoryItemSlot."+e.key+".totalCount", target); err != nil {
			return rep, err
		}
		rep.Updated++
	}

	logging.Logf(m.log, logging.Info, "MaxOwnMaterials: updated %d owned materials, skipped %d", rep.Updated, rep.Skipped)
	return rep, nil
}

// MaxAllIngredients walks every eligible ingredient in the reference store,
// not just owned ones. Existing entries get their count updated; missing
// entries are synthesized with the complete field set. The Ingredients
// section is created first when entirely absent. The operation is
// idempotent: a second run updates everything to the same targets and adds
// nothing.
func (m *Manager) MaxAllIngredients(ref RefData) (MutationReport, error) {
	var rep MutationReport

	if !m.loaded {
		m.log.Log(logging.Warning, "no save file loaded for MaxAllIngredients")
		return rep, ErrNotLoaded
	}
	if ref == nil {
		m.log.Log(logging.Error, "reference data store is nil for MaxAllIngredients")
		return rep, ErrNilRefData
	}

	if _, ok := m.doc.Section("Ingredients"); !ok {
		m.log.Log(logging.Info, "creating empty Ingredients section in save data")
		if err := m.doc.SetRaw("Ingredients", "{}"); err != nil {
			return rep, err
		}
	}

	lastGainTime, lastGainGameTime := m.defaultTimestamps()
	logging.Logf(m.log, logging.Info, "using timestamps %q / %q for new ingredients", lastGainTime, lastGainGameTime)

	err := ref.EachEligibleIngredient(func(ingredientID, parentID, maxCount int64) error {
		target := m.classify(ingredientID, maxCount)
		if target == 0 {
			rep.Skipped++
			return nil
		}

		key := fmt.Sprintf("Ingredients.%d", ingredientID)
		if m.doc.Get(key).Exists() {
			if err := m.doc.Set(key+".count", target); err != nil {
				return err
			}
			rep.Updated++
			return nil
		}

		entry, err := json.Marshal(ingredientEntry{
			IngredientsID:    ingredientID,
			Level:            1,
			ParentID:         parentID,
			Count:            target,
			BranchCount:      0,
			LastGainTime:     lastGainTime,
			LastGainGameTime: lastGainGameTime,
			IsNew:            true,
			PlaceTagMask:     1,
		})
		if err != nil {
			return fmt.Errorf("marshal ingredient entry: %w", err)
		}
		if err := m.doc.SetRaw(key, string(entry)); err != nil {
			return err
		}
		rep.Added++
		return nil
	})
	if err != nil {
		logging.Logf(m.log, logging.Error, "enumerating eligible ingredients: %v", err)
		return rep, fmt.Errorf("enumerate eligible ingredients: %w", err)
	}

	logging.Logf(m.log, logging.Info, "MaxAllIngredients: updated %d existing, added %d new, skipped %d ingredients", rep.Updated, rep.Added, rep.Skipped)
	return rep, nil
}

// MaxOwnStaffLevel raises every hired staff member to level 20, leaving the
// protagonist untouched. No reference data involved.
func (m *Manager) MaxOwnStaffLevel() (MutationReport, error) {
	var rep MutationReport

	if !m.loaded {
		m.log.Log(logging.Warning, "no save file loaded for MaxOwnStaffLevel")
		return rep, ErrNotLoaded
	}
	staff := m.doc.Get("Staff")
	if !staff.Exists() {
		m.log.Log(logging.Warning, "Staff section not found for MaxOwnStaffLevel")
		return rep, fmt.Errorf("%w: Staff", ErrSectionMissing)
	}

	var paths []string
	idx := 0
	staff.ForEach(func(key, value gjson.Result) bool {
		part := escapePathPart(key.String())
		if staff.IsArray() {
			part = fmt.Sprintf("%d", idx)
		}
		idx++
		if value.Get("name").String() == protagonistName {
			rep.Skipped++
			return true
		}
		paths = append(paths, "Staff."+part+".level")
		return true
	})

	for _, p := range paths {
		if err := m.doc.Set(p, 20); err != nil {
			return rep, err
		}
		rep.Updated++
	}

	logging.Logf(m.log, logging.Info, "MaxOwnStaffLevel: updated %d staff entries", rep.Updated)
	return rep, nil
}

// requireCollection enforces the shared mutator preconditions: a loaded
// document, the owning collection present as an object, and a usable
// reference store. Any failure aborts the whole operation with nothing
// mutated.
func (m *Manager) requireCollection(section, op string, ref RefData) error {
	if !m.loaded {
		logging.Logf(m.log, logging.Warning, "no save file loaded for %s", op)
		return ErrNotLoaded
	}
	if _, ok := m.doc.Section(section); !ok {
		logging.Logf(m.log, logging.Warning, "%s section not found or invalid for %s", section, op)
		return fmt.Errorf("%w: %s", ErrSectionMissing, section)
	}
	if ref == nil {
		logging.Logf(m.log, logging.Error, "reference data store is nil for %s", op)
		return ErrNilRefData
	}
	return nil
}

type idEntry struct {
	key string
	id  int64
}

// collectIDEntries snapshots the collection's keys and identifier fields
// before any mutation, counting entries whose identifier is missing or not
// an integer as skipped.
func (m *Manager) collectIDEntries(section, idField string, rep *MutationReport) []idEntry {
	var entries []idEntry
	m.doc.Get(section).ForEach(func(key, value gjson.Result) bool {
		id := value.Get(idField)
		if id.Type != gjson.Number || id.Num != math.Trunc(id.Num) {
			logging.Logf(m.log, logging.Warning, "skipping %s entry %q without valid %s, malformed entry", section, key.String(), idField)
			rep.Skipped++
			return true
		}
		entries = append(entries, idEntry{key: escapePathPart(key.String()), id: id.Int()})
		return true
	})
	return entries
}

// classify applies the tier table and logs the two skip cases the way the
// operation reports demand: unrecognized tiers warn, recognized skips are
// informational.
func (m *Manager) classify(id, maxCount int64) int64 {
	target, recognized := TierTarget(maxCount)
	if !recognized {
		logging.Logf(m.log, logging.Warning, "unhandled MaxCount tier %d for ID %d, skipping item", maxCount, id)
		return 0
	}
	if target == 0 {
		logging.Logf(m.log, logging.Info, "skipping ID %d with MaxCount %d per tier rules", id, maxCount)
	}
	return target
}

// defaultTimestamps picks the gain timestamps stamped onto synthesized
// ingredient entries: copied from the first existing entry in document
// order when present, otherwise fixed defaults.
func (m *Manager) defaultTimestamps() (string, string) {
	lastGain, lastGainGame := defaultLastGainTime, defaultLastGainGameTime

	var first gjson.Result
	m.doc.Get("Ingredients").ForEach(func(_, value gjson.Result) bool {
		first = value
		return false
	})
	if first.IsObject() {
		if t := first.Get("lastGainTime"); t.Type == gjson.String {
			lastGain = t.String()
		}
		if t := first.Get("lastGainGameTime"); t.Type == gjson.String {
			lastGainGame = t.String()
		}
	}
	return lastGain, lastGainGame
}

// escapePathPart guards collection keys used as gjson path components.
func escapePathPart(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}
