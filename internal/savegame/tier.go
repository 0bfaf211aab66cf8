package savegame

// TierTarget maps an item's maximum stack size from the reference dataset to
// the quantity a bulk mutator should write. A zero target means the item is
// skipped. Stacks of 1 are skipped on purpose: single-use and quest-tracking
// items break progression when their counts change.
//
// The second return is false when the stack size matches no known tier;
// callers log a warning and skip.
func TierTarget(maxCount int64) (int64, bool) {
	switch {
	case maxCount == 1:
		return 0, true
	case maxCount == 99:
		return 66, true
	case maxCount == 999:
		return 666, true
	case maxCount >= 9999:
		return 6666, true
	default:
		return 0, false
	}
}
