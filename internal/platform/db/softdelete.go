package db

// Soft delete is the rule for every portal table that carries an is_deleted
// flag: rows are marked, never removed, and every read filters them out. The
// filter lives here as a single predicate so no repository spells the
// condition by hand.

// NotDeleted returns the soft-delete WHERE predicate for the given table
// alias. An empty alias yields the bare column reference.
func NotDeleted(alias string) string {
	if alias == "" {
		return "is_deleted = FALSE"
	}
	return alias + ".is_deleted = FALSE"
}
