package knowledge

import "context"

type Repository interface {
	// ReplaceSource swaps all entries for a source in one transaction:
	// existing rows are deleted and the new batch inserted together, so a
	// failed re-seed never leaves the source's corpus missing.
	ReplaceSource(ctx context.Context, source string, entries []*Entry) error
	// ByCategories returns entries in the given categories. An empty
	// slice returns every entry.
	ByCategories(ctx context.Context, categories []string) ([]*Entry, error)
	Count(ctx context.Context) (int64, error)
}
