package store

// PoemSort selects the ordering of poem listings.
type PoemSort string

// Supported poem sort modes.
const (
	SortNewest  PoemSort = "newest"
	SortOldest  PoemSort = "oldest"
	SortAZ      PoemSort = "az"
	SortZA      PoemSort = "za"
	SortPopular PoemSort = "popular"
)

// Valid reports whether the sort mode is one of the supported values.
func (s PoemSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortAZ, SortZA, SortPopular:
		return true
	}
	return false
}

// PoemListOptions filters and orders a poem listing.
// Zero values mean no filtering and the default (newest) ordering.
type PoemListOptions struct {
	// Search matches against title and body, case-insensitively.
	Search string
	// TagSlug restricts results to poems carrying the tag.
	// An unknown slug yields an empty result, not an error.
	TagSlug string
	// Sort selects the ordering; defaults to SortNewest when empty.
	Sort PoemSort
}
