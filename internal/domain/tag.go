package domain

// Tag labels poems. The slug is the source of truth for identity; Name keeps
// the display form the tag was first created with.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// PoemCount is populated by the vocabulary query. Zero-count tags
	// still appear; orphans persist after their last association is removed.
	PoemCount int64 `json:"poem_count"`
}
