package domain

// Tetrastych is a short daily poem published on a specific date,
// independent of the main poem collection.
type Tetrastych struct {
	ID          int64  `json:"id"`
	PublishedOn string `json:"published_on"` // YYYY-MM-DD
	Body        string `json:"body"`
}
