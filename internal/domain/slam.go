package domain

// Slam is a named, dated event grouping an ordered list of poems.
type Slam struct {
	ID         int64  `json:"id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	HappenedOn string `json:"happened_on"` // YYYY-MM-DD

	// Poems is populated by listing queries, ordered by position.
	Poems []SlamPoem `json:"poems,omitempty"`
}

// SlamPoem is one membership row of a slam's ordered poem list.
// Positions within a slam are always a dense sequence 1..N.
type SlamPoem struct {
	PoemID    int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Position  int    `json:"position"`
}

// MoveDirection says which neighbor a slam poem swaps with.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// Valid reports whether d is a known direction.
func (d MoveDirection) Valid() bool {
	return d == MoveUp || d == MoveDown
}
