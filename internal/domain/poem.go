// Package domain defines the core entities of the poezja server.
package domain

// Poem is a published poem. CreatedAt is stored as a UTC timestamp in
// YYYY-MM-DDTHH:MM:SSZ form; the admin panel edits it in local wall-clock time.
type Poem struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`

	// Projection fields, populated by listing queries.
	Tags      []Tag `json:"tags,omitempty"`
	ViewCount int64 `json:"view_count"`
}

// PoemField names a single editable poem column for field-level updates.
type PoemField string

// Editable poem fields. Tags is not a column; it rewrites the association set.
const (
	PoemFieldTitle     PoemField = "title"
	PoemFieldBody      PoemField = "body"
	PoemFieldCreatedAt PoemField = "created_at"
	PoemFieldTags      PoemField = "tags"
)

// Valid reports whether f is one of the editable fields.
func (f PoemField) Valid() bool {
	switch f {
	case PoemFieldTitle, PoemFieldBody, PoemFieldCreatedAt, PoemFieldTags:
		return true
	}
	return false
}
