package watcher

import "time"

// Event is a settled file in the watched directory. The file has
// stopped changing for at least the settle delay when it is emitted.
type Event struct {
	Path    string
	Size    int64
	ModTime time.Time
}
