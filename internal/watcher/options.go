package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// Options configures watcher behavior.
type Options struct {
	// IgnorePatterns are glob patterns matched against the base name.
	IgnorePatterns []string
	// SettleDelay is how long a file must stay unchanged before its
	// event is emitted.
	SettleDelay time.Duration
	// IgnoreHidden skips dotfiles.
	IgnoreHidden bool
}

func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 200 * time.Millisecond
	}
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{"*.tmp", "*.temp", "*.part", ".DS_Store"}
		o.IgnoreHidden = true
	}
}

func (o *Options) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if o.IgnoreHidden && strings.HasPrefix(base, ".") {
		return true
	}

	for _, pattern := range o.IgnorePatterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
