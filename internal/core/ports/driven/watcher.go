package driven

import "context"

// FileWatcher reports changes to a file on disk.
type FileWatcher interface {
	// Watch calls onChange whenever path is written, replaced or removed.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, path string, onChange func()) error
}
