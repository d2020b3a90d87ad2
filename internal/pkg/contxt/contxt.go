package contxt

import (
	"context"
	"os"
	"time"
)

// NewPollContext derives a context for a single poll cycle. CONTEXT_TEST
// disables the deadline so tests can step through without racing it.
func NewPollContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
