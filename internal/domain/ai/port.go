package ai

import "context"

// Client sends raw log text to a completion provider and returns the reply text.
type Client interface {
	Complete(ctx context.Context, logText string) (string, error)
}

// Configurable is implemented by clients that can report a missing credential
// before any request is attempted.
type Configurable interface {
	CheckConfigured() error
}
