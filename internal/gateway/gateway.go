package gateway

import (
	"context"
	"fmt"
)

// Message is a single role-tagged turn sent to the text generation backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Gateway is the text generation backend consumed by the classifier and the
// follow-up pipeline. Implementations must surface timeouts and non-success
// statuses as a *Error; callers treat every failure as non-fatal.
type Gateway interface {
	// Complete sends the conversation turns and returns the generated text.
	// A maxTokens value <= 0 leaves the output length unbounded.
	Complete(ctx context.Context, turns []Message, temperature float32, maxTokens int) (string, error)

	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Error is a failed gateway call. StatusCode is 0 when the backend was
// unreachable (connection refused, timeout).
type Error struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("gateway connection error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
