package interfaces

import (
	"context"

	"github.com/scrumkit/collie/pkg/domain/model"
)

// GitHookUseCase defines the interface for git event processing
type GitHookUseCase interface {
	// Process drives the ticket-status transition for a git event. It
	// returns true if at least one referenced ticket saw a successful
	// transition or comment, and false when no ticket key was found or no
	// referenced ticket exists. All external-call failures are handled
	// internally; nothing propagates to the caller.
	Process(ctx context.Context, event *model.GitEvent) bool
}

// Notifier is a fire-and-forget external channel sink. The processor never
// waits on its result for correctness.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// EventStore keeps an informational record of processed git events.
type EventStore interface {
	PutGitEvent(ctx context.Context, record *model.GitEventRecord) error
}
