package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/scrumkit/collie/pkg/domain/interfaces"
	"github.com/scrumkit/collie/pkg/domain/model"
	"github.com/scrumkit/collie/pkg/utils/async"
)

type gitHookUseCase struct {
	tickets  interfaces.TicketClient
	notifier interfaces.Notifier
	events   interfaces.EventStore
	policy   model.TransitionPolicy
}

// GitHookOption is a functional option for the git hook use case
type GitHookOption func(*gitHookUseCase)

// WithNotifier sets the best-effort channel sink
func WithNotifier(n interfaces.Notifier) GitHookOption {
	return func(uc *gitHookUseCase) {
		uc.notifier = n
	}
}

// WithEventStore sets the informational event log
func WithEventStore(s interfaces.EventStore) GitHookOption {
	return func(uc *gitHookUseCase) {
		uc.events = s
	}
}

// WithPolicy overrides the default transition policy
func WithPolicy(p model.TransitionPolicy) GitHookOption {
	return func(uc *gitHookUseCase) {
		uc.policy = p
	}
}

// NewGitHook creates a new instance of GitHookUseCase. Only the tracker
// client is mandatory; notifier and event store are optional side-effect
// sinks.
func NewGitHook(tickets interfaces.TicketClient, opts ...GitHookOption) interfaces.GitHookUseCase {
	uc := &gitHookUseCase{
		tickets: tickets,
		policy:  model.DefaultTransitionPolicy(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Process translates a git event into zero-or-one status transition per
// referenced ticket plus a best-effort audit comment and notification.
// Every decision re-fetches the ticket so concurrent events race safely as
// last-transition-wins.
func (uc *gitHookUseCase) Process(ctx context.Context, event *model.GitEvent) bool {
	logger := ctxlog.From(ctx)

	keys := event.ReferencedTickets()
	if len(keys) == 0 {
		logger.Debug("No ticket key found in git event",
			"branch", event.Branch,
			"kind", event.Kind,
		)
		return false
	}

	// Each referenced key runs the transition table independently; one
	// key's failure never stops the others.
	updated := false
	for _, key := range keys {
		if uc.processTicket(ctx, key, event) {
			updated = true
		}
	}

	uc.dispatchSideEffects(ctx, event, keys, updated)

	return updated
}

// processTicket drives the transition table for one ticket key. It returns
// true if the transition or the comment succeeded.
func (uc *gitHookUseCase) processTicket(ctx context.Context, key model.TicketKey, event *model.GitEvent) bool {
	logger := ctxlog.From(ctx)

	ticket, err := uc.tickets.GetTicket(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrTicketNotFound) {
			logger.Warn("Ticket not found in tracker",
				"key", key,
				"branch", event.Branch,
			)
		} else {
			logger.Warn("Failed to fetch ticket",
				"key", key,
				"error", err,
			)
		}
		return false
	}

	target, want := uc.targetStatus(event, ticket.Status)

	// At most one transition attempt per event, skipped when the snapshot
	// already matches the target.
	transitioned := false
	if want && target != ticket.Status {
		if err := uc.tickets.UpdateStatus(ctx, key, target); err != nil {
			logger.Warn("Failed to transition ticket, continuing to comment",
				"key", key,
				"from", ticket.Status,
				"to", target,
				"error", err,
			)
		} else {
			transitioned = true
			logger.Info("Transitioned ticket",
				"key", key,
				"from", ticket.Status,
				"to", target,
			)
		}
	}

	comment := buildComment(event, target, transitioned)
	commented := false
	if err := uc.tickets.AddComment(ctx, key, comment); err != nil {
		logger.Warn("Failed to add comment to ticket",
			"key", key,
			"error", err,
		)
	} else {
		commented = true
	}

	return transitioned || commented
}

// targetStatus decides the desired status for an event against the
// snapshot read at event time. The second return is false when the event
// warrants no transition at all.
func (uc *gitHookUseCase) targetStatus(event *model.GitEvent, current model.TicketStatus) (model.TicketStatus, bool) {
	switch event.Kind {
	case model.EventPush:
		// Only the first push moves the ticket out of To Do; later pushes
		// are comment-only.
		if current == model.StatusToDo {
			return uc.policy.InProgress, true
		}
		return "", false
	case model.EventPullRequestOpened:
		return uc.policy.InReview, true
	case model.EventPullRequestMerged:
		return uc.policy.Done, true
	case model.EventPullRequestClosed:
		return uc.policy.Reopened, true
	case model.EventPullRequestReview:
		if uc.policy.ReviewReady != "" && strings.EqualFold(event.ReviewState, "approved") {
			return uc.policy.ReviewReady, true
		}
		return "", false
	}
	return "", false
}

// dispatchSideEffects fires the notification and event-log writes without
// waiting for them. Their failures are logged by the dispatcher and never
// affect the processing result.
func (uc *gitHookUseCase) dispatchSideEffects(ctx context.Context, event *model.GitEvent, keys []model.TicketKey, updated bool) {
	if uc.notifier != nil {
		n := buildNotification(event)
		notifier := uc.notifier
		async.Dispatch(ctx, func(ctx context.Context) error {
			return notifier.Notify(ctx, n)
		})
	}

	if uc.events != nil {
		record := &model.GitEventRecord{
			ID:          event.ID,
			Kind:        string(event.Kind),
			Branch:      event.Branch,
			Repository:  event.Repository,
			Author:      event.Author,
			PRNumber:    event.PRNumber,
			TicketKeys:  keysToStrings(keys),
			Updated:     updated,
			ReceivedAt:  event.ReceivedAt,
			ProcessedAt: time.Now(),
		}
		events := uc.events
		async.Dispatch(ctx, func(ctx context.Context) error {
			return events.PutGitEvent(ctx, record)
		})
	}
}

// buildComment composes the audit comment for an event. When the
// transition succeeded the comment is prefixed or suffixed with the status
// change note.
func buildComment(event *model.GitEvent, target model.TicketStatus, transitioned bool) string {
	switch event.Kind {
	case model.EventPush:
		var sb strings.Builder
		if transitioned {
			fmt.Fprintf(&sb, "Ticket moved to '%s'. ", target)
		}
		fmt.Fprintf(&sb, "Code pushed to branch '%s' by %s in %s.", event.Branch, event.Author, event.Repository)
		if event.CommitMessage != "" {
			fmt.Fprintf(&sb, "\n\nCommit: %s", event.CommitMessage)
		}
		return sb.String()

	case model.EventPullRequestOpened:
		c := fmt.Sprintf("Pull Request #%d created by %s in %s for branch '%s'.",
			event.PRNumber, event.Author, event.Repository, event.Branch)
		if transitioned {
			c += fmt.Sprintf(" Moving to %s.", target)
		}
		return c

	case model.EventPullRequestMerged:
		c := fmt.Sprintf("Pull Request #%d merged by %s in %s for branch '%s'.",
			event.PRNumber, event.Author, event.Repository, event.Branch)
		if transitioned {
			c += fmt.Sprintf(" Moving to %s.", target)
		}
		return c

	case model.EventPullRequestClosed:
		c := fmt.Sprintf("Pull Request #%d closed without merge by %s in %s for branch '%s'.",
			event.PRNumber, event.Author, event.Repository, event.Branch)
		if transitioned {
			c += fmt.Sprintf(" Moving back to %s.", target)
		}
		return c

	case model.EventPullRequestReview:
		c := fmt.Sprintf("Pull Request #%d review %s by %s in %s for branch '%s'.",
			event.PRNumber, event.ReviewState, event.Author, event.Repository, event.Branch)
		if transitioned {
			c += fmt.Sprintf(" Moving to %s.", target)
		}
		return c
	}

	return fmt.Sprintf("Git event on branch '%s' by %s in %s.", event.Branch, event.Author, event.Repository)
}

func buildNotification(event *model.GitEvent) *model.Notification {
	var title, text string
	switch event.Kind {
	case model.EventPush:
		title = "Push Event"
		text = fmt.Sprintf("Code pushed to %s on branch %s", event.Repository, event.Branch)
	case model.EventPullRequestOpened:
		title = "Pull Request Opened"
		text = fmt.Sprintf("PR #%d opened in %s for branch %s", event.PRNumber, event.Repository, event.Branch)
	case model.EventPullRequestMerged:
		title = "Pull Request Merged"
		text = fmt.Sprintf("PR #%d merged in %s", event.PRNumber, event.Repository)
	case model.EventPullRequestClosed:
		title = "Pull Request Closed"
		text = fmt.Sprintf("PR #%d closed without merge in %s", event.PRNumber, event.Repository)
	case model.EventPullRequestReview:
		title = "Pull Request Review"
		text = fmt.Sprintf("PR #%d review %s in %s", event.PRNumber, event.ReviewState, event.Repository)
	default:
		title = "Git Event"
		text = fmt.Sprintf("Event on %s", event.Repository)
	}

	return &model.Notification{
		Title:      title,
		Text:       text,
		Repository: event.Repository,
		Author:     event.Author,
	}
}

func keysToStrings(keys []model.TicketKey) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, string(key))
	}
	return out
}
