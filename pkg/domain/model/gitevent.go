package model

import "time"

// GitEventKind is a closed set of git events the processor understands.
// The processor switches exhaustively over these so that a new kind is a
// visible gap rather than a silently ignored string tag.
type GitEventKind string

const (
	EventPush              GitEventKind = "push"
	EventPullRequestOpened GitEventKind = "pull_request_opened"
	EventPullRequestClosed GitEventKind = "pull_request_closed"
	EventPullRequestMerged GitEventKind = "pull_request_merged"
	EventPullRequestReview GitEventKind = "pull_request_reviewed"
)

// ParseGitEventKind maps an external event-type tag to a GitEventKind.
func ParseGitEventKind(s string) (GitEventKind, bool) {
	switch GitEventKind(s) {
	case EventPush, EventPullRequestOpened, EventPullRequestClosed,
		EventPullRequestMerged, EventPullRequestReview:
		return GitEventKind(s), true
	default:
		return "", false
	}
}

// GitEvent is a normalized git event consumed exactly once by the
// processor. It is constructed per webhook delivery (or manual trigger)
// and never persisted by the core.
type GitEvent struct {
	ID            string       // Delivery ID from the source host, or generated
	Kind          GitEventKind
	Branch        string
	Repository    string
	Author        string
	CommitMessage string // Push only
	PRNumber      int    // Pull request events only
	PRTitle       string // Pull request events only
	PRBody        string // Pull request events only
	ReviewState   string // Review events only (e.g. "approved")
	ReceivedAt    time.Time
}

// ReferencedTickets returns the ticket keys this event refers to.
// The branch name contributes its first match only; commit messages and
// PR title/body contribute every match. The result is deduplicated with
// the branch key first, then text keys in scan order.
func (e *GitEvent) ReferencedTickets() []TicketKey {
	var keys []TicketKey
	seen := map[TicketKey]bool{}

	if key, ok := ExtractTicketKey(e.Branch); ok {
		keys = append(keys, key)
		seen[key] = true
	}

	for _, text := range []string{e.CommitMessage, e.PRTitle, e.PRBody} {
		for _, key := range ExtractTicketKeys(text) {
			if !seen[key] {
				keys = append(keys, key)
				seen[key] = true
			}
		}
	}

	return keys
}

// Notification is a best-effort message for the external channel sink.
// The core never waits on or reads back from the sink.
type Notification struct {
	Title      string
	Text       string
	Repository string
	Author     string
}

// GitEventRecord is the informational audit form of a processed event.
// Status transitions themselves are durable in the external tracker; this
// record exists only for operational inspection.
type GitEventRecord struct {
	ID          string    `firestore:"id"`
	Kind        string    `firestore:"kind"`
	Branch      string    `firestore:"branch"`
	Repository  string    `firestore:"repository"`
	Author      string    `firestore:"author"`
	PRNumber    int       `firestore:"pr_number,omitempty"`
	TicketKeys  []string  `firestore:"ticket_keys"`
	Updated     bool      `firestore:"updated"`
	ReceivedAt  time.Time `firestore:"received_at"`
	ProcessedAt time.Time `firestore:"processed_at"`
}
