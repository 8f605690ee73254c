package model

// TransitionPolicy maps processor outcomes to tracker status names.
// Status names vary between tracker deployments, so targets are
// configuration rather than constants. An empty ReviewReady disables the
// review-approval transition entirely; approval events then only comment.
type TransitionPolicy struct {
	InProgress  TicketStatus `toml:"in_progress"`
	InReview    TicketStatus `toml:"in_review"`
	Done        TicketStatus `toml:"done"`
	Reopened    TicketStatus `toml:"reopened"`
	ReviewReady TicketStatus `toml:"review_ready"`
}

// DefaultTransitionPolicy returns the standard Jira-style workflow
// targets. The review-approval transition is disabled by default.
func DefaultTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{
		InProgress: StatusInProgress,
		InReview:   StatusInReview,
		Done:       StatusDone,
		Reopened:   StatusToDo,
	}
}
