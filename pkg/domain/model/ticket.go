package model

// TicketKey is a human-readable work item identifier in the external
// tracker, e.g. "SCRUM-25".
type TicketKey string

func (k TicketKey) String() string {
	return string(k)
}

// TicketStatus represents a workflow status name in the external tracker.
// Deployments may define additional custom statuses; the named constants
// cover the standard workflow.
type TicketStatus string

const (
	StatusToDo       TicketStatus = "To Do"
	StatusInProgress TicketStatus = "In Progress"
	StatusInReview   TicketStatus = "In Review"
	StatusDone       TicketStatus = "Done"
	StatusCancelled  TicketStatus = "Cancelled"
)

// Ticket is a read-only snapshot of a tracker work item, fetched per event.
// It is never cached across events: every transition decision re-reads the
// current status to avoid acting on stale state.
type Ticket struct {
	Key      TicketKey
	Status   TicketStatus
	Summary  string
	Assignee string
	Project  string
}
