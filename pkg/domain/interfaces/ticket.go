package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/scrumkit/collie/pkg/domain/model"
)

// ErrTicketNotFound is returned by TicketClient.GetTicket when the tracker
// has no work item for the given key. Callers distinguish it from
// transport failures with errors.Is.
var ErrTicketNotFound = goerr.New("ticket not found")

// TicketClient defines the narrow tracker surface the processor consumes.
// Implementations must bound each call with its own timeout so a stalled
// tracker cannot stall event processing indefinitely.
type TicketClient interface {
	// GetTicket fetches the current snapshot of a work item.
	GetTicket(ctx context.Context, key model.TicketKey) (*model.Ticket, error)

	// UpdateStatus transitions a work item to the target status. The
	// transition is resolved by name against the tracker's available
	// transitions for that item; no matching transition is a failure.
	UpdateStatus(ctx context.Context, key model.TicketKey, status model.TicketStatus) error

	// AddComment appends a comment to a work item.
	AddComment(ctx context.Context, key model.TicketKey, text string) error
}
