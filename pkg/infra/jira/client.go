package jira

import (
	"context"
	"net/http"
	"strings"
	"time"

	jiralib "github.com/andygrunwald/go-jira"
	"github.com/m-mizutani/goerr/v2"

	"github.com/scrumkit/collie/pkg/domain/interfaces"
	"github.com/scrumkit/collie/pkg/domain/model"
)

// defaultTimeout bounds each tracker call so a stalled tracker cannot
// block event processing indefinitely.
const defaultTimeout = 15 * time.Second

type client struct {
	jiraClient *jiralib.Client
	timeout    time.Duration
}

// Option is a functional option for the Jira client
type Option func(*client)

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// NewClient creates a TicketClient backed by a Jira instance using basic
// auth (email + API token).
func NewClient(baseURL, email, apiToken string, opts ...Option) (interfaces.TicketClient, error) {
	tp := jiralib.BasicAuthTransport{
		Username: email,
		Password: apiToken,
	}

	jiraClient, err := jiralib.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Jira client", goerr.V("url", baseURL))
	}

	c := &client{
		jiraClient: jiraClient,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetTicket fetches the current snapshot of a work item
func (c *client) GetTicket(ctx context.Context, key model.TicketKey) (*model.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	issue, resp, err := c.jiraClient.Issue.GetWithContext(ctx, key.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, goerr.Wrap(interfaces.ErrTicketNotFound, "no such issue", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get issue", goerr.V("key", key))
	}

	return convertIssue(issue), nil
}

// UpdateStatus transitions a work item by resolving the target status
// against the tracker's available transitions. Matching is a
// case-insensitive substring match on the transition name; no match is a
// failure.
func (c *client) UpdateStatus(ctx context.Context, key model.TicketKey, status model.TicketStatus) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	transitions, _, err := c.jiraClient.Issue.GetTransitionsWithContext(ctx, key.String())
	if err != nil {
		return goerr.Wrap(err, "failed to list transitions", goerr.V("key", key))
	}

	var transitionID string
	want := strings.ToLower(string(status))
	for _, t := range transitions {
		if strings.Contains(strings.ToLower(t.Name), want) {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		return goerr.New("no matching transition",
			goerr.V("key", key),
			goerr.V("status", status),
		)
	}

	if _, err := c.jiraClient.Issue.DoTransitionWithContext(ctx, key.String(), transitionID); err != nil {
		return goerr.Wrap(err, "failed to apply transition",
			goerr.V("key", key),
			goerr.V("transition_id", transitionID),
		)
	}

	return nil
}

// AddComment appends a comment to a work item
func (c *client) AddComment(ctx context.Context, key model.TicketKey, text string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	comment := &jiralib.Comment{Body: text}
	if _, _, err := c.jiraClient.Issue.AddCommentWithContext(ctx, key.String(), comment); err != nil {
		return goerr.Wrap(err, "failed to add comment", goerr.V("key", key))
	}

	return nil
}

func convertIssue(issue *jiralib.Issue) *model.Ticket {
	ticket := &model.Ticket{
		Key: model.TicketKey(issue.Key),
	}

	if issue.Fields == nil {
		return ticket
	}

	ticket.Summary = issue.Fields.Summary
	if issue.Fields.Status != nil {
		ticket.Status = model.TicketStatus(issue.Fields.Status.Name)
	}
	if issue.Fields.Assignee != nil {
		ticket.Assignee = issue.Fields.Assignee.DisplayName
	}
	if issue.Fields.Project.Key != "" {
		ticket.Project = issue.Fields.Project.Key
	}

	return ticket
}
