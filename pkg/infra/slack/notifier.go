package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/scrumkit/collie/pkg/domain/interfaces"
	"github.com/scrumkit/collie/pkg/domain/model"
)

const defaultTimeout = 10 * time.Second

// notifier posts event summaries to a Slack incoming webhook. It is a pure
// sink: the processor never reads anything back from it.
type notifier struct {
	webhookURL string
	timeout    time.Duration
}

// NewNotifier creates a Notifier for a Slack incoming webhook URL.
func NewNotifier(webhookURL string) (interfaces.Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("slack webhook URL is required")
	}

	return &notifier{
		webhookURL: webhookURL,
		timeout:    defaultTimeout,
	}, nil
}

// Notify posts a notification message
func (n *notifier) Notify(ctx context.Context, msg *model.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	wm := &slack.WebhookMessage{
		Text: fmt.Sprintf("*%s*: %s", msg.Title, msg.Text),
		Attachments: []slack.Attachment{
			{
				Fields: []slack.AttachmentField{
					{Title: "Repository", Value: msg.Repository, Short: true},
					{Title: "Author", Value: msg.Author, Short: true},
				},
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, wm); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification")
	}

	return nil
}
