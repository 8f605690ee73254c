package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/scrumkit/collie/pkg/domain/interfaces"
	"github.com/scrumkit/collie/pkg/domain/model"
)

const (
	defaultCollection = "git_events"
	defaultTimeout    = 10 * time.Second
)

// eventStore keeps an informational record of processed git events in a
// single append-only collection. Write failures are best-effort by
// contract; the caller dispatches them through the async boundary.
type eventStore struct {
	client     *firestore.Client
	collection string
}

// Option is a functional option for the event store
type Option func(*eventStore)

// WithCollection overrides the collection name
func WithCollection(name string) Option {
	return func(s *eventStore) {
		s.collection = name
	}
}

// NewEventStore creates an EventStore backed by Firestore. When
// credentialsFile is empty, application default credentials are used.
func NewEventStore(ctx context.Context, projectID, credentialsFile string, opts ...Option) (interfaces.EventStore, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client", goerr.V("project_id", projectID))
	}

	s := &eventStore{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// PutGitEvent writes one event record keyed by its delivery ID
func (s *eventStore) PutGitEvent(ctx context.Context, record *model.GitEventRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.client.Collection(s.collection).Doc(record.ID).Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to store git event record",
			goerr.V("id", record.ID),
			goerr.V("collection", s.collection),
		)
	}

	return nil
}

// Close releases the underlying Firestore client
func (s *eventStore) Close() error {
	return s.client.Close()
}
