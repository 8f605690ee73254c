package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/scrumkit/collie/pkg/domain/interfaces"
	"github.com/scrumkit/collie/pkg/domain/model"
	"github.com/scrumkit/collie/pkg/utils/async"
)

// WebhookHandler handles git webhooks from the source host
type WebhookHandler struct {
	secret    string
	githookUC interfaces.GitHookUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, githookUC interfaces.GitHookUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		githookUC: githookUC,
	}
}

// Handle acknowledges webhook requests immediately and hands the
// normalized event off for asynchronous processing. Downstream failures
// never reach this response path; only a signature mismatch or an
// unparsable payload is rejected synchronously.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature when a secret is configured
	if h.secret != "" && !h.verifySignature(body, r) {
		logger.Warn("Invalid webhook signature")
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	// Parse event using GitHub SDK
	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	event := normalizeEvent(r.Header.Get("X-GitHub-Delivery"), payload)
	if event == nil {
		logger.Info("Ignoring unsupported webhook event", "event_type", eventType)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	logger.Info("Accepted git webhook",
		"id", event.ID,
		"kind", event.Kind,
		"branch", event.Branch,
		"repository", event.Repository,
	)

	// Process out of band; the webhook is acknowledged regardless of the
	// processing outcome.
	uc := h.githookUC
	async.Dispatch(ctx, func(ctx context.Context) error {
		uc.Process(ctx, event)
		return nil
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// verifySignature checks the HMAC over the raw body, accepting the SHA-256
// header or the legacy SHA-1 scheme.
func (h *WebhookHandler) verifySignature(payload []byte, r *http.Request) bool {
	if sig := r.Header.Get("X-Hub-Signature-256"); sig != "" {
		return h.validHMAC(payload, strings.TrimPrefix(sig, "sha256="), sha256.New)
	}
	if sig := r.Header.Get("X-Hub-Signature"); sig != "" {
		return h.validHMAC(payload, strings.TrimPrefix(sig, "sha1="), sha1.New)
	}
	return false
}

func (h *WebhookHandler) validHMAC(payload []byte, signature string, algo func() hash.Hash) bool {
	mac := hmac.New(algo, []byte(h.secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// normalizeEvent maps a parsed source-host payload to the closed GitEvent
// model. It returns nil for event types and actions the processor does not
// handle.
func normalizeEvent(deliveryID string, payload any) *model.GitEvent {
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	event := &model.GitEvent{
		ID:         deliveryID,
		ReceivedAt: time.Now(),
	}

	switch e := payload.(type) {
	case *github.PushEvent:
		ref := e.GetRef()
		if !strings.HasPrefix(ref, "refs/heads/") {
			return nil // tag pushes carry no branch
		}
		event.Kind = model.EventPush
		event.Branch = strings.TrimPrefix(ref, "refs/heads/")
		event.Repository = e.GetRepo().GetFullName()
		event.Author = e.GetSender().GetLogin()
		event.CommitMessage = e.GetHeadCommit().GetMessage()

	case *github.PullRequestEvent:
		switch e.GetAction() {
		case "opened", "reopened":
			event.Kind = model.EventPullRequestOpened
		case "closed":
			if e.GetPullRequest().GetMerged() {
				event.Kind = model.EventPullRequestMerged
			} else {
				event.Kind = model.EventPullRequestClosed
			}
		default:
			return nil
		}
		event.Branch = e.GetPullRequest().GetHead().GetRef()
		event.Repository = e.GetRepo().GetFullName()
		event.Author = e.GetSender().GetLogin()
		event.PRNumber = e.GetPullRequest().GetNumber()
		event.PRTitle = e.GetPullRequest().GetTitle()
		event.PRBody = e.GetPullRequest().GetBody()

	case *github.PullRequestReviewEvent:
		if e.GetAction() != "submitted" {
			return nil
		}
		event.Kind = model.EventPullRequestReview
		event.Branch = e.GetPullRequest().GetHead().GetRef()
		event.Repository = e.GetRepo().GetFullName()
		event.Author = e.GetSender().GetLogin()
		event.PRNumber = e.GetPullRequest().GetNumber()
		event.PRTitle = e.GetPullRequest().GetTitle()
		event.PRBody = e.GetPullRequest().GetBody()
		event.ReviewState = e.GetReview().GetState()

	default:
		return nil
	}

	return event
}

// writeJSON writes a JSON response body
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(context.Background()).Error("Failed to encode response", "error", err)
	}
}
