package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/scrumkit/collie/pkg/domain/interfaces"
	"github.com/scrumkit/collie/pkg/domain/model"
)

// GitHookHandler exposes the processor outside the webhook path: a manual
// trigger for testing/ops and a branch-inspection endpoint.
type GitHookHandler struct {
	githookUC interfaces.GitHookUseCase
}

// NewGitHookHandler creates a new GitHookHandler
func NewGitHookHandler(githookUC interfaces.GitHookUseCase) *GitHookHandler {
	return &GitHookHandler{
		githookUC: githookUC,
	}
}

type triggerRequest struct {
	EventType     string `json:"event_type"`
	BranchName    string `json:"branch_name"`
	Repository    string `json:"repository"`
	Author        string `json:"author"`
	CommitMessage string `json:"commit_message,omitempty"`
	PRNumber      int    `json:"pr_number,omitempty"`
}

type triggerResponse struct {
	Updated bool   `json:"updated"`
	Message string `json:"message"`
}

// Trigger invokes the processor synchronously for a hand-built event.
// Unlike the webhook path, the caller sees whether a ticket was actually
// updated.
func (h *GitHookHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid JSON body"), http.StatusBadRequest)
		return
	}

	kind, ok := model.ParseGitEventKind(req.EventType)
	if !ok {
		writeError(w, goerr.New("unknown event_type", goerr.V("event_type", req.EventType)), http.StatusBadRequest)
		return
	}
	if req.BranchName == "" {
		writeError(w, goerr.New("branch_name is required"), http.StatusBadRequest)
		return
	}

	event := &model.GitEvent{
		ID:            uuid.NewString(),
		Kind:          kind,
		Branch:        req.BranchName,
		Repository:    req.Repository,
		Author:        req.Author,
		CommitMessage: req.CommitMessage,
		PRNumber:      req.PRNumber,
		ReceivedAt:    time.Now(),
	}

	logger.Info("Manual git hook trigger",
		"kind", event.Kind,
		"branch", event.Branch,
	)

	updated := h.githookUC.Process(ctx, event)

	resp := triggerResponse{Updated: updated}
	if updated {
		resp.Message = fmt.Sprintf("Updated ticket for branch %s", event.Branch)
	} else {
		resp.Message = fmt.Sprintf("No ticket found or updated for branch %s", event.Branch)
	}

	writeJSON(w, http.StatusOK, resp)
}

type ticketKeyResponse struct {
	BranchName string `json:"branch_name"`
	TicketKey  string `json:"ticket_key,omitempty"`
	Found      bool   `json:"found"`
}

// TicketKey reports which ticket key a branch name would resolve to.
func (h *GitHookHandler) TicketKey(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branch")
	if branch == "" {
		writeError(w, goerr.New("branch query parameter is required"), http.StatusBadRequest)
		return
	}

	key, found := model.ExtractTicketKey(branch)

	writeJSON(w, http.StatusOK, ticketKeyResponse{
		BranchName: branch,
		TicketKey:  key.String(),
		Found:      found,
	})
}
