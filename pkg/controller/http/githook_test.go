package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/scrumkit/collie/pkg/controller/http"
	"github.com/scrumkit/collie/pkg/domain/model"
)

func TestGitHookHandler_Trigger(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		updated        bool
		wantStatusCode int
		wantUpdated    bool
	}{
		{
			name:           "Push trigger updates ticket",
			body:           `{"event_type": "push", "branch_name": "feature/SCRUM-25", "repository": "test/repo", "author": "alice"}`,
			updated:        true,
			wantStatusCode: http.StatusOK,
			wantUpdated:    true,
		},
		{
			name:           "Trigger without matching ticket",
			body:           `{"event_type": "push", "branch_name": "random-branch", "repository": "test/repo", "author": "alice"}`,
			updated:        false,
			wantStatusCode: http.StatusOK,
			wantUpdated:    false,
		},
		{
			name:           "Unknown event type",
			body:           `{"event_type": "deployment", "branch_name": "feature/SCRUM-25"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Missing branch name",
			body:           `{"event_type": "push"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{not json`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newMockGitHookUseCase()
			uc.updated = tt.updated
			handler := controller.NewGitHookHandler(uc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/hooks/trigger", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Trigger(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("Trigger() status = %v, want %v", w.Code, tt.wantStatusCode)
			}
			if tt.wantStatusCode != http.StatusOK {
				if uc.eventCount() != 0 {
					t.Error("invalid request reached the processor")
				}
				return
			}

			var resp struct {
				Updated bool   `json:"updated"`
				Message string `json:"message"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Updated != tt.wantUpdated {
				t.Errorf("updated = %v, want %v", resp.Updated, tt.wantUpdated)
			}
			if resp.Message == "" {
				t.Error("message should not be empty")
			}

			event := uc.waitForEvent(t)
			if event.Kind != model.EventPush {
				t.Errorf("event kind = %v, want push", event.Kind)
			}
			if event.ID == "" {
				t.Error("event ID should be assigned")
			}
		})
	}
}

func TestGitHookHandler_TicketKey(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantStatusCode int
		wantKey        string
		wantFound      bool
	}{
		{
			name:           "Branch with ticket key",
			query:          "?branch=feature/SCRUM-25-backup",
			wantStatusCode: http.StatusOK,
			wantKey:        "SCRUM-25",
			wantFound:      true,
		},
		{
			name:           "Branch without ticket key",
			query:          "?branch=random-branch",
			wantStatusCode: http.StatusOK,
			wantFound:      false,
		},
		{
			name:           "Missing branch parameter",
			query:          "",
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := controller.NewGitHookHandler(newMockGitHookUseCase())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/hooks/ticket-key"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.TicketKey(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("TicketKey() status = %v, want %v", w.Code, tt.wantStatusCode)
			}
			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp struct {
				BranchName string `json:"branch_name"`
				TicketKey  string `json:"ticket_key"`
				Found      bool   `json:"found"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Found != tt.wantFound {
				t.Errorf("found = %v, want %v", resp.Found, tt.wantFound)
			}
			if resp.TicketKey != tt.wantKey {
				t.Errorf("ticket_key = %q, want %q", resp.TicketKey, tt.wantKey)
			}
		})
	}
}
