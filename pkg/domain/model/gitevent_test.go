package model_test

import (
	"testing"

	"github.com/scrumkit/collie/pkg/domain/model"
)

func TestParseGitEventKind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  model.GitEventKind
		ok    bool
	}{
		{name: "push", input: "push", want: model.EventPush, ok: true},
		{name: "PR opened", input: "pull_request_opened", want: model.EventPullRequestOpened, ok: true},
		{name: "PR closed", input: "pull_request_closed", want: model.EventPullRequestClosed, ok: true},
		{name: "PR merged", input: "pull_request_merged", want: model.EventPullRequestMerged, ok: true},
		{name: "PR reviewed", input: "pull_request_reviewed", want: model.EventPullRequestReview, ok: true},
		{name: "unknown tag", input: "release", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := model.ParseGitEventKind(tt.input)
			if ok != tt.ok {
				t.Errorf("ParseGitEventKind(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseGitEventKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGitEvent_ReferencedTickets(t *testing.T) {
	tests := []struct {
		name  string
		event model.GitEvent
		want  []model.TicketKey
	}{
		{
			name: "Branch key only, first match",
			event: model.GitEvent{
				Kind:   model.EventPush,
				Branch: "feature/SCRUM-1-and-SCRUM-2",
			},
			want: []model.TicketKey{"SCRUM-1"},
		},
		{
			name: "Branch key plus commit message keys",
			event: model.GitEvent{
				Kind:          model.EventPush,
				Branch:        "feature/SCRUM-25",
				CommitMessage: "SCRUM-25 and PROJ-9: shared fix",
			},
			want: []model.TicketKey{"SCRUM-25", "PROJ-9"},
		},
		{
			name: "PR title and body keys",
			event: model.GitEvent{
				Kind:    model.EventPullRequestMerged,
				Branch:  "feature/SCRUM-3",
				PRTitle: "SCRUM-3: implement thing",
				PRBody:  "Closes SCRUM-4",
			},
			want: []model.TicketKey{"SCRUM-3", "SCRUM-4"},
		},
		{
			name: "No keys anywhere",
			event: model.GitEvent{
				Kind:   model.EventPush,
				Branch: "random-branch",
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.event.ReferencedTickets()
			if len(got) != len(tt.want) {
				t.Fatalf("ReferencedTickets() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ReferencedTickets()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
