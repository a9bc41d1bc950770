package rules

import (
	"context"
	"testing"

	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

func TestTitleValid(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"ticket with text", "WT-4821 Fix perf regression", true},
		{"no ticket", "Fix perf regression", false},
		{"revert of ticket title", `Revert "WT-4821 Fix perf regression"`, true},
		{"bare revert", "Revert broken rollout", true},
		{"non-ascii revert", "Révert WT-1 fix", false},
		{"non-ascii after ticket", "WT-12 Fïx encoding", false},
		{"ticket without space", "WT-4821Fix", false},
		{"ticket without text", "WT-4821 ", false},
		{"ticket not at start", "Fix WT-4821 regression", false},
		{"lowercase prefix", "wt-4821 Fix", false},
		{"empty title", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleValid(tt.title, "WT")
			if got != tt.want {
				t.Errorf("TitleValid(%q, \"WT\") = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestExtractTicket(t *testing.T) {
	tests := []struct {
		title   string
		wantKey string
		wantOK  bool
	}{
		{"WT-4821 Fix perf regression", "WT-4821", true},
		{"WT-1 x", "WT-1", true},
		{"Quick fix", "", false},
		{"WT-4821", "", false},
		{`Revert "WT-4821 Fix perf regression"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			key, ok := ExtractTicket(tt.title, "WT")
			if key != tt.wantKey || ok != tt.wantOK {
				t.Errorf("ExtractTicket(%q) = (%q, %v), want (%q, %v)",
					tt.title, key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestTitleCheckPublishesConclusion(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  hook.CheckConclusion
	}{
		{"valid title", "WT-4821 Fix perf regression", hook.ConclusionSuccess},
		{"invalid title", "Fix perf regression", hook.ConclusionFailure},
		{"revert title", `Revert "WT-4821 Fix perf regression"`, hook.ConclusionSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{}
			deps := newDeps(host, nil, &fakeNotifier{})
			rule := NewTitleCheck()

			if err := rule.Handle(context.Background(), deps, openedEvent(tt.title, "alice")); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if len(host.checks) != 1 {
				t.Fatalf("Expected 1 check, got %d", len(host.checks))
			}
			check := host.checks[0]
			if check.Name != TitleCheckName {
				t.Errorf("Expected check name %q, got %q", TitleCheckName, check.Name)
			}
			if check.Conclusion != tt.want {
				t.Errorf("Expected conclusion %q, got %q", tt.want, check.Conclusion)
			}
			if check.HeadSHA != "f00dcafe" {
				t.Errorf("Expected check tied to head commit, got %q", check.HeadSHA)
			}
		})
	}
}

func TestTitleCheckSkipsNonDefaultBranch(t *testing.T) {
	host := &fakeHost{}
	deps := newDeps(host, nil, &fakeNotifier{})
	evt := openedEvent("Fix perf regression", "alice")
	evt.PR.BaseRef = "release-1.4"

	if err := NewTitleCheck().Handle(context.Background(), deps, evt); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if host.mutations() != 0 {
		t.Errorf("Expected no mutations for backport PR, got %d", host.mutations())
	}
}

func TestTitleCheckEditedOnlyOnTitleChange(t *testing.T) {
	host := &fakeHost{}
	deps := newDeps(host, nil, &fakeNotifier{})

	evt := openedEvent("WT-1 Update docs", "alice")
	evt.Action = hook.ActionEdited
	evt.TitleChanged = false

	if err := NewTitleCheck().Handle(context.Background(), deps, evt); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(host.checks) != 0 {
		t.Errorf("Expected no check for body-only edit, got %d", len(host.checks))
	}

	evt.TitleChanged = true
	if err := NewTitleCheck().Handle(context.Background(), deps, evt); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(host.checks) != 1 {
		t.Errorf("Expected check after title edit, got %d", len(host.checks))
	}
}

func TestTitleCheckDryRun(t *testing.T) {
	host := &fakeHost{}
	deps := newDeps(host, nil, &fakeNotifier{})
	deps.DryRun = true

	if err := NewTitleCheck().Handle(context.Background(), deps, openedEvent("WT-1 x", "alice")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if host.mutations() != 0 {
		t.Errorf("Expected zero mutating calls in dry run, got %d", host.mutations())
	}
}
