package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/prwarden/prwarden-bot/internal/core/config"
)

type stubHandler struct {
	name string
	fn   func(ctx context.Context, deps *Dependencies, evt *Event) error
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) Handle(ctx context.Context, deps *Dependencies, evt *Event) error {
	return s.fn(ctx, deps, evt)
}

type recordingNotifier struct {
	team  []string
	debug []string
}

func (n *recordingNotifier) Team(_ context.Context, text string) error {
	n.team = append(n.team, text)
	return nil
}

func (n *recordingNotifier) Debug(_ context.Context, text string) error {
	n.debug = append(n.debug, text)
	return nil
}

func testEvent(action Action) *Event {
	return &Event{
		Action: action,
		PR: PullRequest{
			Number:  42,
			Title:   "WT-1 test",
			HeadSHA: "abc123",
			BaseRef: "main",
			Author:  "alice",
		},
		Owner:         "acme",
		Repo:          "widgets",
		DefaultBranch: "main",
		Org:           "acme",
	}
}

func TestDispatchRunsAllHandlersForAction(t *testing.T) {
	router := NewRouter()
	var ran []string

	for _, name := range []string{"first", "second"} {
		n := name
		router.Register(&stubHandler{name: n, fn: func(context.Context, *Dependencies, *Event) error {
			ran = append(ran, n)
			return nil
		}}, ActionOpened)
	}
	router.Register(&stubHandler{name: "other", fn: func(context.Context, *Dependencies, *Event) error {
		ran = append(ran, "other")
		return nil
	}}, ActionSynchronize)

	deps := &Dependencies{Config: config.Default()}
	router.Dispatch(context.Background(), deps, testEvent(ActionOpened))

	if len(ran) != 2 || ran[0] != "first" || ran[1] != "second" {
		t.Errorf("Expected [first second] to run in order, got %v", ran)
	}
}

func TestDispatchIsolatesFailingHandler(t *testing.T) {
	router := NewRouter()
	notifier := &recordingNotifier{}
	var secondRan bool

	router.Register(&stubHandler{name: "broken", fn: func(context.Context, *Dependencies, *Event) error {
		return errors.New("boom")
	}}, ActionOpened)
	router.Register(&stubHandler{name: "healthy", fn: func(context.Context, *Dependencies, *Event) error {
		secondRan = true
		return nil
	}}, ActionOpened)

	deps := &Dependencies{Config: config.Default(), Notifier: notifier}
	router.Dispatch(context.Background(), deps, testEvent(ActionOpened))

	if !secondRan {
		t.Error("Expected healthy handler to run after broken handler failed")
	}
	if len(notifier.debug) != 1 {
		t.Fatalf("Expected 1 debug report, got %d", len(notifier.debug))
	}
}

func TestDispatchRecoversPanickingHandler(t *testing.T) {
	router := NewRouter()
	notifier := &recordingNotifier{}
	var secondRan bool

	router.Register(&stubHandler{name: "panicky", fn: func(context.Context, *Dependencies, *Event) error {
		panic("unexpected state")
	}}, ActionSynchronize)
	router.Register(&stubHandler{name: "healthy", fn: func(context.Context, *Dependencies, *Event) error {
		secondRan = true
		return nil
	}}, ActionSynchronize)

	deps := &Dependencies{Config: config.Default(), Notifier: notifier}
	router.Dispatch(context.Background(), deps, testEvent(ActionSynchronize))

	if !secondRan {
		t.Error("Expected healthy handler to run after panicking handler")
	}
	if len(notifier.debug) != 1 {
		t.Fatalf("Expected 1 debug report for the panic, got %d", len(notifier.debug))
	}
}

func TestDispatchNoHandlersIsNoop(t *testing.T) {
	router := NewRouter()
	deps := &Dependencies{Config: config.Default()}

	// Must not panic or report anything.
	router.Dispatch(context.Background(), deps, testEvent(ActionEdited))
}
