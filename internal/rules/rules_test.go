package rules

import (
	"context"

	"github.com/prwarden/prwarden-bot/internal/core/config"
	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

// fakeHost records every mutating call and serves canned read results.
type fakeHost struct {
	ops       []string
	checks    []hook.CheckResult
	comments  []string
	assignees [][]string

	commentBodies []string
	listErr       error

	membership    hook.Membership
	membershipErr error

	fileData []byte
	fileErr  error
}

func (f *fakeHost) CreateCheck(_ context.Context, _, _ string, check hook.CheckResult) error {
	f.ops = append(f.ops, "check")
	f.checks = append(f.checks, check)
	return nil
}

func (f *fakeHost) CreateComment(_ context.Context, _, _ string, _ int, body string) error {
	f.ops = append(f.ops, "comment")
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeHost) ListCommentBodies(_ context.Context, _, _ string, _ int) ([]string, error) {
	return f.commentBodies, f.listErr
}

func (f *fakeHost) AddAssignees(_ context.Context, _, _ string, _ int, assignees []string) error {
	f.ops = append(f.ops, "assign")
	f.assignees = append(f.assignees, assignees)
	return nil
}

func (f *fakeHost) OrgMembership(_ context.Context, _, _ string) (hook.Membership, error) {
	return f.membership, f.membershipErr
}

func (f *fakeHost) FileContent(_ context.Context, _, _, _, _ string) ([]byte, error) {
	return f.fileData, f.fileErr
}

func (f *fakeHost) mutations() int {
	return len(f.ops)
}

type fakeTracker struct {
	components map[string][]string
	err        error
}

func (f *fakeTracker) TicketComponents(_ context.Context, key string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.components[key], nil
}

type fakeNotifier struct {
	team  []string
	debug []string
}

func (f *fakeNotifier) Team(_ context.Context, text string) error {
	f.team = append(f.team, text)
	return nil
}

func (f *fakeNotifier) Debug(_ context.Context, text string) error {
	f.debug = append(f.debug, text)
	return nil
}

// newDeps builds a dependency container around the given fakes.
func newDeps(host *fakeHost, tracker *fakeTracker, notifier *fakeNotifier) *hook.Dependencies {
	return &hook.Dependencies{
		Host:     host,
		Tracker:  tracker,
		Notifier: notifier,
		Config:   config.Default(),
	}
}

// openedEvent is a default-branch PR opened by the given author.
func openedEvent(title, author string) *hook.Event {
	return &hook.Event{
		Action: hook.ActionOpened,
		PR: hook.PullRequest{
			Number:  101,
			Title:   title,
			HeadSHA: "f00dcafe",
			BaseRef: "main",
			Author:  author,
			URL:     "https://github.com/acme/widgets/pull/101",
		},
		Owner:         "acme",
		Repo:          "widgets",
		DefaultBranch: "main",
		Org:           "acme",
	}
}
