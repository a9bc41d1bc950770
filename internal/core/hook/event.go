// Package hook provides the webhook event model, the dependency
// container and the per-event-type rule router.
package hook

import (
	"github.com/google/go-github/v60/github"
)

// Action identifies the pull request webhook actions the bot reacts to.
type Action string

const (
	// ActionOpened fires when a pull request is created.
	ActionOpened Action = "opened"
	// ActionEdited fires when the title, body or base of a PR changes.
	ActionEdited Action = "edited"
	// ActionSynchronize fires when new commits are pushed to a PR.
	ActionSynchronize Action = "synchronize"
)

// PullRequest is the snapshot of PR state carried by an event.
type PullRequest struct {
	Number  int
	Title   string
	HeadSHA string
	BaseRef string
	Author  string
	URL     string
}

// Event is one inbound pull request delivery. All fields are derived
// from the webhook payload; nothing outlives a single dispatch.
type Event struct {
	Action Action
	PR     PullRequest

	Owner         string
	Repo          string
	DefaultBranch string

	// Org is the organization login, empty when the repository does not
	// belong to an organization.
	Org string

	// TitleChanged is only meaningful for ActionEdited.
	TitleChanged bool
}

// FromGitHub converts a go-github pull request event into the internal
// event model. The second return value is false for actions the bot
// does not handle.
func FromGitHub(ev *github.PullRequestEvent) (*Event, bool) {
	action := Action(ev.GetAction())
	switch action {
	case ActionOpened, ActionEdited, ActionSynchronize:
	default:
		return nil, false
	}

	pr := ev.GetPullRequest()
	evt := &Event{
		Action: action,
		PR: PullRequest{
			Number:  ev.GetNumber(),
			Title:   pr.GetTitle(),
			HeadSHA: pr.GetHead().GetSHA(),
			BaseRef: pr.GetBase().GetRef(),
			Author:  pr.GetUser().GetLogin(),
			URL:     pr.GetHTMLURL(),
		},
		Owner:         ev.GetRepo().GetOwner().GetLogin(),
		Repo:          ev.GetRepo().GetName(),
		DefaultBranch: ev.GetRepo().GetDefaultBranch(),
		Org:           ev.GetOrganization().GetLogin(),
	}

	if action == ActionEdited {
		evt.TitleChanged = ev.GetChanges().GetTitle() != nil
	}

	return evt, true
}
