package rules

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

// ContributorCheckName is the advisory check flagging external PRs.
const ContributorCheckName = "external-contributor"

// welcomeMarker is embedded invisibly in the welcome comment so
// redeliveries can detect that the PR was already greeted.
const welcomeMarker = "<!-- prwarden:welcome -->"

// ExternalContributor greets PR authors from outside the organization,
// flags their PRs with an advisory check and announces them to the team.
type ExternalContributor struct{}

// NewExternalContributor creates the external-contributor rule.
func NewExternalContributor() *ExternalContributor {
	return &ExternalContributor{}
}

// Name returns the rule name.
func (r *ExternalContributor) Name() string {
	return "external_contributor"
}

// Handle resolves the author's organization membership and, for
// non-members, posts the welcome comment (opened only, at most once per
// PR), refreshes the advisory check and notifies the team channel.
func (r *ExternalContributor) Handle(ctx context.Context, deps *hook.Dependencies, evt *hook.Event) error {
	if evt.Org == "" {
		warnf(ctx, deps, r.Name(),
			"no organization in payload for PR #%d (%s/%s), cannot determine membership",
			evt.PR.Number, evt.Owner, evt.Repo)
		return nil
	}

	membership, err := deps.Host.OrgMembership(ctx, evt.Org, evt.PR.Author)
	if membership == hook.MembershipUnknown {
		// Fail-safe: membership could not be confirmed, so the author is
		// treated as external.
		warnf(ctx, deps, r.Name(),
			"membership query for %q in %q returned an unexpected result (%v), treating as non-member",
			evt.PR.Author, evt.Org, err)
		membership = hook.MembershipAbsent
	}
	if membership == hook.MembershipMember {
		log.Printf("[external_contributor] PR #%d author %q is an org member, nothing to do",
			evt.PR.Number, evt.PR.Author)
		return nil
	}

	if evt.Action == hook.ActionOpened {
		if err := r.welcome(ctx, deps, evt); err != nil {
			return err
		}
	}

	// The advisory check is scoped to the latest commit, so it is
	// refreshed on every triggering event.
	check := hook.CheckResult{
		Name:       ContributorCheckName,
		Conclusion: hook.ConclusionNeutral,
		Summary: fmt.Sprintf(
			"@%s is not a member of the %s organization. A signed contributor agreement is required before merging.",
			evt.PR.Author, evt.Org),
		HeadSHA: evt.PR.HeadSHA,
	}
	if deps.DryRun {
		log.Printf("[external_contributor] DRY RUN: Would publish check %s=%s on %s for PR #%d",
			check.Name, check.Conclusion, check.HeadSHA, evt.PR.Number)
		return nil
	}
	return deps.Host.CreateCheck(ctx, evt.Owner, evt.Repo, check)
}

// welcome posts the welcome comment and the team announcement for a
// newly opened external PR. The comment is posted at most once per PR
// regardless of redeliveries.
func (r *ExternalContributor) welcome(ctx context.Context, deps *hook.Dependencies, evt *hook.Event) error {
	bodies, err := deps.Host.ListCommentBodies(ctx, evt.Owner, evt.Repo, evt.PR.Number)
	if err != nil {
		warnf(ctx, deps, r.Name(),
			"could not list comments on PR #%d, skipping welcome to avoid duplicates: %v",
			evt.PR.Number, err)
		return nil
	}
	for _, body := range bodies {
		if strings.Contains(body, welcomeMarker) {
			log.Printf("[external_contributor] PR #%d already welcomed", evt.PR.Number)
			return nil
		}
	}

	comment := welcomeComment(evt.PR.Author)
	announcement := fmt.Sprintf("New external PR #%d by @%s: %q\n%s",
		evt.PR.Number, evt.PR.Author, evt.PR.Title, evt.PR.URL)

	if deps.DryRun {
		log.Printf("[external_contributor] DRY RUN: Would post welcome comment on PR #%d:\n%s",
			evt.PR.Number, comment)
		log.Printf("[external_contributor] DRY RUN: Would notify team channel: %s", announcement)
		return nil
	}

	if err := deps.Host.CreateComment(ctx, evt.Owner, evt.Repo, evt.PR.Number, comment); err != nil {
		return err
	}
	if err := deps.Notifier.Team(ctx, announcement); err != nil {
		warnf(ctx, deps, r.Name(), "team announcement for PR #%d failed: %v", evt.PR.Number, err)
	}
	return nil
}

// welcomeComment builds the fixed-template greeting for an author.
func welcomeComment(author string) string {
	var parts []string
	parts = append(parts, welcomeMarker)
	parts = append(parts, fmt.Sprintf("Hi @%s, thanks for your pull request! :wave:", author))
	parts = append(parts, "")
	parts = append(parts, "It looks like this is your first contribution from outside the organization. "+
		"Before we can merge it, we need a signed contributor agreement on file. "+
		"A maintainer will reach out with the details shortly.")
	return strings.Join(parts, "\n")
}
