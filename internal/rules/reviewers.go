package rules

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/prwarden/prwarden-bot/internal/core/hook"
	"github.com/prwarden/prwarden-bot/internal/smegroups"
)

// maxHostAssignees is the number of assignees GitHub accepts per PR;
// anything beyond it is dropped server-side.
const maxHostAssignees = 10

// SmeReviewers assigns subject-matter experts to a PR based on the
// components of the ticket referenced in its title.
type SmeReviewers struct{}

// NewSmeReviewers creates the SME reviewer-assignment rule.
func NewSmeReviewers() *SmeReviewers {
	return &SmeReviewers{}
}

// Name returns the rule name.
func (r *SmeReviewers) Name() string {
	return "sme_reviewers"
}

// Handle resolves the ticket's components, maps them to SME groups and
// adds the deduplicated member union as assignees, followed by one
// explanatory comment.
func (r *SmeReviewers) Handle(ctx context.Context, deps *hook.Dependencies, evt *hook.Event) error {
	if evt.PR.BaseRef != evt.DefaultBranch {
		log.Printf("[sme_reviewers] PR #%d targets %q (default %q), skipping",
			evt.PR.Number, evt.PR.BaseRef, evt.DefaultBranch)
		return nil
	}

	key, ok := ExtractTicket(evt.PR.Title, deps.Config.TicketPrefix)
	if !ok {
		// Not an error: the ticket-title rule reports missing references.
		log.Printf("[sme_reviewers] PR #%d title has no ticket reference, nothing to assign", evt.PR.Number)
		return nil
	}

	if deps.Tracker == nil {
		warnf(ctx, deps, r.Name(), "tracker integration not configured, cannot resolve %s for PR #%d",
			key, evt.PR.Number)
		return nil
	}

	components, err := deps.Tracker.TicketComponents(ctx, key)
	if err != nil {
		warnf(ctx, deps, r.Name(), "could not resolve components of %s for PR #%d: %v",
			key, evt.PR.Number, err)
		return nil
	}
	if len(components) == 0 {
		log.Printf("[sme_reviewers] Ticket %s has no components, nothing to assign", key)
		return nil
	}

	groups, err := r.loadGroups(ctx, deps, evt)
	if err != nil {
		warnf(ctx, deps, r.Name(), "could not load SME group mapping for PR #%d: %v",
			evt.PR.Number, err)
		return nil
	}

	assignment := smegroups.Decide(components, groups)
	if assignment.Empty() {
		log.Printf("[sme_reviewers] No SME group matches components %v of %s, nothing to assign",
			components, key)
		return nil
	}

	comment := assignmentComment(key, assignment)

	if deps.DryRun {
		log.Printf("[sme_reviewers] DRY RUN: Would assign %v to PR #%d", assignment.Assignees, evt.PR.Number)
		log.Printf("[sme_reviewers] DRY RUN: Would post comment on PR #%d:\n%s", evt.PR.Number, comment)
		return nil
	}

	// Assignment precedes the explanatory comment. Identifiers that are
	// not org members are silently skipped by the host.
	if err := deps.Host.AddAssignees(ctx, evt.Owner, evt.Repo, evt.PR.Number, assignment.Assignees); err != nil {
		return err
	}
	return deps.Host.CreateComment(ctx, evt.Owner, evt.Repo, evt.PR.Number, comment)
}

// loadGroups fetches and parses the SME mapping from the repository's
// default branch. It is read fresh for every evaluation.
func (r *SmeReviewers) loadGroups(ctx context.Context, deps *hook.Dependencies, evt *hook.Event) (*smegroups.Groups, error) {
	data, err := deps.Host.FileContent(ctx, evt.Owner, evt.Repo, deps.Config.SmeGroups.Path, evt.DefaultBranch)
	if err != nil {
		return nil, err
	}
	return smegroups.Parse(data)
}

// assignmentComment explains which components produced which assignees.
func assignmentComment(ticket string, assignment smegroups.Assignment) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Assigned subject-matter experts based on the components of %s:", ticket))
	parts = append(parts, "")
	for _, cm := range assignment.PerComponent {
		handles := make([]string, len(cm.Members))
		for i, m := range cm.Members {
			handles[i] = "@" + m
		}
		parts = append(parts, fmt.Sprintf("- **%s**: %s", cm.Component, strings.Join(handles, ", ")))
	}
	if len(assignment.Assignees) > maxHostAssignees {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf(
			"Note: GitHub assigns at most %d users per pull request; the remaining assignees are dropped by GitHub.",
			maxHostAssignees))
	}
	return strings.Join(parts, "\n")
}
