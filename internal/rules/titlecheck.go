package rules

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

// TitleCheckName is the published check name; the host keeps one
// current result per (name, commit).
const TitleCheckName = "ticket-title"

// revertPrefix exempts revert PRs from the ticket-reference requirement.
const revertPrefix = "Revert"

// TitleCheck verifies that PR titles reference a tracker ticket and are
// plain ASCII, and publishes the verdict as a commit check.
type TitleCheck struct{}

// NewTitleCheck creates the ticket-title rule.
func NewTitleCheck() *TitleCheck {
	return &TitleCheck{}
}

// Name returns the rule name.
func (r *TitleCheck) Name() string {
	return "ticket_title"
}

// Handle evaluates the title and publishes one check on the PR's head
// commit. Re-running replaces the prior result for that commit.
func (r *TitleCheck) Handle(ctx context.Context, deps *hook.Dependencies, evt *hook.Event) error {
	if evt.Action == hook.ActionEdited && !evt.TitleChanged {
		log.Printf("[ticket_title] PR #%d edit did not touch the title, skipping", evt.PR.Number)
		return nil
	}

	// Backport PRs target maintenance branches and are exempt.
	if evt.PR.BaseRef != evt.DefaultBranch {
		log.Printf("[ticket_title] PR #%d targets %q (default %q), skipping",
			evt.PR.Number, evt.PR.BaseRef, evt.DefaultBranch)
		return nil
	}

	prefix := deps.Config.TicketPrefix
	check := hook.CheckResult{
		Name:    TitleCheckName,
		HeadSHA: evt.PR.HeadSHA,
	}
	if TitleValid(evt.PR.Title, prefix) {
		check.Conclusion = hook.ConclusionSuccess
		check.Summary = fmt.Sprintf("Title references a %s ticket (or is a revert) and is ASCII-only.", prefix)
	} else {
		check.Conclusion = hook.ConclusionFailure
		check.Summary = fmt.Sprintf(
			"Title must start with %q (or %q for reverts) and contain only ASCII characters, e.g. %q.",
			prefix+"-<number> ", revertPrefix, prefix+"-4821 Fix perf regression")
	}

	if deps.DryRun {
		log.Printf("[ticket_title] DRY RUN: Would publish check %s=%s on %s for PR #%d: %s",
			check.Name, check.Conclusion, check.HeadSHA, evt.PR.Number, check.Summary)
		return nil
	}

	return deps.Host.CreateCheck(ctx, evt.Owner, evt.Repo, check)
}

// TitleValid reports whether a PR title satisfies the ticket-reference
// and ASCII constraints. The ASCII constraint applies to revert titles
// as well.
func TitleValid(title, prefix string) bool {
	if !isASCII(title) {
		return false
	}
	if len(title) >= len(revertPrefix) && title[:len(revertPrefix)] == revertPrefix {
		return true
	}
	return ticketTitleRe(prefix).MatchString(title)
}

// isASCII reports whether every byte of s is in [0, 127].
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// ticketTitleRe matches titles of the form "<prefix>-<digits> <anything>".
func ticketTitleRe(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-\d+ .+`)
}

// ticketKeyRe captures the leading ticket key followed by a space.
func ticketKeyRe(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^(` + regexp.QuoteMeta(prefix) + `-\d+) `)
}

// ExtractTicket returns the ticket key at the start of a title, if any.
func ExtractTicket(title, prefix string) (string, bool) {
	m := ticketKeyRe(prefix).FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return m[1], true
}
