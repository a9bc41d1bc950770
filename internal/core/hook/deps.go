package hook

import (
	"context"

	"github.com/prwarden/prwarden-bot/internal/core/config"
)

// CheckConclusion is the outcome of a published commit check.
type CheckConclusion string

const (
	// ConclusionSuccess marks the check as passed.
	ConclusionSuccess CheckConclusion = "success"
	// ConclusionFailure marks the check as failed.
	ConclusionFailure CheckConclusion = "failure"
	// ConclusionNeutral marks the check as advisory, neither pass nor fail.
	ConclusionNeutral CheckConclusion = "neutral"
)

// CheckResult is a named status report attached to a specific commit.
// The host keeps at most one current check per (Name, HeadSHA); re-runs
// replace the previous result.
type CheckResult struct {
	Name       string
	Conclusion CheckConclusion
	Summary    string
	HeadSHA    string
}

// Membership is the result of an organization membership query.
type Membership int

const (
	// MembershipMember is the authoritative positive answer.
	MembershipMember Membership = iota
	// MembershipAbsent is the authoritative negative answer. The host
	// returns it identically for true outsiders and for users the bot
	// cannot see.
	MembershipAbsent
	// MembershipUnknown covers every other response; callers must treat
	// it as an anomaly.
	MembershipUnknown
)

// CodeHost is the subset of the host platform API the rules use.
type CodeHost interface {
	CreateCheck(ctx context.Context, owner, repo string, check CheckResult) error
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	ListCommentBodies(ctx context.Context, owner, repo string, number int) ([]string, error)
	AddAssignees(ctx context.Context, owner, repo string, number int, assignees []string) error
	OrgMembership(ctx context.Context, org, user string) (Membership, error)
	FileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error)
}

// Tracker is the read-only issue tracker interface.
type Tracker interface {
	TicketComponents(ctx context.Context, key string) ([]string, error)
}

// Notifier delivers messages to the two notification channels.
type Notifier interface {
	// Team posts to the team-visible channel.
	Team(ctx context.Context, text string) error
	// Debug posts to the operator channel used for warnings and faults.
	Debug(ctx context.Context, text string) error
}

// Dependencies holds everything a rule may need. DryRun is threaded
// explicitly so rules stay unit-testable without environment mutation.
type Dependencies struct {
	Host     CodeHost
	Tracker  Tracker
	Notifier Notifier
	Config   *config.Config
	DryRun   bool
}
