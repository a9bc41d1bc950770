package rules

import (
	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

// RegisterAll subscribes every rule to the webhook actions it evaluates.
func RegisterAll(r *hook.Router) {
	r.Register(NewTitleCheck(),
		hook.ActionOpened, hook.ActionEdited, hook.ActionSynchronize)

	r.Register(NewExternalContributor(),
		hook.ActionOpened, hook.ActionSynchronize)

	r.Register(NewSmeReviewers(),
		hook.ActionOpened)
}
