package hook

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
)

// Handler is one independent rule evaluated against an event.
type Handler interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Handle evaluates the rule. Expected lookup failures are reported
	// by the rule itself and return nil; a non-nil error (or a panic)
	// marks an unexpected fault and is reported by the router.
	Handle(ctx context.Context, deps *Dependencies, evt *Event) error
}

// Router maps each action to the ordered list of handlers subscribed
// to it and dispatches inbound events.
type Router struct {
	handlers map[Action][]Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[Action][]Handler),
	}
}

// Register subscribes a handler to the given actions.
func (r *Router) Register(h Handler, actions ...Action) {
	for _, action := range actions {
		r.handlers[action] = append(r.handlers[action], h)
	}
}

// Handlers returns the handlers registered for an action (for introspection).
func (r *Router) Handlers(action Action) []Handler {
	return r.handlers[action]
}

// Dispatch runs every handler registered for the event's action. Each
// handler has its own boundary: an error or a panic is logged and
// reported to the debug channel, and never prevents the remaining
// handlers from running.
func (r *Router) Dispatch(ctx context.Context, deps *Dependencies, evt *Event) {
	handlers := r.handlers[evt.Action]
	if len(handlers) == 0 {
		log.Printf("[router] No handlers for action %q, ignoring", evt.Action)
		return
	}

	log.Printf("[router] Dispatching %s for PR #%d (%s/%s) to %d handler(s)",
		evt.Action, evt.PR.Number, evt.Owner, evt.Repo, len(handlers))

	for _, h := range handlers {
		r.runOne(ctx, deps, evt, h)
	}
}

// runOne executes a single handler inside its fault boundary.
func (r *Router) runOne(ctx context.Context, deps *Dependencies, evt *Event, h Handler) {
	defer func() {
		if rec := recover(); rec != nil {
			report := fmt.Sprintf("rule %q panicked on %s for PR #%d (%s/%s): %v\n\n%s",
				h.Name(), evt.Action, evt.PR.Number, evt.Owner, evt.Repo, rec, debug.Stack())
			r.reportFault(ctx, deps, report)
		}
	}()

	if err := h.Handle(ctx, deps, evt); err != nil {
		report := fmt.Sprintf("rule %q failed on %s for PR #%d (%s/%s): %v\npayload: action=%s title=%q head=%s author=%s",
			h.Name(), evt.Action, evt.PR.Number, evt.Owner, evt.Repo, err,
			evt.Action, evt.PR.Title, evt.PR.HeadSHA, evt.PR.Author)
		r.reportFault(ctx, deps, report)
	}
}

// reportFault logs a handler fault and forwards it to the debug channel.
func (r *Router) reportFault(ctx context.Context, deps *Dependencies, report string) {
	log.Printf("[router] %s", report)
	if deps.Notifier == nil {
		return
	}
	if err := deps.Notifier.Debug(ctx, report); err != nil {
		log.Printf("[router] Failed to deliver fault report: %v", err)
	}
}
