// Package rules contains the process rules evaluated against pull
// request webhook events. Each rule implements hook.Handler and is
// independent of the others: it reads PR and organization state,
// consults external services, and publishes its own checks, comments
// or assignments.
package rules

import (
	"context"
	"fmt"
	"log"

	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

// warnf reports an expected lookup failure or suspicious payload: it is
// logged and forwarded to the debug channel, and the calling rule
// aborts without mutating. Unexpected faults are returned to the router
// instead.
func warnf(ctx context.Context, deps *hook.Dependencies, rule, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] WARNING: %s", rule, msg)
	if deps.Notifier == nil {
		return
	}
	if err := deps.Notifier.Debug(ctx, fmt.Sprintf("[%s] %s", rule, msg)); err != nil {
		log.Printf("[%s] Failed to deliver warning: %v", rule, err)
	}
}
