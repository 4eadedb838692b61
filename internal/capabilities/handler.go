// Package capabilities implements the concrete capability handlers the
// supervisor dispatches to. Handlers share one contract: act on the current
// state, return a Continue result with artifacts, and report recoverable
// domain conditions (unresolved names, missing prerequisites, render
// failures) as artifacts rather than errors. Handlers never terminate a run.
package capabilities

import (
	"context"

	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
)

// Handler executes one capability turn against the conversation state.
type Handler interface {
	Handle(ctx context.Context, state *conversation.State, instruction string) (*conversation.Result, error)
}

// Registry maps capability tags to their handlers. The respond tag is
// intercepted by the supervisor and must not be registered.
type Registry map[conversation.CapabilityTag]Handler

// Lookup returns the handler for tag if one is registered.
func (r Registry) Lookup(tag conversation.CapabilityTag) (Handler, bool) {
	h, ok := r[tag]
	return h, ok
}
