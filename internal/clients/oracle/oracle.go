// Package oracle is the reasoning collaborator: given the current
// conversation state it decides which capability should act next. The
// decision content is non-deterministic and treated as untrusted; the
// supervisor only relies on the finite tag set.
package oracle

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

// Client defines the interface for per-turn routing decisions
type Client interface {
	// Decide returns the next directive for the given state. Calls must be
	// idempotent with respect to state: the supervisor retries failed calls
	// with the same state.
	Decide(ctx context.Context, state *conversation.State) (*conversation.Directive, error)
}

// wireDirective is the JSON contract the oracle's model replies with.
type wireDirective struct {
	Capability  string `json:"capability"`
	Instruction string `json:"instruction"`
}

// ParseDirective extracts a directive from raw model output. Models wrap
// JSON in markdown fences or prose often enough that this strips fences and
// scans for the first object before decoding.
func ParseDirective(raw string) (*conversation.Directive, error) {
	text := extractJSON(raw)
	if text == "" {
		return nil, errors.Unavailable("oracle reply contained no JSON directive").
			WithMeta("raw_reply", truncate(raw, 200))
	}

	var wire wireDirective
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable,
			"oracle reply was not a valid JSON directive")
	}

	tag := conversation.CapabilityTag(strings.ToLower(strings.TrimSpace(wire.Capability)))
	if tag == "" {
		return nil, errors.Unavailable("oracle directive missing capability tag")
	}

	return &conversation.Directive{
		Capability:  tag,
		Instruction: wire.Instruction,
	}, nil
}

// extractJSON pulls the JSON object out of a model reply: fenced block
// first, then the outermost brace span.
func extractJSON(raw string) string {
	text := raw
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
