package supervisor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
)

// degradedAnswer synthesizes a best-effort answer from whatever artifacts a
// run collected before hitting its turn budget or deadline. The most
// conclusive artifact leads; partial progress is still reported so the user
// never gets an empty reply.
func degradedAnswer(state *conversation.State) string {
	var parts []string

	if verdict := state.Verdict(); verdict != nil {
		parts = append(parts, fmt.Sprintf("Based on the analysis so far, %s would win. %s",
			verdict.Winner, verdict.Reasoning()))
	}

	if summary, ok := state.Artifacts[conversation.ArtifactStatsSummary].(string); ok {
		parts = append(parts, summary)
	}

	if ref, ok := state.Artifacts[conversation.ArtifactVisualization].(*renderer.ArtifactRef); ok {
		parts = append(parts, fmt.Sprintf("A battle visualization was rendered (%s).", ref.ID))
	}

	if unresolved, ok := state.Artifacts[conversation.ArtifactUnresolvedNames].([]string); ok && len(unresolved) > 0 {
		parts = append(parts, fmt.Sprintf("I could not recognize: %s. Please check the spelling.",
			strings.Join(unresolved, ", ")))
	}

	if len(parts) == 0 {
		if records := state.Records(); len(records) > 0 {
			names := make([]string, 0, len(records))
			for name := range records {
				names = append(names, name)
			}
			sort.Strings(names)
			parts = append(parts, fmt.Sprintf("I fetched data for %s but ran out of turns before finishing the analysis.",
				strings.Join(names, ", ")))
		}
	}

	if len(parts) == 0 {
		return "I could not gather enough information to answer before running out of time. Please try again."
	}
	return strings.Join(parts, " ")
}
