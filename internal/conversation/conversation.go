// Package conversation defines the state passed between the supervisor, the
// reasoning oracle, and the capability handlers during one orchestration run.
package conversation

import (
	"fmt"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
)

// CapabilityTag names one of the finite registered capabilities. The set is
// closed: a tag outside it is a fatal routing error, never a silent no-op.
type CapabilityTag string

// The capability tags the oracle may emit.
const (
	TagResearch  CapabilityTag = "research"
	TagExpert    CapabilityTag = "expert"
	TagVisualize CapabilityTag = "visualize"
	// TagRespond terminates the run. It is intercepted by the supervisor and
	// never dispatched as a handler.
	TagRespond CapabilityTag = "respond"
)

// Actor identifies who produced a turn.
type Actor string

// Turn actors.
const (
	ActorUser       Actor = "user"
	ActorSupervisor Actor = "supervisor"
	ActorResearch   Actor = "research"
	ActorExpert     Actor = "expert"
	ActorVisualize  Actor = "visualize"
)

// Directive is the oracle's per-turn decision: which capability acts next
// and an opaque instruction payload for it. Immutable once issued.
type Directive struct {
	Capability  CapabilityTag `json:"capability"`
	Instruction string        `json:"instruction"`
}

// Turn is one immutable record in the conversation transcript.
type Turn struct {
	Actor   Actor  `json:"actor"`
	Content string `json:"content"`
	Payload any    `json:"payload,omitempty"`
}

// ArtifactKey names an entry in the scratch map.
type ArtifactKey string

// Well-known artifact keys.
const (
	ArtifactRecords         ArtifactKey = "records"
	ArtifactUnresolvedNames ArtifactKey = "unresolved_names"
	ArtifactVerdict         ArtifactKey = "verdict"
	ArtifactStatsSummary    ArtifactKey = "stats_summary"
	ArtifactVisualization   ArtifactKey = "visualization"
	ArtifactRenderFailure   ArtifactKey = "render_failure"
	ArtifactMissingData     ArtifactKey = "missing_prerequisite_data"
	ArtifactHandlerFailure  ArtifactKey = "handler_failure"
)

// State is the conversation state for exactly one orchestration run. It is
// owned by that run and never shared across requests.
type State struct {
	RunID     string
	Query     string
	Turns     []Turn
	Artifacts map[ArtifactKey]any
	TurnCount int
}

// NewState seeds state from the initial user query.
func NewState(runID, query string) *State {
	return &State{
		RunID: runID,
		Query: query,
		Turns: []Turn{
			{Actor: ActorUser, Content: query},
		},
		Artifacts: make(map[ArtifactKey]any),
	}
}

// Append adds a turn to the transcript.
func (s *State) Append(turn Turn) {
	s.Turns = append(s.Turns, turn)
}

// MergeArtifacts folds a capability's artifacts into the scratch map.
func (s *State) MergeArtifacts(artifacts map[ArtifactKey]any) {
	for k, v := range artifacts {
		s.Artifacts[k] = v
	}
}

// Records returns the fetched pokemon records, if the research capability
// has populated them.
func (s *State) Records() map[string]*entities.Pokemon {
	got, ok := s.Artifacts[ArtifactRecords].(map[string]*entities.Pokemon)
	if !ok {
		return nil
	}
	return got
}

// Verdict returns the battle verdict, if the expert capability has
// produced one.
func (s *State) Verdict() *entities.BattleVerdict {
	got, ok := s.Artifacts[ArtifactVerdict].(*entities.BattleVerdict)
	if !ok {
		return nil
	}
	return got
}

// Result is a capability's outcome: either Continue with artifacts that get
// merged into the scratch map, or Terminate with a final answer. Handlers
// only ever return Continue; termination is the supervisor's job, reached
// through the respond tag.
type Result struct {
	artifacts   map[ArtifactKey]any
	summary     string
	finalAnswer string
	terminal    bool
}

// Continue builds a non-terminal result carrying artifacts for the scratch
// map and a transcript summary for the oracle to read next turn.
func Continue(summary string, artifacts map[ArtifactKey]any) *Result {
	return &Result{
		artifacts: artifacts,
		summary:   summary,
	}
}

// Terminate builds a terminal result carrying the final answer.
func Terminate(finalAnswer string) *Result {
	return &Result{
		finalAnswer: finalAnswer,
		terminal:    true,
	}
}

// IsTerminal reports whether the result ends the run.
func (r *Result) IsTerminal() bool {
	return r.terminal
}

// Artifacts returns the artifacts to merge into state.
func (r *Result) Artifacts() map[ArtifactKey]any {
	return r.artifacts
}

// Summary returns the transcript summary for this result.
func (r *Result) Summary() string {
	return r.summary
}

// FinalAnswer returns the final answer of a terminal result.
func (r *Result) FinalAnswer() string {
	return r.finalAnswer
}

// ValidTag reports whether tag belongs to the closed capability set,
// including the terminal respond tag.
func ValidTag(tag CapabilityTag) bool {
	switch tag {
	case TagResearch, TagExpert, TagVisualize, TagRespond:
		return true
	}
	return false
}

// ActorFor maps a capability tag to its transcript actor.
func ActorFor(tag CapabilityTag) Actor {
	switch tag {
	case TagResearch:
		return ActorResearch
	case TagExpert:
		return ActorExpert
	case TagVisualize:
		return ActorVisualize
	default:
		return ActorSupervisor
	}
}

// String implements fmt.Stringer for directives, used in transcripts and logs.
func (d Directive) String() string {
	return fmt.Sprintf("%s: %s", d.Capability, d.Instruction)
}
