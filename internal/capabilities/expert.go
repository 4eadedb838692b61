package capabilities

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/engine"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

// ExpertConfig holds the expert handler's dependencies.
type ExpertConfig struct {
	Logger *slog.Logger
}

// Validate sets defaults.
func (cfg *ExpertConfig) Validate() error {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

// Expert analyzes fetched records: with two it resolves a battle, with one
// it explains the stat spread. Records must already be in the scratch map;
// a missing prerequisite is reported as an artifact so the oracle can route
// back to research.
type Expert struct {
	logger *slog.Logger
}

// NewExpert creates an expert handler with the provided config.
func NewExpert(cfg *ExpertConfig) (*Expert, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Expert{logger: cfg.Logger}, nil
}

// Ensure Expert implements Handler
var _ Handler = (*Expert)(nil)

func (h *Expert) Handle(ctx context.Context, state *conversation.State, instruction string) (*conversation.Result, error) {
	records := state.Records()

	if len(records) == 1 && wantsStats(instruction) {
		return h.explainStats(ctx, state, records), nil
	}
	if len(records) < 2 {
		return missingData(fmt.Sprintf(
			"expert needs two fetched records, have %d; research must run first", len(records))), nil
	}

	a, b := pickCombatants(records)
	verdict := engine.Resolve(a, b)

	h.logger.InfoContext(ctx, "battle resolved",
		slog.String("run_id", state.RunID),
		slog.String("winner", verdict.Winner),
		slog.Float64("score_a", verdict.ScoreA),
		slog.Float64("score_b", verdict.ScoreB))

	summary := fmt.Sprintf("%s wins: %s", verdict.Winner, verdict.Reasoning())
	return conversation.Continue(summary, map[conversation.ArtifactKey]any{
		conversation.ArtifactVerdict: verdict,
	}), nil
}

func (h *Expert) explainStats(ctx context.Context, state *conversation.State, records map[string]*entities.Pokemon) *conversation.Result {
	var record *entities.Pokemon
	for _, r := range records {
		record = r
	}

	h.logger.InfoContext(ctx, "stats explained",
		slog.String("run_id", state.RunID),
		slog.String("pokemon_name", record.Name))

	summary := statsSummary(record)
	return conversation.Continue(summary, map[conversation.ArtifactKey]any{
		conversation.ArtifactStatsSummary: summary,
	})
}

func missingData(reason string) *conversation.Result {
	return conversation.Continue(reason, map[conversation.ArtifactKey]any{
		conversation.ArtifactMissingData: reason,
	})
}

// pickCombatants orders the two records deterministically by name so the
// verdict does not depend on map iteration order.
func pickCombatants(records map[string]*entities.Pokemon) (*entities.Pokemon, *entities.Pokemon) {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return records[names[0]], records[names[1]]
}

func wantsStats(instruction string) bool {
	return strings.Contains(strings.ToLower(instruction), "stat")
}

func statsSummary(p *entities.Pokemon) string {
	types := make([]string, len(p.Types))
	for i, t := range p.Types {
		types[i] = string(t)
	}
	s := p.Stats
	return fmt.Sprintf(
		"%s is a %s type. Stats: HP %d, Attack %d, Defense %d, Sp. Atk %d, Sp. Def %d, Speed %d (total %d).",
		p.Name, strings.Join(types, "/"),
		s.HP, s.Attack, s.Defense, s.SpecialAttack, s.SpecialDefense, s.Speed,
		s.HP+s.Attack+s.Defense+s.SpecialAttack+s.SpecialDefense+s.Speed)
}
