package capabilities

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

// VisualizeConfig holds the visualize handler's dependencies.
type VisualizeConfig struct {
	Renderer renderer.Renderer
	Logger   *slog.Logger
}

// Validate ensures all required dependencies are provided.
func (cfg *VisualizeConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if err := vb.Build(); err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

// Visualize renders the resolved battle. It needs a verdict and both
// combatants' records in scratch; a render failure is recoverable and
// reported as an artifact so the run can still answer in text.
type Visualize struct {
	renderer renderer.Renderer
	logger   *slog.Logger
}

// NewVisualize creates a visualize handler with the provided config.
func NewVisualize(cfg *VisualizeConfig) (*Visualize, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Visualize{renderer: cfg.Renderer, logger: cfg.Logger}, nil
}

// Ensure Visualize implements Handler
var _ Handler = (*Visualize)(nil)

func (h *Visualize) Handle(ctx context.Context, state *conversation.State, instruction string) (*conversation.Result, error) {
	verdict := state.Verdict()
	if verdict == nil {
		return missingData("visualize needs a battle verdict; expert must run first"), nil
	}

	records := state.Records()
	a, okA := records[verdict.NameA]
	b, okB := records[verdict.NameB]
	if !okA || !okB {
		return missingData("visualize needs both combatants' records; research must run first"), nil
	}

	ref, err := h.renderer.Render(ctx, &renderer.RenderInput{
		PokemonA: a,
		PokemonB: b,
		Verdict:  verdict,
		UseShiny: wantsShiny(instruction),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "render failed",
			slog.String("run_id", state.RunID),
			slog.String("error", err.Error()))

		reason := fmt.Sprintf("rendering failed: %s", err.Error())
		return conversation.Continue(reason, map[conversation.ArtifactKey]any{
			conversation.ArtifactRenderFailure: reason,
		}), nil
	}

	h.logger.InfoContext(ctx, "battle rendered",
		slog.String("run_id", state.RunID),
		slog.String("artifact_id", ref.ID))

	summary := fmt.Sprintf("rendered battle visualization %s (%d frames)", ref.ID, len(ref.Frames))
	return conversation.Continue(summary, map[conversation.ArtifactKey]any{
		conversation.ArtifactVisualization: ref,
	}), nil
}

func wantsShiny(instruction string) bool {
	return strings.Contains(strings.ToLower(instruction), "shiny")
}
