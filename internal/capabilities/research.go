package capabilities

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/pokedex"
)

const maxResearchNames = 2

// ResearchConfig holds the research handler's dependencies.
type ResearchConfig struct {
	Pokedex pokedex.Service
	Logger  *slog.Logger
}

// Validate ensures all required dependencies are provided.
func (cfg *ResearchConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Pokedex == nil {
		vb.RequiredField("Pokedex")
	}
	if err := vb.Build(); err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

// Research fetches pokemon records named in the instruction. Names the
// catalog does not recognize become an unresolved-names artifact, so the
// run can ask the user to clarify instead of failing.
type Research struct {
	pokedex pokedex.Service
	logger  *slog.Logger
}

// NewResearch creates a research handler with the provided config.
func NewResearch(cfg *ResearchConfig) (*Research, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Research{pokedex: cfg.Pokedex, logger: cfg.Logger}, nil
}

// Ensure Research implements Handler
var _ Handler = (*Research)(nil)

// Handle fetches each named record. Catalog outages propagate as errors;
// unknown names do not.
func (h *Research) Handle(ctx context.Context, state *conversation.State, instruction string) (*conversation.Result, error) {
	names := parseNames(instruction)
	if len(names) == 0 {
		return nil, errors.InvalidArgument("research instruction named no pokemon")
	}
	if len(names) > maxResearchNames {
		names = names[:maxResearchNames]
	}

	records := make(map[string]*entities.Pokemon)
	for name, record := range state.Records() {
		records[name] = record
	}

	var fetched, unresolved []string
	for _, name := range names {
		out, err := h.pokedex.Fetch(ctx, &pokedex.FetchInput{Name: name})
		if err != nil {
			if errors.IsNotFound(err) {
				unresolved = append(unresolved, name)
				continue
			}
			return nil, errors.Wrapf(err, "failed to fetch %s", name)
		}
		records[out.Record.Name] = out.Record
		fetched = append(fetched, out.Record.Name)
	}

	h.logger.InfoContext(ctx, "research turn complete",
		slog.String("run_id", state.RunID),
		slog.Int("fetched", len(fetched)),
		slog.Int("unresolved", len(unresolved)))

	artifacts := map[conversation.ArtifactKey]any{
		conversation.ArtifactRecords: records,
	}
	if len(unresolved) > 0 {
		artifacts[conversation.ArtifactUnresolvedNames] = unresolved
	}

	return conversation.Continue(researchSummary(fetched, unresolved), artifacts), nil
}

// parseNames splits the instruction into candidate names. The oracle is
// asked for a comma-separated list but models also emit "vs" and "and"
// joiners, so those split too.
func parseNames(instruction string) []string {
	text := strings.ToLower(instruction)
	for _, sep := range []string{" vs ", " versus ", " and "} {
		text = strings.ReplaceAll(text, sep, ",")
	}

	var names []string
	for _, part := range strings.Split(text, ",") {
		name := entities.NormalizeName(part)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func researchSummary(fetched, unresolved []string) string {
	switch {
	case len(unresolved) == 0:
		return fmt.Sprintf("fetched records for %s", strings.Join(fetched, ", "))
	case len(fetched) == 0:
		return fmt.Sprintf("could not resolve any of: %s", strings.Join(unresolved, ", "))
	default:
		return fmt.Sprintf("fetched records for %s; could not resolve: %s",
			strings.Join(fetched, ", "), strings.Join(unresolved, ", "))
	}
}
