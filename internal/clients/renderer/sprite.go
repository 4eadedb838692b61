package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/pkg/idgen"
)

// ArtifactKindSpriteBattle is the kind emitted by the sprite renderer.
const ArtifactKindSpriteBattle = "sprite_battle"

// SpriteConfig holds the sprite renderer's dependencies.
type SpriteConfig struct {
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided.
func (cfg *SpriteConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// SpriteRenderer composes a battle artifact out of the combatants' sprite
// URLs and narration frames derived from the verdict's ranked factors.
type SpriteRenderer struct {
	idGen idgen.Generator
}

// NewSprite creates a sprite renderer with the provided config.
func NewSprite(cfg *SpriteConfig) (*SpriteRenderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &SpriteRenderer{idGen: cfg.IDGenerator}, nil
}

// Ensure SpriteRenderer implements Renderer
var _ Renderer = (*SpriteRenderer)(nil)

// Render builds the visualization artifact. It fails when either combatant
// has no usable sprite URL, which callers treat as a recoverable render
// failure rather than a fatal error.
func (r *SpriteRenderer) Render(ctx context.Context, input *RenderInput) (*ArtifactRef, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	spriteA, err := spriteFor(input.PokemonA, input.UseShiny)
	if err != nil {
		return nil, err
	}
	spriteB, err := spriteFor(input.PokemonB, input.UseShiny)
	if err != nil {
		return nil, err
	}

	return &ArtifactRef{
		ID:      r.idGen.Generate(),
		Kind:    ArtifactKindSpriteBattle,
		Sprites: []Sprite{spriteA, spriteB},
		Frames:  narrationFrames(input),
	}, nil
}

func validateInput(input *RenderInput) error {
	if input == nil {
		return errors.InvalidArgument("render input is required")
	}
	vb := errors.NewValidationBuilder()
	if input.PokemonA == nil {
		vb.RequiredField("PokemonA")
	}
	if input.PokemonB == nil {
		vb.RequiredField("PokemonB")
	}
	if input.Verdict == nil {
		vb.RequiredField("Verdict")
	}
	return vb.Build()
}

func spriteFor(p *entities.Pokemon, useShiny bool) (Sprite, error) {
	url := p.SpriteURL
	if useShiny && p.ShinyURL != "" {
		url = p.ShinyURL
	}
	if url == "" {
		return Sprite{}, errors.Internal(fmt.Sprintf("no sprite available for %s", p.Name)).
			WithMeta("pokemon_name", p.Name)
	}
	return Sprite{Name: p.Name, URL: url}, nil
}

// narrationFrames turns the verdict into ordered frames: an opening, one
// frame per decisive factor, and the outcome.
func narrationFrames(input *RenderInput) []string {
	v := input.Verdict
	frames := []string{
		fmt.Sprintf("%s vs %s!", display(v.NameA), display(v.NameB)),
	}
	for _, f := range v.Factors {
		frames = append(frames, f.Description)
	}
	frames = append(frames, fmt.Sprintf("%s wins!", display(v.Winner)))
	return frames
}

func display(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
