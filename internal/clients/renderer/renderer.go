// Package renderer produces battle visualization artifacts from fetched
// pokemon records and a resolved verdict.
package renderer

import (
	"context"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
)

// RenderInput carries everything a renderer needs to compose a battle
// visualization. Both records and the verdict are required.
type RenderInput struct {
	PokemonA *entities.Pokemon
	PokemonB *entities.Pokemon
	Verdict  *entities.BattleVerdict
	UseShiny bool
}

// Sprite is one combatant's image reference within an artifact.
type Sprite struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ArtifactRef describes a rendered visualization: the sprites involved and
// the ordered narration frames a client plays through.
type ArtifactRef struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Sprites []Sprite `json:"sprites"`
	Frames  []string `json:"frames"`
}

// Renderer defines the interface for visualization backends.
type Renderer interface {
	Render(ctx context.Context, input *RenderInput) (*ArtifactRef, error)
}
