// Package testutils provides test helpers: fixture builders and an
// in-memory redis.
package testutils

import (
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
)

// PokemonBuilder builds pokemon records for tests with sensible defaults.
type PokemonBuilder struct {
	record entities.Pokemon
}

// NewPokemonBuilder creates a builder seeded with a neutral record.
func NewPokemonBuilder() *PokemonBuilder {
	return &PokemonBuilder{
		record: entities.Pokemon{
			Name:  "testmon",
			Types: []entities.TypeName{entities.TypeNormal},
			Stats: entities.StatBlock{
				HP: 50, Attack: 50, Defense: 50,
				SpecialAttack: 50, SpecialDefense: 50, Speed: 50,
			},
		},
	}
}

// WithName sets the record name.
func (b *PokemonBuilder) WithName(name string) *PokemonBuilder {
	b.record.Name = name
	return b
}

// WithTypes sets the type combination.
func (b *PokemonBuilder) WithTypes(types ...entities.TypeName) *PokemonBuilder {
	b.record.Types = types
	return b
}

// WithStats sets the full stat block.
func (b *PokemonBuilder) WithStats(stats entities.StatBlock) *PokemonBuilder {
	b.record.Stats = stats
	return b
}

// WithSprites sets the default and shiny sprite URLs.
func (b *PokemonBuilder) WithSprites(defaultURL, shinyURL string) *PokemonBuilder {
	b.record.SpriteURL = defaultURL
	b.record.ShinyURL = shinyURL
	return b
}

// WithMoves sets the known move list.
func (b *PokemonBuilder) WithMoves(moves ...entities.Move) *PokemonBuilder {
	b.record.Moves = moves
	return b
}

// Build returns a fresh copy of the record.
func (b *PokemonBuilder) Build() *entities.Pokemon {
	record := b.record
	record.Types = append([]entities.TypeName(nil), b.record.Types...)
	record.Moves = append([]entities.Move(nil), b.record.Moves...)
	return &record
}

// Pikachu returns the canonical pikachu fixture.
func Pikachu() *entities.Pokemon {
	return NewPokemonBuilder().
		WithName("pikachu").
		WithTypes(entities.TypeElectric).
		WithStats(entities.StatBlock{
			HP: 35, Attack: 55, Defense: 40,
			SpecialAttack: 50, SpecialDefense: 50, Speed: 90,
		}).
		WithMoves(
			entities.Move{Name: "thunderbolt", Type: entities.TypeElectric, Category: entities.CategorySpecial},
			entities.Move{Name: "quick-attack", Type: entities.TypeNormal, Category: entities.CategoryPhysical},
		).
		WithSprites(
			"https://sprites.example.com/pokemon/25.png",
			"https://sprites.example.com/pokemon/shiny/25.png",
		).
		Build()
}

// Bulbasaur returns the canonical bulbasaur fixture.
func Bulbasaur() *entities.Pokemon {
	return NewPokemonBuilder().
		WithName("bulbasaur").
		WithTypes(entities.TypeGrass, entities.TypePoison).
		WithStats(entities.StatBlock{
			HP: 45, Attack: 49, Defense: 49,
			SpecialAttack: 65, SpecialDefense: 65, Speed: 45,
		}).
		WithMoves(
			entities.Move{Name: "vine-whip", Type: entities.TypeGrass, Category: entities.CategoryPhysical},
			entities.Move{Name: "sludge-bomb", Type: entities.TypePoison, Category: entities.CategorySpecial},
		).
		WithSprites(
			"https://sprites.example.com/pokemon/1.png",
			"https://sprites.example.com/pokemon/shiny/1.png",
		).
		Build()
}
