package pokeapi

import (
	"sort"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

// maxMoves caps how many known moves are carried on a record. The full
// PokeAPI move list runs to hundreds of entries and the battle verdict only
// needs the headline set.
const maxMoves = 4

// Base stat names in the PokeAPI vocabulary.
const (
	statHP             = "hp"
	statAttack         = "attack"
	statDefense        = "defense"
	statSpecialAttack  = "special-attack"
	statSpecialDefense = "special-defense"
	statSpeed          = "speed"
)

func toRecord(payload *apiPokemon) (*entities.Pokemon, error) {
	if payload.Name == "" {
		return nil, errors.Unavailable("pokeapi response missing name")
	}

	record := &entities.Pokemon{
		Name:      payload.Name,
		SpriteURL: payload.Sprites.FrontDefault,
		ShinyURL:  payload.Sprites.FrontShiny,
	}

	for _, stat := range payload.Stats {
		value := stat.BaseStat
		if value < 0 {
			return nil, errors.Unavailablef("pokeapi returned negative base stat %q", stat.Stat.Name)
		}
		switch stat.Stat.Name {
		case statHP:
			record.Stats.HP = value
		case statAttack:
			record.Stats.Attack = value
		case statDefense:
			record.Stats.Defense = value
		case statSpecialAttack:
			record.Stats.SpecialAttack = value
		case statSpecialDefense:
			record.Stats.SpecialDefense = value
		case statSpeed:
			record.Stats.Speed = value
		}
	}

	types := make([]apiType, len(payload.Types))
	copy(types, payload.Types)
	sort.Slice(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })

	for _, t := range types {
		name := entities.TypeName(t.Type.Name)
		if !entities.IsValidType(name) {
			return nil, errors.Unavailablef("pokeapi returned unknown type %q", t.Type.Name)
		}
		record.Types = append(record.Types, name)
	}

	if len(record.Types) == 0 || len(record.Types) > 2 {
		return nil, errors.Unavailablef("pokeapi returned %d types for %q", len(record.Types), payload.Name)
	}

	for i, m := range payload.Moves {
		if i >= maxMoves {
			break
		}
		record.Moves = append(record.Moves, entities.Move{Name: m.Move.Name})
	}

	return record, nil
}
