// Package entities holds the domain records shared across the system.
// Records are produced by the pokedex cache and treated as immutable by
// everything downstream.
package entities

import "strings"

// TypeName is one of the 18 elemental types.
type TypeName string

// The closed set of elemental types.
const (
	TypeNormal   TypeName = "normal"
	TypeFire     TypeName = "fire"
	TypeWater    TypeName = "water"
	TypeElectric TypeName = "electric"
	TypeGrass    TypeName = "grass"
	TypeIce      TypeName = "ice"
	TypeFighting TypeName = "fighting"
	TypePoison   TypeName = "poison"
	TypeGround   TypeName = "ground"
	TypeFlying   TypeName = "flying"
	TypePsychic  TypeName = "psychic"
	TypeBug      TypeName = "bug"
	TypeRock     TypeName = "rock"
	TypeGhost    TypeName = "ghost"
	TypeDragon   TypeName = "dragon"
	TypeDark     TypeName = "dark"
	TypeSteel    TypeName = "steel"
	TypeFairy    TypeName = "fairy"
)

// AllTypes lists every elemental type, in chart order.
var AllTypes = []TypeName{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

// IsValidType reports whether name is one of the 18 known types.
func IsValidType(name TypeName) bool {
	for _, t := range AllTypes {
		if t == name {
			return true
		}
	}
	return false
}

// MoveCategory is the declared damage category of a move.
type MoveCategory string

// Move categories.
const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// StatBlock is the six base stats. All values are non-negative.
type StatBlock struct {
	HP             int32 `json:"hp"`
	Attack         int32 `json:"attack"`
	Defense        int32 `json:"defense"`
	SpecialAttack  int32 `json:"special_attack"`
	SpecialDefense int32 `json:"special_defense"`
	Speed          int32 `json:"speed"`
}

// Move is a known move with its type and declared category.
type Move struct {
	Name     string       `json:"name"`
	Type     TypeName     `json:"type"`
	Category MoveCategory `json:"category"`
}

// Pokemon is one catalog record: name, 1-2 types, base stats, and known
// moves. Once cached under a name it is never mutated, only superseded by an
// explicit re-fetch.
type Pokemon struct {
	Name      string    `json:"name"`
	Types     []TypeName `json:"types"`
	Stats     StatBlock `json:"base_stats"`
	Moves     []Move    `json:"moves,omitempty"`
	SpriteURL string    `json:"sprite_url,omitempty"`
	ShinyURL  string    `json:"shiny_sprite_url,omitempty"`
}

// NormalizeName produces the canonical cache key for a pokemon name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
