package engine

import (
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
)

// typeAdvantages maps an attacking type to the types it is super effective
// against.
var typeAdvantages = map[entities.TypeName][]entities.TypeName{
	entities.TypeNormal:   {},
	entities.TypeFire:     {entities.TypeGrass, entities.TypeIce, entities.TypeBug, entities.TypeSteel},
	entities.TypeWater:    {entities.TypeFire, entities.TypeGround, entities.TypeRock},
	entities.TypeElectric: {entities.TypeWater, entities.TypeFlying},
	entities.TypeGrass:    {entities.TypeWater, entities.TypeGround, entities.TypeRock},
	entities.TypeIce:      {entities.TypeGrass, entities.TypeGround, entities.TypeFlying, entities.TypeDragon},
	entities.TypeFighting: {entities.TypeNormal, entities.TypeIce, entities.TypeRock, entities.TypeDark, entities.TypeSteel},
	entities.TypePoison:   {entities.TypeGrass, entities.TypeFairy},
	entities.TypeGround:   {entities.TypeFire, entities.TypeElectric, entities.TypePoison, entities.TypeRock, entities.TypeSteel},
	entities.TypeFlying:   {entities.TypeGrass, entities.TypeFighting, entities.TypeBug},
	entities.TypePsychic:  {entities.TypeFighting, entities.TypePoison},
	entities.TypeBug:      {entities.TypeGrass, entities.TypePsychic, entities.TypeDark},
	entities.TypeRock:     {entities.TypeFire, entities.TypeIce, entities.TypeFlying, entities.TypeBug},
	entities.TypeGhost:    {entities.TypePsychic, entities.TypeGhost},
	entities.TypeDragon:   {entities.TypeDragon},
	entities.TypeDark:     {entities.TypePsychic, entities.TypeGhost},
	entities.TypeSteel:    {entities.TypeIce, entities.TypeRock, entities.TypeFairy},
	entities.TypeFairy:    {entities.TypeFighting, entities.TypeDragon, entities.TypeDark},
}

// typeImmunities maps an attacking type to the types that take no damage
// from it.
var typeImmunities = map[entities.TypeName][]entities.TypeName{
	entities.TypeNormal:   {entities.TypeGhost},
	entities.TypeElectric: {entities.TypeGround},
	entities.TypeFighting: {entities.TypeGhost},
	entities.TypePoison:   {entities.TypeSteel},
	entities.TypeGround:   {entities.TypeFlying},
	entities.TypePsychic:  {entities.TypeDark},
	entities.TypeGhost:    {entities.TypeNormal},
	entities.TypeDragon:   {entities.TypeFairy},
}

// Effectiveness multiplier values.
const (
	multImmune         = 0.0
	multResisted       = 0.5
	multNeutral        = 1.0
	multSuperEffective = 2.0
)

// typeChart is the fully materialized 18x18 attack-type vs defense-type
// multiplier table, built once at init. Precedence when building each cell:
// immunity, then super effective, then resisted (the defending element is
// itself super effective against the attacker), then neutral.
var typeChart = buildTypeChart()

func buildTypeChart() map[entities.TypeName]map[entities.TypeName]float64 {
	chart := make(map[entities.TypeName]map[entities.TypeName]float64, len(entities.AllTypes))
	for _, atk := range entities.AllTypes {
		row := make(map[entities.TypeName]float64, len(entities.AllTypes))
		for _, def := range entities.AllTypes {
			row[def] = cellValue(atk, def)
		}
		chart[atk] = row
	}
	return chart
}

func cellValue(atk, def entities.TypeName) float64 {
	if contains(typeImmunities[atk], def) {
		return multImmune
	}
	if contains(typeAdvantages[atk], def) {
		return multSuperEffective
	}
	if contains(typeAdvantages[def], atk) {
		return multResisted
	}
	return multNeutral
}

func contains(types []entities.TypeName, t entities.TypeName) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// Effectiveness returns the chart multiplier for a single attacking type
// against a single defending type.
func Effectiveness(atk, def entities.TypeName) float64 {
	row, ok := typeChart[atk]
	if !ok {
		return multNeutral
	}
	mult, ok := row[def]
	if !ok {
		return multNeutral
	}
	return mult
}

// DefensiveMultiplier returns the effectiveness of an attacking type against
// a full type combination: the product of the per-type multipliers.
func DefensiveMultiplier(atk entities.TypeName, defense []entities.TypeName) float64 {
	mult := multNeutral
	for _, def := range defense {
		mult *= Effectiveness(atk, def)
	}
	return mult
}

// BestAdvantage returns the strongest multiplier any of the attacker's own
// types achieves against the defender's type combination.
func BestAdvantage(attack, defense []entities.TypeName) float64 {
	best := 0.0
	for _, atk := range attack {
		if mult := DefensiveMultiplier(atk, defense); mult > best {
			best = mult
		}
	}
	return best
}
