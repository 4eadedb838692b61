// Package engine implements the deterministic battle resolver. Resolve is a
// pure function: no randomness, no hidden state, identical inputs always
// yield an identical verdict.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
)

// Scoring coefficients. The relative ordering properties are what matter;
// the exact values are tunable.
const (
	// SpeedBonus is the flat offensive bonus for the faster side, and the
	// penalty for the slower side.
	SpeedBonus = 0.1
	// MitigationFactor scales how much the opponent's bulk subtracts from a
	// side's final score.
	MitigationFactor = 0.3
)

// Resolve computes a battle verdict from two records. The winner is the side
// with the strictly higher final score; exact ties break on higher base
// speed, then on lexicographically earlier name.
func Resolve(a, b *entities.Pokemon) *entities.BattleVerdict {
	speedA := speedFactor(a.Stats.Speed, b.Stats.Speed)
	speedB := speedFactor(b.Stats.Speed, a.Stats.Speed)

	advA := BestAdvantage(a.Types, b.Types)
	advB := BestAdvantage(b.Types, a.Types)

	rawA := float64(a.Stats.Attack + a.Stats.SpecialAttack)
	rawB := float64(b.Stats.Attack + b.Stats.SpecialAttack)

	offenseA := rawA * speedA * advA
	offenseB := rawB * speedB * advB

	bulkA := float64(a.Stats.Defense+a.Stats.SpecialDefense) + float64(a.Stats.HP)/2
	bulkB := float64(b.Stats.Defense+b.Stats.SpecialDefense) + float64(b.Stats.HP)/2

	scoreA := offenseA - bulkB*MitigationFactor
	scoreB := offenseB - bulkA*MitigationFactor
	if scoreA < 0 {
		scoreA = 0
	}
	if scoreB < 0 {
		scoreB = 0
	}

	winner := pickWinner(a, b, scoreA, scoreB)

	factors := []entities.Factor{
		typeFactor(a, b, rawA*speedA*(advA-1), rawB*speedB*(advB-1)),
		speedEdgeFactor(a, b, rawA*advA*(speedA-1), rawB*advB*(speedB-1)),
		bulkFactor(a, b, (bulkA-bulkB)*MitigationFactor),
	}
	// Ranked by magnitude of contribution, largest first. Stable sort keeps
	// the type/speed/bulk order on exact magnitude ties.
	sort.SliceStable(factors, func(i, j int) bool {
		return abs(factors[i].Contribution) > abs(factors[j].Contribution)
	})

	return &entities.BattleVerdict{
		Winner:  winner,
		ScoreA:  scoreA,
		ScoreB:  scoreB,
		NameA:   a.Name,
		NameB:   b.Name,
		Factors: factors,
	}
}

func speedFactor(own, opp int32) float64 {
	switch {
	case own > opp:
		return 1.0 + SpeedBonus
	case own < opp:
		return 1.0 - SpeedBonus
	default:
		return 1.0
	}
}

func pickWinner(a, b *entities.Pokemon, scoreA, scoreB float64) string {
	switch {
	case scoreA > scoreB:
		return a.Name
	case scoreB > scoreA:
		return b.Name
	case a.Stats.Speed > b.Stats.Speed:
		return a.Name
	case b.Stats.Speed > a.Stats.Speed:
		return b.Name
	case a.Name <= b.Name:
		return a.Name
	default:
		return b.Name
	}
}

func typeFactor(a, b *entities.Pokemon, contribA, contribB float64) entities.Factor {
	contribution := contribA - contribB
	var desc string
	switch {
	case contribution > 0:
		desc = fmt.Sprintf("%s has a type advantage over %s", title(a.Name), title(b.Name))
	case contribution < 0:
		desc = fmt.Sprintf("%s has a type advantage over %s", title(b.Name), title(a.Name))
	default:
		desc = "Neither side has a significant type advantage"
	}
	return entities.Factor{
		Kind:         entities.FactorTypeAdvantage,
		Description:  desc,
		Contribution: contribution,
	}
}

func speedEdgeFactor(a, b *entities.Pokemon, contribA, contribB float64) entities.Factor {
	contribution := contribA - contribB
	var desc string
	switch {
	case contribution > 0:
		desc = fmt.Sprintf("%s is faster and would attack first", title(a.Name))
	case contribution < 0:
		desc = fmt.Sprintf("%s is faster and would attack first", title(b.Name))
	default:
		desc = "Both sides are equally fast"
	}
	return entities.Factor{
		Kind:         entities.FactorSpeedEdge,
		Description:  desc,
		Contribution: contribution,
	}
}

func bulkFactor(a, b *entities.Pokemon, contribution float64) entities.Factor {
	var desc string
	switch {
	case contribution > 0:
		desc = fmt.Sprintf("%s is bulkier and shrugs off more damage", title(a.Name))
	case contribution < 0:
		desc = fmt.Sprintf("%s is bulkier and shrugs off more damage", title(b.Name))
	default:
		desc = "Both sides are equally bulky"
	}
	return entities.Factor{
		Kind:         entities.FactorBulk,
		Description:  desc,
		Contribution: contribution,
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func title(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
