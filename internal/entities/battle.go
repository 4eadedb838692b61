package entities

// FactorKind identifies one score-contributing factor in a verdict.
type FactorKind string

// Factor kinds, in the vocabulary the explanation list uses.
const (
	FactorTypeAdvantage FactorKind = "type_advantage"
	FactorSpeedEdge     FactorKind = "speed_edge"
	FactorBulk          FactorKind = "bulk"
)

// Factor is one ranked explanation entry. Contribution is signed: positive
// favors side A, negative favors side B. The verdict orders factors by
// absolute contribution, largest first.
type Factor struct {
	Kind         FactorKind `json:"kind"`
	Description  string     `json:"description"`
	Contribution float64    `json:"contribution"`
}

// BattleVerdict is the deterministic outcome of resolving two records.
// Identical inputs always produce an identical verdict.
type BattleVerdict struct {
	Winner  string   `json:"winner"`
	ScoreA  float64  `json:"score_a"`
	ScoreB  float64  `json:"score_b"`
	NameA   string   `json:"pokemon1"`
	NameB   string   `json:"pokemon2"`
	Factors []Factor `json:"factors"`
}

// Reasoning joins the factor descriptions into a single explanation string,
// ranked order preserved.
func (v *BattleVerdict) Reasoning() string {
	if len(v.Factors) == 0 {
		return ""
	}
	out := ""
	for i, f := range v.Factors {
		if i > 0 {
			out += ". "
		}
		out += f.Description
	}
	return out + "."
}
