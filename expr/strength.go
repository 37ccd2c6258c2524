package expr

import "math"

// Constraint strengths form a three-level scale: strong, medium and weak
// components, each clamped to [0, 1000], weigh 1e6, 1e3 and 1, so a
// thousand points of one level weigh as much as a single point of the
// level above. Required is the sentinel above the scale: a required
// constraint must hold exactly.
var (
	Required = MakeStrength(1000, 1000, 1000)
	Strong   = MakeStrength(1, 0, 0)
	Medium   = MakeStrength(0, 1, 0)
	Weak     = MakeStrength(0, 0, 1)
)

// MakeStrength combines strong, medium and weak components into a single
// strength value. Each component is clamped to [0, 1000].
func MakeStrength(strong, medium, weak float64) float64 {
	return WeightedStrength(strong, medium, weak, 1)
}

// WeightedStrength is MakeStrength with every component scaled by weight
// before clamping.
func WeightedStrength(strong, medium, weak, weight float64) float64 {
	var v float64
	v += math.Max(0, math.Min(1000, strong*weight)) * 1e6
	v += math.Max(0, math.Min(1000, medium*weight)) * 1e3
	v += math.Max(0, math.Min(1000, weak*weight))
	return v
}

// Clip clamps a strength to the valid range [0, Required].
func Clip(value float64) float64 {
	return math.Max(0, math.Min(Required, value))
}
