package model

import "math"

// Scaling factors condition the solver: the Jacobian row for a constraint is
// multiplied by the constraint factor, the column for a variable is divided
// by the variable factor, so well-scaled models keep entries near unity.
// Stiff quantities (work terms in watts, membrane areas in square meters)
// need explicit factors; CalculateScalingFactors fills in the rest.

// CalculateScalingFactors propagates variable scaling factors onto every
// active constraint in b's subtree that has none assigned. The constraint
// factor is the smallest factor among its variables, which bounds the scaled
// residual by the size of the worst-scaled term.
func CalculateScalingFactors(b *Block) {
	b.Walk(func(blk *Block) {
		for _, c := range blk.constraints {
			if c.HasScalingFactor() || !c.Active() {
				continue
			}
			sf := math.Inf(1)
			for _, v := range Variables(c.Body()) {
				if s := v.ScalingFactor(); s < sf {
					sf = s
				}
			}
			if math.IsInf(sf, 1) {
				sf = 1
			}
			c.SetScalingFactor(sf)
		}
	})
}

// SetDefaultScaling records a default scaling factor for every variable in
// b's subtree whose local name matches and that has no explicit factor yet.
func SetDefaultScaling(b *Block, localName string, sf float64) {
	b.Walk(func(blk *Block) {
		for _, v := range blk.vars {
			if v.name == localName && !v.HasScalingFactor() {
				v.SetScalingFactor(sf)
			}
		}
	})
}
