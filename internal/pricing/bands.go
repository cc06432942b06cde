package pricing

// rangeMatch is the result of a band lookup. Keeping the miss explicit
// means the contributes-zero policy is applied once, at aggregation,
// instead of being scattered through nil checks.
type rangeMatch struct {
	Price   float64
	Matched bool
}

// lookupRangePrice finds the band whose inclusive [Min, Max] range
// contains value. Bands are assumed non-overlapping; the first match wins.
func lookupRangePrice(bands []RateBand, value float64) rangeMatch {
	for _, b := range bands {
		if value >= b.Min && value <= b.Max {
			return rangeMatch{Price: b.Price, Matched: true}
		}
	}
	return rangeMatch{}
}

// orZero folds an unmatched lookup to a zero contribution.
func (m rangeMatch) orZero() float64 {
	if !m.Matched {
		return 0
	}
	return m.Price
}

// applyAdjustment applies a stackability adjustment to a unit price.
// Unknown or absent adjustment types leave the price unchanged. The
// result is floored at zero: breakdown amounts are never negative.
func applyAdjustment(price float64, adj *Adjustment) float64 {
	if adj == nil {
		return price
	}
	out := price
	switch adj.Type {
	case AdjustmentRate:
		out = price * (1 + adj.Value/100)
	case AdjustmentPlusPerUnit:
		out = price + adj.Value
	}
	if out < 0 {
		return 0
	}
	return out
}
