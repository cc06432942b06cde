package pricing

import "time"

const dayDuration = 24 * time.Hour

// inclusiveDays returns the calendar span of [start, end] counting both
// endpoints, so start == end yields 1. Partial days round up.
func inclusiveDays(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	days := int(d / dayDuration)
	if d%dayDuration != 0 {
		days++
	}
	return days + 1
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

// periodUnits converts billable days into the number of billing units
// for the given period. Months are 30 days, weeks 7; day is identity.
func periodUnits(billableDays int, unit BillingUnit) int {
	switch unit {
	case UnitMonth:
		return ceilDiv(billableDays, 30)
	case UnitWeek:
		return ceilDiv(billableDays, 7)
	default:
		return billableDays
	}
}

// selectBillingPeriod picks the billing period for a manifest line given
// the periods its pricing rows offer:
//   - month when the stay is at least 30 billable days and a month row exists
//   - week when at least 7 billable days and a week row exists
//   - otherwise day when available, else whichever of week/month exists.
func selectBillingPeriod(available []BillingUnit, billableDays int) BillingUnit {
	has := func(u BillingUnit) bool {
		for _, a := range available {
			if a == u {
				return true
			}
		}
		return false
	}

	if billableDays >= 30 && has(UnitMonth) {
		return UnitMonth
	}
	if billableDays >= 7 && has(UnitWeek) {
		return UnitWeek
	}
	if has(UnitDay) {
		return UnitDay
	}
	if has(UnitWeek) {
		return UnitWeek
	}
	if has(UnitMonth) {
		return UnitMonth
	}
	return UnitDay
}

// volumeDiscountPercent returns the discount percentage of the highest
// qualifying tier (largest min wins) or 0 when none qualifies.
func volumeDiscountPercent(tiers []VolumeDiscount, quantity float64) float64 {
	best := 0.0
	bestMin := -1.0
	for _, t := range tiers {
		if quantity < t.Min {
			continue
		}
		if t.Min > bestMin {
			bestMin = t.Min
			best = t.Discount
		}
	}
	return best
}
