package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Resolve folds every matching rule over the base price in ascending
// priority order. This is a compounding model: each matching rule applies to
// the running price in sequence, not a single-winner selection. The result
// is rounded half-up to 2 decimals and clamped to >= 0.
//
// Resolve is a pure function of its inputs. Checkout must call it again with
// the checkout-time `at` rather than reuse a display-time value.
func Resolve(basePrice float64, rules []Rule, scope Scope, at time.Time) (float64, []AppliedRule, error) {
	var matched []Rule
	for _, r := range rules {
		if r.matches(scope, at) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority < matched[j].Priority
	})

	price := basePrice
	applied := make([]AppliedRule, 0, len(matched))
	for _, r := range matched {
		switch r.ModifierType {
		case ModifierPercentage:
			price *= 1 + r.ModifierValue/100
		case ModifierFixedAmount:
			price += r.ModifierValue
		default:
			return 0, nil, fmt.Errorf("%w: %q (rule %s)", ErrUnknownModifier, r.ModifierType, r.ID)
		}
		applied = append(applied, AppliedRule{
			RuleID:        r.ID,
			RuleType:      r.RuleType,
			ModifierType:  r.ModifierType,
			ModifierValue: r.ModifierValue,
			Priority:      r.Priority,
			PriceAfter:    Round(price),
		})
	}

	final := Round(price)
	if final < 0 {
		final = 0
	}
	return final, applied, nil
}

// Round rounds to 2 decimals, half-up.
func Round(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
