package rebalance

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

// DefaultTolerance returns the default minimum USD imbalance that produces a suggestion (1 USD).
// Callers always pass tolerance explicitly; this only seeds configuration.
func DefaultTolerance() decimal.Decimal {
	return decimal.NewFromInt(1)
}

// Imbalance is the USD magnitude by which a symbol is over- or under-weighted.
type Imbalance struct {
	Symbol string          `json:"symbol"`
	USD    decimal.Decimal `json:"usd"`
}

// Classify splits the symbol universe (held symbols plus target keys) into surplus and deficit sets.
// Imbalances within tolerance are dropped. Both lists are sorted by descending magnitude, ties by symbol.
// A negative tolerance is treated as zero.
func Classify(allocations []domain.Allocation, targets domain.TargetAllocation, tolerance decimal.Decimal) (surplus, deficit []Imbalance) {
	tolerance = clampTolerance(tolerance)
	total := TotalUSD(allocations)

	for _, p := range positions(allocations, targets) {
		targetUSD := domain.PercentOf(targets.Percent(p.symbol), total)
		diff := p.usd.Sub(targetUSD)

		switch {
		case diff.GreaterThan(tolerance):
			surplus = append(surplus, Imbalance{Symbol: p.symbol, USD: diff})
		case diff.LessThan(tolerance.Neg()):
			deficit = append(deficit, Imbalance{Symbol: p.symbol, USD: diff.Neg()})
		}
	}

	sortByMagnitude(surplus)
	sortByMagnitude(deficit)
	return surplus, deficit
}

func sortByMagnitude(items []Imbalance) {
	slices.SortStableFunc(items, func(a, b Imbalance) int {
		if c := b.USD.Cmp(a.USD); c != 0 {
			return c
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
}

func clampTolerance(tolerance decimal.Decimal) decimal.Decimal {
	if tolerance.IsNegative() {
		return decimal.Zero
	}
	return tolerance
}
