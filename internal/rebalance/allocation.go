// Package rebalance computes portfolio allocations and the swaps that move a portfolio toward a
// target allocation. Every function is pure: no I/O, no shared state, safe to call concurrently.
package rebalance

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

// ComputeAllocation values each holding in USD and its percent share of the total.
// The output preserves input length and order; all percents are zero when the total is zero.
func ComputeAllocation(holdings []domain.Holding) []domain.Allocation {
	total := lo.Reduce(holdings, func(acc decimal.Decimal, h domain.Holding, _ int) decimal.Decimal {
		return acc.Add(h.USDValue())
	}, decimal.Zero)

	return lo.Map(holdings, func(h domain.Holding, _ int) domain.Allocation {
		usd := h.USDValue()
		return domain.Allocation{
			Symbol:   h.Symbol,
			USDValue: usd,
			Percent:  domain.Percent(usd, total),
		}
	})
}

// TotalUSD sums the USD value of all allocations.
func TotalUSD(allocations []domain.Allocation) decimal.Decimal {
	return lo.Reduce(allocations, func(acc decimal.Decimal, a domain.Allocation, _ int) decimal.Decimal {
		return acc.Add(a.USDValue)
	}, decimal.Zero)
}

// position is the aggregated current value of one symbol.
type position struct {
	symbol  string
	usd     decimal.Decimal
	percent decimal.Decimal
}

// positions folds allocations into one position per symbol and extends the set with target-only
// symbols at zero value. Held symbols keep first-seen order; target-only symbols follow, sorted.
func positions(allocations []domain.Allocation, targets domain.TargetAllocation) []position {
	index := make(map[string]int, len(allocations)+len(targets))
	var out []position

	for _, a := range allocations {
		if i, ok := index[a.Symbol]; ok {
			out[i].usd = out[i].usd.Add(a.USDValue)
			out[i].percent = out[i].percent.Add(a.Percent)
			continue
		}
		index[a.Symbol] = len(out)
		out = append(out, position{symbol: a.Symbol, usd: a.USDValue, percent: a.Percent})
	}

	for _, symbol := range targets.Symbols() {
		if _, ok := index[symbol]; ok {
			continue
		}
		index[symbol] = len(out)
		out = append(out, position{symbol: symbol, usd: decimal.Zero, percent: decimal.Zero})
	}

	return out
}
