package rebalance

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

// IndexHoldings maps each symbol to the holding used for pricing and network lookups:
// the first entry with a positive quantity, otherwise the first entry seen.
func IndexHoldings(holdings []domain.Holding) map[string]domain.Holding {
	index := make(map[string]domain.Holding, len(holdings))
	for _, h := range holdings {
		existing, ok := index[h.Symbol]
		if !ok || (!existing.IsHeld() && h.IsHeld()) {
			index[h.Symbol] = h
		}
	}
	return index
}

// Match pairs surplus entries with deficit entries greedily, both already sorted by descending
// magnitude. A single deficit cursor only moves forward, so a deficit may be filled by several
// surpluses but is never revisited once exhausted. At most len(surplus)+len(deficit)-1 suggestions
// are returned. The input slices are not modified.
//
// Pairings whose deposit symbol has no positive-quantity holding emit nothing but still consume
// both sides, so matching always terminates.
func Match(surplus, deficit []Imbalance, holdings map[string]domain.Holding, tolerance decimal.Decimal) []domain.Suggestion {
	tolerance = clampTolerance(tolerance)
	deficits := slices.Clone(deficit)

	var suggestions []domain.Suggestion
	cursor := 0

	for _, s := range surplus {
		remaining := s.USD

		for remaining.GreaterThan(tolerance) && cursor < len(deficits) {
			d := &deficits[cursor]
			amount := decimal.Min(remaining, d.USD)
			if amount.LessThanOrEqual(tolerance) {
				break
			}

			if deposit, ok := holdings[s.Symbol]; ok && deposit.IsHeld() {
				suggestions = append(suggestions, newSuggestion(deposit, d.Symbol, holdings, amount))
			}

			remaining = remaining.Sub(amount)
			d.USD = d.USD.Sub(amount)
			if d.USD.LessThanOrEqual(tolerance) {
				cursor++
			}
		}
	}

	return suggestions
}

func newSuggestion(deposit domain.Holding, settleSymbol string, holdings map[string]domain.Holding, amountUSD decimal.Decimal) domain.Suggestion {
	settle, ok := holdings[settleSymbol]
	settleNetwork := deposit.Network
	if ok && settle.Network != "" {
		settleNetwork = settle.Network
	}

	return domain.Suggestion{
		DepositCoin:           deposit.Symbol,
		DepositNetwork:        deposit.Network,
		SettleCoin:            settleSymbol,
		SettleNetwork:         settleNetwork,
		DepositAmount:         domain.DivideFixed(amountUSD, deposit.UnitPriceUSD, domain.AmountPrecision),
		EstimatedSettleAmount: domain.DivideFixed(amountUSD, settle.UnitPriceUSD, domain.AmountPrecision),
		Reason:                fmt.Sprintf("Rebalance: move ~$%s from %s to %s", amountUSD.StringFixed(2), deposit.Symbol, settleSymbol),
	}
}
