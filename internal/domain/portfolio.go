package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Holding is a quantity of a tradable asset together with its unit USD price.
// A zero UnitPriceUSD means the price is unknown.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Network      string          `json:"network"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPriceUSD decimal.Decimal `json:"unitPriceUsd"`
}

// USDValue returns Quantity × UnitPriceUSD.
func (h Holding) USDValue() decimal.Decimal {
	return h.Quantity.Mul(h.UnitPriceUSD)
}

// IsHeld reports whether the holding carries a positive quantity.
func (h Holding) IsHeld() bool {
	return h.Quantity.IsPositive()
}

// Allocation is a holding's USD value and its percent share of the portfolio total.
type Allocation struct {
	Symbol   string          `json:"symbol"`
	USDValue decimal.Decimal `json:"usdValue"`
	Percent  decimal.Decimal `json:"percent"`
}

// TargetAllocation maps a symbol to its desired percent share (0-100).
// Percentages are not required to sum to 100; absent symbols imply a target of 0.
type TargetAllocation map[string]decimal.Decimal

// Percent returns the target percent for symbol, zero when absent.
func (t TargetAllocation) Percent(symbol string) decimal.Decimal {
	return t[symbol]
}

// Symbols returns the target keys in ascending order.
func (t TargetAllocation) Symbols() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ComparisonRecord is a per-symbol current vs target view used for display.
type ComparisonRecord struct {
	Symbol         string          `json:"symbol"`
	CurrentPercent decimal.Decimal `json:"currentPct"`
	TargetPercent  decimal.Decimal `json:"targetPct"`
	CurrentUSD     decimal.Decimal `json:"currentUsd"`
	TargetUSD      decimal.Decimal `json:"targetUsd"`
	OverUnderUSD   decimal.Decimal `json:"overUnderUsd"`
}

// NormalizeHoldings upper-cases symbols and orders holdings by USD value, largest first.
// The input slice is left untouched.
func NormalizeHoldings(holdings []Holding) []Holding {
	out := make([]Holding, len(holdings))
	for i, h := range holdings {
		h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
		out[i] = h
	}
	slices.SortStableFunc(out, func(a, b Holding) int {
		return b.USDValue().Cmp(a.USDValue())
	})
	return out
}
