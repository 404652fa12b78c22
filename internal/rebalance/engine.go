package rebalance

import (
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

// Result bundles every view the engine derives from one holdings snapshot.
type Result struct {
	TotalUSD    decimal.Decimal           `json:"totalUsd"`
	Allocations []domain.Allocation       `json:"allocations"`
	Comparison  []domain.ComparisonRecord `json:"comparison"`
	Surplus     []Imbalance               `json:"surplus"`
	Deficit     []Imbalance               `json:"deficit"`
	Suggestions []domain.Suggestion       `json:"suggestions"`
}

// Engine runs the rebalance pipeline with a fixed tolerance. The zero value uses a zero tolerance.
type Engine struct {
	Tolerance decimal.Decimal
}

// NewEngine creates an Engine with the given USD tolerance.
func NewEngine(tolerance decimal.Decimal) Engine {
	return Engine{Tolerance: clampTolerance(tolerance)}
}

// Plan computes allocations, comparison, classification and suggestions for one snapshot.
func (e Engine) Plan(holdings []domain.Holding, targets domain.TargetAllocation) Result {
	allocations := ComputeAllocation(holdings)
	surplus, deficit := Classify(allocations, targets, e.Tolerance)

	return Result{
		TotalUSD:    TotalUSD(allocations),
		Allocations: allocations,
		Comparison:  Compare(holdings, targets),
		Surplus:     surplus,
		Deficit:     deficit,
		Suggestions: Match(surplus, deficit, IndexHoldings(holdings), e.Tolerance),
	}
}

// Suggest runs allocation, classification and matching and returns only the suggestions.
func Suggest(holdings []domain.Holding, targets domain.TargetAllocation, tolerance decimal.Decimal) []domain.Suggestion {
	surplus, deficit := Classify(ComputeAllocation(holdings), targets, tolerance)
	return Match(surplus, deficit, IndexHoldings(holdings), tolerance)
}
