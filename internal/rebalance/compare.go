package rebalance

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mtlprog/rebalance/internal/domain"
)

// Compare builds a current-vs-target record for every held or targeted symbol, sorted by
// descending absolute over/under USD (ties by symbol). It shares the allocation snapshot logic with
// Classify, so the sign of OverUnderUSD beyond tolerance always matches the classification.
func Compare(holdings []domain.Holding, targets domain.TargetAllocation) []domain.ComparisonRecord {
	allocations := ComputeAllocation(holdings)
	total := TotalUSD(allocations)

	records := lo.Map(positions(allocations, targets), func(p position, _ int) domain.ComparisonRecord {
		targetPct := targets.Percent(p.symbol)
		targetUSD := domain.PercentOf(targetPct, total)
		return domain.ComparisonRecord{
			Symbol:         p.symbol,
			CurrentPercent: p.percent,
			TargetPercent:  targetPct,
			CurrentUSD:     p.usd,
			TargetUSD:      targetUSD,
			OverUnderUSD:   p.usd.Sub(targetUSD),
		}
	})

	slices.SortStableFunc(records, func(a, b domain.ComparisonRecord) int {
		if c := b.OverUnderUSD.Abs().Cmp(a.OverUnderUSD.Abs()); c != 0 {
			return c
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return records
}
