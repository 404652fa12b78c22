package rebalance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtlprog/rebalance/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Run("sample portfolio", func(t *testing.T) {
		surplus, deficit := Classify(ComputeAllocation(samplePortfolio()), sampleTargets(), DefaultTolerance())

		require.Len(t, surplus, 1)
		require.Equal(t, "ETH", surplus[0].Symbol)
		require.True(t, surplus[0].USD.Equal(dec("1188")), "ETH surplus = %s", surplus[0].USD)

		require.Len(t, deficit, 2)
		require.Equal(t, "BTC", deficit[0].Symbol)
		require.True(t, deficit[0].USD.Equal(dec("920")))
		require.Equal(t, "USDC", deficit[1].Symbol)
		require.True(t, deficit[1].USD.Equal(dec("268")))
	})

	t.Run("target only symbol is a deficit", func(t *testing.T) {
		holdings := []domain.Holding{holding("ETH", "1", "1000")}
		targets := domain.TargetAllocation{"ETH": dec("60"), "WBTC": dec("40")}

		surplus, deficit := Classify(ComputeAllocation(holdings), targets, DefaultTolerance())
		require.Equal(t, []Imbalance{{Symbol: "ETH", USD: dec("400")}}, normalize(surplus))
		require.Equal(t, []Imbalance{{Symbol: "WBTC", USD: dec("400")}}, normalize(deficit))
	})

	t.Run("holding only symbol is fully divested", func(t *testing.T) {
		holdings := []domain.Holding{holding("ETH", "1", "1000"), holding("DOGE", "100", "1")}
		targets := domain.TargetAllocation{"ETH": dec("100")}

		surplus, deficit := Classify(ComputeAllocation(holdings), targets, DefaultTolerance())
		require.Len(t, surplus, 1)
		require.Equal(t, "DOGE", surplus[0].Symbol)
		require.True(t, surplus[0].USD.Equal(dec("100")))
		require.Len(t, deficit, 1)
		require.Equal(t, "ETH", deficit[0].Symbol)
	})

	t.Run("imbalances within tolerance are ignored", func(t *testing.T) {
		holdings := []domain.Holding{holding("A", "50.5", "1"), holding("B", "49.5", "1")}
		targets := domain.TargetAllocation{"A": dec("50"), "B": dec("50")}

		surplus, deficit := Classify(ComputeAllocation(holdings), targets, DefaultTolerance())
		require.Empty(t, surplus)
		require.Empty(t, deficit)

		surplus, deficit = Classify(ComputeAllocation(holdings), targets, dec("0.1"))
		require.Len(t, surplus, 1)
		require.Len(t, deficit, 1)
	})

	t.Run("sorted by descending magnitude with symbol tie-break", func(t *testing.T) {
		holdings := []domain.Holding{
			holding("A", "100", "1"),
			holding("B", "300", "1"),
			holding("C", "300", "1"),
		}
		targets := domain.TargetAllocation{"D": dec("50"), "E": dec("30"), "F": dec("20")}

		surplus, deficit := Classify(ComputeAllocation(holdings), targets, DefaultTolerance())
		require.Equal(t, []string{"B", "C", "A"}, symbols(surplus))
		require.Equal(t, []string{"D", "E", "F"}, symbols(deficit))
	})

	t.Run("duplicate symbols are aggregated", func(t *testing.T) {
		holdings := []domain.Holding{
			holding("USDC", "50", "1"),
			{Symbol: "USDC", Network: "arbitrum", Quantity: dec("50"), UnitPriceUSD: dec("1")},
			holding("ETH", "0", "1000"),
		}
		targets := domain.TargetAllocation{"USDC": dec("50"), "ETH": dec("50")}

		surplus, deficit := Classify(ComputeAllocation(holdings), targets, DefaultTolerance())
		require.Equal(t, []Imbalance{{Symbol: "USDC", USD: dec("50")}}, normalize(surplus))
		require.Equal(t, []Imbalance{{Symbol: "ETH", USD: dec("50")}}, normalize(deficit))
	})

	t.Run("empty inputs", func(t *testing.T) {
		surplus, deficit := Classify(nil, nil, DefaultTolerance())
		require.Empty(t, surplus)
		require.Empty(t, deficit)

		surplus, deficit = Classify(nil, sampleTargets(), DefaultTolerance())
		require.Empty(t, surplus, "zero total cannot produce imbalances")
		require.Empty(t, deficit)
	})
}

func symbols(items []Imbalance) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Symbol
	}
	return out
}

// normalize strips decimal exponent differences so imbalances compare with require.Equal.
func normalize(items []Imbalance) []Imbalance {
	out := make([]Imbalance, len(items))
	for i, it := range items {
		out[i] = Imbalance{Symbol: it.Symbol, USD: dec(it.USD.String())}
	}
	return out
}
