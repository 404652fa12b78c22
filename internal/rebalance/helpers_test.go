package rebalance

import (
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func holding(symbol, qty, price string) domain.Holding {
	return domain.Holding{
		Symbol:       symbol,
		Network:      "ethereum",
		Quantity:     dec(qty),
		UnitPriceUSD: dec(price),
	}
}

// samplePortfolio is BTC 3500 + ETH 3840 + USDC 1500 = 8840 USD.
func samplePortfolio() []domain.Holding {
	return []domain.Holding{
		{Symbol: "BTC", Network: "bitcoin", Quantity: dec("0.05"), UnitPriceUSD: dec("70000")},
		{Symbol: "ETH", Network: "ethereum", Quantity: dec("1.2"), UnitPriceUSD: dec("3200")},
		{Symbol: "USDC", Network: "ethereum", Quantity: dec("1500"), UnitPriceUSD: dec("1")},
	}
}

func sampleTargets() domain.TargetAllocation {
	return domain.TargetAllocation{"BTC": dec("50"), "ETH": dec("30"), "USDC": dec("20")}
}
