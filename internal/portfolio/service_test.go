package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type mockChain struct {
	native    decimal.Decimal
	nativeErr error
	tokens    map[string]decimal.Decimal // contract -> balance
	tokenErr  map[string]error
}

func (m *mockChain) FetchNativeBalance(_ context.Context, _ string, _ int32) (decimal.Decimal, error) {
	return m.native, m.nativeErr
}

func (m *mockChain) FetchTokenBalance(_ context.Context, contract, _ string, _ int32) (decimal.Decimal, error) {
	if err := m.tokenErr[contract]; err != nil {
		return decimal.Zero, err
	}
	return m.tokens[contract], nil
}

type mockPrices struct {
	prices map[string]decimal.Decimal
	err    error
}

func (m *mockPrices) USDPrices(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]decimal.Decimal, len(symbols))
	for _, s := range symbols {
		out[s] = m.prices[s]
	}
	return out, nil
}

const (
	usdcContract = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606EB48"
	wbtcContract = "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFetchHoldings(t *testing.T) {
	chain := &mockChain{
		native: d("1.5"),
		tokens: map[string]decimal.Decimal{usdcContract: d("2500.5")},
	}
	prices := &mockPrices{prices: map[string]decimal.Decimal{
		"ETH":  d("3000"),
		"USDC": d("1"),
		"WBTC": d("60000"),
	}}

	svc := NewService(chain, prices)
	holdings, err := svc.FetchHoldings(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(holdings) != 3 {
		t.Fatalf("expected 3 holdings, got %d", len(holdings))
	}

	tests := []struct {
		symbol string
		qty    string
		price  string
	}{
		{"ETH", "1.5", "3000"},
		{"USDC", "2500.5", "1"},
		{"WBTC", "0", "60000"}, // zero balance still listed with its price
	}
	for i, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			h := holdings[i]
			if h.Symbol != tt.symbol {
				t.Errorf("Symbol = %q, want %q", h.Symbol, tt.symbol)
			}
			if h.Network != "ethereum" {
				t.Errorf("Network = %q, want ethereum", h.Network)
			}
			if !h.Quantity.Equal(d(tt.qty)) {
				t.Errorf("Quantity = %s, want %s", h.Quantity, tt.qty)
			}
			if !h.UnitPriceUSD.Equal(d(tt.price)) {
				t.Errorf("UnitPriceUSD = %s, want %s", h.UnitPriceUSD, tt.price)
			}
		})
	}
}

func TestFetchHoldingsTokenErrorDegradesToZero(t *testing.T) {
	chain := &mockChain{
		native:   d("2"),
		tokens:   map[string]decimal.Decimal{wbtcContract: d("0.1")},
		tokenErr: map[string]error{usdcContract: errors.New("execution reverted")},
	}
	svc := NewService(chain, &mockPrices{prices: map[string]decimal.Decimal{}})

	holdings, err := svc.FetchHoldings(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holdings[1].Quantity.IsZero() {
		t.Errorf("USDC quantity = %s, want 0", holdings[1].Quantity)
	}
	if !holdings[2].Quantity.Equal(d("0.1")) {
		t.Errorf("WBTC quantity = %s, want 0.1", holdings[2].Quantity)
	}
}

func TestFetchHoldingsNativeError(t *testing.T) {
	chain := &mockChain{nativeErr: errors.New("connection refused")}
	svc := NewService(chain, &mockPrices{})

	if _, err := svc.FetchHoldings(context.Background(), "0xabc"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchHoldingsPriceError(t *testing.T) {
	svc := NewService(&mockChain{}, &mockPrices{err: errors.New("db down")})

	if _, err := svc.FetchHoldings(context.Background(), "0xabc"); err == nil {
		t.Fatal("expected error")
	}
}
