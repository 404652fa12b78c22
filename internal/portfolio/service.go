package portfolio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

// ChainClient defines the subset of the Ethereum RPC client used by the portfolio Service.
type ChainClient interface {
	FetchNativeBalance(ctx context.Context, address string, decimals int32) (decimal.Decimal, error)
	FetchTokenBalance(ctx context.Context, contract, address string, decimals int32) (decimal.Decimal, error)
}

// PriceProvider resolves USD prices by symbol.
type PriceProvider interface {
	USDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// Service reads wallet balances for the known-token registry and prices them in USD.
type Service struct {
	chain  ChainClient
	prices PriceProvider
}

// NewService creates a new portfolio Service.
func NewService(chain ChainClient, prices PriceProvider) *Service {
	return &Service{chain: chain, prices: prices}
}

// FetchHoldings returns one holding per registry token, zero balances included, so that tokens
// held only as targets still carry a network and price. A failed native balance read is an error;
// a failed token read counts as a zero balance.
func (s *Service) FetchHoldings(ctx context.Context, address string) ([]domain.Holding, error) {
	tokens := domain.KnownTokens()

	prices, err := s.prices.USDPrices(ctx, lo.Map(tokens, func(t domain.TokenInfo, _ int) string { return t.Symbol }))
	if err != nil {
		return nil, fmt.Errorf("fetching prices for %s: %w", address, err)
	}

	holdings := make([]domain.Holding, 0, len(tokens))
	for _, t := range tokens {
		qty, err := s.balance(ctx, t, address)
		if err != nil {
			return nil, fmt.Errorf("fetching holdings for %s: %w", address, err)
		}
		holdings = append(holdings, domain.Holding{
			Symbol:       t.Symbol,
			Network:      t.Network,
			Quantity:     qty,
			UnitPriceUSD: prices[t.Symbol],
		})
	}

	return holdings, nil
}

func (s *Service) balance(ctx context.Context, t domain.TokenInfo, address string) (decimal.Decimal, error) {
	if t.IsNative() {
		qty, err := s.chain.FetchNativeBalance(ctx, address, t.Decimals)
		if err != nil {
			return decimal.Zero, fmt.Errorf("native %s balance: %w", t.Symbol, err)
		}
		return qty, nil
	}

	qty, err := s.chain.FetchTokenBalance(ctx, t.Contract, address, t.Decimals)
	if err != nil {
		slog.Warn("token balance read failed, using zero", "symbol", t.Symbol, "address", address, "error", err)
		return decimal.Zero, nil
	}
	return qty, nil
}
