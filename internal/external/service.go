package external

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/rebalance/internal/domain"
)

// Service fetches USD quotes for the known-token registry and stores them.
type Service struct {
	coingecko *CoinGeckoClient
	repo      QuoteRepository
}

// NewService creates a new external price Service.
func NewService(coingecko *CoinGeckoClient, repo QuoteRepository) *Service {
	return &Service{
		coingecko: coingecko,
		repo:      repo,
	}
}

// FetchAndStoreQuotes fetches USD prices for every registry token, stores them and returns the
// stored quotes keyed by symbol. Tokens CoinGecko does not price are skipped.
func (s *Service) FetchAndStoreQuotes(ctx context.Context) ([]Quote, error) {
	tokens := domain.KnownTokens()
	ids := lo.Map(tokens, func(t domain.TokenInfo, _ int) string { return t.CoinGeckoID })

	prices, err := s.coingecko.FetchUSDPrices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching external prices: %w", err)
	}

	var quotes []Quote
	for _, t := range tokens {
		p, ok := prices[t.CoinGeckoID]
		if !ok {
			slog.Warn("no CoinGecko price for token", "symbol", t.Symbol, "id", t.CoinGeckoID)
			continue
		}
		if err := s.repo.SaveQuote(ctx, t.Symbol, p); err != nil {
			return nil, fmt.Errorf("storing quote for %s: %w", t.Symbol, err)
		}
		quotes = append(quotes, Quote{Symbol: t.Symbol, PriceInUSD: p, UpdatedAt: time.Now().UTC()})
	}

	return quotes, nil
}

// GetQuote returns the stored quote for symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	return s.repo.GetQuote(ctx, symbol)
}
