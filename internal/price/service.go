package price

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/external"
)

// QuoteSource fetches fresh quotes and serves stored ones.
type QuoteSource interface {
	FetchAndStoreQuotes(ctx context.Context) ([]external.Quote, error)
	GetQuote(ctx context.Context, symbol string) (external.Quote, error)
}

// Service resolves USD prices for token symbols.
type Service struct {
	quotes QuoteSource
	cache  *Cache
}

// NewService creates a new price Service.
func NewService(quotes QuoteSource, cache *Cache) *Service {
	return &Service{quotes: quotes, cache: cache}
}

// FetchAndStoreQuotes refreshes stored quotes and warms the cache with them.
func (s *Service) FetchAndStoreQuotes(ctx context.Context) error {
	quotes, err := s.quotes.FetchAndStoreQuotes(ctx)
	if err != nil {
		return fmt.Errorf("refreshing quotes: %w", err)
	}
	for _, q := range quotes {
		s.cache.Set(q.Symbol, q.PriceInUSD)
	}
	s.cache.Wait()
	slog.Debug("price cache warmed", "count", len(quotes))
	return nil
}

// USDPrices returns a USD price for every symbol. Symbols without a known quote get zero, which
// callers treat as an unknown price.
func (s *Service) USDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		if p, ok := s.cache.Get(sym); ok {
			prices[sym] = p
			continue
		}

		q, err := s.quotes.GetQuote(ctx, sym)
		if err != nil {
			if errors.Is(err, external.ErrQuoteNotFound) {
				slog.Debug("no USD quote for symbol", "symbol", sym)
				prices[sym] = decimal.Zero
				continue
			}
			return nil, fmt.Errorf("getting USD price for %s: %w", sym, err)
		}
		prices[sym] = q.PriceInUSD
		s.cache.Set(sym, q.PriceInUSD)
	}
	return prices, nil
}
