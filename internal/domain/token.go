package domain

import (
	"strings"

	"github.com/samber/lo"
)

// NetworkEthereum is the network identifier used for Ethereum mainnet assets.
const NetworkEthereum = "ethereum"

// TokenInfo describes a token the balance fetcher knows how to read and price.
type TokenInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Contract    string `json:"contract,omitempty"` // empty for the native asset
	Decimals    int32  `json:"decimals"`
	CoinGeckoID string `json:"coingeckoId"`
	Network     string `json:"network"`
}

// IsNative returns true for the chain's native asset.
func (t TokenInfo) IsNative() bool {
	return t.Contract == ""
}

var knownTokens = []TokenInfo{
	{Symbol: "ETH", Name: "Ethereum", Decimals: 18, CoinGeckoID: "ethereum", Network: NetworkEthereum},
	{Symbol: "USDC", Name: "USD Coin", Contract: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606EB48", Decimals: 6, CoinGeckoID: "usd-coin", Network: NetworkEthereum},
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Contract: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8, CoinGeckoID: "wrapped-bitcoin", Network: NetworkEthereum},
}

// KnownTokens returns a copy of the token registry.
func KnownTokens() []TokenInfo {
	out := make([]TokenInfo, len(knownTokens))
	copy(out, knownTokens)
	return out
}

// ERC20Tokens returns registry tokens that are read through a contract.
func ERC20Tokens() []TokenInfo {
	return lo.Reject(KnownTokens(), func(t TokenInfo, _ int) bool {
		return t.IsNative()
	})
}

// TokenBySymbol looks up a registry token by symbol, case-insensitively.
func TokenBySymbol(symbol string) (TokenInfo, bool) {
	return lo.Find(KnownTokens(), func(t TokenInfo) bool {
		return strings.EqualFold(t.Symbol, symbol)
	})
}
