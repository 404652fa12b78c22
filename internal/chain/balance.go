package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// balanceOfSelector is the 4-byte selector of ERC-20 balanceOf(address).
const balanceOfSelector = "0x70a08231"

// FetchNativeBalance returns the native balance of address in whole units.
func (c *Client) FetchNativeBalance(ctx context.Context, address string, decimals int32) (decimal.Decimal, error) {
	var hex string
	if err := c.call(ctx, "eth_getBalance", []any{address, "latest"}, &hex); err != nil {
		return decimal.Zero, fmt.Errorf("fetching native balance of %s: %w", address, err)
	}
	return fromBaseUnits(hex, decimals)
}

// FetchTokenBalance returns the ERC-20 balance of address for contract in whole units.
func (c *Client) FetchTokenBalance(ctx context.Context, contract, address string, decimals int32) (decimal.Decimal, error) {
	data, err := encodeBalanceOf(address)
	if err != nil {
		return decimal.Zero, err
	}

	var hex string
	if err := c.call(ctx, "eth_call", []any{callMsg{To: contract, Data: data}, "latest"}, &hex); err != nil {
		return decimal.Zero, fmt.Errorf("fetching %s balance of %s: %w", contract, address, err)
	}
	return fromBaseUnits(hex, decimals)
}

// encodeBalanceOf builds calldata for balanceOf(address): selector + left-padded 32-byte address.
func encodeBalanceOf(address string) (string, error) {
	addr := strings.TrimPrefix(strings.ToLower(address), "0x")
	if len(addr) != 40 {
		return "", fmt.Errorf("invalid address %q", address)
	}
	return balanceOfSelector + strings.Repeat("0", 24) + addr, nil
}

// fromBaseUnits converts a hex quantity in base units into a decimal with the given decimals.
func fromBaseUnits(hex string, decimals int32) (decimal.Decimal, error) {
	digits := strings.TrimPrefix(hex, "0x")
	if digits == "" {
		return decimal.Zero, nil
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid hex quantity %q", hex)
	}
	return decimal.NewFromBigInt(n, -decimals), nil
}

// IsAddress reports whether s looks like a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	body := s[2:]
	if len(body) != 40 {
		return false
	}
	for _, r := range body {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
