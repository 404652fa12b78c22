package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseTargets parses a "SYM:PCT,SYM:PCT" list into a TargetAllocation.
// Symbols are upper-cased; an empty string yields an empty allocation.
func ParseTargets(s string) (TargetAllocation, error) {
	targets := TargetAllocation{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbol, pct, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("target %q: expected SYMBOL:PERCENT", part)
		}
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			return nil, fmt.Errorf("target %q: empty symbol", part)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return nil, fmt.Errorf("target %q: invalid percent: %w", part, err)
		}
		if err := ValidatePercent(d); err != nil {
			return nil, fmt.Errorf("target %q: %w", part, err)
		}
		targets[symbol] = d
	}
	return targets, nil
}

// ValidatePercent checks that a target percent lies in [0, 100].
func ValidatePercent(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("percent %s out of range [0, 100]", pct)
	}
	return nil
}
