package plan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
)

// Plan is one stored rebalance computation for a wallet.
type Plan struct {
	ID          uuid.UUID                 `json:"id"`
	Address     string                    `json:"address,omitempty"`
	Tolerance   decimal.Decimal           `json:"tolerance"`
	TotalUSD    decimal.Decimal           `json:"totalUsd"`
	Holdings    []domain.Holding          `json:"holdings"`
	Allocations []domain.Allocation       `json:"allocations"`
	Targets     domain.TargetAllocation   `json:"targets"`
	Comparison  []domain.ComparisonRecord `json:"comparison"`
	Suggestions []domain.Suggestion       `json:"suggestions"`
	CreatedAt   time.Time                 `json:"createdAt"`
}
