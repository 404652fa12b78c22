package sideshift

import (
	"fmt"
	"time"
)

// QuoteRequest asks for a fixed-rate quote.
type QuoteRequest struct {
	DepositCoin    string `json:"depositCoin"`
	DepositNetwork string `json:"depositNetwork"`
	SettleCoin     string `json:"settleCoin"`
	SettleNetwork  string `json:"settleNetwork"`
	DepositAmount  string `json:"depositAmount"`
	AffiliateID    string `json:"affiliateId,omitempty"`
}

// ShiftRequest asks for a fixed-rate shift. The quote fields are requested first; the resulting
// quote is then executed against SettleAddress.
type ShiftRequest struct {
	DepositCoin    string `json:"depositCoin"`
	DepositNetwork string `json:"depositNetwork"`
	SettleCoin     string `json:"settleCoin"`
	SettleNetwork  string `json:"settleNetwork"`
	DepositAmount  string `json:"depositAmount"`
	SettleAddress  string `json:"settleAddress"`
	RefundAddress  string `json:"refundAddress,omitempty"`
}

// Quote is a fixed-rate quote returned by SideShift.
type Quote struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	DepositCoin    string    `json:"depositCoin"`
	DepositNetwork string    `json:"depositNetwork"`
	SettleCoin     string    `json:"settleCoin"`
	SettleNetwork  string    `json:"settleNetwork"`
	ExpiresAt      time.Time `json:"expiresAt"`
	DepositAmount  string    `json:"depositAmount"`
	SettleAmount   string    `json:"settleAmount"`
	Rate           string    `json:"rate"`
	AffiliateID    string    `json:"affiliateId,omitempty"`
}

// Shift is a created shift with its deposit instructions.
type Shift struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	DepositCoin    string    `json:"depositCoin"`
	DepositNetwork string    `json:"depositNetwork"`
	SettleCoin     string    `json:"settleCoin"`
	SettleNetwork  string    `json:"settleNetwork"`
	DepositAddress string    `json:"depositAddress"`
	DepositMemo    string    `json:"depositMemo,omitempty"`
	SettleAddress  string    `json:"settleAddress"`
	DepositAmount  string    `json:"depositAmount"`
	SettleAmount   string    `json:"settleAmount"`
	ExpiresAt      time.Time `json:"expiresAt"`
	Status         string    `json:"status"`
	QuoteID        string    `json:"quoteId,omitempty"`
	Rate           string    `json:"rate"`
}

// ValidationError reports a required request field that is empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing field %s", e.Field)
}

// APIError is a non-2xx response from SideShift.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SideShift HTTP %d: %s", e.Status, e.Body)
}
