package domain

// Suggestion is a proposed swap moving USD value from a surplus asset to a deficit asset.
// Amounts are fixed-point decimal strings so they round-trip exactly through the swap API.
type Suggestion struct {
	DepositCoin           string `json:"depositCoin"`
	DepositNetwork        string `json:"depositNetwork"`
	SettleCoin            string `json:"settleCoin"`
	SettleNetwork         string `json:"settleNetwork"`
	DepositAmount         string `json:"depositAmount"`
	EstimatedSettleAmount string `json:"estimatedSettleAmount"`
	Reason                string `json:"reason,omitempty"`
}
