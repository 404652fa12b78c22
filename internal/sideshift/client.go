package sideshift

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mtlprog/rebalance/internal/domain"
)

// Client calls the SideShift v2 REST API.
type Client struct {
	baseURL     string
	secret      string
	affiliateID string
	httpClient  *http.Client
}

// NewClient creates a new SideShift API client.
func NewClient(baseURL, secret, affiliateID string) *Client {
	return &Client{
		baseURL:     baseURL,
		secret:      secret,
		affiliateID: affiliateID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// QuoteRequestFromSuggestion builds a quote request for a rebalance suggestion.
func QuoteRequestFromSuggestion(s domain.Suggestion) QuoteRequest {
	return QuoteRequest{
		DepositCoin:    s.DepositCoin,
		DepositNetwork: s.DepositNetwork,
		SettleCoin:     s.SettleCoin,
		SettleNetwork:  s.SettleNetwork,
		DepositAmount:  s.DepositAmount,
	}
}

// Validate checks that every quote field is set.
func (r QuoteRequest) Validate() error {
	return requireFields(
		"depositCoin", r.DepositCoin,
		"depositNetwork", r.DepositNetwork,
		"settleCoin", r.SettleCoin,
		"settleNetwork", r.SettleNetwork,
		"depositAmount", r.DepositAmount,
	)
}

// Validate checks that every quote field and the settle address are set.
func (r ShiftRequest) Validate() error {
	if err := r.quote().Validate(); err != nil {
		return err
	}
	return requireFields("settleAddress", r.SettleAddress)
}

func (r ShiftRequest) quote() QuoteRequest {
	return QuoteRequest{
		DepositCoin:    r.DepositCoin,
		DepositNetwork: r.DepositNetwork,
		SettleCoin:     r.SettleCoin,
		SettleNetwork:  r.SettleNetwork,
		DepositAmount:  r.DepositAmount,
	}
}

// requireFields takes name/value pairs and reports the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &ValidationError{Field: pairs[i]}
		}
	}
	return nil
}

// CreateQuote requests a fixed-rate quote on behalf of the user at userIP.
func (c *Client) CreateQuote(ctx context.Context, req QuoteRequest, userIP string) (Quote, error) {
	if err := req.Validate(); err != nil {
		return Quote{}, err
	}
	req.AffiliateID = c.affiliateID

	var q Quote
	if err := c.post(ctx, "/quotes", req, userIP, &q); err != nil {
		return Quote{}, fmt.Errorf("creating quote %s->%s: %w", req.DepositCoin, req.SettleCoin, err)
	}
	return q, nil
}

type fixedShiftPayload struct {
	QuoteID       string `json:"quoteId"`
	SettleAddress string `json:"settleAddress"`
	RefundAddress string `json:"refundAddress,omitempty"`
	AffiliateID   string `json:"affiliateId,omitempty"`
}

// CreateFixedShift quotes the request and executes the quote as a fixed-rate shift.
func (c *Client) CreateFixedShift(ctx context.Context, req ShiftRequest, userIP string) (Shift, error) {
	if err := req.Validate(); err != nil {
		return Shift{}, err
	}

	q, err := c.CreateQuote(ctx, req.quote(), userIP)
	if err != nil {
		return Shift{}, err
	}

	payload := fixedShiftPayload{
		QuoteID:       q.ID,
		SettleAddress: req.SettleAddress,
		RefundAddress: req.RefundAddress,
		AffiliateID:   c.affiliateID,
	}

	var s Shift
	if err := c.post(ctx, "/shifts/fixed", payload, userIP, &s); err != nil {
		return Shift{}, fmt.Errorf("creating fixed shift for quote %s: %w", q.ID, err)
	}
	return s, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, userIP string, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.secret != "" {
		req.Header.Set("x-sideshift-secret", c.secret)
	}
	if userIP != "" {
		req.Header.Set("x-user-ip", userIP)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
