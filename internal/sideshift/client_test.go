package sideshift

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtlprog/rebalance/internal/domain"
)

func validQuoteRequest() QuoteRequest {
	return QuoteRequest{
		DepositCoin:    "ETH",
		DepositNetwork: "ethereum",
		SettleCoin:     "USDC",
		SettleNetwork:  "ethereum",
		DepositAmount:  "0.08375000",
	}
}

func TestCreateQuote(t *testing.T) {
	var got map[string]string
	var secret, userIP string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/quotes" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		secret = r.Header.Get("x-sideshift-secret")
		userIP = r.Header.Get("x-user-ip")
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"q-1","depositCoin":"ETH","settleCoin":"USDC","depositAmount":"0.08375000","settleAmount":"267.9","rate":"3198.8"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "s3cret", "aff-9")
	q, err := c.CreateQuote(context.Background(), validQuoteRequest(), "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.ID != "q-1" || q.SettleAmount != "267.9" {
		t.Errorf("quote = %+v", q)
	}
	if secret != "s3cret" {
		t.Errorf("secret header = %q", secret)
	}
	if userIP != "203.0.113.7" {
		t.Errorf("user ip header = %q", userIP)
	}
	if got["affiliateId"] != "aff-9" {
		t.Errorf("affiliateId = %q, want aff-9", got["affiliateId"])
	}
	if got["depositAmount"] != "0.08375000" {
		t.Errorf("depositAmount = %q", got["depositAmount"])
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*QuoteRequest)
		field string
	}{
		{"deposit coin", func(r *QuoteRequest) { r.DepositCoin = "" }, "depositCoin"},
		{"deposit network", func(r *QuoteRequest) { r.DepositNetwork = "" }, "depositNetwork"},
		{"settle coin", func(r *QuoteRequest) { r.SettleCoin = "" }, "settleCoin"},
		{"settle network", func(r *QuoteRequest) { r.SettleNetwork = "" }, "settleNetwork"},
		{"amount", func(r *QuoteRequest) { r.DepositAmount = "" }, "depositAmount"},
	}

	c := NewClient("http://unused.invalid", "", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validQuoteRequest()
			tt.edit(&req)
			_, err := c.CreateQuote(context.Background(), req, "")
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestCreateQuoteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Amount too low"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "")
	_, err := c.CreateQuote(context.Background(), validQuoteRequest(), "")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", apiErr.Status)
	}
}

func TestCreateFixedShift(t *testing.T) {
	var shiftPayload map[string]string
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/quotes":
			w.Write([]byte(`{"id":"q-42"}`))
		case "/shifts/fixed":
			json.NewDecoder(r.Body).Decode(&shiftPayload)
			w.Write([]byte(`{"id":"s-1","quoteId":"q-42","depositAddress":"0xdeposit","status":"waiting"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "aff")
	req := ShiftRequest{
		DepositCoin:    "ETH",
		DepositNetwork: "ethereum",
		SettleCoin:     "BTC",
		SettleNetwork:  "bitcoin",
		DepositAmount:  "0.28750000",
		SettleAddress:  "bc1qsettle",
		RefundAddress:  "0xrefund",
	}
	s, err := c.CreateFixedShift(context.Background(), req, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(paths) != 2 || paths[0] != "/quotes" || paths[1] != "/shifts/fixed" {
		t.Errorf("paths = %v", paths)
	}
	if s.DepositAddress != "0xdeposit" || s.Status != "waiting" {
		t.Errorf("shift = %+v", s)
	}
	if shiftPayload["quoteId"] != "q-42" {
		t.Errorf("quoteId = %q", shiftPayload["quoteId"])
	}
	if shiftPayload["settleAddress"] != "bc1qsettle" || shiftPayload["refundAddress"] != "0xrefund" {
		t.Errorf("payload = %v", shiftPayload)
	}
	if shiftPayload["affiliateId"] != "aff" {
		t.Errorf("affiliateId = %q", shiftPayload["affiliateId"])
	}
}

func TestCreateFixedShiftRequiresSettleAddress(t *testing.T) {
	c := NewClient("http://unused.invalid", "", "")
	req := ShiftRequest{
		DepositCoin:    "ETH",
		DepositNetwork: "ethereum",
		SettleCoin:     "BTC",
		SettleNetwork:  "bitcoin",
		DepositAmount:  "1",
	}
	_, err := c.CreateFixedShift(context.Background(), req, "")

	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "settleAddress" {
		t.Errorf("error = %v, want missing settleAddress", err)
	}
}

func TestQuoteRequestFromSuggestion(t *testing.T) {
	s := domain.Suggestion{
		DepositCoin:           "ETH",
		DepositNetwork:        "ethereum",
		SettleCoin:            "BTC",
		SettleNetwork:         "bitcoin",
		DepositAmount:         "0.28750000",
		EstimatedSettleAmount: "0.01314286",
	}
	req := QuoteRequestFromSuggestion(s)
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if req.DepositAmount != "0.28750000" || req.SettleNetwork != "bitcoin" {
		t.Errorf("req = %+v", req)
	}
}
