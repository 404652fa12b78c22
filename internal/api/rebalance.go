package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/chain"
	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/rebalance"
)

type holdingsRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

type rebalanceRequest struct {
	Holdings  []domain.Holding        `json:"holdings"`
	Targets   domain.TargetAllocation `json:"targets"`
	Tolerance *decimal.Decimal        `json:"tolerance,omitempty"`
}

type allocationResponse struct {
	TotalUSD    decimal.Decimal     `json:"totalUsd"`
	Allocations []domain.Allocation `json:"allocations"`
}

type rebalanceResponse struct {
	TotalUSD    decimal.Decimal           `json:"totalUsd"`
	Tolerance   decimal.Decimal           `json:"tolerance"`
	Allocations []domain.Allocation       `json:"allocations"`
	Comparison  []domain.ComparisonRecord `json:"comparison"`
	Suggestions []domain.Suggestion       `json:"suggestions"`
}

type portfolioResponse struct {
	Address     string              `json:"address"`
	TotalUSD    decimal.Decimal     `json:"totalUsd"`
	Holdings    []domain.Holding    `json:"holdings"`
	Allocations []domain.Allocation `json:"allocations"`
}

// Allocation handles POST /api/v1/allocation.
func (h *Handler) Allocation(w http.ResponseWriter, r *http.Request) {
	var req holdingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	holdings, err := normalizeHoldings(req.Holdings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	allocations := rebalance.ComputeAllocation(holdings)
	writeJSON(w, http.StatusOK, allocationResponse{
		TotalUSD:    rebalance.TotalUSD(allocations),
		Allocations: allocations,
	})
}

// Compare handles POST /api/v1/compare.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	holdings, targets, ok := validateRebalanceInput(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rebalance.Compare(holdings, targets))
}

// Rebalance handles POST /api/v1/rebalance.
func (h *Handler) Rebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	holdings, targets, ok := validateRebalanceInput(w, req)
	if !ok {
		return
	}

	tolerance := h.plans.Tolerance()
	if req.Tolerance != nil {
		if req.Tolerance.IsNegative() {
			writeError(w, http.StatusBadRequest, "tolerance must not be negative")
			return
		}
		tolerance = *req.Tolerance
	}

	p := h.plans.ComputeWithTolerance(holdings, targets, tolerance)
	writeJSON(w, http.StatusOK, rebalanceResponse{
		TotalUSD:    p.TotalUSD,
		Tolerance:   p.Tolerance,
		Allocations: p.Allocations,
		Comparison:  p.Comparison,
		Suggestions: p.Suggestions,
	})
}

// GetPortfolio handles GET /api/v1/portfolio/{address}.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !chain.IsAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	holdings, err := h.holdings.FetchHoldings(r.Context(), address)
	if err != nil {
		slog.Error("failed to fetch holdings", "address", address, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch holdings")
		return
	}

	allocations := rebalance.ComputeAllocation(holdings)
	writeJSON(w, http.StatusOK, portfolioResponse{
		Address:     address,
		TotalUSD:    rebalance.TotalUSD(allocations),
		Holdings:    holdings,
		Allocations: allocations,
	})
}

func validateRebalanceInput(w http.ResponseWriter, req rebalanceRequest) ([]domain.Holding, domain.TargetAllocation, bool) {
	holdings, err := normalizeHoldings(req.Holdings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	targets, err := normalizeTargets(req.Targets)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return holdings, targets, true
}

// normalizeHoldings rejects malformed holdings and applies domain.NormalizeHoldings.
func normalizeHoldings(holdings []domain.Holding) ([]domain.Holding, error) {
	for i, hl := range holdings {
		if strings.TrimSpace(hl.Symbol) == "" {
			return nil, fmt.Errorf("holdings[%d]: symbol is required", i)
		}
		if hl.Quantity.IsNegative() || hl.UnitPriceUSD.IsNegative() {
			return nil, fmt.Errorf("holdings[%d]: quantity and price must not be negative", i)
		}
	}
	return domain.NormalizeHoldings(holdings), nil
}

// normalizeTargets upper-cases symbols and checks every percent lies in [0, 100].
func normalizeTargets(targets domain.TargetAllocation) (domain.TargetAllocation, error) {
	out := make(domain.TargetAllocation, len(targets))
	for sym, pct := range targets {
		key := strings.ToUpper(strings.TrimSpace(sym))
		if key == "" {
			return nil, fmt.Errorf("targets: empty symbol")
		}
		if err := domain.ValidatePercent(pct); err != nil {
			return nil, fmt.Errorf("targets[%s]: %w", sym, err)
		}
		out[key] = out[key].Add(pct)
	}
	return out, nil
}
