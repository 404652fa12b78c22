package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mtlprog/rebalance/internal/chain"
	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/plan"
	"github.com/mtlprog/rebalance/internal/sideshift"
)

const maxBodyBytes = 1 << 20

// HoldingsFetcher returns priced holdings for a wallet address.
type HoldingsFetcher interface {
	FetchHoldings(ctx context.Context, address string) ([]domain.Holding, error)
}

// SwapClient creates swap quotes and shifts.
type SwapClient interface {
	CreateQuote(ctx context.Context, req sideshift.QuoteRequest, userIP string) (sideshift.Quote, error)
	CreateFixedShift(ctx context.Context, req sideshift.ShiftRequest, userIP string) (sideshift.Shift, error)
}

// Handler provides HTTP endpoints for the rebalancing API.
type Handler struct {
	plans    *plan.Service
	holdings HoldingsFetcher
	swaps    SwapClient
}

// NewHandler creates a new API handler.
func NewHandler(plans *plan.Service, holdings HoldingsFetcher, swaps SwapClient) *Handler {
	return &Handler{plans: plans, holdings: holdings, swaps: swaps}
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generatePlanRequest struct {
	Address string                  `json:"address"`
	Targets domain.TargetAllocation `json:"targets"`
}

// GeneratePlan handles POST /api/v1/plans/generate.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !chain.IsAddress(req.Address) {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}
	targets, err := normalizeTargets(req.Targets)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.plans.Generate(r.Context(), req.Address, targets)
	if err != nil {
		slog.Error("failed to generate plan", "address", req.Address, "error", err)
		writeError(w, http.StatusBadGateway, "failed to generate plan")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetLatestPlan handles GET /api/v1/plans/latest, optionally filtered by ?address=.
func (h *Handler) GetLatestPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.plans.GetLatest(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no plans found")
			return
		}
		slog.Error("failed to get latest plan", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetPlan handles GET /api/v1/plans/{id}.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	p, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		slog.Error("failed to get plan", "id", idStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListPlans handles GET /api/v1/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 100
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	plans, err := h.plans.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list plans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if plans == nil {
		plans = []plan.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// decodeBody decodes a JSON request body into dst, writing a 400 and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
