package api

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/mtlprog/rebalance/internal/sideshift"
)

// CreateQuote handles POST /api/v1/quote.
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req sideshift.QuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := h.swaps.CreateQuote(r.Context(), req, clientIP(r))
	if err != nil {
		writeSwapError(w, "quote", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// CreateShift handles POST /api/v1/shift.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req sideshift.ShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s, err := h.swaps.CreateFixedShift(r.Context(), req, clientIP(r))
	if err != nil {
		writeSwapError(w, "shift", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func writeSwapError(w http.ResponseWriter, op string, err error) {
	var vErr *sideshift.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, "Missing field "+vErr.Field)
		return
	}

	slog.Error("swap request failed", "op", op, "error", err)

	var apiErr *sideshift.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":          "failed to create " + op,
			"upstreamStatus": apiErr.Status,
			"details":        apiErr.Body,
		})
		return
	}
	writeError(w, http.StatusBadGateway, "failed to create "+op)
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
