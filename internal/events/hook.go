package events

import (
	"context"
	"errors"

	"github.com/mtlprog/rebalance/internal/plan"
)

// Hook receives every generated plan.
type Hook interface {
	Export(ctx context.Context, p plan.Plan) error
}

// MultiHook runs several hooks in order. Every hook runs even when an earlier one fails; the
// failures are joined.
type MultiHook []Hook

// Export implements Hook.
func (m MultiHook) Export(ctx context.Context, p plan.Plan) error {
	var errs []error
	for _, h := range m {
		if err := h.Export(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
