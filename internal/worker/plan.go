package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/plan"
)

// PlanGenerator defines the interface for generating and storing plans.
type PlanGenerator interface {
	Generate(ctx context.Context, address string, targets domain.TargetAllocation) (plan.Plan, error)
}

// AfterPlanHook is called after each successful plan generation.
type AfterPlanHook interface {
	Export(ctx context.Context, p plan.Plan) error
}

// PlanWorker periodically generates a rebalance plan for one watched wallet.
type PlanWorker struct {
	generator PlanGenerator
	address   string
	targets   domain.TargetAllocation
	interval  time.Duration
	hook      AfterPlanHook // optional
}

// NewPlanWorker creates a new PlanWorker with an optional post-generation hook.
func NewPlanWorker(generator PlanGenerator, address string, targets domain.TargetAllocation, interval time.Duration, hook AfterPlanHook) *PlanWorker {
	return &PlanWorker{
		generator: generator,
		address:   address,
		targets:   targets,
		interval:  interval,
		hook:      hook,
	}
}

// Run starts the plan worker loop. It blocks until the context is cancelled.
func (w *PlanWorker) Run(ctx context.Context) {
	runPeriodic(ctx, "PlanWorker", w.interval, w.generate)
}

func (w *PlanWorker) generate(ctx context.Context) error {
	p, err := w.generator.Generate(ctx, w.address, w.targets)
	if err != nil {
		return err
	}
	slog.Info("PlanWorker: plan stored", "id", p.ID, "address", p.Address, "suggestions", len(p.Suggestions))

	// Hook failures are logged, not returned: the plan itself is already stored.
	if w.hook != nil {
		if err := w.hook.Export(ctx, p); err != nil {
			slog.Error("PlanWorker: export hook failed", "error", err)
		}
	}
	return nil
}
