package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/plan"
)

type mockPlanGenerator struct {
	callCount atomic.Int32
	address   atomic.Value
	err       error
}

func (m *mockPlanGenerator) Generate(_ context.Context, address string, _ domain.TargetAllocation) (plan.Plan, error) {
	m.callCount.Add(1)
	m.address.Store(address)
	if m.err != nil {
		return plan.Plan{}, m.err
	}
	return plan.Plan{ID: uuid.New(), Address: address}, nil
}

type mockHook struct {
	callCount atomic.Int32
	err       error
}

func (m *mockHook) Export(_ context.Context, _ plan.Plan) error {
	m.callCount.Add(1)
	return m.err
}

func TestPlanWorkerRunsHook(t *testing.T) {
	gen := &mockPlanGenerator{}
	hook := &mockHook{}
	w := NewPlanWorker(gen, "0xabc", domain.TargetAllocation{}, 50*time.Millisecond, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := gen.callCount.Load(); got < 1 {
		t.Errorf("generate count = %d, want >= 1", got)
	}
	if gen.callCount.Load() != hook.callCount.Load() {
		t.Errorf("hook count = %d, want %d", hook.callCount.Load(), gen.callCount.Load())
	}
	if addr, _ := gen.address.Load().(string); addr != "0xabc" {
		t.Errorf("address = %q, want 0xabc", addr)
	}
}

func TestPlanWorkerSkipsHookOnGenerateError(t *testing.T) {
	gen := &mockPlanGenerator{err: errors.New("rpc down")}
	hook := &mockHook{}
	w := NewPlanWorker(gen, "0xabc", domain.TargetAllocation{}, 30*time.Millisecond, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := hook.callCount.Load(); got != 0 {
		t.Errorf("hook count = %d, want 0", got)
	}
}

func TestPlanWorkerWithoutHook(t *testing.T) {
	gen := &mockPlanGenerator{}
	w := NewPlanWorker(gen, "0xabc", domain.TargetAllocation{}, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := gen.callCount.Load(); got != 1 {
		t.Errorf("generate count = %d, want 1", got)
	}
}
