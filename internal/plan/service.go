package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/rebalance"
)

// HoldingsFetcher returns priced holdings for a wallet address.
type HoldingsFetcher interface {
	FetchHoldings(ctx context.Context, address string) ([]domain.Holding, error)
}

// Service builds, stores and retrieves rebalance plans.
type Service struct {
	holdings HoldingsFetcher
	repo     Repository
	engine   rebalance.Engine
}

// NewService creates a new plan Service using tolerance as the default USD tolerance.
func NewService(holdings HoldingsFetcher, repo Repository, tolerance decimal.Decimal) *Service {
	return &Service{
		holdings: holdings,
		repo:     repo,
		engine:   rebalance.NewEngine(tolerance),
	}
}

// Tolerance returns the default tolerance applied by Compute and Generate.
func (s *Service) Tolerance() decimal.Decimal {
	return s.engine.Tolerance
}

// Compute builds an unsaved plan from caller-supplied holdings.
func (s *Service) Compute(holdings []domain.Holding, targets domain.TargetAllocation) Plan {
	return build(s.engine, "", holdings, targets)
}

// ComputeWithTolerance is Compute with a per-call tolerance.
func (s *Service) ComputeWithTolerance(holdings []domain.Holding, targets domain.TargetAllocation, tolerance decimal.Decimal) Plan {
	return build(rebalance.NewEngine(tolerance), "", holdings, targets)
}

// Generate fetches the wallet's holdings, computes a plan and stores it.
func (s *Service) Generate(ctx context.Context, address string, targets domain.TargetAllocation) (Plan, error) {
	holdings, err := s.holdings.FetchHoldings(ctx, address)
	if err != nil {
		return Plan{}, fmt.Errorf("fetching holdings: %w", err)
	}

	p := build(s.engine, address, holdings, targets)

	if err := s.repo.Save(ctx, p); err != nil {
		return Plan{}, fmt.Errorf("saving plan: %w", err)
	}

	return p, nil
}

// GetLatest retrieves the most recent plan, optionally restricted to one address.
func (s *Service) GetLatest(ctx context.Context, address string) (*Plan, error) {
	return s.repo.GetLatest(ctx, address)
}

// GetByID retrieves a plan by its ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves recent plans, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Plan, error) {
	return s.repo.List(ctx, limit)
}

func build(engine rebalance.Engine, address string, holdings []domain.Holding, targets domain.TargetAllocation) Plan {
	res := engine.Plan(holdings, targets)
	return Plan{
		ID:          uuid.New(),
		Address:     address,
		Tolerance:   engine.Tolerance,
		TotalUSD:    res.TotalUSD,
		Holdings:    holdings,
		Allocations: res.Allocations,
		Targets:     targets,
		Comparison:  res.Comparison,
		Suggestions: res.Suggestions,
		CreatedAt:   time.Now().UTC(),
	}
}
