package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested plan was not found.
var ErrNotFound = errors.New("plan not found")

const defaultListLimit = 30

// Repository defines persistent storage for plans.
type Repository interface {
	Save(ctx context.Context, p Plan) error
	// GetLatest returns the newest plan for address, or across all addresses when address is empty.
	GetLatest(ctx context.Context, address string) (*Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	List(ctx context.Context, limit int) ([]Plan, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL plan repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, p Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO rebalance_plans (id, address, data, created_at)
		 VALUES ($1, $2, $3::jsonb, $4)`,
		p.ID, p.Address, data, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, address string) (*Plan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT data FROM rebalance_plans
		 WHERE $1 = '' OR address = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, address)
	p, err := scanPlan(row)
	if err != nil {
		return nil, fmt.Errorf("getting latest plan: %w", err)
	}
	return p, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	row := r.pool.QueryRow(ctx, `SELECT data FROM rebalance_plans WHERE id = $1`, id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, fmt.Errorf("getting plan %s: %w", id, err)
	}
	return p, nil
}

func (r *PgRepository) List(ctx context.Context, limit int) ([]Plan, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.pool.Query(ctx,
		`SELECT data FROM rebalance_plans ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &p, nil
}

// MemoryRepository keeps plans in process memory, newest last.
type MemoryRepository struct {
	mu    sync.RWMutex
	plans []Plan
}

// NewMemoryRepository creates an empty in-memory plan repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(_ context.Context, p Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, p)
	return nil
}

func (r *MemoryRepository) GetLatest(_ context.Context, address string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.plans) - 1; i >= 0; i-- {
		if address == "" || r.plans[i].Address == address {
			p := r.plans[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := slices.IndexFunc(r.plans, func(p Plan) bool { return p.ID == id })
	if idx < 0 {
		return nil, ErrNotFound
	}
	p := r.plans[idx]
	return &p, nil
}

func (r *MemoryRepository) List(_ context.Context, limit int) ([]Plan, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plan, 0, min(limit, len(r.plans)))
	for i := len(r.plans) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.plans[i])
	}
	return out, nil
}
