package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/plan"
)

// Sheet names written for every plan.
const (
	ComparisonSheet  = "COMPARISON"
	SuggestionsSheet = "SUGGESTIONS"
	HistorySheet     = "HISTORY"
)

// Sheet is a named grid of cell values; the first row is the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// SheetWriter replaces the contents of the given sheets at some spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, sheets []Sheet) error
}

// HistoryWriter is implemented by destinations that keep a running log of plans.
type HistoryWriter interface {
	AppendHistory(ctx context.Context, header, row []any) error
}

// Service renders plans into sheets and delegates writing to a SheetWriter.
type Service struct {
	writer SheetWriter
}

// NewService creates a new export Service.
func NewService(writer SheetWriter) *Service {
	return &Service{writer: writer}
}

// Export writes the plan's comparison and suggestion sheets, then appends a history row when the
// writer supports it. Implements worker.AfterPlanHook.
func (s *Service) Export(ctx context.Context, p plan.Plan) error {
	if err := s.writer.Write(ctx, BuildSheets(p)); err != nil {
		return fmt.Errorf("writing plan %s: %w", p.ID, err)
	}

	if h, ok := s.writer.(HistoryWriter); ok {
		if err := h.AppendHistory(ctx, historyHeader, historyRow(p)); err != nil {
			return fmt.Errorf("appending history for plan %s: %w", p.ID, err)
		}
	}
	return nil
}

// BuildSheets renders the comparison and suggestion sheets for a plan.
func BuildSheets(p plan.Plan) []Sheet {
	return []Sheet{
		{Name: ComparisonSheet, Rows: buildComparison(p.Comparison)},
		{Name: SuggestionsSheet, Rows: buildSuggestions(p.Suggestions)},
	}
}

// buildComparison columns: Symbol | Current % | Target % | Current USD | Target USD | Over/Under USD
func buildComparison(records []domain.ComparisonRecord) [][]any {
	data := make([][]any, 0, len(records)+1)
	data = append(data, []any{"Symbol", "Current %", "Target %", "Current USD", "Target USD", "Over/Under USD"})
	for _, r := range records {
		data = append(data, []any{
			r.Symbol,
			toFloat(r.CurrentPercent.Round(2)),
			toFloat(r.TargetPercent.Round(2)),
			toFloat(r.CurrentUSD.Round(2)),
			toFloat(r.TargetUSD.Round(2)),
			toFloat(r.OverUnderUSD.Round(2)),
		})
	}
	return data
}

// buildSuggestions columns: N | Deposit | Deposit Network | Settle | Settle Network | Deposit Amount | Est. Settle | Reason
func buildSuggestions(suggestions []domain.Suggestion) [][]any {
	header := []any{"N", "Deposit", "Deposit Network", "Settle", "Settle Network", "Deposit Amount", "Est. Settle", "Reason"}
	rows := lo.Map(suggestions, func(s domain.Suggestion, i int) []any {
		return []any{
			float64(i + 1),
			s.DepositCoin,
			s.DepositNetwork,
			s.SettleCoin,
			s.SettleNetwork,
			s.DepositAmount,
			s.EstimatedSettleAmount,
			s.Reason,
		}
	})
	return append([][]any{header}, rows...)
}

var historyHeader = []any{"Date", "Plan", "Address", "Total USD", "Tolerance", "Suggestions"}

func historyRow(p plan.Plan) []any {
	return []any{
		p.CreatedAt.UTC().Format(time.DateTime),
		p.ID.String(),
		p.Address,
		toFloat(p.TotalUSD.Round(2)),
		toFloat(p.Tolerance),
		float64(len(p.Suggestions)),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
