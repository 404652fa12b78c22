package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/plan"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPlan() plan.Plan {
	return plan.Plan{
		ID:        uuid.MustParse("6f1c2a4e-8d3b-4c1a-9e2f-0a1b2c3d4e5f"),
		Address:   "0xabc",
		Tolerance: d("1"),
		TotalUSD:  d("8840"),
		Comparison: []domain.ComparisonRecord{
			{Symbol: "ETH", CurrentPercent: d("43.438914"), TargetPercent: d("30"), CurrentUSD: d("3840"), TargetUSD: d("2652"), OverUnderUSD: d("1188")},
			{Symbol: "BTC", CurrentPercent: d("39.592760"), TargetPercent: d("50"), CurrentUSD: d("3500"), TargetUSD: d("4420"), OverUnderUSD: d("-920")},
		},
		Suggestions: []domain.Suggestion{
			{DepositCoin: "ETH", DepositNetwork: "ethereum", SettleCoin: "BTC", SettleNetwork: "bitcoin", DepositAmount: "0.28750000", EstimatedSettleAmount: "0.01314286", Reason: "Rebalance: move ~$920.00 from ETH to BTC"},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

type mockWriter struct {
	written []Sheet
	err     error
}

func (m *mockWriter) Write(_ context.Context, sheets []Sheet) error {
	m.written = sheets
	return m.err
}

type mockHistoryWriter struct {
	mockWriter
	header, row []any
}

func (m *mockHistoryWriter) AppendHistory(_ context.Context, header, row []any) error {
	m.header, m.row = header, row
	return nil
}

func TestBuildSheets(t *testing.T) {
	sheets := BuildSheets(testPlan())
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}

	cmp := sheets[0]
	if cmp.Name != ComparisonSheet {
		t.Errorf("sheet[0] = %q, want %q", cmp.Name, ComparisonSheet)
	}
	if len(cmp.Rows) != 3 {
		t.Fatalf("comparison rows = %d, want 3", len(cmp.Rows))
	}
	if cmp.Rows[1][0] != "ETH" {
		t.Errorf("first symbol = %v, want ETH", cmp.Rows[1][0])
	}
	if cmp.Rows[1][1] != 43.44 {
		t.Errorf("current %% = %v, want 43.44", cmp.Rows[1][1])
	}
	if cmp.Rows[2][5] != -920.0 {
		t.Errorf("over/under = %v, want -920", cmp.Rows[2][5])
	}

	sug := sheets[1]
	if sug.Name != SuggestionsSheet {
		t.Errorf("sheet[1] = %q, want %q", sug.Name, SuggestionsSheet)
	}
	if len(sug.Rows) != 2 {
		t.Fatalf("suggestion rows = %d, want 2", len(sug.Rows))
	}
	if sug.Rows[1][0] != 1.0 || sug.Rows[1][5] != "0.28750000" {
		t.Errorf("suggestion row = %v", sug.Rows[1])
	}
}

func TestBuildSheetsEmptyPlan(t *testing.T) {
	sheets := BuildSheets(plan.Plan{})
	for _, s := range sheets {
		if len(s.Rows) != 1 {
			t.Errorf("%s: expected header only, got %d rows", s.Name, len(s.Rows))
		}
	}
}

func TestExportWritesSheets(t *testing.T) {
	w := &mockWriter{}
	if err := NewService(w).Export(context.Background(), testPlan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.written) != 2 {
		t.Errorf("written sheets = %d, want 2", len(w.written))
	}
}

func TestExportAppendsHistory(t *testing.T) {
	w := &mockHistoryWriter{}
	if err := NewService(w).Export(context.Background(), testPlan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.header) != len(w.row) {
		t.Fatalf("header has %d columns, row has %d", len(w.header), len(w.row))
	}
	if w.row[0] != "2026-03-01 12:30:00" {
		t.Errorf("date = %v", w.row[0])
	}
	if w.row[1] != "6f1c2a4e-8d3b-4c1a-9e2f-0a1b2c3d4e5f" {
		t.Errorf("plan id = %v", w.row[1])
	}
	if w.row[5] != 1.0 {
		t.Errorf("suggestions = %v, want 1", w.row[5])
	}
}

func TestExportWriterError(t *testing.T) {
	w := &mockWriter{err: errors.New("quota exceeded")}
	if err := NewService(w).Export(context.Background(), testPlan()); err == nil {
		t.Fatal("expected error")
	}
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	if err := NewService(NewXLSXWriter(path)).Export(context.Background(), testPlan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) != 2 || names[0] != ComparisonSheet || names[1] != SuggestionsSheet {
		t.Fatalf("sheets = %v", names)
	}

	rows, err := f.GetRows(SuggestionsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][1] != "Deposit" || rows[1][1] != "ETH" || rows[1][5] != "0.28750000" {
		t.Errorf("rows = %v", rows)
	}
}
