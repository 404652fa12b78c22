package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/rebalance/internal/config"
	"github.com/mtlprog/rebalance/internal/domain"
	"github.com/mtlprog/rebalance/internal/export"
	"github.com/mtlprog/rebalance/internal/plan"
)

type suggestOptions struct {
	holdingsPath string
	targets      string
	tolerance    string
	xlsxPath     string
}

func suggest(c *cli.Context) error {
	return runSuggest(c.Context, suggestOptions{
		holdingsPath: c.String("holdings"),
		targets:      c.String("targets"),
		tolerance:    c.String("tolerance"),
		xlsxPath:     c.String("xlsx"),
	}, config.Load().ToleranceUSD, c.App.Writer)
}

// runSuggest computes a plan from local files, prints it as JSON and optionally saves it as xlsx.
func runSuggest(ctx context.Context, opts suggestOptions, defaultTolerance decimal.Decimal, out io.Writer) error {
	holdings, err := readHoldings(opts.holdingsPath)
	if err != nil {
		return err
	}
	targets, err := readTargets(opts.targets)
	if err != nil {
		return err
	}

	tolerance := defaultTolerance
	if opts.tolerance != "" {
		tolerance, err = decimal.NewFromString(opts.tolerance)
		if err != nil {
			return fmt.Errorf("invalid tolerance %q: %w", opts.tolerance, err)
		}
		if tolerance.IsNegative() {
			return fmt.Errorf("tolerance must not be negative")
		}
	}

	p := plan.NewService(nil, nil, tolerance).Compute(holdings, targets)

	if opts.xlsxPath != "" {
		if err := export.NewService(export.NewXLSXWriter(opts.xlsxPath)).Export(ctx, p); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func readHoldings(path string) ([]domain.Holding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading holdings: %w", err)
	}
	var holdings []domain.Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		return nil, fmt.Errorf("parsing holdings %s: %w", path, err)
	}
	return domain.NormalizeHoldings(holdings), nil
}

// readTargets reads a JSON object file when arg names an existing file, else parses arg as SYM:PCT,...
func readTargets(arg string) (domain.TargetAllocation, error) {
	if _, err := os.Stat(arg); err != nil {
		return domain.ParseTargets(arg)
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading targets: %w", err)
	}
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing targets %s: %w", arg, err)
	}

	targets := make(domain.TargetAllocation, len(raw))
	for sym, pct := range raw {
		if err := domain.ValidatePercent(pct); err != nil {
			return nil, fmt.Errorf("target %s: %w", sym, err)
		}
		targets[strings.ToUpper(strings.TrimSpace(sym))] = pct
	}
	return targets, nil
}
