package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/holdingpro/holding/internal/config"
	"github.com/holdingpro/holding/pkg/aggregation"
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/finance"
	"github.com/holdingpro/holding/pkg/ledger"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

type reportCmd struct {
	out    io.Writer
	file   string
	config string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "summarize a CSV ledger per unit" }
func (*reportCmd) Usage() string {
	return `ledgerctl report -f <ledger.csv> [-config application.yaml]

  Reads rows of unit,kind,category,amount,date[,status[,note]] after a header
  line and prints income, expense, net and valuation per unit.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "CSV ledger to read")
	f.StringVar(&c.config, "config", "./config/application.yaml", "configuration file with the catalog and valuation multiplier")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f is required")
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load(c.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	multiplier, err := cfg.ValuationMultiplier()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	file, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	catalog := cfg.TransactionCatalog()
	records, err := readRecords(file, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	l := ledger.New(catalog)
	if _, err := l.Append(records...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	all := l.Query(ledger.All)
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Unit\tIncome\tExpense\tNet\tValuation\t")
	for _, s := range aggregation.UnitSummaries(all, catalog.Units, multiplier) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", s.Unit,
			finance.FormatAmount(s.Income, cfg.Currency),
			finance.FormatAmount(s.Expense, cfg.Currency),
			finance.FormatAmount(s.Net, cfg.Currency),
			finance.FormatAmount(s.Valuation, cfg.Currency))
	}
	fmt.Fprintf(w, "SUM\t%s\t%s\t%s\t%s\t\n",
		finance.FormatAmount(aggregation.Total(all, transaction.Income), cfg.Currency),
		finance.FormatAmount(aggregation.Total(all, transaction.Expense), cfg.Currency),
		finance.FormatAmount(aggregation.Net(all), cfg.Currency),
		finance.FormatAmount(aggregation.ValuationEstimate(all, multiplier), cfg.Currency))
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// readRecords parses the CSV ledger, skipping the header line.
func readRecords(r io.Reader, catalog transaction.Catalog) ([]transaction.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records := make([]transaction.Transaction, 0)
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("line %d: expected at least 5 columns, got %d", line, len(row))
		}
		record, err := parseRow(row, catalog)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string, catalog transaction.Catalog) (transaction.Transaction, error) {
	unit, err := catalog.ResolveUnit(row[0])
	if err != nil {
		return transaction.Transaction{}, err
	}
	kind, err := transaction.ParseKind(row[1])
	if err != nil {
		return transaction.Transaction{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("invalid amount %q", row[3])
	}
	on, err := date.Parse(strings.TrimSpace(row[4]))
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("invalid date %q", row[4])
	}
	record := transaction.Transaction{Unit: unit, Kind: kind, Category: strings.TrimSpace(row[2]), Amount: amount, Date: on}
	if len(row) > 5 {
		if record.Status, err = transaction.ParseStatus(row[5]); err != nil {
			return transaction.Transaction{}, err
		}
	}
	if len(row) > 6 {
		record.Note = strings.TrimSpace(row[6])
	}
	return record, nil
}
