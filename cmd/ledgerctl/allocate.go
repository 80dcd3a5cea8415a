package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/holdingpro/holding/pkg/allocation"
	"github.com/holdingpro/holding/pkg/finance"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

type allocateCmd struct {
	out      io.Writer
	amount   string
	weights  string
	currency string
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "split a shared cost across units" }
func (*allocateCmd) Usage() string {
	return `ledgerctl allocate -amount <amount> -w <unit=percent,...> [-currency code]

  Prints the share of each unit. Weights must sum to exactly 100.
`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "total amount to allocate")
	f.StringVar(&c.weights, "w", "", "comma separated unit=percent weights")
	f.StringVar(&c.currency, "currency", "TRY", "currency used to display amounts")
}

func (c *allocateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", c.amount)
		return subcommands.ExitUsageError
	}
	policy, err := parseWeights(c.weights)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	shares, err := allocation.Allocate(amount, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, s := range shares {
		fmt.Fprintf(c.out, "%s\t%s\n", s.Unit, finance.FormatAmount(s.Amount, c.currency))
	}
	return subcommands.ExitSuccess
}

// parseWeights reads "Godson=33,Fynix=33,Prifa=34".
func parseWeights(s string) (allocation.Policy, error) {
	policy := allocation.Policy{}
	for _, pair := range strings.Split(s, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		unit, percent, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("weight %q is not unit=percent", pair)
		}
		p, err := decimal.NewFromString(strings.TrimSpace(percent))
		if err != nil {
			return nil, fmt.Errorf("invalid percent in %q", pair)
		}
		policy = append(policy, allocation.Weight{Unit: transaction.Unit(strings.TrimSpace(unit)), Percent: p})
	}
	return policy, nil
}
