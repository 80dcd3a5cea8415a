package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/recurrence"
)

type expandCmd struct {
	out   io.Writer
	date  string
	count int
}

func (*expandCmd) Name() string     { return "expand" }
func (*expandCmd) Synopsis() string { return "print the dates of a monthly recurring entry" }
func (*expandCmd) Usage() string {
	return `ledgerctl expand -d <date> [-n count]

  Prints one date per line, advancing by one month and clamping to the end of shorter months.
`
}

func (c *expandCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "first date (YYYY-MM-DD)")
	f.IntVar(&c.count, "n", 12, "number of occurrences")
}

func (c *expandCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	base, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid date %q: %v\n", c.date, err)
		return subcommands.ExitUsageError
	}
	occurrences, err := recurrence.Occurrences(base, recurrence.Policy{Count: c.count, Interval: recurrence.Month})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	for d := range occurrences {
		fmt.Fprintln(c.out, d)
	}
	return subcommands.ExitSuccess
}
