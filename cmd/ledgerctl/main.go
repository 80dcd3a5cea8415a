// Command ledgerctl runs the ledger computations offline: recurrence
// expansion, cost allocation and a per-unit report of a CSV ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

var commands = []subcommands.Command{
	&expandCmd{out: os.Stdout},
	&allocateCmd{out: os.Stdout},
	&reportCmd{out: os.Stdout},
}

func main() {
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
