package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

func TestExpandCmd(t *testing.T) {
	t.Run("should print clamped monthly dates", func(t *testing.T) {
		var out bytes.Buffer

		status := run(t, &expandCmd{out: &out}, "-d", "2026-01-31", "-n", "3")

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, "2026-01-31\n2026-02-28\n2026-03-31\n", out.String())
	})

	t.Run("should reject a zero count", func(t *testing.T) {
		var out bytes.Buffer

		status := run(t, &expandCmd{out: &out}, "-d", "2026-01-31", "-n", "0")

		assert.Equal(t, subcommands.ExitUsageError, status)
		assert.Empty(t, out.String())
	})
}

func TestAllocateCmd(t *testing.T) {
	t.Run("should print each share", func(t *testing.T) {
		var out bytes.Buffer

		status := run(t, &allocateCmd{out: &out}, "-amount", "9000", "-w", "Godson=33,Fynix=33,Prifa=34", "-currency", "USD")

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, "Godson\t$2,970.00\nFynix\t$2,970.00\nPrifa\t$3,060.00\n", out.String())
	})

	t.Run("should fail when weights do not sum to 100", func(t *testing.T) {
		var out bytes.Buffer

		status := run(t, &allocateCmd{out: &out}, "-amount", "9000", "-w", "Godson=33,Fynix=33,Prifa=33")

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Empty(t, out.String())
	})

	t.Run("should reject malformed weights", func(t *testing.T) {
		_, err := parseWeights("Godson:100")

		assert.Error(t, err)
	})
}

func TestReportCmd(t *testing.T) {
	// given
	t.Setenv("HOLDING_CURRENCY", "USD")
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	content := "unit,kind,category,amount,date,status\n" +
		"Godson Teknoloji,income,Yazılım Satış,50000,2026-01-01,realized\n" +
		"prifa kahvecilik,expense,Hammadde,15000,2026-01-02\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	var out bytes.Buffer

	// when
	status := run(t, &reportCmd{out: &out}, "-f", path, "-config", filepath.Join(dir, "missing.yaml"))

	// then
	require.Equal(t, subcommands.ExitSuccess, status)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Godson Teknoloji")
	assert.Contains(t, lines[1], "$250,000.00")
	assert.Contains(t, lines[3], "-$15,000.00")
	assert.Contains(t, lines[5], "SUM")
	assert.Contains(t, lines[5], "$35,000.00")
	assert.Contains(t, lines[5], "$175,000.00")
}

func TestReportCmd_RejectsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("unit,kind,category,amount,date\nGodson Teknoloji,income,Sales,-5,2026-01-01\n"), 0o600))
	var out bytes.Buffer

	status := run(t, &reportCmd{out: &out}, "-f", path, "-config", filepath.Join(dir, "missing.yaml"))

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Empty(t, out.String())
}
