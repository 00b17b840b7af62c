package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/cppi/internal/config"
	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/pkg/logger"
)

// writeReturns writes a date,rate CSV of n consecutive days starting at start
func writeReturns(t *testing.T, path string, start time.Time, n int, ret func(i int) float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,rate\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,%.6f\n", start.AddDate(0, 0, i).Format("20060102"), ret(i))
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixtures(t *testing.T, start time.Time, n int) (string, string) {
	t.Helper()
	dir := t.TempDir()
	risky := filepath.Join(dir, "csi800.csv")
	riskFree := filepath.Join(dir, "bonds.csv")
	writeReturns(t, risky, start, n, func(i int) float64 { return 0.01 * math.Sin(float64(i)/5) })
	writeReturns(t, riskFree, start, n, func(int) float64 { return 0.0001 })
	return risky, riskFree
}

func TestRunCommand_WritesArtifacts(t *testing.T) {
	risky, riskFree := fixtures(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 60)
	outDir := t.TempDir()

	out, err := execute(t, "run", "--risky", risky, "--risk-free", riskFree, "--out", outDir, "--multiplier", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "annual_return")
	assert.Contains(t, out, "csi800")

	archives, err := filepath.Glob(filepath.Join(outDir, "cppi-*.msgpack"))
	require.NoError(t, err)
	require.Len(t, archives, 1)

	for _, suffix := range []string{"-report.csv", "-nav.csv", ".json", "-nav.png", ".xlsx"} {
		matches, err := filepath.Glob(filepath.Join(outDir, "cppi-*"+suffix))
		require.NoError(t, err)
		assert.Len(t, matches, 1, suffix)
	}

	inspected, err := execute(t, "inspect", archives[0])
	require.NoError(t, err)
	assert.Contains(t, inspected, "multiplier=3")
	assert.Contains(t, inspected, "csi800")
}

func TestRunCommand_SplitByYear(t *testing.T) {
	risky, riskFree := fixtures(t, time.Date(2019, 12, 2, 0, 0, 0, 0, time.UTC), 60)

	out, err := execute(t, "run", "--risky", risky, "--risk-free", riskFree, "--split-by-year", "--no-artifacts")
	require.NoError(t, err)

	assert.Contains(t, out, "2019")
	assert.Contains(t, out, "2020")
	assert.Less(t, strings.Index(out, "2019"), strings.Index(out, "2020"))
}

func TestRunCommand_Errors(t *testing.T) {
	risky, riskFree := fixtures(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 20)

	t.Run("missing files", func(t *testing.T) {
		t.Setenv("CPPI_RISKY_FILE", "")
		t.Setenv("CPPI_RISK_FREE_FILE", "")
		_, err := execute(t, "run", "--risky", risky)
		assert.ErrorContains(t, err, "--risk-free")
	})

	t.Run("bad rate type", func(t *testing.T) {
		_, err := execute(t, "run", "--risky", risky, "--risk-free", riskFree, "--rate-type", "weekly", "--no-artifacts")
		assert.Error(t, err)
	})

	t.Run("invalid guarantee", func(t *testing.T) {
		_, err := execute(t, "run", "--risky", risky, "--risk-free", riskFree, "--guarantee", "1.2", "--no-artifacts")
		assert.ErrorContains(t, err, "invalid simulation parameters")
	})
}

func TestInspectCommand_MissingArchive(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "nope.msgpack"))
	assert.Error(t, err)

	_, err = execute(t, "inspect")
	assert.Error(t, err)
}

func TestRunCommand_ParamsFile(t *testing.T) {
	risky, riskFree := fixtures(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 40)
	outDir := t.TempDir()
	params := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(params, []byte("risk_multiplier: 4\nguarantee_ratio: 0.9\n"), 0o644))

	// --guarantee is applied after the file
	_, err := execute(t, "run", "--risky", risky, "--risk-free", riskFree, "--out", outDir,
		"--params", params, "--guarantee", "0.7")
	require.NoError(t, err)

	archives, err := filepath.Glob(filepath.Join(outDir, "cppi-*.msgpack"))
	require.NoError(t, err)
	require.Len(t, archives, 1)

	inspected, err := execute(t, "inspect", archives[0])
	require.NoError(t, err)
	assert.Contains(t, inspected, "multiplier=4")
	assert.Contains(t, inspected, "guarantee=0.7")
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	a := &app{
		cfg: &config.Config{Port: 8080, DevMode: true, Strategy: domain.DefaultParameters()},
		log: logger.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, 0) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
