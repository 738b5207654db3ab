package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	cmds []Command
	err  error
}

func (r *recordingExecutor) Run(cmd Command) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func newTestDriver() (*Driver, *recordingExecutor, *bytes.Buffer) {
	executor := &recordingExecutor{}
	out := &bytes.Buffer{}
	driver := &Driver{
		Suite:  &SuiteTorchbench{},
		Exec:   executor,
		Stdout: out,
		Device: "cuda",
		Dtype:  "float32",
		Repeat: 50,
	}
	return driver, executor, out
}

func printedLines(out *bytes.Buffer) []string {
	trimmed := strings.TrimRight(out.String(), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestDefaultPath(t *testing.T) {
	driver, executor, out := newTestDriver()
	code := driver.Run("")
	require.NotZero(t, code)
	require.Len(t, executor.cmds, 1)
	require.Len(t, printedLines(out), 1)
	require.Contains(t, executor.cmds[0].String(), "--backend=eager")
}

func TestDefaultPathExitsNonzeroOnChildFailure(t *testing.T) {
	driver, executor, out := newTestDriver()
	executor.err = errors.New("child exploded")
	code := driver.Run("")
	require.NotZero(t, code)
	require.Len(t, executor.cmds, 1)
	require.Len(t, printedLines(out), 1)
}

func TestInductorPath(t *testing.T) {
	driver, executor, out := newTestDriver()
	code := driver.Run("inductor")
	require.Zero(t, code)
	require.Len(t, executor.cmds, 1)
	require.Len(t, printedLines(out), 1)
	require.Contains(t, executor.cmds[0].String(), "--inductor")
	require.Contains(t, executor.cmds[0].String(), "-n50")
}

func TestMemPath(t *testing.T) {
	driver, executor, out := newTestDriver()
	code := driver.Run("mem")
	require.Zero(t, code)
	require.Len(t, executor.cmds, 4)
	require.Len(t, printedLines(out), 4)

	for _, cmd := range executor.cmds {
		require.Contains(t, cmd.String(), "--output="+MemOutputFile)
	}
	require.Contains(t, executor.cmds[0].String(), "--profile-memory")

	// the peak-memory invocations differ only in backend name
	normalized := make([]string, 0)
	for i, backend := range memBackends {
		cmd := executor.cmds[i+1].String()
		require.Contains(t, cmd, "--peak-memory")
		require.Contains(t, cmd, "--backend="+backend)
		normalized = append(normalized, strings.Replace(cmd, "--backend="+backend, "--backend=?", 1))
	}
	require.Equal(t, normalized[0], normalized[1])
	require.Equal(t, normalized[0], normalized[2])
}

func TestFallbackPath(t *testing.T) {
	driver, executor, out := newTestDriver()
	code := driver.Run("anything-else")
	require.Zero(t, code)
	require.Len(t, executor.cmds, 3)
	require.Len(t, printedLines(out), 3)
	for i, method := range fallbackMethods {
		require.Contains(t, executor.cmds[i].String(), method.Flag)
		require.Contains(t, executor.cmds[i].String(), "-n50")
	}
}

func TestFallbackPathContinuesOnChildFailure(t *testing.T) {
	driver, executor, _ := newTestDriver()
	executor.err = errors.New("child exploded")
	code := driver.Run("anything-else")
	require.Zero(t, code)
	require.Len(t, executor.cmds, 3)
}

func TestEveryPathKeepsSelectorsVerbatim(t *testing.T) {
	for _, mode := range []string{"", "inductor", "mem", "anything-else"} {
		driver, _, out := newTestDriver()
		driver.Run(mode)
		for _, line := range printedLines(out) {
			offset := 0
			for _, model := range torchbenchModels {
				selector := "-k " + model
				pos := strings.Index(line[offset:], selector)
				require.GreaterOrEqual(t, pos, 0, "mode %q misses selector %q", mode, selector)
				offset += pos + len(selector)
			}
		}
	}
}

func TestEveryCommandCarriesEnvPrefix(t *testing.T) {
	for _, mode := range []string{"", "inductor", "mem", "anything-else"} {
		driver, executor, out := newTestDriver()
		driver.Run(mode)
		prefix := strings.Join(driverEnv, " ") + " python "
		for _, line := range printedLines(out) {
			require.True(t, strings.HasPrefix(line, prefix), "mode %q printed %q", mode, line)
		}
		for _, cmd := range executor.cmds {
			require.Equal(t, driverEnv, cmd.Env)
			require.Contains(t, cmd.String(), "--batch-size-file=benchmarks/torchbench_models_list.txt")
			require.Contains(t, cmd.String(), "--float32")
			require.Contains(t, cmd.String(), "-dcuda")
		}
	}
}
