package main

import (
	"fmt"
	"io"
	"path"
)

// Debug knobs consumed by the benchmark script; prefixed to every driver
// invocation and never read back.
var driverEnv = []string{
	"PYTORCH_NVFUSER_DISABLE_FALLBACK=1",
	"PYTORCH_NVFUSER_DISABLE_FMA=1",
}

// MemOutputFile is the single results file shared by all invocations of the
// "mem" experiment; later invocations overwrite it.
const MemOutputFile = "memory_results.csv"

// Backend variants evaluated by the fallback experiment path.
var fallbackMethods = []struct{ Name, Flag string }{
	{"aot_nop", "--accuracy-aot-nop"},
	{"aot_ts", "--accuracy-aot-ts"},
	{"aot_ts_mincut", "--accuracy-aot-ts-mincut"},
}

// Backends measured for peak memory in the "mem" experiment.
var memBackends = []string{"eager", "ts_nvfuser", "inductor"}

// Driver executes one of the fixed experiment paths: every command is
// printed to Stdout before it runs, commands run strictly one after another,
// and a child's exit status never changes the driver's own.
type Driver struct {
	Suite  Suite
	Exec   Executor
	Stdout io.Writer
	Device string
	Dtype  string
	Repeat int
}

func (d *Driver) command(extra ...string) Command {
	args := []string{
		"python", path.Join("benchmarks", d.Suite.Script()),
		"-d" + d.Device,
		"--training",
		"--isolate",
		"--skip-accuracy-check",
		"--" + d.Dtype,
		"--batch-size-file=" + d.Suite.BatchSizeFile(),
	}
	args = append(args, extra...)
	for _, model := range d.Suite.Selectors() {
		args = append(args, "-k", model)
	}
	return Command{Env: driverEnv, Args: args}
}

func (d *Driver) execute(cmd Command) {
	fmt.Fprintln(d.Stdout, cmd.String())
	if err := d.Exec.Run(cmd); err != nil {
		Logger.Warnf("command failed: %v", err)
	}
}

// Run executes the experiment selected by mode and returns the process exit
// status. The empty mode runs the single eager configuration and always
// exits nonzero, independent of the child's outcome.
func (d *Driver) Run(mode string) int {
	switch mode {
	case "":
		d.execute(d.command("--backend=eager"))
		return 1
	case "inductor":
		d.execute(d.command("--inductor", fmt.Sprintf("-n%v", d.Repeat)))
		return 0
	case "mem":
		d.execute(d.command("--profile-memory", "--output="+MemOutputFile))
		for _, backend := range memBackends {
			d.execute(d.command("--peak-memory", "--backend="+backend, "--output="+MemOutputFile))
		}
		return 0
	default:
		for _, method := range fallbackMethods {
			d.execute(d.command(method.Flag, fmt.Sprintf("-n%v", d.Repeat)))
		}
		return 0
	}
}
