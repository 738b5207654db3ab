package main

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// Command is one child invocation: environment variable assignments that
// prefix the command plus the argv itself.
type Command struct {
	Env  []string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append(append([]string{}, c.Env...), c.Args...), " ")
}

// Per-mode compiler configurations, keyed by compiler name. The flag strings
// are appended verbatim to the benchmark script invocation.
var MatrixTable = map[string]map[string]string{
	"training": {
		"ts_nnc":              "--training --speedup-ts --use-eval-mode --isolate",
		"ts_nvfuser":          "--training --nvfuser --speedup-dynamo-ts --use-eval-mode --isolate",
		"aot_eager":           "--training --accuracy-aot-nop --generate-aot-autograd-stats --use-eval-mode --isolate",
		"aot_nnc":             "--training --accuracy-aot-ts-mincut --use-eval-mode --isolate",
		"aot_nvfuser":         "--training --nvfuser --accuracy-aot-ts-mincut --use-eval-mode --isolate",
		"inductor_cudagraphs": "--training --inductor --use-eval-mode --isolate",
	},
	"inference": {
		"ts_nnc":                "--isolate --speedup-ts",
		"ts_nvfuser":            "--isolate -n100 --speedup-ts --nvfuser",
		"trt":                   "--isolate -n100 --speedup-trt",
		"eager_cudagraphs":      "--inductor-settings --float32 -n50 --backend=cudagraphs",
		"nnc_cudagraphs":        "--inductor-settings --float32 -n50 --backend=cudagraphs_ts --nvfuser",
		"ts_nvfuser_cudagraphs": "--inductor-settings --float32 -n50 --backend=cudagraphs_ts",
		"inductor_cudagraphs":   "--inductor-settings --float32 -n50 --inductor",
	},
	"coverage": {
		"dynamo_eager": "--isolate --coverage",
	},
}

var MatrixDefaults = map[string][]string{
	"training":  {"ts_nvfuser", "aot_nvfuser", "inductor_cudagraphs"},
	"inference": {"ts_nvfuser_cudagraphs", "inductor_cudagraphs"},
	"coverage":  {"dynamo_eager"},
	"dtypes":    {"float32"},
	"suites":    {"torchbench", "huggingface", "timm_models"},
	"devices":   {"cuda"},
}

// MatrixEntry is one cell of the run matrix together with the command that
// evaluates it and the CSV file the command writes.
type MatrixEntry struct {
	Suite    string
	Device   string
	Dtype    string
	Mode     string
	Compiler string
	Output   string
	Cmd      Command
}

func outputFilename(outputDir, compiler, suite, dtype, mode, device string) string {
	return path.Join(outputDir, fmt.Sprintf("%v_%v_%v_%v_%v.csv", compiler, suite, dtype, mode, device))
}

// GenerateMatrix enumerates suites × devices × dtypes and emits one entry
// per compiler, in the stable order of the input slices.
func GenerateMatrix(mode string, suites []Suite, devices, dtypes, compilers []string, outputDir string, quick bool) ([]MatrixEntry, error) {
	table, ok := MatrixTable[mode]
	if !ok {
		return nil, fmt.Errorf("unknown matrix mode '%v'", mode)
	}
	entries := make([]MatrixEntry, 0)
	for _, suite := range suites {
		for _, device := range devices {
			for _, dtype := range dtypes {
				for _, compiler := range compilers {
					flags, ok := table[compiler]
					if !ok {
						return nil, fmt.Errorf("unknown compiler '%v' for mode '%v'", compiler, mode)
					}
					output := outputFilename(outputDir, compiler, suite.Name(), dtype, mode, device)
					args := []string{
						"python", path.Join("benchmarks", suite.Script()),
						"--" + dtype,
						"-d" + device,
						"--output=" + output,
					}
					args = append(args, strings.Fields(flags)...)
					if quick {
						if suite.QuickModel() == "" {
							return nil, fmt.Errorf("quick run is not supported for suite '%v'", suite.Name())
						}
						args = append(args, "--only="+suite.QuickModel())
					}
					entries = append(entries, MatrixEntry{
						Suite:    suite.Name(),
						Device:   device,
						Dtype:    dtype,
						Mode:     mode,
						Compiler: compiler,
						Output:   output,
						Cmd:      Command{Args: args},
					})
				}
			}
		}
	}
	return entries, nil
}

// WriteRunScript renders the matrix into a plain shell script so the sweep
// can be reproduced by hand with `bash run.sh`.
func WriteRunScript(filename string, entries []MatrixEntry, outputDir string) error {
	lines := make([]string, 0)
	lines = append(lines, "# Setup the output directory")
	lines = append(lines, fmt.Sprintf("rm -rf %v", outputDir))
	lines = append(lines, fmt.Sprintf("mkdir %v", outputDir))
	lines = append(lines, "")

	group := ""
	for _, entry := range entries {
		current := fmt.Sprintf("# Commands for %v for device=%v, dtype=%v for %v", entry.Suite, entry.Device, entry.Dtype, entry.Mode)
		if current != group {
			if group != "" {
				lines = append(lines, "")
			}
			lines = append(lines, current)
			group = current
		}
		lines = append(lines, entry.Cmd.String())
	}
	lines = append(lines, "")
	return os.WriteFile(filename, []byte(strings.Join(lines, "\n")), 0o644)
}
