package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "runmatrix [mode]",
		Short:        "drive benchmark sweeps over the torchbench model set",
		Long:         "Runs a fixed experiment against the torchbench models: no mode for the eager baseline, 'inductor' or 'mem' for the dedicated experiments, anything else for the aot backend variants. See 'runmatrix matrix' for the full sweep.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := ""
			if len(args) == 1 {
				mode = args[0]
			}
			driver := &Driver{
				Suite:  &SuiteTorchbench{},
				Exec:   &Benchmark{ClearCaches: BENCHMARK_CLEAR_CACHES},
				Stdout: os.Stdout,
				Device: BENCHMARK_DEVICE,
				Dtype:  BENCHMARK_DTYPE,
				Repeat: BENCHMARK_REPEAT,
			}
			if code := driver.Run(mode); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	root.AddCommand(matrixCommand())
	if err := root.Execute(); err != nil {
		Logger.Fatalf("%v", err)
	}
}

func matrixCommand() *cobra.Command {
	var (
		suiteNames []string
		devices    []string
		dtypes     []string
		compilers  []string

		inference bool
		training  bool
		coverage  bool

		printCommands bool
		visualizeLogs bool
		quick         bool
		outputDir     string
	)
	cmd := &cobra.Command{
		Use:          "matrix",
		Short:        "enumerate and run the full suite × device × dtype × compiler sweep",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "inference"
			if training {
				mode = "training"
			} else if coverage {
				mode = "coverage"
			}
			if coverage && len(compilers) > 0 {
				return fmt.Errorf("coverage mode does not take --compilers")
			}
			if len(compilers) == 0 {
				compilers = MatrixDefaults[mode]
			}

			suites := make([]Suite, 0, len(suiteNames))
			for _, name := range suiteNames {
				suite, ok := FindSuite(name)
				if !ok {
					return fmt.Errorf("unknown suite '%v'", name)
				}
				suites = append(suites, suite)
			}

			entries, err := GenerateMatrix(mode, suites, devices, dtypes, compilers, outputDir, quick)
			if err != nil {
				return err
			}

			if printCommands {
				return WriteRunScript("run.sh", entries, outputDir)
			}

			if !visualizeLogs {
				if err := os.RemoveAll(outputDir); err != nil {
					return err
				}
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return err
				}
				if err := WriteRunScript("run.sh", entries, outputDir); err != nil {
					return err
				}
				executor := &Benchmark{ClearCaches: BENCHMARK_CLEAR_CACHES}
				for _, entry := range entries {
					fmt.Println(entry.Cmd.String())
					if err := executor.Run(entry.Cmd); err != nil {
						Logger.Errorf("benchmark %v/%v failed: %v", entry.Suite, entry.Compiler, err)
					}
				}
			}

			if err := BuildSummary(outputDir); err != nil {
				Logger.Errorf("failed to write build summary: %v", err)
			}
			measurements, err := ParseLogs(mode, entries, outputDir)
			if err != nil {
				return err
			}
			if BENCHMARK_DB_URL != "" {
				storage := &Storage{Url: BENCHMARK_DB_URL, AuthToken: BENCHMARK_DB_TOKEN}
				if err := storage.UploadResults(HostStat(), measurements); err != nil {
					Logger.Errorf("failed to upload results: %v", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&suiteNames, "suites", MatrixDefaults["suites"], "benchmark suites to sweep")
	cmd.Flags().StringSliceVar(&devices, "devices", MatrixDefaults["devices"], "devices to sweep (cpu/cuda)")
	cmd.Flags().StringSliceVar(&dtypes, "dtypes", MatrixDefaults["dtypes"], "numeric precisions to sweep (float16/float32/amp)")
	cmd.Flags().StringSliceVar(&compilers, "compilers", nil, "compilers to sweep; defaults depend on the mode")
	cmd.Flags().BoolVar(&inference, "inference", false, "run inference configurations")
	cmd.Flags().BoolVar(&training, "training", false, "run training configurations")
	cmd.Flags().BoolVar(&coverage, "coverage", false, "run the coverage experiment")
	cmd.Flags().BoolVar(&printCommands, "print-run-commands", false, "only generate run.sh")
	cmd.Flags().BoolVar(&visualizeLogs, "visualize-logs", false, "only summarize already finished logs")
	cmd.Flags().BoolVar(&quick, "quick", false, "run a single model per suite, for debugging")
	cmd.Flags().StringVar(&outputDir, "output-dir", BENCHMARK_OUTPUT_DIR, "directory for logs and summaries")
	cmd.MarkFlagsOneRequired("inference", "training", "coverage")
	cmd.MarkFlagsMutuallyExclusive("inference", "training", "coverage")
	cmd.MarkFlagsMutuallyExclusive("print-run-commands", "visualize-logs")
	return cmd
}
