package main

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateMatrixInferenceDefaults(t *testing.T) {
	entries, err := GenerateMatrix(
		"inference",
		[]Suite{&SuiteTorchbench{}},
		[]string{"cuda"},
		[]string{"float32"},
		MatrixDefaults["inference"],
		"benchmark_logs",
		false,
	)
	require.Nil(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	require.Equal(t, "ts_nvfuser_cudagraphs", first.Compiler)
	require.Equal(t, "benchmark_logs/ts_nvfuser_cudagraphs_torchbench_float32_inference_cuda.csv", first.Output)

	cmd := first.Cmd.String()
	require.True(t, strings.HasPrefix(cmd, "python benchmarks/torchbench.py --float32 -dcuda --output="))
	require.Contains(t, cmd, "--inductor-settings")
	require.Contains(t, cmd, "--backend=cudagraphs_ts")

	second := entries[1]
	require.Equal(t, "inductor_cudagraphs", second.Compiler)
	require.Contains(t, second.Cmd.String(), "--inductor")
}

func TestGenerateMatrixEnumerationOrder(t *testing.T) {
	entries, err := GenerateMatrix(
		"training",
		[]Suite{&SuiteTorchbench{}, &SuiteHuggingface{}},
		[]string{"cuda"},
		[]string{"float32", "float16"},
		[]string{"ts_nvfuser"},
		"out",
		false,
	)
	require.Nil(t, err)
	require.Len(t, entries, 4)
	require.Equal(t, "torchbench", entries[0].Suite)
	require.Equal(t, "float32", entries[0].Dtype)
	require.Equal(t, "float16", entries[1].Dtype)
	require.Equal(t, "huggingface", entries[2].Suite)
}

func TestGenerateMatrixQuick(t *testing.T) {
	entries, err := GenerateMatrix(
		"inference",
		[]Suite{&SuiteTorchbench{}, &SuiteHuggingface{}},
		[]string{"cuda"},
		[]string{"float32"},
		[]string{"inductor_cudagraphs"},
		"out",
		true,
	)
	require.Nil(t, err)
	require.Contains(t, entries[0].Cmd.String(), "--only=resnet18")
	require.Contains(t, entries[1].Cmd.String(), "--only=BertForPreTraining_P1_bert")

	_, err = GenerateMatrix(
		"inference",
		[]Suite{&SuiteTimm{}},
		[]string{"cuda"},
		[]string{"float32"},
		[]string{"inductor_cudagraphs"},
		"out",
		true,
	)
	require.NotNil(t, err)
}

func TestGenerateMatrixRejectsUnknown(t *testing.T) {
	_, err := GenerateMatrix("warmup", []Suite{&SuiteTorchbench{}}, []string{"cuda"}, []string{"float32"}, []string{"ts_nnc"}, "out", false)
	require.NotNil(t, err)

	_, err = GenerateMatrix("inference", []Suite{&SuiteTorchbench{}}, []string{"cuda"}, []string{"float32"}, []string{"no_such_compiler"}, "out", false)
	require.NotNil(t, err)
}

func TestWriteRunScript(t *testing.T) {
	dir := t.TempDir()
	entries, err := GenerateMatrix(
		"inference",
		[]Suite{&SuiteTorchbench{}},
		[]string{"cuda"},
		[]string{"float32"},
		MatrixDefaults["inference"],
		"benchmark_logs",
		false,
	)
	require.Nil(t, err)

	script := path.Join(dir, "run.sh")
	require.Nil(t, WriteRunScript(script, entries, "benchmark_logs"))

	data, err := os.ReadFile(script)
	require.Nil(t, err)
	lines := strings.Split(string(data), "\n")
	require.Equal(t, "# Setup the output directory", lines[0])
	require.Equal(t, "rm -rf benchmark_logs", lines[1])
	require.Equal(t, "mkdir benchmark_logs", lines[2])
	require.Contains(t, string(data), "# Commands for torchbench for device=cuda, dtype=float32 for inference")

	commands := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "python ") {
			commands++
		}
	}
	require.Equal(t, len(entries), commands)
}

func TestFindSuite(t *testing.T) {
	for _, name := range MatrixDefaults["suites"] {
		suite, ok := FindSuite(name)
		require.True(t, ok)
		require.Equal(t, name, suite.Name())
	}
	_, ok := FindSuite("imagenet")
	require.False(t, ok)
}
