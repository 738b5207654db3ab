package main

// Suite is a named set of model benchmarks driven through a single
// benchmark script (e.g. benchmarks/torchbench.py).
type Suite interface {
	Name() string
	Script() string
	Selectors() []string
	BatchSizeFile() string
	QuickModel() string
}

// Executor runs one constructed command to completion.
type Executor interface {
	Run(cmd Command) error
}
