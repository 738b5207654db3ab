package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Benchmark runs commands synchronously, one at a time, optionally dropping
// filesystem caches before each run.
type Benchmark struct {
	ClearCaches bool
}

func clearCaches() error {
	switch runtime.GOOS {
	case "linux":
		if err := exec.Command("sync").Run(); err != nil {
			return err
		}
		if err := exec.Command("sh", "-c", "echo 3 | sudo tee /proc/sys/vm/drop_caches").Run(); err != nil {
			return err
		}
		return nil
	case "darwin":
		if err := exec.Command("sync").Run(); err != nil {
			return err
		}
		if err := exec.Command("purge").Run(); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("unable to clear caches for platform '%v'", runtime.GOOS)
}

func (b *Benchmark) clearCachesIfNeeded() error {
	if !b.ClearCaches {
		return nil
	}
	Logger.Info("clear caches")
	return clearCaches()
}

// Run starts the child with the command's extra environment on top of the
// current one, streams its output through, and waits for completion.
func (b *Benchmark) Run(c Command) error {
	if err := b.clearCachesIfNeeded(); err != nil {
		return err
	}
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("command %v failed after %v: %w", c.Args[1], elapsed, err)
	}
	Logger.Infof("finished %v in %v", c.Args[1], elapsed)
	return nil
}
