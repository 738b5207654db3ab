package main

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	totalFreq := 0.0
	for _, cpu := range cpuStat {
		totalFreq += cpu.Mhz
	}
	info := SysInfo{
		Arch:     runtime.GOARCH,
		Hostname: hostStat.Hostname,
		Platform: hostStat.Platform,
		CPUCount: len(cpuStat),
		RAM:      float64(vmStat.Total) / 1024 / 1024 / 1024,
	}
	if len(cpuStat) > 0 {
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	}
	return info
}

// Sibling checkouts whose revisions matter for reproducing a sweep.
var summaryRepos = []struct{ Path, Name string }{
	{".", "torchdynamo"},
	{"../pytorch", "pytorch"},
	{"../functorch", "functorch"},
	{"../torchbenchmark", "torchbench"},
}

var summaryEnvVars = []string{"TORCH_CUDA_ARCH_LIST", "CUDA_HOME", "USE_LLVM"}

func commitHash(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// BuildSummary writes gh_build_summary.txt: commit hashes of the working
// tree and its sibling checkouts, selected environment variables, and host
// stats.
func BuildSummary(outputDir string) error {
	var out strings.Builder

	out.WriteString("## Commit hashes ##\n")
	for _, repo := range summaryRepos {
		if _, err := os.Stat(repo.Path); err != nil {
			out.WriteString(fmt.Sprintf("%v Absent\n", repo.Name))
			continue
		}
		sha, err := commitHash(repo.Path)
		if err != nil {
			out.WriteString(fmt.Sprintf("%v Absent\n", repo.Name))
			continue
		}
		out.WriteString(fmt.Sprintf("%v commit: %v\n", repo.Name, sha))
	}

	out.WriteString("\n## Environment variables ##\n")
	for _, name := range summaryEnvVars {
		out.WriteString(fmt.Sprintf("%v = %v\n", name, os.Getenv(name)))
	}

	info := HostStat()
	out.WriteString("\n## Host ##\n")
	out.WriteString(fmt.Sprintf("arch: %v\n", info.Arch))
	out.WriteString(fmt.Sprintf("hostname: %v\n", info.Hostname))
	out.WriteString(fmt.Sprintf("platform: %v\n", info.Platform))
	out.WriteString(fmt.Sprintf("cpu count: %v\n", info.CPUCount))
	out.WriteString(fmt.Sprintf("cpu freq [MHz]: %v\n", info.CPUFreq))
	out.WriteString(fmt.Sprintf("ram [GB]: %v\n", info.RAM))

	return os.WriteFile(path.Join(outputDir, "gh_build_summary.txt"), []byte(out.String()), 0o644)
}
