package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

type SpeedupRow struct {
	Dev     string
	Name    string
	Speedup float64
}

// Measurement is one aggregated data point ready for upload.
type Measurement struct {
	Compiler string
	Suite    string
	Dtype    string
	Device   string
	Mode     string
	Name     string
	Speedup  float64
}

// ReadSpeedups loads a per-compiler CSV log. Early benchmark revisions wrote
// headerless three-column files, so the header is sniffed the same way the
// logs were written: a first line mentioning "dev" is a header.
func ReadSpeedups(filename string) ([]SpeedupRow, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty results file %v", filename)
	}

	devCol, nameCol, valueCol := 0, 1, 2
	if slices.Contains(records[0], "dev") {
		header := records[0]
		records = records[1:]
		devCol, nameCol, valueCol = -1, -1, -1
		for i, column := range header {
			switch column {
			case "dev":
				devCol = i
			case "name":
				nameCol = i
			case "speedup", "ts":
				valueCol = i
			}
		}
		if devCol < 0 || nameCol < 0 || valueCol < 0 {
			return nil, fmt.Errorf("unexpected header %v in %v", header, filename)
		}
	} else if len(records[0]) != 3 {
		return nil, fmt.Errorf("expected 3 columns in headerless file %v, got %v", filename, len(records[0]))
	}

	rows := make([]SpeedupRow, 0, len(records))
	for _, record := range records {
		speedup, err := strconv.ParseFloat(record[valueCol], 64)
		if err != nil {
			return nil, fmt.Errorf("bad speedup value %v in %v: %w", record[valueCol], filename, err)
		}
		rows = append(rows, SpeedupRow{Dev: record[devCol], Name: record[nameCol], Speedup: speedup})
	}
	return rows, nil
}

// MergedRow holds one model's speedups across all compilers, keyed in the
// same order as MergedResults.Compilers.
type MergedRow struct {
	Dev      string
	Name     string
	Speedups []float64
}

type MergedResults struct {
	Compilers []string
	Rows      []MergedRow
}

// MergeSpeedups inner-joins the per-compiler frames on (dev, name), keeping
// the row order of the first compiler's frame.
func MergeSpeedups(compilers []string, frames map[string][]SpeedupRow) *MergedResults {
	if len(compilers) == 0 {
		return &MergedResults{}
	}
	merged := &MergedResults{Compilers: compilers}
	for _, row := range frames[compilers[0]] {
		merged.Rows = append(merged.Rows, MergedRow{Dev: row.Dev, Name: row.Name, Speedups: []float64{row.Speedup}})
	}
	for _, compiler := range compilers[1:] {
		index := make(map[string]float64, len(frames[compiler]))
		for _, row := range frames[compiler] {
			index[row.Dev+"\x00"+row.Name] = row.Speedup
		}
		joined := merged.Rows[:0]
		for _, row := range merged.Rows {
			speedup, ok := index[row.Dev+"\x00"+row.Name]
			if !ok {
				continue
			}
			row.Speedups = append(row.Speedups, speedup)
			joined = append(joined, row)
		}
		merged.Rows = joined
	}
	return merged
}

// SortByCompilers orders rows descending, the last compiler being the
// primary sort key.
func (m *MergedResults) SortByCompilers() *MergedResults {
	sorted := &MergedResults{Compilers: m.Compilers, Rows: slices.Clone(m.Rows)}
	sort.SliceStable(sorted.Rows, func(i, j int) bool {
		for k := len(m.Compilers) - 1; k >= 0; k-- {
			if sorted.Rows[i].Speedups[k] != sorted.Rows[j].Speedups[k] {
				return sorted.Rows[i].Speedups[k] > sorted.Rows[j].Speedups[k]
			}
		}
		return false
	})
	return sorted
}

func (m *MergedResults) WriteCsv(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err := writer.Write(append([]string{"dev", "name"}, m.Compilers...)); err != nil {
		return err
	}
	for _, row := range m.Rows {
		record := []string{row.Dev, row.Name}
		for _, speedup := range row.Speedups {
			record = append(record, strconv.FormatFloat(speedup, 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type CompilerSummary struct {
	Compiler string
	GMean    float64
	Mean     float64
}

// Summarize reports per-compiler geometric and arithmetic mean speedups.
// Slowdowns are clipped to 1.0 so a regression never inflates the means of
// the compilers around it.
func (m *MergedResults) Summarize() []CompilerSummary {
	summaries := make([]CompilerSummary, 0, len(m.Compilers))
	for i, compiler := range m.Compilers {
		speedups := make([]float64, 0, len(m.Rows))
		for _, row := range m.Rows {
			speedups = append(speedups, max(row.Speedups[i], 1.0))
		}
		summaries = append(summaries, CompilerSummary{
			Compiler: compiler,
			GMean:    stat.GeometricMean(speedups, nil),
			Mean:     stat.Mean(speedups, nil),
		})
	}
	return summaries
}

type CoverageRow struct {
	Dev          string
	Suite        string
	Name         string
	Graphs       float64
	StartLatency float64
}

// ReadCoverage loads a coverage-mode CSV log; coverage logs always carry a
// header since the column set varies between revisions.
func ReadCoverage(filename string, suite string) ([]CoverageRow, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v: %w", filename, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty coverage file %v", filename)
	}
	columns := make(map[string]int, len(records[0]))
	for i, column := range records[0] {
		columns[column] = i
	}
	for _, required := range []string{"dev", "name", "graphs", "start_latency"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("coverage file %v misses column %v", filename, required)
		}
	}
	rows := make([]CoverageRow, 0, len(records)-1)
	for _, record := range records[1:] {
		graphs, err := strconv.ParseFloat(record[columns["graphs"]], 64)
		if err != nil {
			return nil, fmt.Errorf("bad graphs value in %v: %w", filename, err)
		}
		latency, err := strconv.ParseFloat(record[columns["start_latency"]], 64)
		if err != nil {
			return nil, fmt.Errorf("bad start_latency value in %v: %w", filename, err)
		}
		rows = append(rows, CoverageRow{
			Dev:          record[columns["dev"]],
			Suite:        suite,
			Name:         record[columns["name"]],
			Graphs:       graphs,
			StartLatency: latency,
		})
	}
	return rows, nil
}

func percentage(part, whole int) float64 {
	return math.Round(10000*float64(part)/float64(whole)) / 100
}

// CoverageSummary renders the graph-break and start-latency analysis of the
// collected coverage rows.
func CoverageSummary(rows []CoverageRow) string {
	var out strings.Builder
	out.WriteString("\n## Coverage results ##\n\n")

	numModels := len(rows)
	noBreaks, lowLatency := 0, 0
	for _, row := range rows {
		if row.Graphs == 1 {
			noBreaks++
		}
		if row.StartLatency < 5.0 {
			lowLatency++
		}
	}

	out.WriteString("**Graph Breaks**\n")
	out.WriteString(fmt.Sprintf("Number of models = %v\n", numModels))
	out.WriteString(fmt.Sprintf("Number of models with no graph breaks = %v\n", noBreaks))
	out.WriteString(fmt.Sprintf("Percentage of models with no graph breaks = %v%%\n", percentage(noBreaks, numModels)))

	broken := make([]CoverageRow, 0)
	for _, row := range rows {
		if row.Graphs != 1 {
			broken = append(broken, row)
		}
	}
	sort.SliceStable(broken, func(i, j int) bool { return broken[i].Graphs > broken[j].Graphs })
	for _, row := range broken {
		out.WriteString(fmt.Sprintf("%v/%v: graphs = %v\n", row.Suite, row.Name, row.Graphs))
	}
	out.WriteString("\n")

	out.WriteString("**Start Latency - Rough approximation of compile latency**\n")
	out.WriteString(fmt.Sprintf("Number of models = %v\n", numModels))
	out.WriteString(fmt.Sprintf("Number of models with low start latency = %v\n", lowLatency))
	out.WriteString(fmt.Sprintf("Percentage of models with low start latency = %v%%\n", percentage(lowLatency, numModels)))

	slow := make([]CoverageRow, 0)
	for _, row := range rows {
		if row.StartLatency > 5.0 {
			slow = append(slow, row)
		}
	}
	sort.SliceStable(slow, func(i, j int) bool { return slow[i].StartLatency > slow[j].StartLatency })
	for _, row := range slow {
		out.WriteString(fmt.Sprintf("%v/%v: start_latency = %vs\n", row.Suite, row.Name, row.StartLatency))
	}
	return out.String()
}

type matrixGroup struct {
	Suite   string
	Device  string
	Dtype   string
	Entries []MatrixEntry
}

func groupEntries(entries []MatrixEntry) []matrixGroup {
	groups := make([]matrixGroup, 0)
	for _, entry := range entries {
		if n := len(groups); n > 0 &&
			groups[n-1].Suite == entry.Suite &&
			groups[n-1].Device == entry.Device &&
			groups[n-1].Dtype == entry.Dtype {
			groups[n-1].Entries = append(groups[n-1].Entries, entry)
			continue
		}
		groups = append(groups, matrixGroup{
			Suite:   entry.Suite,
			Device:  entry.Device,
			Dtype:   entry.Dtype,
			Entries: []MatrixEntry{entry},
		})
	}
	return groups
}

// ParseLogs turns the per-compiler CSV logs of a finished sweep into merged
// CSVs, a text summary, and flat measurements for upload.
func ParseLogs(mode string, entries []MatrixEntry, outputDir string) ([]Measurement, error) {
	if mode == "coverage" {
		return nil, parseCoverageLogs(entries, outputDir)
	}

	var out strings.Builder
	out.WriteString("\n## Performance results ##\n")
	measurements := make([]Measurement, 0)

	for _, group := range groupEntries(entries) {
		compilers := make([]string, 0, len(group.Entries))
		frames := make(map[string][]SpeedupRow, len(group.Entries))
		for _, entry := range group.Entries {
			rows, err := ReadSpeedups(entry.Output)
			if err != nil {
				return nil, fmt.Errorf("failed to read results of %v: %w", entry.Compiler, err)
			}
			compilers = append(compilers, entry.Compiler)
			frames[entry.Compiler] = rows
		}

		merged := MergeSpeedups(compilers, frames)
		title := fmt.Sprintf("%v_%v_%v_%v", group.Suite, group.Dtype, mode, group.Device)
		if err := merged.WriteCsv(path.Join(outputDir, title+".csv")); err != nil {
			return nil, err
		}
		if err := merged.SortByCompilers().WriteCsv(path.Join(outputDir, "sorted_"+title+".csv")); err != nil {
			return nil, err
		}

		for _, summary := range merged.Summarize() {
			out.WriteString(fmt.Sprintf("%-30v: gmean_speedup = %.2fx, mean_speedup = %.2fx\n", summary.Compiler, summary.GMean, summary.Mean))
		}

		for _, row := range merged.Rows {
			for i, compiler := range merged.Compilers {
				measurements = append(measurements, Measurement{
					Compiler: compiler,
					Suite:    group.Suite,
					Dtype:    group.Dtype,
					Device:   group.Device,
					Mode:     mode,
					Name:     row.Name,
					Speedup:  row.Speedups[i],
				})
			}
		}
	}

	fmt.Println(out.String())
	err := os.WriteFile(path.Join(outputDir, "gh_performance.txt"), []byte(out.String()), 0o644)
	if err != nil {
		return nil, err
	}
	return measurements, nil
}

func parseCoverageLogs(entries []MatrixEntry, outputDir string) error {
	rows := make([]CoverageRow, 0)
	for _, entry := range entries {
		local, err := ReadCoverage(entry.Output, entry.Suite)
		if err != nil {
			return fmt.Errorf("failed to read coverage of %v: %w", entry.Compiler, err)
		}
		rows = append(rows, local...)
	}
	summary := CoverageSummary(rows)
	fmt.Println(summary)
	return os.WriteFile(path.Join(outputDir, "gh_coverage.txt"), []byte(summary), 0o644)
}
