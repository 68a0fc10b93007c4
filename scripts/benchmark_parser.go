package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Scale       string // sub-benchmark dimension, e.g. "depth-256"
	Variant     string // "direct" or "safe"
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult pairs a direct-arena benchmark with its
// mutex-wrapped counterpart.
type ComparisonResult struct {
	Operation    string
	Scale        string
	DirectNs     float64
	SafeNs       float64
	Overhead     float64
	DirectMem    int64
	SafeMem      int64
	DirectAllocs int64
	SafeAllocs   int64
	DirectOnly   bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	// Parse benchmarks
	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	// Pair direct and safe variants
	comparisons := generateComparisons(results)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Generated %d comparisons\n", len(comparisons))
	}

	// Generate markdown report
	report := generateMarkdownReport(comparisons)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	// Close input file if opened
	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// BenchmarkFirstFitWalk/depth-256-8    10000    12450 ns/op    64 B/op    1 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+(?:B|MB)/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		// Parse benchmark line
		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp int64
		var allocsPerOp int64

		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		// Parse name to extract operation, variant, and scale
		// Format: Benchmark<Operation>-<procs>
		// Or: BenchmarkSafe<Operation>-<procs>
		// Or: Benchmark<Operation>/<scale>-<procs>
		operation, scale, variant := splitBenchmarkName(name)
		if operation == "" {
			continue
		}

		results = append(results, BenchmarkResult{
			Name:        name,
			Operation:   operation,
			Scale:       scale,
			Variant:     variant,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

func splitBenchmarkName(name string) (operation, scale, variant string) {
	parts := strings.Split(name, "/")
	if len(parts) == 0 {
		return "", "", ""
	}

	// The last segment carries the -procs suffix go test appends.
	parts[len(parts)-1] = trimProcsSuffix(parts[len(parts)-1])

	operation = strings.TrimPrefix(parts[0], "Benchmark")
	variant = "direct"
	if rest, ok := strings.CutPrefix(operation, "Safe"); ok && rest != "" {
		operation = rest
		variant = "safe"
	}

	if len(parts) > 1 {
		scale = strings.Join(parts[1:], "/")
	}

	return operation, scale, variant
}

func trimProcsSuffix(s string) string {
	dashIdx := strings.LastIndex(s, "-")
	if dashIdx <= 0 {
		return s
	}
	for _, r := range s[dashIdx+1:] {
		if r < '0' || r > '9' {
			return s
		}
	}
	return s[:dashIdx]
}

func generateComparisons(results []BenchmarkResult) []ComparisonResult {
	// Group results by operation and scale
	type key struct {
		operation string
		scale     string
	}

	grouped := make(map[key]map[string]BenchmarkResult)

	for _, result := range results {
		k := key{result.Operation, result.Scale}
		if grouped[k] == nil {
			grouped[k] = make(map[string]BenchmarkResult)
		}
		grouped[k][result.Variant] = result
	}

	// Generate comparisons
	var comparisons []ComparisonResult

	for k, variants := range grouped {
		direct, hasDirect := variants["direct"]
		safe, hasSafe := variants["safe"]

		if hasDirect && hasSafe {
			// Both variants exist - measure the mutex overhead
			overhead := safe.NsPerOp / direct.NsPerOp

			comparisons = append(comparisons, ComparisonResult{
				Operation:    k.operation,
				Scale:        k.scale,
				DirectNs:     direct.NsPerOp,
				SafeNs:       safe.NsPerOp,
				Overhead:     overhead,
				DirectMem:    direct.BytesPerOp,
				SafeMem:      safe.BytesPerOp,
				DirectAllocs: direct.AllocsPerOp,
				SafeAllocs:   safe.AllocsPerOp,
				DirectOnly:   false,
			})
		} else if hasDirect {
			// Only the unlocked arena is benchmarked
			comparisons = append(comparisons, ComparisonResult{
				Operation:    k.operation,
				Scale:        k.scale,
				DirectNs:     direct.NsPerOp,
				DirectMem:    direct.BytesPerOp,
				DirectAllocs: direct.AllocsPerOp,
				DirectOnly:   true,
			})
		}
	}

	// Sort by operation then scale
	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Operation != comparisons[j].Operation {
			return comparisons[i].Operation < comparisons[j].Operation
		}
		return comparisons[i].Scale < comparisons[j].Scale
	})

	return comparisons
}

func generateMarkdownReport(comparisons []ComparisonResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Arena Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Summary statistics
	directOnly := 0
	totalOverhead := 0.0

	for _, comp := range comparisons {
		if comp.DirectOnly {
			directOnly++
		} else {
			totalOverhead += comp.Overhead
		}
	}

	pairedCount := len(comparisons) - directOnly
	avgOverhead := 0.0
	if pairedCount > 0 {
		avgOverhead = totalOverhead / float64(pairedCount)
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(comparisons)))
	sb.WriteString(fmt.Sprintf("- **Paired** (direct and safe variants): %d\n", pairedCount))
	if pairedCount > 0 {
		sb.WriteString(fmt.Sprintf("  - Average lock overhead: **%.2fx**\n", avgOverhead))
	}
	sb.WriteString(fmt.Sprintf("- **Direct-only benchmarks**: %d\n", directOnly))
	sb.WriteString("\n")

	// Detailed results table
	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString(
		"| Benchmark | Scale | direct (ns/op) | safe (ns/op) | Lock overhead | Memory (B/op) | Allocs |\n",
	)
	sb.WriteString(
		"|-----------|-------|----------------|--------------|---------------|---------------|--------|\n",
	)

	for _, comp := range comparisons {
		scale := comp.Scale
		if scale == "" {
			scale = "-"
		}

		if comp.DirectOnly {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | *N/A* | *direct only* | %s | %s |\n",
				comp.Operation,
				scale,
				formatNumber(comp.DirectNs),
				formatBytes(comp.DirectMem),
				formatNumber(float64(comp.DirectAllocs)),
			))
		} else {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2fx | %s vs %s | %s vs %s |\n",
				comp.Operation,
				scale,
				formatNumber(comp.DirectNs),
				formatNumber(comp.SafeNs),
				comp.Overhead,
				formatBytes(comp.DirectMem),
				formatBytes(comp.SafeMem),
				formatNumber(float64(comp.DirectAllocs)),
				formatNumber(float64(comp.SafeAllocs)),
			))
		}
	}

	sb.WriteString("\n")

	// Category summaries
	sb.WriteString("## Performance by Category\n\n")

	categories := categorizeOperations(comparisons)
	for _, category := range categoryOrder {
		comps := categories[category]
		if len(comps) == 0 {
			continue
		}

		avgOver := 0.0
		count := 0
		for _, comp := range comps {
			if !comp.DirectOnly {
				avgOver += comp.Overhead
				count++
			}
		}

		if count > 0 {
			avgOver /= float64(count)
			sb.WriteString(fmt.Sprintf("- **%s**: %.2fx average lock overhead\n",
				category, avgOver))
		} else {
			sb.WriteString(fmt.Sprintf("- **%s**: direct-only benchmarks\n", category))
		}
	}

	sb.WriteString("\n")

	// Notes
	sb.WriteString("## Notes\n\n")
	sb.WriteString("- **Lock overhead**: safe ns/op divided by direct ns/op\n")
	sb.WriteString("- **Memory comparison**: Lower is better\n")
	sb.WriteString("- **Allocations**: Fewer is better\n")
	sb.WriteString("- **direct only**: No mutex-wrapped variant of the benchmark\n")

	return sb.String()
}

var categoryOrder = []string{
	"Allocation",
	"Release",
	"Introspection",
	"Reporting",
	"Other",
}

func categorizeOperations(comparisons []ComparisonResult) map[string][]ComparisonResult {
	categories := make(map[string][]ComparisonResult, len(categoryOrder))

	for _, comp := range comparisons {
		op := strings.ToLower(comp.Operation)

		switch {
		case strings.Contains(op, "alloc") || strings.Contains(op, "fit") ||
			strings.Contains(op, "walk"):
			categories["Allocation"] = append(categories["Allocation"], comp)
		case strings.Contains(op, "free") || strings.Contains(op, "coalesce"):
			categories["Release"] = append(categories["Release"], comp)
		case strings.Contains(op, "snapshot") || strings.Contains(op, "blocks") ||
			strings.Contains(op, "stats"):
			categories["Introspection"] = append(categories["Introspection"], comp)
		case strings.Contains(op, "report") || strings.Contains(op, "print"):
			categories["Reporting"] = append(categories["Reporting"], comp)
		default:
			categories["Other"] = append(categories["Other"], comp)
		}
	}

	return categories
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
