package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/distill/cleaner"
)

// CLI flags
var (
	dir    = flag.String("dir", "testdata", "Directory containing .html files to benchmark")
	runs   = flag.Int("runs", 3, "Number of runs per file/mode for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
	query  = flag.String("query", "", "Query for bm25 mode (derived from document when empty)")
)

// Filter modes exercised per input file.
var filterModes = []string{"raw", "readability", "pruning", "bm25", "auto"}

// --- Benchmark result types ---

type runResult struct {
	Run            int     `json:"run"`
	TotalMs        int64   `json:"total_ms"`
	CleaningMs     int64   `json:"cleaning_ms"`
	OriginalTokens int     `json:"original_tokens"`
	CleanedTokens  int     `json:"cleaned_tokens"`
	SavingsPercent float64 `json:"savings_percent"`
	ContentLength  int     `json:"content_length"`
	HasTitle       bool    `json:"has_title"`
	HasLinks       bool    `json:"has_links"`
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
}

type caseAverages struct {
	TotalMs        float64 `json:"total_ms"`
	CleaningMs     float64 `json:"cleaning_ms"`
	SavingsPercent float64 `json:"savings_percent"`
	ContentLength  float64 `json:"content_length"`
}

type caseResult struct {
	File     string        `json:"file"`
	Mode     string        `json:"mode"`
	Runs     []runResult   `json:"runs"`
	Averages *caseAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	Dir         string       `json:"dir"`
	RunsPerCase int          `json:"runs_per_case"`
	Results     []caseResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== Distill Benchmark Suite ===")
	fmt.Printf("Input dir: %s\n", *dir)
	fmt.Printf("Runs/case: %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	files, err := filepath.Glob(filepath.Join(*dir, "*.html"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad input dir %s: %v\n", *dir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no .html files found in %s\n", *dir)
		os.Exit(1)
	}

	cl := cleaner.NewCleaner()

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Dir:         *dir,
		RunsPerCase: *runs,
	}

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", file, err)
			continue
		}
		name := filepath.Base(file)

		for _, mode := range filterModes {
			fmt.Printf("Benchmarking [%s] %s ...\n", mode, name)
			cr := caseResult{File: name, Mode: mode}

			for i := 1; i <= *runs; i++ {
				fmt.Printf("  Run %d/%d ... ", i, *runs)
				rr := benchmarkCase(cl, string(raw), mode, i)
				if rr.Success {
					fmt.Printf("OK  %dms  %.1f%% saved\n", rr.TotalMs, rr.SavingsPercent)
				} else {
					fmt.Printf("FAILED: %s\n", rr.Error)
				}
				cr.Runs = append(cr.Runs, rr)
			}

			cr.Averages = computeAverages(cr.Runs)
			report.Results = append(report.Results, cr)
		}
		fmt.Println()
	}

	// Print summary table.
	printTable(report.Results)

	// Write JSON report.
	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func benchmarkCase(cl *cleaner.Cleaner, html, mode string, run int) runResult {
	rr := runResult{Run: run}

	opts := cleaner.CleanOptions{Query: *query}

	start := time.Now()
	resp, err := cl.Clean(html, "", "markdown", mode, opts)
	elapsed := time.Since(start)

	if err != nil {
		rr.Error = err.Error()
		return rr
	}

	rr.Success = resp.Success
	rr.TotalMs = elapsed.Milliseconds()
	rr.CleaningMs = resp.Timing.CleaningMs
	rr.OriginalTokens = resp.Tokens.OriginalEstimate
	rr.CleanedTokens = resp.Tokens.CleanedEstimate
	rr.SavingsPercent = resp.Tokens.SavingsPercent
	rr.ContentLength = len(resp.Content)
	rr.HasTitle = resp.Metadata.Title != ""
	rr.HasLinks = len(resp.Links.Internal)+len(resp.Links.External) > 0

	if resp.Error != nil {
		rr.Error = resp.Error.Message
	}

	return rr
}

func computeAverages(runs []runResult) *caseAverages {
	var successCount int
	var avg caseAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.CleaningMs += float64(r.CleaningMs)
		avg.SavingsPercent += r.SavingsPercent
		avg.ContentLength += float64(r.ContentLength)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.CleaningMs /= n
	avg.SavingsPercent /= n
	avg.ContentLength /= n
	return &avg
}

func printTable(results []caseResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "File\tMode\tAvg Latency\tTokens Saved\tContent Len\n")
	fmt.Fprintf(w, "────\t────\t───────────\t────────────\t───────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t-\t-\n", truncateName(r.File, 30), r.Mode)
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%dms\t%.1f%%\t%s\n",
			truncateName(r.File, 30),
			r.Mode,
			int64(r.Averages.TotalMs),
			r.Averages.SavingsPercent,
			formatInt(int(r.Averages.ContentLength)),
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func formatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
