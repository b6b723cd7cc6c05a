package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/ChristianF88/radixsort/bench"
	"github.com/ChristianF88/radixsort/config"
	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/keygen"
	"github.com/ChristianF88/radixsort/output"
	"github.com/ChristianF88/radixsort/pools"
	"github.com/ChristianF88/radixsort/radix"
	"github.com/ChristianF88/radixsort/sliding"
	"github.com/ChristianF88/radixsort/tui"
)

// OutputConfig contains output formatting options
type OutputConfig struct {
	Compact bool
	Plain   bool
	JSON    bool
	TUI     bool
}

// ============================================================================
// MAIN ENTRY POINTS
// ============================================================================

// SortFromConfig reads the input keys, sorts them and writes them out. With
// JSON output the summary goes to stdout and keys are written only when an
// output file is configured.
func SortFromConfig(cfg *config.Config, out OutputConfig) error {
	start := time.Now()
	result := newResult("sort", start, cfg)

	format, err := cfg.Format()
	if err != nil {
		return err
	}

	keys, sortResult, err := sortInput(cfg.Sort.Input, format, cfg.Sort.Verify)
	if err != nil {
		return err
	}
	sortResult.Output = cfg.Sort.Output

	if !out.JSON || !isStdout(cfg.Sort.Output) {
		if err := ingestor.WriteKeysFile(cfg.Sort.Output, keys, format); err != nil {
			return err
		}
	}

	if cfg.Sort.PlotPath != "" {
		plotDigits(result, radix.ComputeHistogram(keys), cfg.Sort.PlotPath)
	}

	verifyErr := checkVerified(result, sortResult)

	if out.JSON {
		result.Sort = sortResult
		result.UpdateDuration(start)
		outputResult(result, out)
	} else {
		reportDiagnostics(result)
	}
	return verifyErr
}

// GenerateFromConfig writes generated keys to the configured output.
func GenerateFromConfig(cfg *config.Config) error {
	format, err := cfg.Format()
	if err != nil {
		return err
	}

	gen := cfg.Generate
	var keys []uint32
	if gen.CIDR != "" {
		keys, err = keygen.GenerateIPs(gen.CIDR, gen.Count)
	} else {
		var kind keygen.Kind
		if kind, err = keygen.ParseKind(gen.Kind); err == nil {
			keys, err = keygen.Generate(kind, gen.Count, gen.Seed)
		}
	}
	if err != nil {
		return err
	}

	if err := ingestor.WriteKeysFile(gen.Output, keys, format); err != nil {
		return err
	}
	if !isStdout(gen.Output) {
		fmt.Printf("Wrote %s %s keys to %s\n", output.FormatNumber(len(keys)), format, gen.Output)
	}
	return nil
}

// BenchFromConfig times the sort implementations and reports the results.
func BenchFromConfig(cfg *config.Config, out OutputConfig) error {
	start := time.Now()
	result := newResult("bench", start, cfg)

	kind, err := keygen.ParseKind(cfg.Bench.Kind)
	if err != nil {
		return err
	}

	results, err := bench.Run(cfg.Bench.Sizes, cfg.Bench.Iterations, kind, cfg.Bench.Seed)
	if err != nil {
		return err
	}
	result.Bench = results

	failed := bench.Failed(results)
	for _, r := range failed {
		result.AddError("verify", fmt.Sprintf("%s produced wrong output at size %d", r.Algorithm, r.Size), 1)
	}

	if cfg.Bench.PlotPath != "" {
		if err := output.PlotBench(results, cfg.Bench.PlotPath); err != nil {
			result.AddError("plot", err.Error(), 1)
		} else {
			result.AddWarning("info", fmt.Sprintf("Benchmark chart written to %s", cfg.Bench.PlotPath), 0)
		}
	}

	result.UpdateDuration(start)
	outputResult(result, out)

	if len(failed) > 0 {
		return fmt.Errorf("%d benchmark runs produced unsorted output", len(failed))
	}
	return nil
}

// InspectFromConfig sorts the input and reports its digit distribution, or
// opens the terminal UI with it.
func InspectFromConfig(cfg *config.Config, out OutputConfig) error {
	start := time.Now()
	result := newResult("inspect", start, cfg)

	format, err := cfg.Format()
	if err != nil {
		return err
	}

	keys, sortResult, err := sortInput(cfg.Sort.Input, format, cfg.Sort.Verify)
	if err != nil {
		return err
	}
	h := radix.ComputeHistogram(keys)

	result.Sort = sortResult
	result.Histogram = output.NewHistogramResult(h)

	if cfg.Sort.PlotPath != "" {
		plotDigits(result, h, cfg.Sort.PlotPath)
	}
	verifyErr := checkVerified(result, sortResult)
	result.UpdateDuration(start)

	if out.TUI {
		if err := tui.NewApp(result, h, keys, format).Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return verifyErr
	}

	outputResult(result, out)
	return verifyErr
}

// ListenFromConfig runs listen mode from config
func ListenFromConfig(cfg *config.Config, out OutputConfig) {
	executeListen(cfg, out)
}

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

func newResult(command string, start time.Time, cfg *config.Config) *output.JSONOutput {
	result := output.NewJSONOutput(command, start)
	for _, w := range cfg.Warnings {
		result.AddWarning("config", w, 0)
	}
	return result
}

func isStdout(path string) bool {
	return path == "" || path == "-"
}

// sortInput reads and sorts the keys of input and summarizes the run.
func sortInput(input string, format ingestor.Format, verify bool) ([]uint32, *output.SortResult, error) {
	readStart := time.Now()
	keys, err := ingestor.ReadKeysFile(input, format)
	if err != nil {
		return nil, nil, err
	}
	readDuration := time.Since(readStart)

	var original []uint32
	if verify {
		original = slices.Clone(keys)
	}

	sortStart := time.Now()
	radix.SortUint32(keys)
	sortDuration := time.Since(sortStart)

	res := &output.SortResult{
		Input:      input,
		Format:     format.String(),
		Count:      len(keys),
		Distinct:   countDistinct(keys),
		ReadMS:     readDuration.Milliseconds(),
		DurationUS: sortDuration.Microseconds(),
	}
	if len(keys) > 0 {
		res.Min = keys[0]
		res.Max = keys[len(keys)-1]
	}
	if verify {
		ok := radix.IsSorted(keys) && radix.SameMultiset(keys, original)
		res.Verified = &ok
	}
	return keys, res, nil
}

// countDistinct counts distinct values of an ascending slice
func countDistinct(sorted []uint32) int {
	if len(sorted) == 0 {
		return 0
	}
	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	return distinct
}

func checkVerified(result *output.JSONOutput, res *output.SortResult) error {
	if res.Verified != nil && !*res.Verified {
		result.AddError("verify", "sorted output failed verification", 1)
		return fmt.Errorf("verification failed for %s", res.Input)
	}
	return nil
}

func plotDigits(result *output.JSONOutput, h *radix.Histogram, plotPath string) {
	plotStart := time.Now()
	if err := output.PlotDigitHeatmap(h, plotPath); err != nil {
		result.AddError("plot", err.Error(), 1)
		return
	}
	result.AddWarning("info", fmt.Sprintf("Heatmap generated in %v at %s", time.Since(plotStart), plotPath), 0)
}

// reportDiagnostics prints warnings and errors to stderr when stdout carries
// keys.
func reportDiagnostics(result *output.JSONOutput) {
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "%s: %s\n", w.Type, w.Message)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", e.Type, e.Message)
	}
}

// ============================================================================
// LISTEN MODE IMPLEMENTATION
// ============================================================================

// executeListen receives keys over lumberjack and emits the sorted window on
// every flush
func executeListen(cfg *config.Config, out OutputConfig) {
	format, err := cfg.Format()
	if err != nil {
		log.Fatalf("Invalid key format: %v", err)
	}

	window := sliding.NewWindow(cfg.Listen.WindowMaxTime, cfg.Listen.WindowMaxSize)

	ing, err := ingestor.NewTCPIngestor(
		":"+cfg.Listen.Port,
		5*time.Second, // read timeout: avoid client disconnects
		cfg.Listen.Field,
		format,
	)
	if err != nil {
		log.Fatalf("Error creating ingestor: %v", err)
	}

	initOutput := output.NewJSONOutput("listen", time.Now())
	initOutput.AddWarning("info", "Waiting for Filebeat to connect...", 0)
	outputResult(initOutput, out)

	if err := ing.Accept(); err != nil {
		log.Fatalf("Error accepting connection: %v", err)
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		log.Printf("Received shutdown signal, closing ingestor")
		if err := ing.Close(); err != nil {
			log.Printf("Error closing ingestor: %v", err)
		}
	}()

	ticker := time.NewTicker(cfg.Listen.FlushInterval)
	defer ticker.Stop()

	for {
		loopStart := time.Now()

		batch, err := ing.ReadBatch()
		if err != nil {
			errOutput := output.NewJSONOutput("listen", loopStart)
			errOutput.AddError("read_batch", fmt.Sprintf("read error: %v", err), 1)
			outputResult(errOutput, out)
			break
		}

		if len(batch.Keys) == 0 && batch.Skipped == 0 && ing.IsClosed() {
			closedOutput := output.NewJSONOutput("listen", loopStart)
			closedOutput.AddWarning("info", "Ingestor closed. Exiting loop.", 0)
			outputResult(closedOutput, out)
			break
		}

		outputResult(flushWindow(window, batch, loopStart, format), out)

		<-ticker.C
	}
}

// flushWindow feeds one batch into the window and reports the sorted
// distinct keys it holds afterwards.
func flushWindow(window *sliding.Window, batch ingestor.Batch, now time.Time, format ingestor.Format) *output.JSONOutput {
	result := output.NewJSONOutput("listen", now)

	if batch.Skipped > 0 {
		result.AddWarning("invalid_event", "events without a valid key were skipped", batch.Skipped)
	}

	evicted := window.Update(batch.Keys, now)

	sortStart := time.Now()
	sorted := window.SortedDistinct()
	sortDuration := time.Since(sortStart)

	rendered := make([]string, len(sorted))
	for i, k := range sorted {
		rendered[i] = ingestor.FormatKey(k, format)
	}
	distinct := len(sorted)
	pools.Pools.ReturnKeySlice(sorted)

	result.LiveStats = &output.LiveStats{
		WindowSize:     window.Len(),
		Distinct:       distinct,
		ProcessedBatch: len(batch.Keys),
		SkippedEvents:  batch.Skipped,
		Evicted:        evicted,
		LoopDuration:   time.Since(now).Milliseconds(),
		SortDuration:   sortDuration.Microseconds(),
		Keys:           rendered,
	}
	result.UpdateDuration(now)
	return result
}

// ============================================================================
// OUTPUT FUNCTIONS
// ============================================================================

// outputResult is the unified output function that handles all output formats
func outputResult(jsonOutput *output.JSONOutput, outputConfig OutputConfig) {
	if outputConfig.Plain {
		outputPlain(jsonOutput)
		return
	}

	var jsonBytes []byte
	var err error

	if outputConfig.Compact {
		jsonBytes, err = jsonOutput.ToCompactJSON()
	} else {
		jsonBytes, err = jsonOutput.ToJSON()
	}

	if err != nil {
		fmt.Printf(`{"error": "failed to marshal JSON output: %v"}`, err)
		return
	}
	fmt.Println(string(jsonBytes))
}

// outputPlain formats the JSON output as human-readable plain text
func outputPlain(jsonOutput *output.JSONOutput) {
	fmt.Print(formatPlain(jsonOutput))
}

const (
	heavyRule = "════════════════════════════════════════════════════════════════════════════════"
	lightRule = "────────────────────────────────────────────────────────────────────────────────"
)

func formatPlain(j *output.JSONOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", heavyRule)
	fmt.Fprintf(&b, "                             radixsort %s results\n", j.Metadata.Command)
	fmt.Fprintf(&b, "%s\n\n", heavyRule)

	fmt.Fprintf(&b, "Generated:       %s\n", j.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Duration:        %d ms\n\n", j.Metadata.DurationMS)

	if s := j.Sort; s != nil {
		fmt.Fprintf(&b, "SORT\n%s\n", lightRule)
		fmt.Fprintf(&b, "Input:           %s\n", s.Input)
		fmt.Fprintf(&b, "Format:          %s\n", s.Format)
		fmt.Fprintf(&b, "Keys:            %s\n", output.FormatNumber(s.Count))
		fmt.Fprintf(&b, "Distinct:        %s\n", output.FormatNumber(s.Distinct))
		if s.Count > 0 {
			f, _ := ingestor.ParseFormat(s.Format)
			fmt.Fprintf(&b, "Range:           %s .. %s\n", ingestor.FormatKey(s.Min, f), ingestor.FormatKey(s.Max, f))
		}
		fmt.Fprintf(&b, "Read Time:       %d ms\n", s.ReadMS)
		fmt.Fprintf(&b, "Sort Time:       %d µs\n", s.DurationUS)
		if s.Verified != nil {
			fmt.Fprintf(&b, "Verified:        %t\n", *s.Verified)
		}
		b.WriteString("\n")
	}

	if h := j.Histogram; h != nil {
		fmt.Fprintf(&b, "DIGITS\n%s\n", lightRule)
		fmt.Fprintf(&b, "%-7s %-8s %-14s %-16s %s\n", "Round", "Bits", "Used Buckets", "Largest Bucket", "Pass")
		for _, r := range h.Rounds {
			pass := "scatter"
			if r.Skippable {
				pass = "copy only"
			}
			fmt.Fprintf(&b, "%-7d %-8s %-14d %-16s %s\n",
				r.Round, fmt.Sprintf("%d-%d", 8*r.Round, 8*r.Round+7), r.Used,
				fmt.Sprintf("0x%02x × %s", r.MaxDigit, output.FormatNumber(int(r.MaxCount))), pass)
		}
		b.WriteString("\n")
	}

	if len(j.Bench) > 0 {
		fmt.Fprintf(&b, "BENCHMARK\n%s\n", lightRule)
		fmt.Fprintf(&b, "%-14s %12s %14s %14s %10s %s\n", "Algorithm", "Keys", "Best", "Mean", "ns/key", "OK")
		for _, r := range j.Bench {
			fmt.Fprintf(&b, "%-14s %12s %14s %14s %10.2f %t\n",
				r.Algorithm, output.FormatNumber(r.Size),
				time.Duration(r.BestNS).String(), time.Duration(r.MeanNS).String(),
				r.NSPerKey, r.Verified)
		}
		b.WriteString("\n")
	}

	if len(j.Warnings) > 0 || len(j.Errors) > 0 {
		fmt.Fprintf(&b, "DIAGNOSTICS\n%s\n", lightRule)
		for _, e := range j.Errors {
			fmt.Fprintf(&b, "Error:   [%s] %s\n", e.Type, e.Message)
		}
		for _, w := range j.Warnings {
			fmt.Fprintf(&b, "Warning: [%s] %s\n", w.Type, w.Message)
		}
	}

	return b.String()
}
