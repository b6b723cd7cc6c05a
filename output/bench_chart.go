package output

import (
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// benchSeries groups results by algorithm, aligned to the sorted distinct
// sizes. Sizes an algorithm was not run at are left as nil points.
func benchSeries(results []BenchResult) ([]int, []string, map[string][]opts.LineData) {
	sizeSet := make(map[int]struct{})
	var algorithms []string
	byAlgo := make(map[string]map[int]float64)
	for _, r := range results {
		sizeSet[r.Size] = struct{}{}
		if _, ok := byAlgo[r.Algorithm]; !ok {
			byAlgo[r.Algorithm] = make(map[int]float64)
			algorithms = append(algorithms, r.Algorithm)
		}
		byAlgo[r.Algorithm][r.Size] = r.NSPerKey
	}

	sizes := make([]int, 0, len(sizeSet))
	for s := range sizeSet {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)

	series := make(map[string][]opts.LineData, len(algorithms))
	for _, algo := range algorithms {
		data := make([]opts.LineData, len(sizes))
		for i, s := range sizes {
			if v, ok := byAlgo[algo][s]; ok {
				data[i] = opts.LineData{Name: FormatNumber(s), Value: v}
			}
		}
		series[algo] = data
	}
	return sizes, algorithms, series
}

// PlotBench writes a line chart of nanoseconds per key against input size.
func PlotBench(results []BenchResult, filename string) error {
	if len(results) == 0 {
		return fmt.Errorf("no benchmark results to plot")
	}
	sizes, algorithms, series := benchSeries(results)

	labels := make([]string, len(sizes))
	for i, s := range sizes {
		labels[i] = FormatNumber(s)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Sort Benchmark",
			Width:           "150vh",
			Height:          "80vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Nanoseconds per Key",
			Left:  "center",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Keys",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "ns/key",
		}),
	)

	line.SetXAxis(labels)
	for _, algo := range algorithms {
		line.AddSeries(algo, series[algo])
	}

	return renderPage(filename, "benchmark chart", line)
}
