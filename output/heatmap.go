package output

import (
	"fmt"
	"os"

	"github.com/ChristianF88/radixsort/radix"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// digitHeatmapData turns a histogram into heatmap cells, x = digit, y = round.
// Empty buckets are left out.
func digitHeatmapData(h *radix.Histogram) ([]opts.HeatMapData, uint64) {
	var heatmapData []opts.HeatMapData
	var maxCount uint64
	for round := 0; round < radix.Rounds; round++ {
		for digit := 0; digit < radix.Buckets; digit++ {
			count := h.Counts[round][digit]
			if count > maxCount {
				maxCount = count
			}
			if count > 0 {
				label := fmt.Sprintf("round %d, digit 0x%02x", round, digit)
				heatmapData = append(heatmapData, opts.HeatMapData{
					Value: [3]interface{}{digit, round, count},
					Name:  label, // This appears in tooltip via {b}
				})
			}
		}
	}
	return heatmapData, maxCount
}

// PlotDigitHeatmap creates an interactive heatmap of the digit histogram, one
// row per radix round.
func PlotDigitHeatmap(h *radix.Histogram, filename string) error {
	heatmapData, maxCount := digitHeatmapData(h)

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Radix Digit Heatmap",
			Width:           "180vh",
			Height:          "60vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Digit Distribution per Round",
			Subtitle: fmt.Sprintf("%s keys", FormatNumber(int(h.Total()))),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Count: ' + params.value[2];
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  0,
			Max:  float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#ffff8f", "#ff0000", "#000000"},
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "Digit",
			Type:        "category",
			Data:        makeRange(0, radix.Buckets-1),
			SplitNumber: 16,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Round",
			Type: "category",
			Data: makeRange(0, radix.Rounds-1),
		}),
	)

	heatmap.AddSeries("Digits", heatmapData)

	return renderPage(filename, "heatmap", heatmap)
}

// renderPage writes charts into a single HTML page.
func renderPage(filename, kind string, chart ...components.Charter) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(chart...)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s file %s: %w", kind, filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering %s: %w", kind, err)
	}
	return nil
}

// makeRange creates an integer slice [min..max]
func makeRange(min, max int) []int {
	r := make([]int, max-min+1)
	for i := range r {
		r[i] = min + i
	}
	return r
}
