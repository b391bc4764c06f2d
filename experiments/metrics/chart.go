package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MovingAverage smooths values over a trailing window.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// WriteChart renders the smoothed episode returns of every learning run into
// learning_curves.html. Runs without episodes (planning) are skipped.
func (w *Writer) WriteChart(runs []RunMetric, window int) error {
	longest := 0
	for _, run := range runs {
		if len(run.Returns) > longest {
			longest = len(run.Returns)
		}
	}
	if longest == 0 {
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Episode return",
			Subtitle: fmt.Sprintf("moving average over %d episodes", window),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	episodes := make([]string, longest)
	for i := range episodes {
		episodes[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(episodes)

	for _, run := range runs {
		if len(run.Returns) == 0 {
			continue
		}
		items := make([]opts.LineData, 0, len(run.Returns))
		for _, v := range MovingAverage(run.Returns, window) {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(run.Algorithm+"/"+run.Environment, items)
	}

	page := components.NewPage()
	page.AddCharts(line)

	path := filepath.Join(w.baseDir, "learning_curves.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	err = page.Render(f)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
