package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ghostdb/ghostbench/harness"
)

// comparisonSize is the record count whose measured figures feed the
// comparison chart.
const comparisonSize = 10000

// referenceStores holds throughput figures for other well-known stores.
// These are illustrative placeholders, not measurements produced by
// this tool.
var referenceStores = []struct {
	name          string
	insertsPerSec float64
	lookupsPerSec float64
}{
	{"Redis (In-Memory)", 100000, 100000},
	{"MongoDB (Disk)", 10000, 20000},
	{"SQLite (Disk)", 5000, 10000},
	{"LocalStorage (Browser)", 100, 1000},
}

// RenderComparison writes a two-panel PNG comparing the measured
// GhostDB figures at the 10,000-record scale against the reference
// stores, as horizontal log-scaled bar charts. The input is only read.
func RenderComparison(res *harness.Result, path string) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}

	m := res.Metrics(pickComparisonSize(res))

	names := make([]string, 0, len(referenceStores)+1)
	inserts := make([]float64, 0, len(referenceStores)+1)
	lookups := make([]float64, 0, len(referenceStores)+1)

	names = append(names, "GhostDB (Ours)")
	inserts = append(inserts, float64(m.Insert))
	lookups = append(lookups, float64(m.HashLookup))

	for _, ref := range referenceStores {
		names = append(names, ref.name)
		inserts = append(inserts, ref.insertsPerSec)
		lookups = append(lookups, ref.lookupsPerSec)
	}

	insertPanel, err := horizontalLogBars(
		"Insert Performance Comparison", "Inserts per Second",
		names, inserts,
	)
	if err != nil {
		return fmt.Errorf("build insert panel: %w", err)
	}

	lookupPanel, err := horizontalLogBars(
		"Lookup Performance Comparison", "Lookups per Second",
		names, lookups,
	)
	if err != nil {
		return fmt.Errorf("build lookup panel: %w", err)
	}

	plots := [][]*plot.Plot{{insertPanel, lookupPanel}}

	return saveTiled(plots, 16*vg.Inch, 6*vg.Inch, path)
}

// pickComparisonSize returns comparisonSize when the run covered it,
// otherwise the largest size measured.
func pickComparisonSize(res *harness.Result) int {
	for _, size := range res.Sizes {
		if size == comparisonSize {
			return size
		}
	}

	return res.Sizes[len(res.Sizes)-1]
}

// horizontalLogBars draws one horizontal bar per named store. Bar
// lengths are log10-transformed with decade ticks, since a zero-based
// bar has no image under a true log axis transform.
func horizontalLogBars(
	title, axisLabel string,
	names []string,
	values []float64,
) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = axisLabel

	maxLog := 0.0

	for i, v := range values {
		logs := make(plotter.Values, len(values))
		logs[i] = math.Log10(math.Max(v, 1))

		if logs[i] > maxLog {
			maxLog = logs[i]
		}

		bars, err := plotter.NewBarChart(logs, vg.Points(18))
		if err != nil {
			return nil, err
		}

		bars.Horizontal = true
		bars.Color = palette[i%len(palette)]
		bars.LineStyle.Width = 0
		p.Add(bars)
	}

	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: math.Log10(math.Max(v, 1)) + 0.05, Y: float64(i)}
		texts[i] = humanize.Comma(int64(v))
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}

	p.Add(labels)
	p.X.Tick.Marker = decadeTicks(int(math.Ceil(maxLog)))
	p.X.Max = maxLog + 0.6
	p.NominalY(names...)

	return p, nil
}

// decadeTicks labels positions 0..n with 1, 10, 100, ... since bar
// lengths are log10 values.
func decadeTicks(n int) plot.ConstantTicks {
	ticks := make([]plot.Tick, n+1)
	for k := 0; k <= n; k++ {
		ticks[k] = plot.Tick{
			Value: float64(k),
			Label: humanize.Comma(int64(math.Pow10(k))),
		}
	}

	return plot.ConstantTicks(ticks)
}
