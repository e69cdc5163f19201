package report

import (
	"fmt"
	"image/color"
	"os"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ghostdb/ghostbench/harness"
)

// palette carries the six series colors used across all charts.
var palette = []color.Color{
	color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF}, // blue
	color.RGBA{R: 0xA2, G: 0x3B, B: 0x72, A: 0xFF}, // magenta
	color.RGBA{R: 0xF1, G: 0x8F, B: 0x01, A: 0xFF}, // orange
	color.RGBA{R: 0xC7, G: 0x3E, B: 0x1D, A: 0xFF}, // red
	color.RGBA{R: 0x6A, G: 0x99, B: 0x4E, A: 0xFF}, // green
	color.RGBA{R: 0xBC, G: 0x4B, B: 0x51, A: 0xFF}, // rose
}

var refLineColor = color.RGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}

// operationTypes lists the benchmarked operations in display order.
var operationTypes = []struct {
	label string
	value func(m harness.OpMetrics) float64
}{
	{"Insert", func(m harness.OpMetrics) float64 { return float64(m.Insert) }},
	{"Hash Lookup", func(m harness.OpMetrics) float64 { return float64(m.HashLookup) }},
	{"Range Query", func(m harness.OpMetrics) float64 { return float64(m.RangeQuery) }},
	{"Read by ID", func(m harness.OpMetrics) float64 { return float64(m.Read) }},
	{"Update", func(m harness.OpMetrics) float64 { return float64(m.Update) }},
	{"Delete", func(m harness.OpMetrics) float64 { return float64(m.Delete) }},
}

// RenderCharts writes the six-panel benchmark analysis chart to path as
// a single PNG. The input is only read.
func RenderCharts(res *harness.Result, path string) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}

	panels := []struct {
		name  string
		build func(*harness.Result) (*plot.Plot, error)
	}{
		{"operations per second", opsPerSecondPanel},
		{"scalability", scalabilityPanel},
		{"index comparison", indexComparisonPanel},
		{"memory", memoryPanel},
		{"insert scaling", insertScalingPanel},
		{"cache", cachePanel},
	}

	plots := make([][]*plot.Plot, 2)
	plots[0] = make([]*plot.Plot, 3)
	plots[1] = make([]*plot.Plot, 3)

	for i, panel := range panels {
		p, err := panel.build(res)
		if err != nil {
			return fmt.Errorf("build %s panel: %w", panel.name, err)
		}

		plots[i/3][i%3] = p
	}

	return saveTiled(plots, 18*vg.Inch, 10*vg.Inch, path)
}

// saveTiled draws a grid of plots onto one PNG canvas.
func saveTiled(plots [][]*plot.Plot, w, h vg.Length, path string) error {
	img := vgimg.NewWith(vgimg.UseWH(w, h))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			if plots[row][col] != nil {
				plots[row][col].Draw(canvases[row][col])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()

		return fmt.Errorf("encode chart: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart file: %w", err)
	}

	return nil
}

// opsPerSecondPanel draws grouped bars: one group per operation type,
// one bar per record count.
func opsPerSecondPanel(res *harness.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Operations per Second by Type"
	p.X.Label.Text = "Operation Type"
	p.Y.Label.Text = "Operations per Second"

	barWidth := vg.Points(7)
	groupWidth := barWidth * vg.Length(len(res.Sizes)-1)

	for i, size := range res.Sizes {
		m := res.Metrics(size)

		values := make(plotter.Values, len(operationTypes))
		for j, op := range operationTypes {
			values[j] = op.value(m)
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, err
		}

		bars.Color = palette[i%len(palette)]
		bars.LineStyle.Width = 0
		bars.Offset = barWidth*vg.Length(i) - groupWidth/2

		p.Add(bars)
		p.Legend.Add(humanize.Comma(int64(size))+" records", bars)
	}

	labels := make([]string, len(operationTypes))
	for i, op := range operationTypes {
		labels[i] = op.label
	}

	p.NominalX(labels...)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// scalabilityPanel draws ops/sec against record count for every
// operation type, with a log-scaled X axis.
func scalabilityPanel(res *harness.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Scalability Analysis"
	p.X.Label.Text = "Number of Records"
	p.Y.Label.Text = "Operations per Second"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = sizeTicks(res.Sizes)

	for i, op := range operationTypes {
		xys := make(plotter.XYs, len(res.Sizes))
		for j, size := range res.Sizes {
			xys[j].X = float64(size)
			xys[j].Y = op.value(res.Metrics(size))
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}

		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1.5)
		points.Color = palette[i%len(palette)]
		points.Radius = vg.Points(2.5)

		p.Add(line, points)
		p.Legend.Add(op.label, line, points)
	}

	p.Legend.Top = true

	return p, nil
}

// indexComparisonPanel compares hash-index equality lookups against
// B+ tree range queries at each size, with value labels on the bars.
func indexComparisonPanel(res *harness.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Hash Index vs B+ Tree Performance"
	p.X.Label.Text = "Number of Records"
	p.Y.Label.Text = "Queries per Second"

	hashValues := make(plotter.Values, len(res.Sizes))
	rangeValues := make(plotter.Values, len(res.Sizes))
	for i, size := range res.Sizes {
		m := res.Metrics(size)
		hashValues[i] = float64(m.HashLookup)
		rangeValues[i] = float64(m.RangeQuery)
	}

	barWidth := vg.Points(14)

	hashBars, err := plotter.NewBarChart(hashValues, barWidth)
	if err != nil {
		return nil, err
	}

	hashBars.Color = palette[0]
	hashBars.LineStyle.Width = 0
	hashBars.Offset = -barWidth / 2

	rangeBars, err := plotter.NewBarChart(rangeValues, barWidth)
	if err != nil {
		return nil, err
	}

	rangeBars.Color = palette[1]
	rangeBars.LineStyle.Width = 0
	rangeBars.Offset = barWidth / 2

	p.Add(hashBars, rangeBars)
	p.Legend.Add("Hash Index (Equality)", hashBars)
	p.Legend.Add("B+ Tree (Range)", rangeBars)

	labels, err := barValueLabels(hashValues, rangeValues)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.NominalX(sizeLabels(res.Sizes)...)
	p.Legend.Top = true

	return p, nil
}

// barValueLabels annotates two side-by-side bar series with their
// comma-grouped values, offset left and right of each group center.
func barValueLabels(left, right plotter.Values) (*plotter.Labels, error) {
	xys := make(plotter.XYs, 0, len(left)+len(right))
	texts := make([]string, 0, len(left)+len(right))

	for i, v := range left {
		xys = append(xys, plotter.XY{X: float64(i) - 0.22, Y: v * 1.01})
		texts = append(texts, humanize.Comma(int64(v)))
	}

	for i, v := range right {
		xys = append(xys, plotter.XY{X: float64(i) + 0.05, Y: v * 1.01})
		texts = append(texts, humanize.Comma(int64(v)))
	}

	return plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
}

// memoryPanel draws memory use per size with a bytes-per-record
// annotation derived from AvgBytesPerRecord.
func memoryPanel(res *harness.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Memory Efficiency"
	p.X.Label.Text = "Number of Records"
	p.Y.Label.Text = "Memory Usage (MB)"

	values := make(plotter.Values, len(res.Sizes))
	maxMem := 0.0

	for i, size := range res.Sizes {
		values[i] = res.Metrics(size).MemoryMegabytes()
		if values[i] > maxMem {
			maxMem = values[i]
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(22))
	if err != nil {
		return nil, err
	}

	bars.Color = palette[2]
	bars.LineStyle.Width = 0
	p.Add(bars)

	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i) - 0.1, Y: v + maxMem*0.02}
		texts[i] = fmt.Sprintf("%.2f MB", v)
	}

	annotation := fmt.Sprintf("Avg: %.0f bytes/record", AvgBytesPerRecord(res))
	xys = append(xys, plotter.XY{
		X: float64(len(values)-1) / 2.5,
		Y: maxMem * 1.12,
	})
	texts = append(texts, annotation)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}

	p.Add(labels)
	p.Y.Max = maxMem * 1.25
	p.NominalX(sizeLabels(res.Sizes)...)

	return p, nil
}

// insertScalingPanel draws measured total insert time against a linear
// projection extrapolated from the smallest size.
func insertScalingPanel(res *harness.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Insert Performance Scaling"
	p.X.Label.Text = "Number of Records"
	p.Y.Label.Text = "Total Insert Time (ms)"
	p.X.Tick.Marker = sizeTicks(res.Sizes)

	actual := make(plotter.XYs, len(res.Sizes))
	theoretical := make(plotter.XYs, len(res.Sizes))

	baseSize := res.Sizes[0]
	baseTime := float64(res.Metrics(baseSize).InsertTimeMs)

	for i, size := range res.Sizes {
		actual[i].X = float64(size)
		actual[i].Y = float64(res.Metrics(size).InsertTimeMs)
		theoretical[i].X = float64(size)
		theoretical[i].Y = baseTime * float64(size) / float64(baseSize)
	}

	actualLine, actualPoints, err := plotter.NewLinePoints(actual)
	if err != nil {
		return nil, err
	}

	actualLine.Color = palette[3]
	actualLine.Width = vg.Points(2)
	actualPoints.Color = palette[3]
	actualPoints.Radius = vg.Points(3)

	theoreticalLine, err := plotter.NewLine(theoretical)
	if err != nil {
		return nil, err
	}

	theoreticalLine.Color = color.Gray{Y: 0x80}
	theoreticalLine.Width = vg.Points(1.5)
	theoreticalLine.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(actualLine, actualPoints, theoreticalLine)
	p.Legend.Add("Actual Time", actualLine, actualPoints)
	p.Legend.Add("Theoretical O(n)", theoreticalLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// cachePanel draws the cache hit rate per size with a reference line at
// a perfect 100%.
func cachePanel(res *harness.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Cache Efficiency"
	p.X.Label.Text = "Number of Records"
	p.Y.Label.Text = "Cache Hit Rate (%)"

	values := make(plotter.Values, len(res.Sizes))
	for i, size := range res.Sizes {
		values[i] = res.Metrics(size).CacheHitPercent()
	}

	bars, err := plotter.NewBarChart(values, vg.Points(22))
	if err != nil {
		return nil, err
	}

	bars.Color = palette[4]
	bars.LineStyle.Width = 0
	p.Add(bars)

	perfect, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 100},
		{X: float64(len(res.Sizes)) - 0.5, Y: 100},
	})
	if err != nil {
		return nil, err
	}

	perfect.Color = refLineColor
	perfect.Width = vg.Points(1.5)
	perfect.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	p.Add(perfect)
	p.Legend.Add("Perfect Cache", perfect)
	p.Legend.Top = true
	p.Legend.Left = true

	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i) - 0.12, Y: v + 1}
		texts[i] = fmt.Sprintf("%.1f%%", v)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}

	p.Add(labels)
	p.Y.Min = 0
	p.Y.Max = 110
	p.NominalX(sizeLabels(res.Sizes)...)

	return p, nil
}

func sizeLabels(sizes []int) []string {
	labels := make([]string, len(sizes))
	for i, size := range sizes {
		labels[i] = humanize.Comma(int64(size))
	}

	return labels
}

func sizeTicks(sizes []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(sizes))
	for i, size := range sizes {
		ticks[i] = plot.Tick{
			Value: float64(size),
			Label: humanize.Comma(int64(size)),
		}
	}

	return plot.ConstantTicks(ticks)
}
