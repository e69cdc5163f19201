// Package report renders benchmark results into charts and text
// reports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ghostdb/ghostbench/harness"
)

// TimestampLayout names output artifacts, e.g. benchmark_report_20260823_141503.txt.
const TimestampLayout = "20060102_150405"

const ruleWidth = 80

// summaryRows defines the table rows, one per metric, in display order.
var summaryRows = []struct {
	label string
	value func(m harness.OpMetrics) string
}{
	{"Insert (ops/sec)", func(m harness.OpMetrics) string { return strconv.Itoa(m.Insert) }},
	{"Hash Lookup (ops/sec)", func(m harness.OpMetrics) string { return strconv.Itoa(m.HashLookup) }},
	{"Range Query (ops/sec)", func(m harness.OpMetrics) string { return strconv.Itoa(m.RangeQuery) }},
	{"Read by ID (ops/sec)", func(m harness.OpMetrics) string { return strconv.Itoa(m.Read) }},
	{"Update (ops/sec)", func(m harness.OpMetrics) string { return strconv.Itoa(m.Update) }},
	{"Delete (ops/sec)", func(m harness.OpMetrics) string { return strconv.Itoa(m.Delete) }},
	{"Cache Hit Rate (%)", func(m harness.OpMetrics) string { return m.CacheHitRate }},
	{"Memory Usage (MB)", func(m harness.OpMetrics) string { return m.MemoryMB }},
}

// WriteSummary writes the plain-text benchmark report: a fixed-width
// table with one row per metric and one column per size, followed by
// derived aggregate findings. The input is only read.
func WriteSummary(w io.Writer, res *harness.Result) error {
	if len(res.Sizes) == 0 {
		return fmt.Errorf("no results to report")
	}

	rule := strings.Repeat("=", ruleWidth)
	thinRule := strings.Repeat("-", ruleWidth)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "GHOSTDB PERFORMANCE BENCHMARK REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PERFORMANCE SUMMARY")
	fmt.Fprintln(w, thinRule)

	fmt.Fprintf(w, "%-25s", "Operation")
	for _, size := range res.Sizes {
		fmt.Fprintf(w, " %-12s", sizeShort(size))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, thinRule)

	for _, row := range summaryRows {
		fmt.Fprintf(w, "%-25s", row.label)
		for _, size := range res.Sizes {
			fmt.Fprintf(w, " %-12s", row.value(res.Metrics(size)))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "KEY FINDINGS")
	fmt.Fprintln(w)

	avgInsert := meanOf(res, func(m harness.OpMetrics) float64 { return float64(m.Insert) })
	avgHash := meanOf(res, func(m harness.OpMetrics) float64 { return float64(m.HashLookup) })
	avgRange := meanOf(res, func(m harness.OpMetrics) float64 { return float64(m.RangeQuery) })

	fmt.Fprintf(w, "- Average Insert Rate: %s ops/sec\n", commaRound(avgInsert))
	fmt.Fprintf(w, "- Average Hash Lookup Rate: %s ops/sec\n", commaRound(avgHash))
	fmt.Fprintf(w, "- Average Range Query Rate: %s ops/sec\n", commaRound(avgRange))
	fmt.Fprintf(w,
		"- Hash Index is %.1fx faster than B+ Tree for equality queries\n",
		HashRangeRatio(res),
	)
	fmt.Fprintf(w, "- Cache Hit Rate: %s%%\n",
		res.Metrics(res.Sizes[0]).CacheHitRate)
	fmt.Fprintf(w, "- Memory Efficiency: ~%.0f bytes per record\n",
		AvgBytesPerRecord(res))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)

	return nil
}

// WriteJSON writes the result structure as indented JSON to w.
func WriteJSON(w io.Writer, res *harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}

// sizeShort abbreviates whole thousands, so 25000 renders as 25K.
func sizeShort(size int) string {
	if size >= 1000 && size%1000 == 0 {
		return strconv.Itoa(size/1000) + "K"
	}

	return strconv.Itoa(size)
}

func commaRound(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}
