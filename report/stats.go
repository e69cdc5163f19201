package report

import "github.com/ghostdb/ghostbench/harness"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// BytesPerRecord converts a memory figure in megabytes into bytes per
// stored record.
func BytesPerRecord(memoryMB float64, records int) float64 {
	if records == 0 {
		return 0
	}

	return memoryMB * 1024 * 1024 / float64(records)
}

// AvgBytesPerRecord returns the mean bytes-per-record across all sizes.
// Both the chart renderer and the summary writer derive their figure
// from here so the two always agree.
func AvgBytesPerRecord(res *harness.Result) float64 {
	values := make([]float64, 0, len(res.Sizes))
	for _, size := range res.Sizes {
		m := res.Metrics(size)
		values = append(values, BytesPerRecord(m.MemoryMegabytes(), size))
	}

	return Mean(values)
}

// HashRangeRatio returns how much faster hash-index equality lookups
// are than B+ tree range queries, as mean(hashLookup)/mean(rangeQuery)
// across all sizes.
func HashRangeRatio(res *harness.Result) float64 {
	hash := make([]float64, 0, len(res.Sizes))
	rng := make([]float64, 0, len(res.Sizes))

	for _, size := range res.Sizes {
		m := res.Metrics(size)
		hash = append(hash, float64(m.HashLookup))
		rng = append(rng, float64(m.RangeQuery))
	}

	meanRange := Mean(rng)
	if meanRange == 0 {
		return 0
	}

	return Mean(hash) / meanRange
}

func meanOf(res *harness.Result, metric func(harness.OpMetrics) float64) float64 {
	values := make([]float64, 0, len(res.Sizes))
	for _, size := range res.Sizes {
		values = append(values, metric(res.Metrics(size)))
	}

	return Mean(values)
}
