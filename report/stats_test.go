package report

import (
	"math"
	"testing"

	"github.com/ghostdb/ghostbench/harness"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"several", []float64{1450, 1380, 1320, 1250}, 1350},
		{"fractional", []float64{1, 2}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); got != tt.want {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestBytesPerRecord(t *testing.T) {
	got := BytesPerRecord(0.15, 1000)
	want := 0.15 * 1024 * 1024 / 1000

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("BytesPerRecord(0.15, 1000) = %v, want %v", got, want)
	}

	if got := BytesPerRecord(1.0, 0); got != 0 {
		t.Errorf("BytesPerRecord with zero records = %v, want 0", got)
	}
}

func TestAvgBytesPerRecord(t *testing.T) {
	res := harness.SampleResult()

	var sum float64
	for _, size := range res.Sizes {
		m := res.Metrics(size)
		sum += m.MemoryMegabytes() * 1024 * 1024 / float64(size)
	}
	want := sum / float64(len(res.Sizes))

	got := AvgBytesPerRecord(res)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("AvgBytesPerRecord = %v, want %v", got, want)
	}
}

func TestHashRangeRatio(t *testing.T) {
	res := harness.SampleResult()

	// mean(hashLookup) = 7500, mean(rangeQuery) = 135.
	want := 7500.0 / 135.0

	got := HashRangeRatio(res)
	if math.Abs(got-want) > 0.005 {
		t.Errorf("HashRangeRatio = %.4f, want %.4f", got, want)
	}
}

func TestHashRangeRatioZeroRange(t *testing.T) {
	res := &harness.Result{
		Sizes: []int{100},
		Operations: map[string]harness.OpMetrics{
			"100": {HashLookup: 500, RangeQuery: 0},
		},
	}

	if got := HashRangeRatio(res); got != 0 {
		t.Errorf("HashRangeRatio with zero range mean = %v, want 0", got)
	}
}
