package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ghostdb/ghostbench/harness"
)

func TestWriteSummary(t *testing.T) {
	res := harness.SampleResult()

	var buf bytes.Buffer
	if err := WriteSummary(&buf, res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "GHOSTDB PERFORMANCE BENCHMARK REPORT") {
		t.Error("missing report header")
	}

	for _, col := range []string{"1K", "5K", "10K", "25K"} {
		if !strings.Contains(output, col) {
			t.Errorf("missing size column header %q", col)
		}
	}

	// Every metric row must be present.
	for _, label := range []string{
		"Insert (ops/sec)", "Hash Lookup (ops/sec)",
		"Range Query (ops/sec)", "Read by ID (ops/sec)",
		"Update (ops/sec)", "Delete (ops/sec)",
		"Cache Hit Rate (%)", "Memory Usage (MB)",
	} {
		if !strings.Contains(output, label) {
			t.Errorf("missing row %q", label)
		}
	}
}

func TestWriteSummaryCacheHitRow(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, harness.SampleResult()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	var row string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "Cache Hit Rate (%)") {
			row = line
			break
		}
	}

	if row == "" {
		t.Fatal("cache hit rate row not found")
	}

	fields := strings.Fields(row)
	want := []string{
		"Cache", "Hit", "Rate", "(%)",
		"100.00", "100.00", "100.00", "100.00",
	}

	if !reflect.DeepEqual(fields, want) {
		t.Errorf("cache hit rate row = %v, want %v", fields, want)
	}
}

func TestWriteSummaryAverages(t *testing.T) {
	res := harness.SampleResult()

	var buf bytes.Buffer
	if err := WriteSummary(&buf, res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	output := buf.String()

	// Arithmetic means over the sample dataset:
	// insert (1450+1380+1320+1250)/4 = 1350
	// hashLookup (8500+7800+7200+6500)/4 = 7500
	// rangeQuery (145+138+132+125)/4 = 135
	checks := []string{
		"Average Insert Rate: 1,350 ops/sec",
		"Average Hash Lookup Rate: 7,500 ops/sec",
		"Average Range Query Rate: 135 ops/sec",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("missing finding %q", want)
		}
	}

	wantRatio := fmt.Sprintf(
		"Hash Index is %.1fx faster than B+ Tree", HashRangeRatio(res),
	)
	if !strings.Contains(output, wantRatio) {
		t.Errorf("missing finding %q", wantRatio)
	}

	wantBytes := fmt.Sprintf(
		"Memory Efficiency: ~%.0f bytes per record", AvgBytesPerRecord(res),
	)
	if !strings.Contains(output, wantBytes) {
		t.Errorf("missing finding %q", wantBytes)
	}
}

func TestWriteSummaryDoesNotMutate(t *testing.T) {
	res := harness.SampleResult()
	before := harness.SampleResult()

	var buf bytes.Buffer
	if err := WriteSummary(&buf, res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	if !reflect.DeepEqual(res, before) {
		t.Error("WriteSummary mutated its input")
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummary(&buf, &harness.Result{})
	if err == nil {
		t.Error("expected error for empty result")
	}
}

func TestWriteJSON(t *testing.T) {
	res := harness.SampleResult()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var parsed harness.Result
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if err := parsed.Validate(); err != nil {
		t.Errorf("round-tripped result failed validation: %v", err)
	}
	if parsed.Metrics(10000).HashLookup != 7200 {
		t.Errorf("hashLookup = %d, want 7200", parsed.Metrics(10000).HashLookup)
	}
}

func TestSizeShort(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{1000, "1K"},
		{5000, "5K"},
		{25000, "25K"},
		{500, "500"},
		{1500, "1500"},
	}

	for _, tt := range tests {
		if got := sizeShort(tt.size); got != tt.want {
			t.Errorf("sizeShort(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
