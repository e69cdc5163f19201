package harness

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderDriverScript(t *testing.T) {
	script, err := renderDriverScript([]int{1000, 5000})
	if err != nil {
		t.Fatalf("renderDriverScript failed: %v", err)
	}

	if !strings.Contains(script, "const SIZES = [1000,5000];") {
		t.Error("sizes not substituted into driver script")
	}
	if strings.Contains(script, sizesPlaceholder) {
		t.Error("placeholder left in rendered script")
	}
}

func TestWriteDriverScriptCreatesFile(t *testing.T) {
	path, err := writeDriverScript(DefaultSizes())
	if err != nil {
		t.Fatalf("writeDriverScript failed: %v", err)
	}
	defer os.Remove(path)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read driver script: %v", err)
	}

	if !strings.Contains(string(content), "JSON.stringify(results)") {
		t.Error("driver script missing JSON output statement")
	}
}

// expectFallback asserts that res is the sample dataset bit-for-bit,
// marked as a fallback.
func expectFallback(t *testing.T, res *Result) {
	t.Helper()

	if !res.Fallback {
		t.Error("result not marked as fallback")
	}

	want := SampleResult()
	want.Fallback = true

	if !reflect.DeepEqual(res, want) {
		t.Error("fallback result differs from sample dataset")
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner(
		"/nonexistent/ghostbench-no-such-binary",
		DefaultSizes(), time.Minute, testLogger(),
	)

	res, cause := r.Run(context.Background())

	if cause != FailureSpawn {
		t.Errorf("cause = %s, want spawn", cause)
	}

	expectFallback(t, res)
}

func TestRunNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false binary not available")
	}

	r := NewRunner("false", DefaultSizes(), time.Minute, testLogger())

	res, cause := r.Run(context.Background())

	if cause != FailureExit {
		t.Errorf("cause = %s, want exit", cause)
	}

	expectFallback(t, res)
}

func TestRunEmptyOutput(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true binary not available")
	}

	r := NewRunner("true", DefaultSizes(), time.Minute, testLogger())

	res, cause := r.Run(context.Background())

	if cause != FailureDecode {
		t.Errorf("cause = %s, want decode", cause)
	}

	expectFallback(t, res)
}

func TestRunTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake driver requires a unix shell")
	}

	bin := writeFakeDriver(t, "#!/bin/sh\nsleep 10\n")

	r := NewRunner(bin, DefaultSizes(), 100*time.Millisecond, testLogger())

	res, cause := r.Run(context.Background())

	if cause != FailureTimeout {
		t.Errorf("cause = %s, want timeout", cause)
	}

	expectFallback(t, res)
}

func TestRunInvalidShape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake driver requires a unix shell")
	}

	// Valid JSON, but the 5000 row is missing.
	bin := writeFakeDriver(t,
		"#!/bin/sh\necho '{\"sizes\":[1000,5000],\"operations\":{\"1000\":{}}}'\n")

	r := NewRunner(bin, DefaultSizes(), time.Minute, testLogger())

	res, cause := r.Run(context.Background())

	if cause != FailureShape {
		t.Errorf("cause = %s, want shape", cause)
	}

	expectFallback(t, res)
}

func TestRunLiveResult(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake driver requires a unix shell")
	}

	payload, err := json.Marshal(SampleResult())
	if err != nil {
		t.Fatalf("marshal sample: %v", err)
	}

	dataPath := filepath.Join(t.TempDir(), "result.json")
	if err := os.WriteFile(dataPath, payload, 0o644); err != nil {
		t.Fatalf("write result file: %v", err)
	}

	bin := writeFakeDriver(t,
		"#!/bin/sh\necho progress >&2\nexec cat "+dataPath+"\n")

	r := NewRunner(bin, DefaultSizes(), time.Minute, testLogger())

	res, cause := r.Run(context.Background())

	if cause != FailureNone {
		t.Fatalf("cause = %s, want none", cause)
	}
	if res.Fallback {
		t.Error("live result marked as fallback")
	}
	if !reflect.DeepEqual(res, SampleResult()) {
		t.Error("live result does not match driver output")
	}
}

func TestFailureCauseClassification(t *testing.T) {
	infra := []FailureCause{FailureSpawn, FailureExit, FailureTimeout}
	for _, c := range infra {
		if !c.Infrastructure() {
			t.Errorf("%s should be an infrastructure failure", c)
		}
	}

	output := []FailureCause{FailureNone, FailureDecode, FailureShape}
	for _, c := range output {
		if c.Infrastructure() {
			t.Errorf("%s should not be an infrastructure failure", c)
		}
	}
}

func writeFakeDriver(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-driver")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake driver: %v", err)
	}

	return path
}
