package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single driver execution.
const DefaultTimeout = 300 * time.Second

// FailureCause classifies why a driver run fell back to the sample
// dataset. Spawn, exit, and timeout failures mean the benchmark
// infrastructure is unavailable; decode and shape failures mean the
// workload ran but produced invalid output.
type FailureCause int

const (
	FailureNone FailureCause = iota
	FailureSpawn
	FailureExit
	FailureTimeout
	FailureDecode
	FailureShape
)

func (c FailureCause) String() string {
	switch c {
	case FailureNone:
		return "none"
	case FailureSpawn:
		return "spawn"
	case FailureExit:
		return "exit"
	case FailureTimeout:
		return "timeout"
	case FailureDecode:
		return "decode"
	case FailureShape:
		return "shape"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Infrastructure reports whether the cause is a failure to run the
// driver at all, as opposed to the driver producing invalid output.
func (c FailureCause) Infrastructure() bool {
	switch c {
	case FailureSpawn, FailureExit, FailureTimeout:
		return true
	default:
		return false
	}
}

// Runner launches the GhostDB workload driver and parses its output.
type Runner struct {
	NodeBin string
	Sizes   []int
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRunner creates a Runner. nodeBin is the JavaScript interpreter
// used to execute the driver script; sizes are the record counts to
// benchmark. A zero timeout means DefaultTimeout.
func NewRunner(
	nodeBin string,
	sizes []int,
	timeout time.Duration,
	logger *slog.Logger,
) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Runner{
		NodeBin: nodeBin,
		Sizes:   sizes,
		Timeout: timeout,
		Logger:  logger.With(slog.String("component", "harness")),
	}
}

// Run executes the driver and returns its parsed results. It never
// fails: any error is classified, logged, and replaced with the fixed
// sample dataset. The returned cause is FailureNone for a live result.
func (r *Runner) Run(ctx context.Context) (*Result, FailureCause) {
	result, cause, err := r.runDriver(ctx)
	if err == nil {
		return result, FailureNone
	}

	if cause.Infrastructure() {
		r.Logger.Warn("benchmark infrastructure unavailable, using sample data",
			slog.String("cause", cause.String()),
			slog.String("error", err.Error()),
		)
	} else {
		r.Logger.Warn("workload produced invalid output, using sample data",
			slog.String("cause", cause.String()),
			slog.String("error", err.Error()),
		)
	}

	sample := SampleResult()
	sample.Fallback = true

	return sample, cause
}

func (r *Runner) runDriver(ctx context.Context) (*Result, FailureCause, error) {
	scriptPath, err := writeDriverScript(r.Sizes)
	if err != nil {
		return nil, FailureSpawn, fmt.Errorf("write driver script: %w", err)
	}
	defer os.Remove(scriptPath)

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.NodeBin, scriptPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Info("starting workload driver",
		slog.String("node_bin", r.NodeBin),
		slog.String("script", scriptPath),
		slog.Duration("timeout", r.Timeout),
	)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, FailureTimeout, fmt.Errorf(
				"driver timed out after %s", r.Timeout,
			)
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, FailureExit, fmt.Errorf(
				"driver exited with %d: %s",
				exitErr.ExitCode(), lastLine(stderr.Bytes()),
			)
		}

		return nil, FailureSpawn, fmt.Errorf("start driver: %w", runErr)
	}

	result, err := parseResult(&stdout)
	if err != nil {
		return nil, FailureDecode, fmt.Errorf("parse driver output: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, FailureShape, fmt.Errorf("invalid driver output: %w", err)
	}

	r.Logger.Info("workload driver finished",
		slog.Duration("wall_time", elapsed),
		slog.Int("sizes", len(result.Sizes)),
	)

	return result, FailureNone, nil
}

func parseResult(r io.Reader) (*Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return &result, nil
}

// lastLine returns the final non-empty stderr line, which is where the
// driver reports its error.
func lastLine(b []byte) string {
	b = bytes.TrimRight(b, "\n")
	if len(b) == 0 {
		return "(no stderr)"
	}

	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}

	return string(b)
}
