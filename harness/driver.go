package harness

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// driverJS is the workload driver executed against GhostDB. It writes
// one JSON results document to stdout; progress lines go to stderr.
//
//go:embed driver.js
var driverJS string

const sizesPlaceholder = "__SIZES__"

// renderDriverScript substitutes the record-count sizes into the
// embedded driver template.
func renderDriverScript(sizes []int) (string, error) {
	payload, err := json.Marshal(sizes)
	if err != nil {
		return "", fmt.Errorf("marshal sizes: %w", err)
	}

	if !strings.Contains(driverJS, sizesPlaceholder) {
		return "", fmt.Errorf("driver template missing %s placeholder",
			sizesPlaceholder)
	}

	return strings.ReplaceAll(driverJS, sizesPlaceholder, string(payload)), nil
}

// writeDriverScript materializes the driver into a temp file and
// returns its path. The caller removes the file when the run ends.
func writeDriverScript(sizes []int) (string, error) {
	script, err := renderDriverScript(sizes)
	if err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp("", "ghostbench-driver-*.js")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmpFile.WriteString(script); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())

		return "", fmt.Errorf("write driver script: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())

		return "", fmt.Errorf("close driver script: %w", err)
	}

	return tmpFile.Name(), nil
}
