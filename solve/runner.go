package solve

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// defaultRunner shells out to the real solver binary, merging stdout and
// stderr the way the solver's own CLI interleaves diagnostic and status
// lines.
func defaultRunner(ctx context.Context, solverPath string, args []string) (string, int, error) {
	cmd := exec.CommandContext(ctx, solverPath, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	if runErr == nil {
		return buf.String(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return buf.String(), exitErr.ExitCode(), nil
	}
	return buf.String(), -1, runErr
}
