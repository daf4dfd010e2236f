// Package solve drives an external LP/MIP solver over a problem.Problem:
// it emits the LP file, invokes the solver as a child process, and
// interprets whatever the solver leaves behind in its solution file, its
// captured output, and — for infeasible problems, when requested — an
// independently computed IIS.
package solve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fumin/dantzig/internal/numfmt"
	"github.com/fumin/dantzig/lpformat"
	"github.com/fumin/dantzig/problem"
)

const (
	modelFileName       = "model.lp"
	solutionFileName    = "solution.lp"
	optionsFileName     = "options.txt"
	iisOptionsFileName  = "iis_options.txt"
	iisSolutionFileName = "iis.lp"
)

// Solve emits p as LP text, runs the solver over it, and interprets the
// result. If opts.ComputeIIS is set, a second solver invocation computes an
// Irreducible Infeasible Subsystem in parallel; its result is merged in
// only if the main solve turns out infeasible. Every temp file Solve
// creates is removed before it returns, on every exit path.
func Solve(ctx context.Context, p *problem.Problem, opts Options) (Result, error) {
	if p == nil {
		return nil, errors.New("solve: nil problem")
	}
	if opts.SolverPath == "" {
		return nil, errors.New("solve: SolverPath is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	modelText, err := lpformat.Emit(p)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "dantzig-")
	if err != nil {
		return nil, errors.Wrap(err, "solve: creating temp dir")
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, modelFileName)
	if err := os.WriteFile(modelPath, []byte(modelText), 0o644); err != nil {
		return nil, errors.Wrap(err, "solve: writing model file")
	}

	return solveModel(ctx, dir, modelPath, modelText, opts)
}

// SolveLPFile runs the solver directly over an already-serialized LP file,
// skipping problem construction and LP emission. It exists for callers —
// such as the command-line wrapper — that start from LP text rather than a
// problem.Problem.
func SolveLPFile(ctx context.Context, lpPath string, opts Options) (Result, error) {
	modelText, err := os.ReadFile(lpPath)
	if err != nil {
		return nil, errors.Wrap(err, "solve: reading LP file")
	}

	dir, err := os.MkdirTemp("", "dantzig-")
	if err != nil {
		return nil, errors.Wrap(err, "solve: creating temp dir")
	}
	defer os.RemoveAll(dir)

	return solveModel(ctx, dir, lpPath, string(modelText), opts)
}

// solveModel runs the solver over modelPath, an LP file already written to
// disk, and interprets the result. dir is a temp directory solveModel may
// freely populate with solution, options, and IIS artifacts; the caller
// owns its removal.
func solveModel(ctx context.Context, dir, modelPath, modelText string, opts Options) (Result, error) {
	solutionPath := filepath.Join(dir, solutionFileName)

	run := opts.runner
	if run == nil {
		run = defaultRunner
	}

	var iis *iisTask
	if opts.ComputeIIS {
		iis = startIISPass(ctx, dir, modelPath, opts, run)
		defer iis.kill()
	}

	args := []string{modelPath, "--solution_file", solutionPath}
	if opts.TimeLimit > 0 {
		args = append(args, "--time_limit", numfmt.Format(opts.TimeLimit))
	}
	if hasFileOptions(opts) {
		optionsPath := filepath.Join(dir, optionsFileName)
		if err := writeOptionsFile(optionsPath, opts); err != nil {
			return nil, err
		}
		args = append(args, "--options_file", optionsPath)
	}

	start := time.Now()
	output, exitCode, runErr := run(ctx, opts.SolverPath, args)
	logSolverRun("main", opts.SolverPath, args, exitCode, time.Since(start), runErr)
	if runErr != nil {
		return nil, errors.Wrap(runErr, "solve: running solver")
	}

	result := interpret(output, exitCode, solutionPath, modelText)

	infeasible, wasInfeasible := result.(Infeasible)
	if iis == nil || !wasInfeasible {
		return result, nil
	}
	infeasible.IIS = iis.await(opts.TimeLimit)
	return infeasible, nil
}

func writeOptionsFile(path string, opts Options) error {
	var b strings.Builder
	if opts.MIPRelGap != nil {
		fmt.Fprintf(&b, "mip_rel_gap = %s\n", numfmt.Format(*opts.MIPRelGap))
	}
	if opts.MIPMaxStallNodes != nil {
		fmt.Fprintf(&b, "mip_max_stall_nodes = %d\n", *opts.MIPMaxStallNodes)
	}
	if opts.LogToConsole {
		b.WriteString("log_to_console = true\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// interpret classifies a completed solver invocation into a Result,
// following the priority order: exit code outside {0,1} is always a
// solver error; otherwise read and parse the solution file; if that file
// is missing or its Model status is unusable, fall back to regex-matching
// the captured output before giving up.
func interpret(output string, exitCode int, solutionPath, modelText string) Result {
	if exitCode != 0 && exitCode != 1 {
		return Failed{Reason: ReasonSolverError, ExitCode: exitCode, Output: output, Model: modelText}
	}

	data, readErr := os.ReadFile(solutionPath)
	if readErr != nil {
		if r, ok := fallbackFromOutput(output); ok {
			return r
		}
		return Failed{Reason: ReasonNoSolution, Output: output, Model: modelText}
	}

	sol, parseErr := lpformat.ParseSolution(string(data))
	if parseErr != nil {
		return Failed{Reason: ReasonParseError, Output: output, Raw: string(data)}
	}
	if sol.Status == nil {
		if r, ok := fallbackFromOutput(output); ok {
			return r
		}
		return Failed{Reason: ReasonUnknownStatus, Output: output, Raw: string(data)}
	}

	switch *sol.Status {
	case lpformat.StatusInfeasible:
		return Infeasible{Output: output}
	case lpformat.StatusUnbounded:
		return Unbounded{Output: output}
	default:
		return buildSuccess(*sol.Status, sol, extractMIPGap(output))
	}
}

var (
	reInfeasibleStatus = regexp.MustCompile(`(?m)^\s*Status\s+(Infeasible|Primal infeasible or unbounded)\s*$`)
	reUnboundedStatus  = regexp.MustCompile(`(?m)^\s*Status\s+Unbounded\s*$`)
	reRelGap           = regexp.MustCompile(`Relative gap:\s*([\d.]+)`)
	rePercentGap       = regexp.MustCompile(`Gap:\s*([\d.]+)%`)
)

func fallbackFromOutput(output string) (Result, bool) {
	switch {
	case reInfeasibleStatus.MatchString(output):
		return Infeasible{Output: output}, true
	case reUnboundedStatus.MatchString(output):
		return Unbounded{Output: output}, true
	default:
		return nil, false
	}
}

func extractMIPGap(output string) *float64 {
	if m := reRelGap.FindStringSubmatch(output); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	if m := rePercentGap.FindStringSubmatch(output); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			v /= 100
			return &v
		}
	}
	return nil
}

func buildSuccess(status lpformat.Status, sol *lpformat.Solution, gap *float64) Result {
	payload := SolutionPayload{Status: status, Solution: sol, MIPGap: gap}
	switch status {
	case lpformat.StatusOptimal:
		return Optimal{payload}
	case lpformat.StatusTimeLimit:
		return TimeLimit{payload}
	case lpformat.StatusIterationLimit:
		return IterationLimit{payload}
	case lpformat.StatusObjectiveBound:
		return ObjectiveBound{payload}
	case lpformat.StatusObjectiveTarget:
		return ObjectiveTarget{payload}
	default:
		return SolutionLimit{payload}
	}
}

func logSolverRun(pass, solverPath string, args []string, exitCode int, elapsed time.Duration, err error) {
	entry := logrus.WithFields(logrus.Fields{
		"pass":      pass,
		"solver":    solverPath,
		"args":      args,
		"exit_code": exitCode,
		"elapsed":   elapsed,
	})
	if err != nil {
		entry.WithError(err).Warn("solve: invocation failed")
		return
	}
	entry.Debug("solve: invocation completed")
}

// An iisTask is the independently cancelable parallel IIS computation.
// Unlike a plain errgroup.Wait() barrier, the caller may discard it (kill)
// without waiting for it, since its only output — the IIS file — lives
// inside the same temp dir that gets removed regardless.
type iisTask struct {
	cancel context.CancelFunc
	done   chan *lpformat.IIS
}

func startIISPass(parent context.Context, dir, modelPath string, opts Options, run runner) *iisTask {
	ctx, cancel := context.WithCancel(parent)
	t := &iisTask{cancel: cancel, done: make(chan *lpformat.IIS, 1)}

	iisSolutionPath := filepath.Join(dir, iisSolutionFileName)
	iisOptionsPath := filepath.Join(dir, iisOptionsFileName)
	optionsContent := fmt.Sprintf(
		"write_iis_model_file = %s\niis_strategy = 2\npresolve = off\n", iisSolutionPath)
	if err := os.WriteFile(iisOptionsPath, []byte(optionsContent), 0o644); err != nil {
		t.done <- nil
		return t
	}

	args := []string{modelPath, "--options_file", iisOptionsPath}
	if opts.TimeLimit > 0 {
		args = append(args, "--time_limit", numfmt.Format(opts.TimeLimit))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		_, exitCode, _ := run(gctx, opts.SolverPath, args)
		logSolverRun("iis", opts.SolverPath, args, exitCode, time.Since(start), nil)
		iis, ok := lpformat.IISFromFile(iisSolutionPath)
		if !ok {
			t.done <- nil
			return nil
		}
		t.done <- iis
		return nil
	})
	go func() { _ = g.Wait() }()

	return t
}

// kill requests termination of the IIS pass without waiting for it; safe
// to call after await, and safe to call more than once.
func (t *iisTask) kill() {
	t.cancel()
}

// await blocks for the IIS pass to finish, bounded by timeLimitSeconds
// when positive. It returns nil on timeout, forcibly killing the task
// before returning.
func (t *iisTask) await(timeLimitSeconds float64) *lpformat.IIS {
	if timeLimitSeconds <= 0 {
		return <-t.done
	}
	select {
	case iis := <-t.done:
		return iis
	case <-time.After(time.Duration(timeLimitSeconds * float64(time.Second))):
		t.cancel()
		return nil
	}
}
