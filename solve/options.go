package solve

import "context"

// runner invokes the solver binary and captures its combined stdout and
// stderr. Options.runner is nil in production, where defaultRunner is used;
// tests in this package substitute a fake.
type runner func(ctx context.Context, solverPath string, args []string) (output string, exitCode int, err error)

// Options configures a Solve call.
type Options struct {
	// SolverPath is the path to the solver binary. Required.
	SolverPath string
	// TimeLimit, in seconds, is passed to the solver as --time_limit and
	// also bounds how long Solve waits for the parallel IIS pass. Zero
	// means no limit: the solver runs unbounded and, if ComputeIIS is
	// set, Solve blocks until the IIS pass finishes.
	TimeLimit float64
	// ComputeIIS requests a parallel solver invocation that computes an
	// Irreducible Infeasible Subsystem, merged into the Result only if
	// the main solve turns out infeasible.
	ComputeIIS bool
	// MIPRelGap, if non-nil, is written to the options file as
	// mip_rel_gap.
	MIPRelGap *float64
	// MIPMaxStallNodes, if non-nil, is written to the options file as
	// mip_max_stall_nodes.
	MIPMaxStallNodes *int
	// LogToConsole, if set, is written to the options file as
	// log_to_console = true.
	LogToConsole bool

	runner runner
}

func hasFileOptions(opts Options) bool {
	return opts.MIPRelGap != nil || opts.MIPMaxStallNodes != nil || opts.LogToConsole
}
