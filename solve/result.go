package solve

import "github.com/fumin/dantzig/lpformat"

// A Result is the sealed tagged union a solve terminates into. The concrete
// types below are its only implementations.
type Result interface {
	sealed()
}

// SolutionPayload is the payload shared by every feasible-termination
// result tag.
type SolutionPayload struct {
	Status   lpformat.Status
	Solution *lpformat.Solution
	// MIPGap is nil unless the captured solver output contained a
	// recognizable relative or percent gap.
	MIPGap *float64
}

// Optimal means the solver proved optimality.
type Optimal struct{ SolutionPayload }

// TimeLimit means the solver found a feasible solution but hit its time
// limit before proving optimality.
type TimeLimit struct{ SolutionPayload }

// IterationLimit means the solver found a feasible solution but hit its
// iteration limit.
type IterationLimit struct{ SolutionPayload }

// ObjectiveBound means the solver found a feasible solution whose objective
// reached the configured bound.
type ObjectiveBound struct{ SolutionPayload }

// ObjectiveTarget means the solver found a feasible solution whose
// objective reached the configured target.
type ObjectiveTarget struct{ SolutionPayload }

// SolutionLimit means the solver found a feasible solution and hit its
// solution-count limit.
type SolutionLimit struct{ SolutionPayload }

// Infeasible means no feasible point exists. IIS is non-nil only when the
// caller requested it and the parallel IIS pass produced a diagnosable
// model within the time limit.
type Infeasible struct {
	Output string
	IIS    *lpformat.IIS
}

// Unbounded means an unbounded improving direction exists.
type Unbounded struct {
	Output string
}

// Reason classifies why a solve could not be interpreted at all.
type Reason string

const (
	// ReasonNoSolution means the solver exited cleanly but never wrote a
	// solution file, and its captured output gave no usable status
	// either.
	ReasonNoSolution Reason = "no_solution"
	// ReasonParseError means the solution file existed but its content
	// could not be parsed.
	ReasonParseError Reason = "parse_error"
	// ReasonUnknownStatus means the solution file's Model status block
	// was missing or unrecognized, and the captured output's fallback
	// status regexes did not match either.
	ReasonUnknownStatus Reason = "unknown_status"
	// ReasonSolverError means the solver process exited with a code
	// outside {0, 1}.
	ReasonSolverError Reason = "solver_error"
)

// Failed is the "error" result tag: the solver ran but produced nothing
// interpretable.
type Failed struct {
	Reason   Reason
	ExitCode int
	Output   string
	Model    string
	Raw      string
}

func (Optimal) sealed()         {}
func (TimeLimit) sealed()       {}
func (IterationLimit) sealed()  {}
func (ObjectiveBound) sealed()  {}
func (ObjectiveTarget) sealed() {}
func (SolutionLimit) sealed()   {}
func (Infeasible) sealed()      {}
func (Unbounded) sealed()       {}
func (Failed) sealed()          {}
