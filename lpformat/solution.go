package lpformat

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Status is the solver's classification of how a solve terminated.
type Status int

const (
	// StatusOptimal means the solver proved optimality.
	StatusOptimal Status = iota
	StatusTimeLimit
	StatusIterationLimit
	StatusObjectiveBound
	StatusObjectiveTarget
	StatusSolutionLimit
	StatusInfeasible
	StatusUnbounded
)

var statusStrings = map[string]Status{
	"Optimal":                        StatusOptimal,
	"Bound on objective reached":     StatusObjectiveBound,
	"Target for objective reached":   StatusObjectiveTarget,
	"Time limit reached":             StatusTimeLimit,
	"Iteration limit reached":        StatusIterationLimit,
	"Solution limit reached":         StatusSolutionLimit,
	"Infeasible":                     StatusInfeasible,
	"Unbounded":                      StatusUnbounded,
	"Primal infeasible or unbounded": StatusInfeasible,
}

// StatusFromString maps a solver-reported status string to a Status. The
// second return value is false for an unrecognized string.
func StatusFromString(s string) (Status, bool) {
	st, ok := statusStrings[s]
	return st, ok
}

// A Solution is the structured result of parsing a solver solution file.
type Solution struct {
	// Status is nil if the file carried no recognizable "Model status"
	// block.
	Status      *Status
	Feasible    bool
	Objective   float64
	Variables   map[string]float64
	Constraints map[string]float64
}

// ParseSolution parses the text a solver writes to its solution file. The
// grammar is a sequence of blank-line-separated blocks:
//
//	Model status
//	<status string>
//
//	Objective value
//	<float>
//
//	Primal solution values
//	Feasible|Infeasible
//	Columns <n>
//	<name> <value>
//	...
//	Rows <n>
//	<name> <value>
//	...
//
//	MIP gap
//	<float>
//
// Any block may be absent; a missing Columns or Rows block yields an empty
// map, and a missing Objective value yields 0. ParseSolution never fails on
// a missing block; it fails when a block header is present but its value
// line is missing, or when an objective, column, or row value cannot be
// parsed as a number.
func ParseSolution(content string) (*Solution, error) {
	sol := &Solution{
		Variables:   make(map[string]float64),
		Constraints: make(map[string]float64),
	}

	lines := splitLines(content)
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		switch line {
		case "":
			i++
		case "Model status":
			i++
			if i >= len(lines) {
				return nil, errors.New("lpformat: Model status block missing status line")
			}
			if st, ok := StatusFromString(strings.TrimSpace(lines[i])); ok {
				sol.Status = &st
			}
			i++
		case "Objective value":
			i++
			if i >= len(lines) {
				return nil, errors.New("lpformat: Objective value block missing value line")
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(lines[i]), 64)
			if err != nil {
				return nil, errors.Wrap(err, "lpformat: parsing objective value")
			}
			sol.Objective = v
			i++
		case "Primal solution values":
			i++
			if i < len(lines) {
				switch strings.TrimSpace(lines[i]) {
				case "Feasible":
					sol.Feasible = true
					i++
				case "Infeasible":
					sol.Feasible = false
					i++
				}
			}
		case "MIP gap":
			i++
			if i >= len(lines) {
				return nil, errors.New("lpformat: MIP gap block missing value line")
			}
			// Tolerated but unused here; the orchestrator extracts the gap
			// from captured solver output separately.
			i++
		default:
			var err error
			i, err = parseNamedValueBlock(lines, i, sol)
			if err != nil {
				return nil, err
			}
		}
	}

	return sol, nil
}

// parseNamedValueBlock handles a "Columns <n>" or "Rows <n>" header
// followed by n "<name> <value>" lines, writing into sol.Variables or
// sol.Constraints respectively. It returns the index just past the block.
func parseNamedValueBlock(lines []string, i int, sol *Solution) (int, error) {
	header := strings.Fields(strings.TrimSpace(lines[i]))
	if len(header) != 2 {
		return i + 1, nil
	}
	kind := header[0]
	n, err := strconv.Atoi(header[1])
	if err != nil {
		return i + 1, nil
	}
	var dst map[string]float64
	switch kind {
	case "Columns":
		dst = sol.Variables
	case "Rows":
		dst = sol.Constraints
	default:
		return i + 1, nil
	}

	i++
	for k := 0; k < n && i < len(lines); k++ {
		fields := strings.Fields(strings.TrimSpace(lines[i]))
		if len(fields) != 2 {
			return i, errors.Errorf("lpformat: malformed %s entry %q", kind, lines[i])
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return i, errors.Wrapf(err, "lpformat: parsing %s value for %q", kind, fields[0])
		}
		dst[fields[0]] = v
		i++
	}
	return i, nil
}

func splitLines(content string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
