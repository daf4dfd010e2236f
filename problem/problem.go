// Package problem models a linear/mixed-integer/low-degree-quadratic
// optimization problem: named decision variables with bounds and types, a
// set of polynomial constraints, an objective polynomial, and a direction.
package problem

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"

	"github.com/fumin/dantzig/poly"
)

// A Direction is the sense of optimization.
type Direction int

const (
	// Minimize seeks the smallest objective value.
	Minimize Direction = iota
	// Maximize seeks the largest objective value.
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "Maximize"
	}
	return "Minimize"
}

// A VarType constrains the values a Variable may take.
type VarType int

const (
	// Continuous variables may take any value within their bounds.
	Continuous VarType = iota
	// Integer variables are restricted to whole numbers within their
	// bounds.
	Integer
	// Binary variables are restricted to {0, 1} and never carry explicit
	// bounds.
	Binary
)

// A Variable is a named decision variable registered with a Problem.
type Variable struct {
	// ID is the mangled identifier used inside polynomials and LP text;
	// it is unique within the owning Problem.
	ID poly.VarID
	// Name is the human-supplied name. It must round-trip through LP
	// text unchanged.
	Name string
	Min  *float64
	Max  *float64
	Type VarType
}

// An Operator compares a constraint's LHS against its RHS.
type Operator int

const (
	// LE is the <= operator.
	LE Operator = iota
	// GE is the >= operator.
	GE
	// EQ is the = operator.
	EQ
)

func (op Operator) String() string {
	switch op {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

// A Constraint bounds a polynomial expression.
type Constraint struct {
	// ID is the mangled identifier used for LP text ordering and naming.
	ID   poly.VarID
	Name string
	LHS  poly.Polynomial
	Op   Operator
	RHS  float64
}

// VariableOptions configures a new Variable. A nil Min or Max means that
// bound is absent ("free" in that direction).
type VariableOptions struct {
	Min  *float64
	Max  *float64
	Type VarType
}

// A Problem is the aggregate of variables, constraints, an objective
// polynomial, and a direction submitted to the solver.
type Problem struct {
	Direction   Direction
	Variables   map[poly.VarID]*Variable
	Constraints map[poly.VarID]*Constraint
	Objective   poly.Polynomial

	nextVarID        uint64
	nextConstraintID uint64
}

// New returns an empty problem optimizing in the given direction.
func New(direction Direction) *Problem {
	return &Problem{
		Direction:   direction,
		Variables:   make(map[poly.VarID]*Variable),
		Constraints: make(map[poly.VarID]*Constraint),
		Objective:   poly.Const(0),
	}
}

func mangle(prefix string, n uint64) poly.VarID {
	return poly.VarID(fmt.Sprintf("%s%010d", prefix, n))
}

// NewVariable registers a new variable under a fresh mangled id and returns
// the variable-polynomial to use in expressions.
func (p *Problem) NewVariable(name string, opts VariableOptions) (poly.Polynomial, *Variable) {
	p.nextVarID++
	id := mangle("_v", p.nextVarID)
	v := &Variable{ID: id, Name: name, Min: opts.Min, Max: opts.Max, Type: opts.Type}
	p.Variables[id] = v
	return poly.MustVariable(id), v
}

// AddConstraint registers a constraint under a fresh mangled id and returns
// it.
func (p *Problem) AddConstraint(name string, lhs poly.Polynomial, op Operator, rhs float64) *Constraint {
	p.nextConstraintID++
	id := mangle("_c", p.nextConstraintID)
	c := &Constraint{ID: id, Name: name, LHS: lhs, Op: op, RHS: rhs}
	p.Constraints[id] = c
	return c
}

// Maximize adds poly to the objective if the problem is maximizing, and
// subtracts it otherwise, so that "improving the objective" always means
// increasing the value of poly regardless of the problem's own direction.
func (p *Problem) Maximize(objPoly poly.Polynomial) {
	if p.Direction == Maximize {
		p.IncrementObjective(objPoly)
	} else {
		p.DecrementObjective(objPoly)
	}
}

// Minimize adds poly to the objective if the problem is minimizing, and
// subtracts it otherwise, so that "improving the objective" always means
// decreasing the value of poly regardless of the problem's own direction.
func (p *Problem) Minimize(objPoly poly.Polynomial) {
	if p.Direction == Minimize {
		p.IncrementObjective(objPoly)
	} else {
		p.DecrementObjective(objPoly)
	}
}

// IncrementObjective adds objPoly to the objective.
func (p *Problem) IncrementObjective(objPoly poly.Polynomial) {
	p.Objective = poly.Add(p.Objective, objPoly)
}

// DecrementObjective subtracts objPoly from the objective.
func (p *Problem) DecrementObjective(objPoly poly.Polynomial) {
	p.Objective = poly.Subtract(p.Objective, objPoly)
}

// ErrUnregisteredVariable is wrapped into the error Validate returns when a
// constraint or the objective references a variable the problem never
// registered.
var ErrUnregisteredVariable = errors.New("problem: unregistered variable")

// ErrDegreeTooHigh is wrapped into the error Validate returns when the
// objective or a constraint's LHS has degree greater than 2.
var ErrDegreeTooHigh = errors.New("problem: degree too high")

// ErrIllegalName is wrapped into the error Validate returns when a variable
// or constraint name would not round-trip through LP text: whitespace would
// split a name across tokens, and a colon would be mistaken for the
// constraint-name separator.
var ErrIllegalName = errors.New("problem: name does not round-trip through LP text")

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Validate checks that every variable and constraint name round-trips
// through LP text, every variable referenced by the objective or a
// constraint's LHS is registered, and every LHS (including the objective)
// has degree at most 2.
func (p *Problem) Validate() error {
	for _, v := range p.Variables {
		if !validName.MatchString(v.Name) {
			return errors.Wrapf(ErrIllegalName, "variable %q", v.Name)
		}
	}
	for _, c := range p.Constraints {
		if !validName.MatchString(c.Name) {
			return errors.Wrapf(ErrIllegalName, "constraint %q", c.Name)
		}
	}

	check := func(where string, lhs poly.Polynomial) error {
		if poly.Degree(lhs) > 2 {
			return errors.Wrapf(ErrDegreeTooHigh, "%s has degree %d", where, poly.Degree(lhs))
		}
		for _, v := range poly.Variables(lhs) {
			if _, ok := p.Variables[v]; !ok {
				return errors.Wrapf(ErrUnregisteredVariable, "%s references %q", where, v)
			}
		}
		return nil
	}

	if err := check("objective", p.Objective); err != nil {
		return err
	}
	for _, c := range p.Constraints {
		if err := check(fmt.Sprintf("constraint %q", c.Name), c.LHS); err != nil {
			return err
		}
	}
	return nil
}
