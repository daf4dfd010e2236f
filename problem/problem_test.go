package problem

import (
	"errors"
	"flag"
	"log"
	"testing"

	"github.com/fumin/dantzig/poly"
)

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)
	m.Run()
}

func f(v float64) *float64 { return &v }

func TestNewVariableMangling(t *testing.T) {
	p := New(Minimize)
	_, v1 := p.NewVariable("x", VariableOptions{})
	_, v2 := p.NewVariable("y", VariableOptions{})
	if v1.ID == v2.ID {
		t.Fatalf("expected distinct mangled ids, got %q twice", v1.ID)
	}
	if v1.ID >= v2.ID {
		t.Fatalf("expected ids sorted in insertion order: %q >= %q", v1.ID, v2.ID)
	}
}

func TestDirectionalObjectiveHelpers(t *testing.T) {
	p := New(Maximize)
	x, _ := p.NewVariable("x", VariableOptions{})
	p.Maximize(x)
	want := x
	if !poly.Equal(p.Objective, want) {
		t.Fatalf("maximize on a maximizing problem should add: got %v", p.Objective)
	}

	q := New(Minimize)
	y, _ := q.NewVariable("y", VariableOptions{})
	q.Maximize(y)
	if !poly.Equal(q.Objective, poly.Scale(y, -1)) {
		t.Fatalf("maximize on a minimizing problem should subtract: got %v", q.Objective)
	}
}

func TestValidateUnregisteredVariable(t *testing.T) {
	p := New(Minimize)
	x, _ := poly.Variable("not_registered")
	p.AddConstraint("c", x, LE, 1)
	err := p.Validate()
	if !errors.Is(err, ErrUnregisteredVariable) {
		t.Fatalf("expected ErrUnregisteredVariable, got %v", err)
	}
}

func TestValidateDegreeTooHigh(t *testing.T) {
	p := New(Minimize)
	x, _ := p.NewVariable("x", VariableOptions{})
	cubic := poly.Multiply(x, poly.Multiply(x, x))
	p.AddConstraint("c", cubic, LE, 1)
	err := p.Validate()
	if !errors.Is(err, ErrDegreeTooHigh) {
		t.Fatalf("expected ErrDegreeTooHigh, got %v", err)
	}
}

func TestValidateIllegalVariableName(t *testing.T) {
	p := New(Minimize)
	p.NewVariable("a b", VariableOptions{})
	err := p.Validate()
	if !errors.Is(err, ErrIllegalName) {
		t.Fatalf("expected ErrIllegalName, got %v", err)
	}
}

func TestValidateIllegalConstraintName(t *testing.T) {
	p := New(Minimize)
	x, _ := p.NewVariable("x", VariableOptions{})
	p.AddConstraint("a: b", x, LE, 1)
	err := p.Validate()
	if !errors.Is(err, ErrIllegalName) {
		t.Fatalf("expected ErrIllegalName, got %v", err)
	}
}

func TestValidateOK(t *testing.T) {
	p := New(Minimize)
	x, _ := p.NewVariable("x", VariableOptions{Min: f(0), Max: f(10)})
	p.AddConstraint("c", x, LE, 5)
	p.Minimize(x)
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
