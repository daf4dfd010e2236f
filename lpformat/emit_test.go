package lpformat

import (
	"flag"
	"log"
	"os"
	"testing"

	"github.com/fumin/dantzig/poly"
	"github.com/fumin/dantzig/problem"
)

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	os.Exit(m.Run())
}

func f(v float64) *float64 { return &v }

func buildSimple() *problem.Problem {
	p := problem.New(problem.Maximize)
	x, _ := p.NewVariable("x", problem.VariableOptions{Min: f(0), Max: f(10)})
	y, _ := p.NewVariable("y", problem.VariableOptions{Min: f(0)})
	p.Maximize(poly.Add(poly.Scale(x, 2), y))
	p.AddConstraint("budget", poly.Add(x, y), problem.LE, 8)
	return p
}

// Determinism: equal problem values always produce byte-identical LP text.
func TestEmitDeterministic(t *testing.T) {
	a, err := Emit(buildSimple())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	b, err := Emit(buildSimple())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if a != b {
		t.Errorf("Emit not deterministic:\n%q\nvs\n%q", a, b)
	}
}

// Two distinct constructions of the same objective (iterated add vs bulk
// sum) produce the same LP bytes.
func TestEmitIteratedAddEqualsSumLinear(t *testing.T) {
	p1 := problem.New(problem.Minimize)
	x, _ := p1.NewVariable("x", problem.VariableOptions{})
	y, _ := p1.NewVariable("y", problem.VariableOptions{})
	z, _ := p1.NewVariable("z", problem.VariableOptions{})
	p1.IncrementObjective(poly.Add(poly.Add(x, y), z))
	p1.AddConstraint("c", poly.Add(x, y), problem.LE, 1)

	p2 := problem.New(problem.Minimize)
	x2, _ := p2.NewVariable("x", problem.VariableOptions{})
	y2, _ := p2.NewVariable("y", problem.VariableOptions{})
	z2, _ := p2.NewVariable("z", problem.VariableOptions{})
	p2.IncrementObjective(poly.SumLinear([]poly.Operand{x2, y2, z2}))
	p2.AddConstraint("c", poly.Add(x2, y2), problem.LE, 1)

	out1, err := Emit(p1)
	if err != nil {
		t.Fatalf("Emit(p1): %v", err)
	}
	out2, err := Emit(p2)
	if err != nil {
		t.Fatalf("Emit(p2): %v", err)
	}
	if out1 != out2 {
		t.Errorf("iterated-add and SumLinear emissions differ:\n%q\nvs\n%q", out1, out2)
	}
}

func TestEmitBoundForms(t *testing.T) {
	p := problem.New(problem.Minimize)
	free, _ := p.NewVariable("free", problem.VariableOptions{})
	hiOnly, _ := p.NewVariable("hiOnly", problem.VariableOptions{Max: f(5)})
	loOnly, _ := p.NewVariable("loOnly", problem.VariableOptions{Min: f(-5)})
	both, _ := p.NewVariable("both", problem.VariableOptions{Min: f(1), Max: f(9)})
	bin, _ := p.NewVariable("bin", problem.VariableOptions{Type: problem.Binary})
	p.IncrementObjective(poly.SumLinear([]poly.Operand{free, hiOnly, loOnly, both, bin}))

	out, err := Emit(p)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	for _, want := range []string{
		"free free\n",
		"hiOnly <= 5\n",
		"-5 <= loOnly\n",
		"1 <= both\n",
		"both <= 9\n",
		"bin\n",
	} {
		if !containsLine(out, want) {
			t.Errorf("output missing line %q; got:\n%s", want, out)
		}
	}
}

func containsLine(haystack, line string) bool {
	for i := 0; i+len(line) <= len(haystack); i++ {
		if haystack[i:i+len(line)] == line {
			return true
		}
	}
	return false
}

// The objective doubles quadratic coefficients inside "[ ... ] / 2";
// constraints do not.
func TestEmitQuadraticAsymmetry(t *testing.T) {
	p := problem.New(problem.Minimize)
	x, _ := p.NewVariable("x", problem.VariableOptions{})
	xx := poly.Multiply(x, x)
	p.IncrementObjective(xx)
	p.AddConstraint("c", xx, problem.LE, 1)

	out, err := Emit(p)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !containsLine(out, "+ [ + 2 x^2 ] / 2\n") {
		t.Errorf("objective should double the quadratic coefficient; got:\n%s", out)
	}
	if !containsLine(out, "+ [ + 1 x^2 ] / 2") {
		t.Errorf("constraint should not double the quadratic coefficient; got:\n%s", out)
	}
}

func TestEmitDegreeTooHigh(t *testing.T) {
	p := problem.New(problem.Minimize)
	x, _ := p.NewVariable("x", problem.VariableOptions{})
	p.IncrementObjective(poly.Power(x, 3))

	_, err := Emit(p)
	if err == nil {
		t.Fatal("Emit should fail for degree-3 objective")
	}
}

func TestEmitRepeatedVariableExponent(t *testing.T) {
	p := problem.New(problem.Minimize)
	x, _ := p.NewVariable("x", problem.VariableOptions{})
	p.IncrementObjective(poly.Multiply(x, x))

	out, err := Emit(p)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !containsLine(out, "x^2") {
		t.Errorf("expected x^2 grouping in output:\n%s", out)
	}
}
