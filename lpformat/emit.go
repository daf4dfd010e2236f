// Package lpformat serializes a problem.Problem to the LP text format an
// external solver consumes, and parses the solution and IIS files the
// solver emits back.
package lpformat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/dantzig/internal/numfmt"
	"github.com/fumin/dantzig/poly"
	"github.com/fumin/dantzig/problem"
)

// ErrDegreeTooHigh is wrapped into the error the polynomial serializer
// returns for an objective or constraint LHS of degree greater than 2; the
// LP format has no representation for cubic or higher terms. Emit runs
// problem.Validate first, so for a problem it receives such a degree is
// reported as problem.ErrDegreeTooHigh.
var ErrDegreeTooHigh = errors.New("lpformat: degree too high to serialize")

// Emit serializes p deterministically: equal problem values always produce
// byte-identical output, regardless of whether their polynomials were built
// by repeated Add or by poly.SumLinear.
func Emit(p *problem.Problem) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.Direction)
	objText, err := polyText(p, p.Objective, true)
	if err != nil {
		return "", errors.Wrap(err, "objective")
	}
	fmt.Fprintf(&b, "  %s\n", objText)

	b.WriteString("Subject To\n")
	for _, id := range sortedConstraintIDs(p) {
		c := p.Constraints[id]
		lhsText, err := polyText(p, c.LHS, false)
		if err != nil {
			return "", errors.Wrapf(err, "constraint %q", c.Name)
		}
		fmt.Fprintf(&b, "  %s: %s %s %s\n", c.Name, lhsText, c.Op, numfmt.Format(c.RHS))
	}

	varIDs := sortedVarIDs(p)

	b.WriteString("Bounds\n")
	for _, id := range varIDs {
		v := p.Variables[id]
		if v.Type == problem.Binary {
			continue
		}
		writeBounds(&b, v)
	}

	b.WriteString("General\n")
	for _, id := range varIDs {
		if v := p.Variables[id]; v.Type == problem.Integer {
			fmt.Fprintf(&b, "  %s\n", v.Name)
		}
	}

	b.WriteString("Binary\n")
	for _, id := range varIDs {
		if v := p.Variables[id]; v.Type == problem.Binary {
			fmt.Fprintf(&b, "  %s\n", v.Name)
		}
	}

	b.WriteString("End\n")
	return b.String(), nil
}

func sortedConstraintIDs(p *problem.Problem) []poly.VarID {
	ids := make([]poly.VarID, 0, len(p.Constraints))
	for id := range p.Constraints {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedVarIDs(p *problem.Problem) []poly.VarID {
	ids := make([]poly.VarID, 0, len(p.Variables))
	for id := range p.Variables {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func writeBounds(b *strings.Builder, v *problem.Variable) {
	switch {
	case v.Min == nil && v.Max == nil:
		fmt.Fprintf(b, "  %s free\n", v.Name)
	case v.Min == nil:
		fmt.Fprintf(b, "  %s <= %s\n", v.Name, numfmt.Format(*v.Max))
	case v.Max == nil:
		fmt.Fprintf(b, "  %s <= %s\n", numfmt.Format(*v.Min), v.Name)
	default:
		fmt.Fprintf(b, "  %s <= %s\n", numfmt.Format(*v.Min), v.Name)
		fmt.Fprintf(b, "  %s <= %s\n", v.Name, numfmt.Format(*v.Max))
	}
}

// polyText renders lhs as LP text, partitioned into its linear (degree 0
// and 1) and quadratic (degree 2) parts. isObjective controls the
// doubled-coefficient asymmetry of the quadratic block: objectives double
// the coefficient inside "[ ... ] / 2" since the solver halves it back;
// constraints do not.
func polyText(p *problem.Problem, lhs poly.Polynomial, isObjective bool) (string, error) {
	if d := poly.Degree(lhs); d > 2 {
		return "", errors.Wrapf(ErrDegreeTooHigh, "degree %d", d)
	}

	var linear, quad []poly.Term
	for _, t := range lhs.SortedTerms() {
		switch len(t.Monomial) {
		case 2:
			quad = append(quad, t)
		default:
			linear = append(linear, t)
		}
	}

	var parts []string
	for _, t := range linear {
		parts = append(parts, signedTerm(p, t))
	}
	if len(quad) > 0 {
		qparts := make([]string, len(quad))
		for i, t := range quad {
			c := t.Coefficient
			if isObjective {
				c *= 2
			}
			qparts[i] = signedTerm(p, poly.Term{Coefficient: c, Monomial: t.Monomial})
		}
		parts = append(parts, "+ [ "+strings.Join(qparts, " ")+" ] / 2")
	}

	if len(parts) == 0 {
		return "0", nil
	}
	return strings.Join(parts, " "), nil
}

func signedTerm(p *problem.Problem, t poly.Term) string {
	sign, c := "+", t.Coefficient
	if c < 0 {
		sign, c = "-", -c
	}
	if v := monomialText(p, t.Monomial); v != "" {
		return fmt.Sprintf("%s %s %s", sign, numfmt.Format(c), v)
	}
	return fmt.Sprintf("%s %s", sign, numfmt.Format(c))
}

// monomialText joins the variable names in m with " * ", grouping runs of
// the same variable as "name^k".
func monomialText(p *problem.Problem, m poly.Monomial) string {
	if len(m) == 0 {
		return ""
	}

	type run struct {
		id  poly.VarID
		pow int
	}
	runs := []run{{m[0], 1}}
	for _, id := range m[1:] {
		last := &runs[len(runs)-1]
		if id == last.id {
			last.pow++
			continue
		}
		runs = append(runs, run{id, 1})
	}

	parts := make([]string, len(runs))
	for i, r := range runs {
		name := p.Variables[r.id].Name
		if r.pow == 1 {
			parts[i] = name
		} else {
			parts[i] = fmt.Sprintf("%s^%d", name, r.pow)
		}
	}
	return strings.Join(parts, " * ")
}
