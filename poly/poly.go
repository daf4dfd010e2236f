// Package poly implements a normalized multivariate polynomial algebra over
// float64 coefficients, with an O(n) bulk-summation primitive used to build
// large objective and constraint expressions without repeated pairwise adds.
package poly

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/jba/omap"
	"github.com/pkg/errors"
)

// A VarID names a decision variable inside a monomial. Composite keys (for
// example a factory×product index) can be encoded as a single reversible
// string, such as "factory#product"; the algebra itself does not interpret
// VarID beyond ordering it lexicographically and rejecting values that parse
// as numbers (numbers are reserved for constants).
type VarID string

// A Monomial is a sorted sequence of variable identifiers; duplicates are
// permitted and their count is the exponent on that variable. The empty
// Monomial represents the constant 1.
type Monomial []VarID

// A Term pairs a coefficient with the monomial it multiplies.
type Term struct {
	Coefficient float64
	Monomial    Monomial
}

// An Operand is anything the algebra functions accept in place of a
// Polynomial: a Polynomial itself, or a raw number (float64, int, int64).
type Operand = any

// A Polynomial is an immutable, normalized mapping from monomial to nonzero
// coefficient. The zero value is the zero polynomial.
type Polynomial struct {
	m *omap.MapFunc[Monomial, float64]
}

func newEmpty() Polynomial {
	return Polynomial{m: omap.NewMapFunc[Monomial, float64](monomialCompare)}
}

// terms returns the backing ordered map, treating a zero-value Polynomial as
// the empty polynomial rather than panicking on a nil map.
func (p Polynomial) terms() *omap.MapFunc[Monomial, float64] {
	if p.m == nil {
		return omap.NewMapFunc[Monomial, float64](monomialCompare)
	}
	return p.m
}

// Const returns the constant polynomial n.
func Const(n float64) Polynomial {
	z := newEmpty()
	if n != 0 {
		z.m.Set(Monomial{}, n)
	}
	return z
}

// Variable returns the polynomial whose sole term is id raised to the first
// power. It fails if id parses as a number, since numbers are reserved for
// constants.
func Variable(id VarID) (Polynomial, error) {
	if _, err := strconv.ParseFloat(string(id), 64); err == nil {
		return Polynomial{}, errors.Errorf("poly: variable id %q is numeric", id)
	}
	z := newEmpty()
	z.m.Set(Monomial{id}, 1)
	return z, nil
}

// MustVariable is like Variable but panics on error. It is intended for
// constructing variables whose id is a compile-time constant.
func MustVariable(id VarID) Polynomial {
	p, err := Variable(id)
	if err != nil {
		panic(err)
	}
	return p
}

func toPolynomial(x Operand) Polynomial {
	switch v := x.(type) {
	case Polynomial:
		return v
	case float64:
		return Const(v)
	case int:
		return Const(float64(v))
	case int64:
		return Const(float64(v))
	case int32:
		return Const(float64(v))
	default:
		panic(fmt.Sprintf("poly: unsupported operand type %T", x))
	}
}

// addTerm adds (or subtracts, if sign < 0) term into z in place. w must
// already be a canonically sorted Monomial owned by z (not aliased by a
// caller-visible Polynomial).
func (z Polynomial) addTerm(sign float64, t Term) {
	w := t.Monomial
	c, ok := z.m.Get(w)
	if !ok {
		c = 0
	}
	c += sign * t.Coefficient
	if c == 0 {
		z.m.Delete(w)
	} else {
		z.m.Set(w, c)
	}
}

func cloneMonomial(w Monomial) Monomial {
	ww := make(Monomial, len(w))
	copy(ww, w)
	return ww
}

func mulMonomial(a, b Monomial) Monomial {
	w := make(Monomial, 0, len(a)+len(b))
	w = append(w, a...)
	w = append(w, b...)
	slices.SortFunc(w, func(x, y VarID) int { return strings.Compare(string(x), string(y)) })
	return w
}

func monomialCompare(a, b Monomial) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(string(a[i]), string(b[i])); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Add returns a+b. Either operand may be a raw number.
func Add(a, b Operand) Polynomial {
	pa, pb := toPolynomial(a), toPolynomial(b)
	z := newEmpty()
	for w, c := range pa.terms().All() {
		z.addTerm(1, Term{Coefficient: c, Monomial: cloneMonomial(w)})
	}
	for w, c := range pb.terms().All() {
		z.addTerm(1, Term{Coefficient: c, Monomial: cloneMonomial(w)})
	}
	return z
}

// Subtract returns a-b. Either operand may be a raw number.
func Subtract(a, b Operand) Polynomial {
	pa, pb := toPolynomial(a), toPolynomial(b)
	z := newEmpty()
	for w, c := range pa.terms().All() {
		z.addTerm(1, Term{Coefficient: c, Monomial: cloneMonomial(w)})
	}
	for w, c := range pb.terms().All() {
		z.addTerm(-1, Term{Coefficient: c, Monomial: cloneMonomial(w)})
	}
	return z
}

// Multiply returns a*b, distributing over every pair of terms. Either
// operand may be a raw number.
func Multiply(a, b Operand) Polynomial {
	pa, pb := toPolynomial(a), toPolynomial(b)
	z := newEmpty()
	for wa, ca := range pa.terms().All() {
		for wb, cb := range pb.terms().All() {
			z.addTerm(1, Term{Coefficient: ca * cb, Monomial: mulMonomial(wa, wb)})
		}
	}
	return z
}

// ErrNonConstantDivisor is returned by Divide when the divisor is not a
// constant.
var ErrNonConstantDivisor = errors.New("poly: divisor is not a constant")

// Divide returns p/c. c must be a constant (a raw number, or a degree-0
// polynomial); otherwise Divide returns ErrNonConstantDivisor. Divide is
// equivalent to Multiply(p, 1/c).
func Divide(p, c Operand) (Polynomial, error) {
	pc := toPolynomial(c)
	if !IsConstant(pc) {
		return Polynomial{}, errors.WithStack(ErrNonConstantDivisor)
	}
	n, _ := ToNumber(pc)
	return Scale(toPolynomial(p), 1/n), nil
}

// Scale returns p with every coefficient multiplied by m. Scaling by 0
// collapses p to the zero polynomial.
func Scale(p Polynomial, m float64) Polynomial {
	z := newEmpty()
	if m == 0 {
		return z
	}
	for w, c := range p.terms().All() {
		z.m.Set(cloneMonomial(w), c*m)
	}
	return z
}

// Power returns p raised to the nonnegative integer power k. Power(p, 0) is
// the constant polynomial 1.
func Power(p Polynomial, k int) Polynomial {
	if k < 0 {
		panic("poly: negative exponent")
	}
	z := Const(1)
	for range k {
		z = Multiply(z, p)
	}
	return z
}

// Degree returns the maximum size of any monomial in p; the zero polynomial
// has degree 0.
func Degree(p Polynomial) int {
	d := 0
	for w := range p.terms().All() {
		if len(w) > d {
			d = len(w)
		}
	}
	return d
}

// IsConstant reports whether p has degree 0.
func IsConstant(p Polynomial) bool { return Degree(p) == 0 }

// Equal reports whether a and b have the same normalized mapping from
// monomial to coefficient.
func Equal(a, b Polynomial) bool {
	ta, tb := a.terms(), b.terms()
	if ta.Len() != tb.Len() {
		return false
	}
	for w, c := range ta.All() {
		bc, ok := tb.Get(w)
		if !ok || bc != c {
			return false
		}
	}
	return true
}

// ToNumber returns the constant coefficient of p. It fails if p is not
// constant.
func ToNumber(p Polynomial) (float64, error) {
	if !IsConstant(p) {
		return 0, errors.Errorf("poly: not a constant (degree %d)", Degree(p))
	}
	c, ok := p.terms().Get(Monomial{})
	if !ok {
		return 0, nil
	}
	return c, nil
}

// Substitute replaces each variable identifier appearing in p with its image
// under sigma, multiplying the resulting per-monomial products by the
// original coefficient and summing. Variables absent from sigma are left
// unchanged.
func Substitute(p Polynomial, sigma map[VarID]Operand) Polynomial {
	z := newEmpty()
	for w, c := range p.terms().All() {
		term := Const(c)
		for _, v := range w {
			factor, ok := sigma[v]
			if !ok {
				factor = MustVariable(v)
			}
			term = Multiply(term, factor)
		}
		z = Add(z, term)
	}
	return z
}

// FreeVariablesError is returned by Evaluate when substitution leaves free
// variables behind.
type FreeVariablesError struct {
	Free []VarID
}

func (e *FreeVariablesError) Error() string {
	return fmt.Sprintf("poly: free variables remain after substitution: %v", e.Free)
}

// Evaluate substitutes sigma into p and requires the result be fully
// constant, returning FreeVariablesError listing the variables that remain
// otherwise.
func Evaluate(p Polynomial, sigma map[VarID]Operand) (float64, error) {
	z := Substitute(p, sigma)
	if !IsConstant(z) {
		return 0, &FreeVariablesError{Free: Variables(z)}
	}
	n, _ := ToNumber(z)
	return n, nil
}

// Variables returns the sorted, unique list of variable identifiers
// appearing anywhere in p.
func Variables(p Polynomial) []VarID {
	set := make(map[VarID]struct{})
	for w := range p.terms().All() {
		for _, v := range w {
			set[v] = struct{}{}
		}
	}
	out := make([]VarID, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b VarID) int { return strings.Compare(string(a), string(b)) })
	return out
}

// SumLinear sums xs in O(total terms) time: every input's terms are flattened,
// grouped by monomial key with a hash map, summed once per group, and
// zero-coefficient groups are pruned before the normalized result is
// assembled. This replaces the Θ(n²) cost of folding Add across xs one at a
// time, which re-merges an ever-growing intermediate map on every step.
func SumLinear(xs []Operand) Polynomial {
	type group struct {
		mono Monomial
		coef float64
	}
	groups := make(map[string]*group, len(xs))
	order := make([]string, 0, len(xs))

	for _, x := range xs {
		px := toPolynomial(x)
		for w, c := range px.terms().All() {
			k := monomialKey(w)
			g, ok := groups[k]
			if !ok {
				g = &group{mono: cloneMonomial(w)}
				groups[k] = g
				order = append(order, k)
			}
			g.coef += c
		}
	}

	z := newEmpty()
	for _, k := range order {
		g := groups[k]
		if g.coef != 0 {
			z.m.Set(g.mono, g.coef)
		}
	}
	return z
}

// monomialKey returns a string uniquely identifying a monomial's sequence of
// variable identifiers, for use as a hash-map grouping key in SumLinear.
func monomialKey(w Monomial) string {
	var b strings.Builder
	for _, v := range w {
		b.WriteString(string(v))
		b.WriteByte(0)
	}
	return b.String()
}

// Terms iterates the (coefficient, monomial) pairs of p in an unspecified
// but stable order.
func (p Polynomial) Terms() iter.Seq2[float64, Monomial] {
	return func(yield func(float64, Monomial) bool) {
		for w, c := range p.terms().All() {
			if !yield(c, w) {
				return
			}
		}
	}
}

// Len reports the number of terms in p.
func (p Polynomial) Len() int { return p.terms().Len() }

// SortedTerms returns every term in p ordered by degree, then
// lexicographically by monomial. lpformat relies on this ordering to produce
// deterministic output.
func (p Polynomial) SortedTerms() []Term {
	out := make([]Term, 0, p.Len())
	for w, c := range p.terms().All() {
		out = append(out, Term{Coefficient: c, Monomial: w})
	}
	slices.SortFunc(out, func(a, b Term) int {
		if c := len(a.Monomial) - len(b.Monomial); c != 0 {
			return c
		}
		return monomialCompare(a.Monomial, b.Monomial)
	})
	return out
}

// String returns a human-readable representation of p, with terms ordered
// the same way SortedTerms orders them and equal consecutive variables
// grouped as name^k.
func (p Polynomial) String() string {
	terms := p.SortedTerms()
	if len(terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range terms {
		s := strconv.FormatFloat(t.Coefficient, 'g', -1, 64)
		neg := strings.HasPrefix(s, "-")
		if neg {
			s = s[1:]
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i == 0:
		case neg:
			b.WriteString(" - ")
		default:
			b.WriteString(" + ")
		}
		if s == "1" && len(t.Monomial) != 0 {
			s = ""
		}
		b.WriteString(s)
		writeMonomial(&b, t.Monomial)
	}
	return b.String()
}

func writeMonomial(b *strings.Builder, w Monomial) {
	if len(w) == 0 {
		return
	}
	prev, pow := w[0], 1
	flush := func() {
		fmt.Fprintf(b, "%s", string(prev))
		if pow != 1 {
			fmt.Fprintf(b, "^%d", pow)
		}
	}
	for _, v := range w[1:] {
		if v == prev {
			pow++
			continue
		}
		flush()
		prev, pow = v, 1
	}
	flush()
}
