package ilp

import (
	"math/big"
	"sort"
	"strings"
)

// LinExpr is a linear combination of decision variables plus a constant,
// with exact rational coefficients (spec.md §3.3: "LinExpr values carry
// exact rational coefficients, never floats"). The zero value is not
// valid; use Zero or Constant.
type LinExpr struct {
	coeffs map[Var]*big.Rat
	k      *big.Rat
}

// Zero is the empty linear expression, `0`.
func Zero() *LinExpr {
	return &LinExpr{coeffs: map[Var]*big.Rat{}, k: new(big.Rat)}
}

// Constant builds the linear expression equal to the integer k.
func Constant(k int64) *LinExpr {
	e := Zero()
	e.k.SetInt64(k)
	return e
}

// ConstantRat builds the linear expression equal to the exact rational k.
func ConstantRat(k *big.Rat) *LinExpr {
	e := Zero()
	e.k.Set(k)
	return e
}

// FromVar builds the linear expression equal to 1*v.
func FromVar(v Var) *LinExpr {
	e := Zero()
	e.coeffs[v] = big.NewRat(1, 1)
	return e
}

func (e *LinExpr) clone() *LinExpr {
	out := &LinExpr{coeffs: make(map[Var]*big.Rat, len(e.coeffs)), k: new(big.Rat).Set(e.k)}
	for v, c := range e.coeffs {
		out.coeffs[v] = new(big.Rat).Set(c)
	}
	return out
}

func (e *LinExpr) dropZeros() {
	for v, c := range e.coeffs {
		if c.Sign() == 0 {
			delete(e.coeffs, v)
		}
	}
}

// IsConstant reports whether e carries no variable terms.
func (e *LinExpr) IsConstant() bool {
	e.dropZeros()
	return len(e.coeffs) == 0
}

// ConstantValue returns e's constant term; only meaningful when
// IsConstant is true.
func (e *LinExpr) ConstantValue() *big.Rat { return new(big.Rat).Set(e.k) }

// Add returns e + other.
func (e *LinExpr) Add(other *LinExpr) *LinExpr {
	out := e.clone()
	out.k.Add(out.k, other.k)
	for v, c := range other.coeffs {
		if cur, ok := out.coeffs[v]; ok {
			cur.Add(cur, c)
		} else {
			out.coeffs[v] = new(big.Rat).Set(c)
		}
	}
	out.dropZeros()
	return out
}

// Neg returns -e.
func (e *LinExpr) Neg() *LinExpr {
	out := e.clone()
	out.k.Neg(out.k)
	for _, c := range out.coeffs {
		c.Neg(c)
	}
	return out
}

// Sub returns e - other.
func (e *LinExpr) Sub(other *LinExpr) *LinExpr { return e.Add(other.Neg()) }

// Scale returns k*e.
func (e *LinExpr) Scale(k *big.Rat) *LinExpr {
	out := e.clone()
	out.k.Mul(out.k, k)
	for _, c := range out.coeffs {
		c.Mul(c, k)
	}
	out.dropZeros()
	return out
}

// Mul multiplies two linear expressions. ColloML only allows this when
// at least one operand is a pure constant (spec.md §4.3: "multiplying
// two non-constant linear expressions is a checked error"); callers
// that have already passed the type checker may rely on that
// invariant, but Mul re-checks it defensively and reports ok=false
// rather than silently producing a nonlinear result.
func Mul(a, b *LinExpr) (result *LinExpr, ok bool) {
	if a.IsConstant() {
		return b.Scale(a.k), true
	}
	if b.IsConstant() {
		return a.Scale(b.k), true
	}
	return nil, false
}

func (e *LinExpr) sortedVars() []Var {
	e.dropZeros()
	vars := make([]Var, 0, len(e.coeffs))
	for v := range e.coeffs {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Less(vars[j]) })
	return vars
}

// Equal reports structural equality of the normalized (zero-coefficient
// stripped) forms.
func (e *LinExpr) Equal(other *LinExpr) bool {
	return e.Compare(other) == 0
}

// Compare gives LinExpr a total order by comparing the sorted
// (var, coefficient) sequence, then the constant term (spec.md §9:
// "derive ordering from canonical form").
func (e *LinExpr) Compare(other *LinExpr) int {
	av, bv := e.sortedVars(), other.sortedVars()
	for i := 0; i < len(av) && i < len(bv); i++ {
		if av[i] != bv[i] {
			if av[i].Less(bv[i]) {
				return -1
			}
			return 1
		}
		if c := e.coeffs[av[i]].Cmp(other.coeffs[bv[i]]); c != 0 {
			return c
		}
	}
	if len(av) != len(bv) {
		if len(av) < len(bv) {
			return -1
		}
		return 1
	}
	return e.k.Cmp(other.k)
}

// Vars returns the variables with nonzero coefficient, in canonical
// order.
func (e *LinExpr) Vars() []Var { return e.sortedVars() }

// Coefficient returns the coefficient of v, or 0 if v does not appear.
func (e *LinExpr) Coefficient(v Var) *big.Rat {
	if c, ok := e.coeffs[v]; ok {
		return new(big.Rat).Set(c)
	}
	return new(big.Rat)
}

func (e *LinExpr) String() string {
	var b strings.Builder
	first := true
	for _, v := range e.sortedVars() {
		c := e.coeffs[v]
		if !first {
			if c.Sign() < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if c.Sign() < 0 {
			b.WriteString("-")
		}
		first = false
		abs := new(big.Rat).Abs(c)
		if abs.Cmp(big.NewRat(1, 1)) != 0 {
			b.WriteString(abs.RatString())
			b.WriteString("*")
		}
		b.WriteString(v.String())
	}
	if e.k.Sign() != 0 || first {
		if !first {
			if e.k.Sign() < 0 {
				b.WriteString(" - ")
				b.WriteString(new(big.Rat).Abs(e.k).RatString())
			} else {
				b.WriteString(" + ")
				b.WriteString(e.k.RatString())
			}
		} else {
			b.WriteString(e.k.RatString())
		}
	}
	return b.String()
}
