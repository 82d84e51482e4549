// Package rational implements an exact field of rational numbers with
// infinity sentinels, and an infinitesimal-augmented extension of that
// field used by the LRA theory to model strict inequalities. A
// rational is a normalized numerator/denominator pair, with
// denominator zero used as the infinity sentinel (sign carried by the
// numerator).
package rational

import "fmt"

// Rational is an exact, normalized fraction. Den == 0 represents an
// infinity, whose sign is the sign of Num.
type Rational struct {
	num, den int64
}

// Zero, One and the two infinity sentinels.
var (
	Zero            = Rational{num: 0, den: 1}
	One             = Rational{num: 1, den: 1}
	PositiveInfinity = Rational{num: 1, den: 0}
	NegativeInfinity = Rational{num: -1, den: 0}
)

// New builds a normalized rational n/d. Panics on 0/0, matching the
// precondition-violation policy used throughout the core for
// ill-formed constructor arguments.
func New(n, d int64) Rational {
	if d == 0 {
		if n == 0 {
			panic("rational: 0/0 is undefined")
		}
		if n > 0 {
			return Rational{num: 1, den: 0}
		}
		return Rational{num: -1, den: 0}
	}
	return normalize(n, d)
}

// FromInt builds the rational n/1.
func FromInt(n int64) Rational { return Rational{num: n, den: 1} }

func normalize(n, d int64) Rational {
	if d < 0 {
		n, d = -n, -d
	}
	if n == 0 {
		return Rational{num: 0, den: 1}
	}
	if g := gcd(abs(n), d); g > 1 {
		n, d = n/g, d/g
	}
	return Rational{num: n, den: d}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Numerator and Denominator expose the normalized components.
func (r Rational) Numerator() int64 { return r.num }
func (r Rational) Denominator() int64 { return r.den }

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool { return r.den == 1 }

// canon maps the never-constructed zero value Rational{} to Zero, so a
// stray zero-value read (a missed map key) behaves as the number 0
// rather than masquerading as an infinity sentinel.
func (r Rational) canon() Rational {
	if r.den == 0 && r.num == 0 {
		return Zero
	}
	return r
}

// Sign and infinity predicates. An infinity requires a signed
// numerator: the zero value Rational{} is not a legal sentinel.
func (r Rational) IsZero() bool { return r.num == 0 }
func (r Rational) IsPositive() bool { return r.num > 0 }
func (r Rational) IsPositiveOrZero() bool { return r.num >= 0 }
func (r Rational) IsNegative() bool { return r.num < 0 }
func (r Rational) IsNegativeOrZero() bool { return r.num <= 0 }
func (r Rational) IsInfinite() bool { return r.den == 0 && r.num != 0 }
func (r Rational) IsPositiveInfinite() bool {
	return r.IsPositive() && r.IsInfinite()
}
func (r Rational) IsNegativeInfinite() bool {
	return r.IsNegative() && r.IsInfinite()
}

// cross multiplies two (possibly infinite) rationals for ordering.
// Two infinities compare by sign alone, so two infinities of the same
// sign are equal; an infinity lies above (or below) every finite value.
func compare(a, b Rational) int {
	a, b = a.canon(), b.canon()
	switch {
	case a.IsInfinite() && b.IsInfinite():
		as, bs := sign(a), sign(b)
		if as == bs {
			return 0
		}
		if as < bs {
			return -1
		}
		return 1
	case a.IsInfinite():
		return sign(a)
	case b.IsInfinite():
		return -sign(b)
	default:
		lhs := a.num * b.den
		rhs := b.num * a.den
		switch {
		case lhs < rhs:
			return -1
		case lhs > rhs:
			return 1
		default:
			return 0
		}
	}
}

func sign(r Rational) int {
	switch {
	case r.num > 0:
		return 1
	case r.num < 0:
		return -1
	default:
		return 0
	}
}

func (r Rational) Equal(o Rational) bool { return compare(r, o) == 0 }
func (r Rational) Less(o Rational) bool { return compare(r, o) < 0 }
func (r Rational) LessOrEqual(o Rational) bool { return compare(r, o) <= 0 }
func (r Rational) Greater(o Rational) bool { return compare(r, o) > 0 }
func (r Rational) GreaterOrEqual(o Rational) bool {
	return compare(r, o) >= 0
}

// Add, Sub, Mul and Div implement the field operations, including the
// infinity-sentinel rules: infinity swallows finite terms under
// addition, and dividing a finite value by infinity yields zero.
func (r Rational) Add(o Rational) Rational {
	r, o = r.canon(), o.canon()
	if r.IsInfinite() || o.IsInfinite() {
		if r.IsInfinite() && o.IsInfinite() && sign(r) != sign(o) {
			panic("rational: infinity minus infinity is undefined")
		}
		if r.IsInfinite() {
			return r
		}
		return o
	}
	return normalize(r.num*o.den+o.num*r.den, r.den*o.den)
}

func (r Rational) Sub(o Rational) Rational { return r.Add(o.Neg()) }

func (r Rational) Neg() Rational { return Rational{num: -r.num, den: r.den} }

func (r Rational) Mul(o Rational) Rational {
	r, o = r.canon(), o.canon()
	if r.IsZero() || o.IsZero() {
		if r.IsInfinite() || o.IsInfinite() {
			panic("rational: 0 * infinity is undefined")
		}
		return Zero
	}
	if r.IsInfinite() || o.IsInfinite() {
		if sign(r)*sign(o) > 0 {
			return PositiveInfinity
		}
		return NegativeInfinity
	}
	return normalize(r.num*o.num, r.den*o.den)
}

func (r Rational) Div(o Rational) Rational {
	r, o = r.canon(), o.canon()
	if o.IsZero() {
		panic("rational: division by zero")
	}
	if o.IsInfinite() {
		return Zero
	}
	return r.Mul(Rational{num: o.den, den: o.num})
}

func (r Rational) String() string {
	r = r.canon()
	switch {
	case r.IsPositiveInfinite():
		return "+inf"
	case r.IsNegativeInfinite():
		return "-inf"
	case r.den == 1:
		return fmt.Sprintf("%d", r.num)
	default:
		return fmt.Sprintf("%d/%d", r.num, r.den)
	}
}
