package rational

import "fmt"

// InfRational is a pair (q, r) standing for q + r*epsilon, where
// epsilon is an infinitesimal strictly smaller than any positive
// rational. It is how the LRA theory represents strict inequalities
// without leaving the rationals: "x < v" becomes "x <= v - epsilon".
type InfRational struct {
	Rat Rational // the rational part
	Inf Rational // the infinitesimal coefficient
}

// NewInfRational builds q + r*epsilon.
func NewInfRational(q, inf Rational) InfRational { return InfRational{Rat: q, Inf: inf} }

// FromRational lifts a plain rational with a zero infinitesimal part.
func FromRational(q Rational) InfRational { return InfRational{Rat: q, Inf: Zero} }

// FromIntValue lifts a plain integer.
func FromIntValue(n int64) InfRational { return InfRational{Rat: FromInt(n), Inf: Zero} }

func (r InfRational) IsZero() bool { return r.Rat.IsZero() && r.Inf.IsZero() }
func (r InfRational) IsPositive() bool {
	return r.Rat.IsPositive() || (r.Rat.IsZero() && r.Inf.IsPositive())
}
func (r InfRational) IsPositiveOrZero() bool {
	return r.Rat.IsPositive() || (r.Rat.IsZero() && r.Inf.IsPositiveOrZero())
}
func (r InfRational) IsNegative() bool {
	return r.Rat.IsNegative() || (r.Rat.IsZero() && r.Inf.IsNegative())
}
func (r InfRational) IsNegativeOrZero() bool {
	return r.Rat.IsNegative() || (r.Rat.IsZero() && r.Inf.IsNegativeOrZero())
}
func (r InfRational) IsInfinite() bool { return r.Rat.IsInfinite() }
func (r InfRational) IsPositiveInfinite() bool { return r.IsPositive() && r.IsInfinite() }
func (r InfRational) IsNegativeInfinite() bool { return r.IsNegative() && r.IsInfinite() }

func (r InfRational) Equal(o InfRational) bool {
	return r.Rat.Equal(o.Rat) && r.Inf.Equal(o.Inf)
}

func (r InfRational) Less(o InfRational) bool {
	return r.Rat.Less(o.Rat) || (r.Rat.Equal(o.Rat) && r.Inf.Less(o.Inf))
}

func (r InfRational) LessOrEqual(o InfRational) bool {
	return r.Rat.Less(o.Rat) || (r.Rat.Equal(o.Rat) && r.Inf.LessOrEqual(o.Inf))
}

func (r InfRational) Greater(o InfRational) bool {
	return r.Rat.Greater(o.Rat) || (r.Rat.Equal(o.Rat) && r.Inf.Greater(o.Inf))
}

func (r InfRational) GreaterOrEqual(o InfRational) bool {
	return r.Rat.Greater(o.Rat) || (r.Rat.Equal(o.Rat) && r.Inf.GreaterOrEqual(o.Inf))
}

// EqualRational, LessRational, LessOrEqualRational, GreaterRational
// and GreaterOrEqualRational order r against a plain rational v,
// treating v as v + 0*epsilon.
func (r InfRational) EqualRational(v Rational) bool {
	return r.Rat.Equal(v) && r.Inf.IsZero()
}
func (r InfRational) LessRational(v Rational) bool {
	return r.Rat.Less(v) || (r.Rat.Equal(v) && r.Inf.IsNegative())
}
func (r InfRational) LessOrEqualRational(v Rational) bool {
	return r.Rat.Less(v) || (r.Rat.Equal(v) && r.Inf.IsNegativeOrZero())
}
func (r InfRational) GreaterRational(v Rational) bool {
	return r.Rat.Greater(v) || (r.Rat.Equal(v) && r.Inf.IsPositive())
}
func (r InfRational) GreaterOrEqualRational(v Rational) bool {
	return r.Rat.Greater(v) || (r.Rat.Equal(v) && r.Inf.IsPositiveOrZero())
}

func (r InfRational) Add(o InfRational) InfRational {
	return InfRational{Rat: r.Rat.Add(o.Rat), Inf: r.Inf.Add(o.Inf)}
}
func (r InfRational) Sub(o InfRational) InfRational {
	return InfRational{Rat: r.Rat.Sub(o.Rat), Inf: r.Inf.Sub(o.Inf)}
}
func (r InfRational) Neg() InfRational {
	return InfRational{Rat: r.Rat.Neg(), Inf: r.Inf.Neg()}
}

// AddRational, SubRational add/subtract a plain rational, leaving the
// infinitesimal part untouched.
func (r InfRational) AddRational(v Rational) InfRational {
	return InfRational{Rat: r.Rat.Add(v), Inf: r.Inf}
}
func (r InfRational) SubRational(v Rational) InfRational {
	return InfRational{Rat: r.Rat.Sub(v), Inf: r.Inf}
}

// MulRational, DivRational scale both components by a plain rational.
func (r InfRational) MulRational(v Rational) InfRational {
	return InfRational{Rat: r.Rat.Mul(v), Inf: r.Inf.Mul(v)}
}
func (r InfRational) DivRational(v Rational) InfRational {
	return InfRational{Rat: r.Rat.Div(v), Inf: r.Inf.Div(v)}
}

func (r InfRational) String() string {
	if r.Rat.IsInfinite() || r.Inf.IsZero() {
		return r.Rat.String()
	}
	switch {
	case r.Inf.Equal(One):
		if r.Rat.IsZero() {
			return "e"
		}
		return fmt.Sprintf("%s + e", r.Rat)
	case r.Inf.Equal(One.Neg()):
		if r.Rat.IsZero() {
			return "-e"
		}
		return fmt.Sprintf("%s - e", r.Rat)
	case r.Rat.IsZero():
		return fmt.Sprintf("%se", r.Inf)
	case r.Inf.IsNegative():
		return fmt.Sprintf("%s - %se", r.Rat, r.Inf.Neg())
	default:
		return fmt.Sprintf("%s + %se", r.Rat, r.Inf)
	}
}
