package lra

import (
	"fmt"

	"github.com/xDarkicex/smt/rational"
	"github.com/xDarkicex/smt/sat"
)

// assertCompare mints (or reuses) the control literal for "varPart OP
// cRight", where OP is <= for leqKind and >= for geqKind and cRight
// already carries any infinitesimal shift a strict comparator needs.
// Short-circuits to TrueLit/FalseLit when the row variable's current
// bounds already settle the comparison, and dedups by (slack, kind,
// threshold) otherwise so repeated identical comparisons share one
// control literal.
func (th *Theory) assertCompare(kind opKind, varPart rational.Lin, cRight rational.InfRational) sat.Literal {
	slack := th.internedRow(varPart)

	switch kind {
	case leqKind:
		if th.UB(slack).LessOrEqual(cRight) {
			return sat.TrueLit
		}
		if th.LB(slack).Greater(cRight) {
			return sat.FalseLit
		}
	case geqKind:
		if th.LB(slack).GreaterOrEqual(cRight) {
			return sat.TrueLit
		}
		if th.UB(slack).Less(cRight) {
			return sat.FalseLit
		}
	}

	key := fmt.Sprintf("%d:%d:%s", slack, kind, cRight.String())
	if lit, ok := th.sAsrts[key]; ok {
		return lit
	}

	ctr := sat.NewLiteral(th.core.NewVar(), true)
	th.bind(&assertion{b: ctr, x: slack, v: cRight, kind: kind})
	th.sAsrts[key] = ctr
	return ctr
}

// split rewrites left-right, substituting basic variables, into a
// variable-only part and the known term moved to the other side of
// the comparison (negated, since left-right OP 0 becomes varPart OP
// -known).
func (th *Theory) split(left, right rational.Lin) (varPart rational.Lin, negKnown rational.Rational) {
	expr := th.substituteBasic(left.Sub(right))
	return rational.Lin{Vars: expr.Vars, Known: rational.Zero}, expr.Known.Neg()
}

// NewLeq asserts left <= right.
func (th *Theory) NewLeq(left, right rational.Lin) sat.Literal {
	varPart, negKnown := th.split(left, right)
	return th.assertCompare(leqKind, varPart, rational.NewInfRational(negKnown, rational.Zero))
}

// NewLt asserts left < right, encoded as left <= right - epsilon.
func (th *Theory) NewLt(left, right rational.Lin) sat.Literal {
	varPart, negKnown := th.split(left, right)
	return th.assertCompare(leqKind, varPart, rational.NewInfRational(negKnown, rational.One.Neg()))
}

// NewGeq asserts left >= right.
func (th *Theory) NewGeq(left, right rational.Lin) sat.Literal {
	varPart, negKnown := th.split(left, right)
	return th.assertCompare(geqKind, varPart, rational.NewInfRational(negKnown, rational.Zero))
}

// NewGt asserts left > right, encoded as left >= right + epsilon.
func (th *Theory) NewGt(left, right rational.Lin) sat.Literal {
	varPart, negKnown := th.split(left, right)
	return th.assertCompare(geqKind, varPart, rational.NewInfRational(negKnown, rational.One))
}

// NewEq asserts left == right as the conjunction of both directions,
// sharing the same row variable through the interning cache.
func (th *Theory) NewEq(left, right rational.Lin) sat.Literal {
	return th.core.NewConj([]sat.Literal{th.NewLeq(left, right), th.NewGeq(left, right)})
}
