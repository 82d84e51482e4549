package rational

import (
	"fmt"
	"sort"
	"strings"
)

// Lin is a sparse linear expression: a map from numeric variable to
// its (nonzero) rational coefficient, plus a known constant term.
// Shared by the LRA and IDL/RDL theories, which both index their own
// variable spaces by plain ints.
type Lin struct {
	Vars  map[int]Rational
	Known Rational
}

// NewLin builds the zero expression.
func NewLin() Lin { return Lin{Known: Zero} }

// FromConst builds the constant expression k.
func FromConst(k Rational) Lin { return Lin{Known: k} }

// FromVar builds the single-term expression c*v.
func FromVar(v int, c Rational) Lin {
	l := Lin{Known: Zero}
	if !c.IsZero() {
		l.Vars = map[int]Rational{v: c}
	}
	return l
}

func (l Lin) clone() Lin {
	out := Lin{Known: l.Known}
	if len(l.Vars) > 0 {
		out.Vars = make(map[int]Rational, len(l.Vars))
		for v, c := range l.Vars {
			out.Vars[v] = c
		}
	}
	return out
}

func (l Lin) set(v int, c Rational) {
	if c.IsZero() {
		delete(l.Vars, v)
		return
	}
	l.Vars[v] = c
}

// Add returns l + o.
func (l Lin) Add(o Lin) Lin {
	out := l.clone()
	if out.Vars == nil && len(o.Vars) > 0 {
		out.Vars = make(map[int]Rational, len(o.Vars))
	}
	for v, c := range o.Vars {
		cur, ok := out.Vars[v]
		if !ok {
			cur = Zero // a map miss must read as the coefficient 0, not the zero value
		}
		out.set(v, cur.Add(c))
	}
	out.Known = out.Known.Add(o.Known)
	return out
}

// AddConst returns l + k.
func (l Lin) AddConst(k Rational) Lin {
	out := l.clone()
	out.Known = out.Known.Add(k)
	return out
}

// Sub returns l - o.
func (l Lin) Sub(o Lin) Lin { return l.Add(o.Neg()) }

// SubConst returns l - k.
func (l Lin) SubConst(k Rational) Lin { return l.AddConst(k.Neg()) }

// Neg returns -l.
func (l Lin) Neg() Lin {
	out := Lin{Known: l.Known.Neg()}
	if len(l.Vars) > 0 {
		out.Vars = make(map[int]Rational, len(l.Vars))
		for v, c := range l.Vars {
			out.Vars[v] = c.Neg()
		}
	}
	return out
}

// MulConst returns l * k.
func (l Lin) MulConst(k Rational) Lin {
	out := Lin{Known: l.Known.Mul(k)}
	if len(l.Vars) > 0 && !k.IsZero() {
		out.Vars = make(map[int]Rational, len(l.Vars))
		for v, c := range l.Vars {
			out.Vars[v] = c.Mul(k)
		}
	}
	return out
}

// DivConst returns l / k. Dividing by an infinity collapses every
// term and the constant to zero.
func (l Lin) DivConst(k Rational) Lin {
	out := Lin{Known: l.Known.Div(k)}
	if len(l.Vars) > 0 && !k.IsInfinite() {
		out.Vars = make(map[int]Rational, len(l.Vars))
		for v, c := range l.Vars {
			out.Vars[v] = c.Div(k)
		}
	}
	return out
}

// VarIDs returns l's variable IDs in ascending order, for deterministic
// iteration (tableau rows, substitution, to_json).
func (l Lin) VarIDs() []int {
	ids := make([]int, 0, len(l.Vars))
	for v := range l.Vars {
		ids = append(ids, v)
	}
	sort.Ints(ids)
	return ids
}

// IsConst reports whether l carries no variable terms.
func (l Lin) IsConst() bool { return len(l.Vars) == 0 }

func (l Lin) String() string {
	if len(l.Vars) == 0 {
		return l.Known.String()
	}
	var b strings.Builder
	first := true
	for _, v := range l.VarIDs() {
		c := l.Vars[v]
		if !first {
			if c.IsNegativeOrZero() {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if c.IsNegative() {
			b.WriteString("-")
		}
		fmt.Fprintf(&b, "%s*x%d", absString(c), v)
		first = false
	}
	if !l.Known.IsZero() {
		if l.Known.IsNegative() {
			b.WriteString(" - ")
			fmt.Fprintf(&b, "%s", absString(l.Known))
		} else {
			b.WriteString(" + ")
			fmt.Fprintf(&b, "%s", l.Known)
		}
	}
	return b.String()
}

func absString(r Rational) string {
	if r.IsNegative() {
		return r.Neg().String()
	}
	return r.String()
}
