package rational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xDarkicex/smt/rational"
)

func TestNormalization(t *testing.T) {
	r := rational.New(4, 8)
	assert.Equal(t, int64(1), r.Numerator())
	assert.Equal(t, int64(2), r.Denominator())

	r = rational.New(-4, -8)
	assert.True(t, r.IsPositive())
}

func TestInfinitySentinels(t *testing.T) {
	assert.True(t, rational.PositiveInfinity.IsPositiveInfinite())
	assert.True(t, rational.NegativeInfinity.IsNegativeInfinite())
	assert.True(t, rational.New(5, 0).Equal(rational.PositiveInfinity))
	assert.True(t, rational.New(-5, 0).Equal(rational.NegativeInfinity))
}

func TestArithmetic(t *testing.T) {
	a := rational.New(1, 2)
	b := rational.New(1, 3)
	assert.True(t, a.Add(b).Equal(rational.New(5, 6)))
	assert.True(t, a.Sub(b).Equal(rational.New(1, 6)))
	assert.True(t, a.Mul(b).Equal(rational.New(1, 6)))
	assert.True(t, a.Div(b).Equal(rational.New(3, 2)))
}

func TestInfinityArithmetic(t *testing.T) {
	assert.True(t, rational.PositiveInfinity.Add(rational.New(1, 1)).Equal(rational.PositiveInfinity))
	assert.True(t, rational.PositiveInfinity.Mul(rational.New(2, 1)).Equal(rational.PositiveInfinity))
	assert.True(t, rational.PositiveInfinity.Mul(rational.New(-2, 1)).Equal(rational.NegativeInfinity))
}

func TestZeroOverInfinityPanics(t *testing.T) {
	assert.Panics(t, func() { rational.Zero.Mul(rational.PositiveInfinity) })
}

func TestZeroValueBehavesAsZero(t *testing.T) {
	var r rational.Rational
	assert.False(t, r.IsInfinite())
	assert.True(t, r.IsZero())
	assert.True(t, r.Equal(rational.Zero))
	assert.True(t, r.Add(rational.One).Equal(rational.One))
	assert.True(t, rational.One.Greater(r))
	assert.Equal(t, "0", r.String())
}

func TestOrdering(t *testing.T) {
	a := rational.New(1, 2)
	b := rational.New(2, 3)
	assert.True(t, a.Less(b))
	assert.True(t, rational.NegativeInfinity.Less(a))
	assert.True(t, b.Less(rational.PositiveInfinity))
}
