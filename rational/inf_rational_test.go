package rational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xDarkicex/smt/rational"
)

func TestInfRationalOrdering(t *testing.T) {
	zero := rational.FromIntValue(0)
	epsAbove := rational.NewInfRational(rational.Zero, rational.One)
	assert.True(t, zero.Less(epsAbove))
	assert.True(t, epsAbove.Greater(zero))
	assert.False(t, epsAbove.Equal(zero))
}

func TestInfRationalArithmetic(t *testing.T) {
	one := rational.FromIntValue(1)
	eps := rational.NewInfRational(rational.Zero, rational.One)
	sum := one.Add(eps)
	assert.True(t, sum.Rat.Equal(rational.One))
	assert.True(t, sum.Inf.Equal(rational.One))
}

func TestInfRationalCompareToPlainRational(t *testing.T) {
	v := rational.NewInfRational(rational.One, rational.One) // 1 + e
	assert.True(t, v.GreaterRational(rational.One))
	assert.False(t, v.EqualRational(rational.One))
}
