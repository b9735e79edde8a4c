package trit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryteFromIntRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, -1, 42, -42, 364, -364} {
		tr := TryteFromInt(v)
		require.Equal(t, v, tr.Value)
	}
}

func TestTryteFromIntWraps(t *testing.T) {
	// 365 = 364 + 1 wraps around the 6-trit domain rather than
	// saturating or erroring; see DESIGN.md's open-question decision.
	tr := TryteFromInt(365)
	require.NotEqual(t, 365, tr.Value)
	require.Equal(t, TryteFromInt(365-729).Value, tr.Value)
}

func TestAddCommutative(t *testing.T) {
	a := TryteFromInt(120)
	b := TryteFromInt(-57)
	require.Equal(t, Add(a, b).Value, Add(b, a).Value)
}

func TestSubSelfIsZero(t *testing.T) {
	a := TryteFromInt(200)
	require.Equal(t, 0, Sub(a, a).Value)
}

func TestAddNegIsZero(t *testing.T) {
	a := TryteFromInt(-13)
	neg := Not(a) // per-trit negation, i.e. additive inverse in this domain
	require.Equal(t, 0, Add(a, neg).Value)
}

func TestMulBasic(t *testing.T) {
	require.Equal(t, 42, Mul(TryteFromInt(6), TryteFromInt(7)).Value)
	require.Equal(t, -42, Mul(TryteFromInt(-6), TryteFromInt(7)).Value)
}

func TestDivByZeroReturnsZero(t *testing.T) {
	require.Equal(t, 0, Div(TryteFromInt(10), TryteFromInt(0)).Value)
}

func TestDivBasic(t *testing.T) {
	require.Equal(t, 5, Div(TryteFromInt(10), TryteFromInt(2)).Value)
}

func TestTernaryAndOr(t *testing.T) {
	require.Equal(t, Negative, Positive.And(Negative))
	require.Equal(t, Zero, Zero.And(Positive))
	require.Equal(t, Positive, Positive.And(Positive))

	require.Equal(t, Positive, Negative.Or(Positive))
	require.Equal(t, Negative, Zero.Or(Negative))
	require.Equal(t, Negative, Negative.Or(Negative))
}

func TestRecomputeInvariant(t *testing.T) {
	tr := TryteFromInt(17)
	tr.Trits[0] = tr.Trits[0].Neg()
	tr.Recompute()
	expected := 0
	power := 1
	for _, d := range tr.Trits {
		expected += int(d) * power
		power *= 3
	}
	require.Equal(t, expected, tr.Value)
}

func TestShiftLeftAndRight(t *testing.T) {
	tr := TryteFromInt(1) // trits = [1,0,0,0,0,0]
	shifted := tr.ShiftLeft()
	require.Equal(t, Trit(0), shifted.Trits[0])
	require.Equal(t, Trit(1), shifted.Trits[1])
	require.Equal(t, tr.Value, shifted.ShiftRight().Value)
}
