package trit

// TritsPerTryte is the number of trits making up one Tryte.
const TritsPerTryte = 6

// MaxTryteValue is the largest value a Tryte can hold: (3^6-1)/2.
const MaxTryteValue = 364

// Tryte is a group of 6 trits, least-significant first, with its cached
// integer value in [-364, 364].
type Tryte struct {
	Trits [TritsPerTryte]Trit
	Value int
}

// Recompute re-derives Value from Trits. Every Tryte mutation that touches
// Trits directly must call this to re-establish the cached-value invariant.
func (t *Tryte) Recompute() {
	value := 0
	power := 1
	for i := 0; i < TritsPerTryte; i++ {
		value += int(t.Trits[i]) * power
		power *= 3
	}
	t.Value = value
}

// TryteFromInt converts value into a Tryte by encoding its magnitude in
// base 3, balancing digits of 2 into -1 with a carry, and negating all
// digits if value was negative.
//
// Magnitudes beyond +/-364 wrap: only the low 6 balanced-ternary digits are
// kept, so out-of-range values silently alias onto some in-range value. See
// the open-question decision on int->tryte overflow in DESIGN.md.
func TryteFromInt(value int) Tryte {
	var result Tryte
	negative := value < 0
	temp := value
	if negative {
		temp = -temp
	}
	for i := 0; i < TritsPerTryte; i++ {
		rem := temp % 3
		temp /= 3
		if rem == 2 {
			rem = -1
			temp++
		}
		if negative {
			result.Trits[i] = Trit(-rem)
		} else {
			result.Trits[i] = Trit(rem)
		}
	}
	result.Recompute()
	return result
}

// Add returns a+b with balanced-ternary carry propagation. Carry out of the
// most significant trit is discarded (modular arithmetic in the 6-trit
// domain).
func Add(a, b Tryte) Tryte {
	var result Tryte
	carry := 0
	for i := 0; i < TritsPerTryte; i++ {
		sum := int(a.Trits[i]) + int(b.Trits[i]) + carry
		switch {
		case sum > 1:
			result.Trits[i] = Trit(sum - 3)
			carry = 1
		case sum < -1:
			result.Trits[i] = Trit(sum + 3)
			carry = -1
		default:
			result.Trits[i] = Trit(sum)
			carry = 0
		}
	}
	result.Recompute()
	return result
}

// Sub returns a-b, computed as a plus the per-trit negation of b.
func Sub(a, b Tryte) Tryte {
	neg := b
	for i := 0; i < TritsPerTryte; i++ {
		neg.Trits[i] = b.Trits[i].Neg()
	}
	neg.Recompute()
	return Add(a, neg)
}

// Mul returns a*b via schoolbook multiplication into a 12-trit accumulator,
// normalizing carries left to right; the upper half is discarded.
func Mul(a, b Tryte) Tryte {
	var acc [TritsPerTryte * 2]int
	for i := 0; i < TritsPerTryte; i++ {
		for j := 0; j < TritsPerTryte; j++ {
			acc[i+j] += int(a.Trits[i]) * int(b.Trits[j])
		}
	}
	for i := 0; i < len(acc)-1; i++ {
		for acc[i] > 1 {
			acc[i] -= 3
			acc[i+1]++
		}
		for acc[i] < -1 {
			acc[i] += 3
			acc[i+1]--
		}
	}
	last := len(acc) - 1
	for acc[last] > 1 {
		acc[last] -= 3
	}
	for acc[last] < -1 {
		acc[last] += 3
	}
	var result Tryte
	for i := 0; i < TritsPerTryte; i++ {
		result.Trits[i] = Trit(acc[i])
	}
	result.Recompute()
	return result
}

// Div returns the integer division a/b computed via the cached integer
// values. Division by zero returns the zero Tryte; the VM's DIV instruction
// traps DIVISION_BY_ZERO separately before the numeric primitive is ever
// called with a zero divisor.
func Div(a, b Tryte) Tryte {
	if b.Value == 0 {
		return Tryte{}
	}
	return TryteFromInt(a.Value / b.Value)
}

// And returns the per-trit ternary AND of a and b.
func And(a, b Tryte) Tryte {
	var result Tryte
	for i := 0; i < TritsPerTryte; i++ {
		result.Trits[i] = a.Trits[i].And(b.Trits[i])
	}
	result.Recompute()
	return result
}

// Or returns the per-trit ternary OR of a and b.
func Or(a, b Tryte) Tryte {
	var result Tryte
	for i := 0; i < TritsPerTryte; i++ {
		result.Trits[i] = a.Trits[i].Or(b.Trits[i])
	}
	result.Recompute()
	return result
}

// Not returns the per-trit negation of a.
func Not(a Tryte) Tryte {
	var result Tryte
	for i := 0; i < TritsPerTryte; i++ {
		result.Trits[i] = a.Trits[i].Neg()
	}
	result.Recompute()
	return result
}

// ShiftLeft shifts all trits toward the most significant position, filling
// the least significant trit with zero and dropping the top trit.
func (t Tryte) ShiftLeft() Tryte {
	var result Tryte
	for i := TritsPerTryte - 1; i > 0; i-- {
		result.Trits[i] = t.Trits[i-1]
	}
	result.Recompute()
	return result
}

// ShiftRight is the mirror of ShiftLeft.
func (t Tryte) ShiftRight() Tryte {
	var result Tryte
	for i := 0; i < TritsPerTryte-1; i++ {
		result.Trits[i] = t.Trits[i+1]
	}
	result.Recompute()
	return result
}
