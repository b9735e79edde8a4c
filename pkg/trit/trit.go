// Package trit implements the balanced-ternary numeric core shared by the
// TRIAS assembler and the Zarya VM: trits, trytes, and machine words, and
// the arithmetic/logical operations over them.
//
// Balanced ternary represents numbers with digits in {-1, 0, +1} instead of
// {0, 1, 2}. A Tryte groups 6 trits (least-significant first) and caches
// its integer value in [-364, 364]; a Word groups 18 trits (three trytes)
// and encodes one machine instruction.
package trit

// Trit is a single balanced-ternary digit.
type Trit int8

// The three trit values.
const (
	Negative Trit = -1
	Zero     Trit = 0
	Positive Trit = 1
)

// Valid reports whether t is one of Negative, Zero, Positive.
func (t Trit) Valid() bool {
	return t >= Negative && t <= Positive
}

// Neg returns the per-trit negation of t. Invalid trits negate to Zero,
// matching the source's defensive fallback.
func (t Trit) Neg() Trit {
	if !t.Valid() {
		return Zero
	}
	return -t
}

// And computes the Kleene-style ternary AND of a and b.
func (a Trit) And(b Trit) Trit {
	if !a.Valid() || !b.Valid() {
		return Zero
	}
	if a == Zero || b == Zero {
		return Zero
	}
	if a == b {
		return a
	}
	return Negative
}

// Or computes the Kleene-style ternary OR of a and b.
func (a Trit) Or(b Trit) Trit {
	if !a.Valid() || !b.Valid() {
		return Zero
	}
	if a == Positive || b == Positive {
		return Positive
	}
	if a == Zero {
		return b
	}
	if b == Zero {
		return a
	}
	return Negative
}
