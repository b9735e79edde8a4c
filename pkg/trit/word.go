package trit

// TritsPerWord is the number of trits making up one Word: three trytes.
const TritsPerWord = 3 * TritsPerTryte

// Word is a group of 18 trits with a cached integer value. It encodes one
// machine instruction as three concatenated trytes: opcode, operand1,
// operand2.
type Word struct {
	Trits [TritsPerWord]Trit
	Value int64
}

// Recompute re-derives Value from Trits.
func (w *Word) Recompute() {
	var value int64
	power := int64(1)
	for i := 0; i < TritsPerWord; i++ {
		value += int64(w.Trits[i]) * power
		power *= 3
	}
	w.Value = value
}

// EncodeWord packs opcode, operand1, and operand2 into a Word, trytes
// concatenated least-significant tryte first. Decode is the inverse;
// EncodeWord and DecodeWord must round-trip on valid inputs.
func EncodeWord(opcode, operand1, operand2 Tryte) Word {
	var w Word
	copy(w.Trits[0:TritsPerTryte], opcode.Trits[:])
	copy(w.Trits[TritsPerTryte:2*TritsPerTryte], operand1.Trits[:])
	copy(w.Trits[2*TritsPerTryte:3*TritsPerTryte], operand2.Trits[:])
	w.Recompute()
	return w
}

// DecodeWord splits w back into its three trytes.
func DecodeWord(w Word) (opcode, operand1, operand2 Tryte) {
	copy(opcode.Trits[:], w.Trits[0:TritsPerTryte])
	copy(operand1.Trits[:], w.Trits[TritsPerTryte:2*TritsPerTryte])
	copy(operand2.Trits[:], w.Trits[2*TritsPerTryte:3*TritsPerTryte])
	opcode.Recompute()
	operand1.Recompute()
	operand2.Recompute()
	return
}
