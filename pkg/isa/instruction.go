package isa

import (
	"fmt"

	"github.com/jenissimo/zarya/pkg/trit"
)

// Instruction is a decoded machine instruction: an opcode tryte (base
// opcode plus addressing mode) and its two operand trytes. This is the
// fixed 3-tryte stride the VM fetches at every step.
type Instruction struct {
	Opcode   trit.Tryte
	Operand1 trit.Tryte
	Operand2 trit.Tryte
}

// AddrMode returns the addressing mode packed into the instruction's
// opcode.
func (inst Instruction) AddrMode() AddrMode {
	return GetAddrMode(inst.Opcode)
}

// BaseOpcode returns the instruction's base opcode, addressing-mode trit
// zeroed.
func (inst Instruction) BaseOpcode() int {
	return GetBaseOpcode(inst.Opcode)
}

// Encode packs inst into a Word: opcode.trits ++ operand1.trits ++
// operand2.trits.
func (inst Instruction) Encode() trit.Word {
	return trit.EncodeWord(inst.Opcode, inst.Operand1, inst.Operand2)
}

// Decode unpacks a Word into an Instruction. Encode and Decode round-trip
// on valid inputs.
func Decode(w trit.Word) Instruction {
	opcode, op1, op2 := trit.DecodeWord(w)
	return Instruction{Opcode: opcode, Operand1: op1, Operand2: op2}
}

// String renders the instruction for tracing, naming the base opcode when
// known.
func (inst Instruction) String() string {
	name := "?"
	if info, ok := Table[inst.BaseOpcode()]; ok {
		name = info.Mnemonic
	} else if mn, ok := PseudoMnemonics[inst.BaseOpcode()]; ok {
		name = mn
	}
	return fmt.Sprintf("%s(mode=%d) %d %d", name, inst.AddrMode(), inst.Operand1.Value, inst.Operand2.Value)
}
