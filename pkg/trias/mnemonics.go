package trias

import "github.com/jenissimo/zarya/pkg/isa"

// mnemonicInfo is what the parser and code generator both need to know
// about a mnemonic: its opcode, how many operands it takes, and whether
// it is a pseudo-instruction (expanded by pkg/trias, never seen by the
// VM) or a basic one (encoded directly).
type mnemonicInfo struct {
	Opcode   int
	Operands int
	Pseudo   bool
}

// pseudoOperandCounts gives the operand count for each pseudo-instruction;
// isa.PseudoMnemonics only names them, since pkg/isa has no notion of
// assembly-time arity.
var pseudoOperandCounts = map[int]int{
	isa.MOV:   2,
	isa.INC:   1,
	isa.DEC:   1,
	isa.PUSHR: 1,
	isa.POPR:  1,
	isa.CLEAR: 1,
	isa.CMP:   2,
	isa.TEST:  1,
}

var mnemonics = buildMnemonicTable()

func buildMnemonicTable() map[string]mnemonicInfo {
	t := make(map[string]mnemonicInfo, len(isa.Table)+len(isa.PseudoMnemonics))
	for opcode, info := range isa.Table {
		t[info.Mnemonic] = mnemonicInfo{Opcode: opcode, Operands: info.Operands}
	}
	for opcode, name := range isa.PseudoMnemonics {
		t[name] = mnemonicInfo{Opcode: opcode, Operands: pseudoOperandCounts[opcode], Pseudo: true}
	}
	return t
}
