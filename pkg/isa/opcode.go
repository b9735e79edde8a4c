// Package isa defines the Zarya instruction set: the opcode table, the
// addressing-mode trit packing, and instruction encode/decode. This
// package has no knowledge of execution (see pkg/vm) or assembly syntax
// (see pkg/trias); it is the shared contract between them.
package isa

import "github.com/jenissimo/zarya/pkg/trit"

// AddrMode is the addressing mode packed into an opcode tryte's high trit.
type AddrMode = trit.Trit

// The three addressing modes.
const (
	Immediate AddrMode = trit.Negative // operand is a literal value
	Register  AddrMode = trit.Zero     // operand names a register index
	Indirect  AddrMode = trit.Positive // operand names a register holding an address
)

// NumRegisters is the number of general-purpose registers, R0..R3.
const NumRegisters = 4

// MaxBaseOpcode is the largest base opcode representable in the five
// low-order trits of an opcode tryte, (3^5-1)/2.
const MaxBaseOpcode = 121

// Base opcodes. Values and groupings are fixed by the instruction table;
// renumbering any of them changes the wire format.
const (
	NOP = 0

	PUSH = 1
	POP  = 2
	DUP  = 3
	SWAP = 4
	DROP = 5
	OVER = 6

	ADD = 10
	SUB = 11
	MUL = 12
	DIV = 13

	AND = 20
	OR  = 21
	NOT = 22

	EQ  = 30
	NEQ = 31
	LT  = 32
	GT  = 33
	LE  = 34
	GE  = 35

	JMP  = 40
	JZ   = 41
	JNZ  = 42
	CALL = 43
	RET  = 44
	HALT = 45

	IN  = 50
	OUT = 51

	LOAD  = 60
	STORE = 61

	INT = 70
	CLI = 71
	STI = 72

	// Pseudo-instructions. Never seen by the VM; expanded entirely at
	// assembly time by pkg/trias.
	MOV   = 100
	INC   = 101
	DEC   = 102
	PUSHR = 110
	POPR  = 111
	CLEAR = 112
	CMP   = 120
	TEST  = 121
)

// Group identifies which execution handler a base opcode dispatches to.
type Group int

// The execution groups. Pseudo-instructions have no group: they never
// reach the VM.
const (
	GroupSystem Group = iota
	GroupStack
	GroupArithmetic
	GroupLogic
	GroupCompare
	GroupControl
	GroupIO
	GroupMemory
	GroupInterrupt
)

// Info describes one basic (non-pseudo) instruction: its mnemonic,
// operand count, and execution group.
type Info struct {
	Mnemonic string
	Operands int
	Group    Group
}

// Table maps every basic base opcode to its Info. Pseudo-instructions are
// not present here; pkg/trias's own table covers those (see
// pkg/trias/mnemonics.go and pkg/trias/pseudo.go) since they have no
// VM-side existence.
var Table = map[int]Info{
	NOP: {"NOP", 0, GroupSystem},

	PUSH: {"PUSH", 1, GroupStack},
	POP:  {"POP", 1, GroupStack},
	DUP:  {"DUP", 0, GroupStack},
	SWAP: {"SWAP", 0, GroupStack},
	DROP: {"DROP", 0, GroupStack},
	OVER: {"OVER", 0, GroupStack},

	ADD: {"ADD", 0, GroupArithmetic},
	SUB: {"SUB", 0, GroupArithmetic},
	MUL: {"MUL", 0, GroupArithmetic},
	DIV: {"DIV", 0, GroupArithmetic},

	AND: {"AND", 0, GroupLogic},
	OR:  {"OR", 0, GroupLogic},
	NOT: {"NOT", 0, GroupLogic},

	EQ:  {"EQ", 0, GroupCompare},
	NEQ: {"NEQ", 0, GroupCompare},
	LT:  {"LT", 0, GroupCompare},
	GT:  {"GT", 0, GroupCompare},
	LE:  {"LE", 0, GroupCompare},
	GE:  {"GE", 0, GroupCompare},

	JMP:  {"JMP", 1, GroupControl},
	JZ:   {"JZ", 1, GroupControl},
	JNZ:  {"JNZ", 1, GroupControl},
	CALL: {"CALL", 1, GroupControl},
	RET:  {"RET", 0, GroupControl},
	HALT: {"HALT", 0, GroupControl},

	IN:  {"IN", 0, GroupIO},
	OUT: {"OUT", 0, GroupIO},

	LOAD:  {"LOAD", 2, GroupMemory},
	STORE: {"STORE", 2, GroupMemory},

	INT: {"INT", 1, GroupInterrupt},
	CLI: {"CLI", 0, GroupInterrupt},
	STI: {"STI", 0, GroupInterrupt},
}

// PseudoMnemonics names the pseudo-instructions, shared between the
// assembler and Instruction.String's trace output. pkg/trias owns their
// expansion.
var PseudoMnemonics = map[int]string{
	MOV:   "MOV",
	INC:   "INC",
	DEC:   "DEC",
	PUSHR: "PUSHR",
	POPR:  "POPR",
	CLEAR: "CLEAR",
	CMP:   "CMP",
	TEST:  "TEST",
}

// GetAddrMode extracts the addressing mode from an opcode tryte's
// high-order trit.
func GetAddrMode(opcode trit.Tryte) AddrMode {
	return opcode.Trits[trit.TritsPerTryte-1]
}

// GetBaseOpcode extracts the base opcode, zeroing the addressing-mode
// trit.
func GetBaseOpcode(opcode trit.Tryte) int {
	t := opcode
	t.Trits[trit.TritsPerTryte-1] = trit.Zero
	t.Recompute()
	return t.Value
}

// MakeOpcode combines an addressing mode and a base opcode into an opcode
// tryte. GetAddrMode(MakeOpcode(m, b)) == m and GetBaseOpcode(MakeOpcode(m,
// b)) == b for m in {Immediate, Register, Indirect} and b in
// [-121, 121].
func MakeOpcode(mode AddrMode, base int) trit.Tryte {
	result := trit.TryteFromInt(base)
	result.Trits[trit.TritsPerTryte-1] = mode
	result.Recompute()
	return result
}
