package trias

import "github.com/jenissimo/zarya/pkg/isa"

// DirectiveKind identifies which assembler directive a Directive node is.
type DirectiveKind int

// The four directives.
const (
	DirOrg DirectiveKind = iota
	DirDb
	DirDw
	DirDs
)

// OperandKind identifies the syntactic shape of an operand leaf.
type OperandKind int

// The operand leaf kinds.
const (
	OperandNumber OperandKind = iota
	OperandIdentifier
	OperandRegister
	OperandChar
)

// Operand is one instruction operand: its syntactic kind, its resolved
// addressing mode, and whichever value field its kind uses.
type Operand struct {
	Kind     OperandKind
	Mode     isa.AddrMode
	Number   int    // OperandNumber, OperandChar (character code)
	Name     string // OperandIdentifier (label reference)
	Register int    // OperandRegister, index as written (may exceed NumRegisters)
	Line     int
}

// Statement is a top-level program node: a Label, a Directive, or an Instr.
type Statement interface {
	StatementLine() int
}

// Label names the current emission address. Address resolution happens in
// the code generator's layout pass, not here: pseudo-instructions can
// expand to more than one basic instruction, so only the generator (which
// knows every expansion's size) can compute real addresses.
type Label struct {
	Name string
	Line int
}

func (l Label) StatementLine() int { return l.Line }

// Directive is one of .org/.db/.dw/.ds.
type Directive struct {
	Kind   DirectiveKind
	Number int    // DirOrg (address), DirDb/DirDw (value)
	Str    string // DirDs
	Line   int
}

func (d Directive) StatementLine() int { return d.Line }

// Instr is one assembly-language instruction, basic or pseudo, with its
// parsed operands (not yet encoded — each operand's addressing mode is set
// by the parser; label references are resolved at code-gen time against
// the symbol table).
type Instr struct {
	Mnemonic string
	Operands []Operand
	Line     int
}

func (i Instr) StatementLine() int { return i.Line }

// Program is the parsed source: a flat sequence of statements in source
// order, mirroring the original's singly-linked AST chain.
type Program struct {
	Statements []Statement
}
