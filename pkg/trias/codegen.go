package trias

import (
	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/trit"
)

// CodeGen runs the two-pass assembly: a layout pass that assigns every
// label an address, then an emit pass that encodes instructions and
// directives into a tryte stream. It owns the symbol table, since
// pseudo-instructions expand to a variable number of basic instructions
// and only the generator (which expands them to size the layout pass)
// can know a label's real address — the parser validates label syntax
// only.
type CodeGen struct {
	symbols *SymbolTable
}

// NewCodeGen returns a CodeGen with an empty symbol table.
func NewCodeGen() *CodeGen {
	return &CodeGen{symbols: NewSymbolTable()}
}

// Generate assembles prog into a tryte stream ready for
// isa.WriteImage, appending a trailing HALT per spec.
func (g *CodeGen) Generate(prog *Program) ([]trit.Tryte, error) {
	if err := g.layout(prog); err != nil {
		return nil, err
	}
	return g.emit(prog)
}

// layout walks the program once, advancing an address cursor and
// recording each label's address. Pseudo-instructions are expanded
// (not just counted) so that layout and emit agree byte-for-byte on
// every expansion's size.
func (g *CodeGen) layout(prog *Program) error {
	cursor := 0
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case Label:
			if err := g.symbols.Define(s.Name, cursor, s.Line); err != nil {
				return err
			}
		case Directive:
			switch s.Kind {
			case DirOrg:
				cursor = s.Number
			case DirDb, DirDw:
				cursor++
			case DirDs:
				cursor += len(s.Str)
			}
		case Instr:
			info, ok := mnemonics[s.Mnemonic]
			if !ok {
				return newParseError(s.Line, s.Mnemonic, "unknown instruction", ErrUnknownMnemonic)
			}
			if info.Pseudo {
				expanded, err := ExpandPseudo(s.Mnemonic, s.Operands, s.Line)
				if err != nil {
					return err
				}
				cursor += len(expanded) * 3
			} else {
				cursor += 3
			}
		}
	}
	return nil
}

// emit walks the program a second time, now with every label resolved,
// and produces the final tryte stream.
func (g *CodeGen) emit(prog *Program) ([]trit.Tryte, error) {
	var buf []trit.Tryte

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case Label:
			// Addresses were assigned in the layout pass; nothing to emit.

		case Directive:
			var err error
			buf, err = g.emitDirective(buf, s)
			if err != nil {
				return nil, err
			}

		case Instr:
			info := mnemonics[s.Mnemonic]
			if info.Pseudo {
				expanded, err := ExpandPseudo(s.Mnemonic, s.Operands, s.Line)
				if err != nil {
					return nil, err
				}
				for _, basic := range expanded {
					enc, err := g.encodeInstr(basic)
					if err != nil {
						return nil, err
					}
					buf = append(buf, enc[:]...)
				}
			} else {
				enc, err := g.encodeInstr(s)
				if err != nil {
					return nil, err
				}
				buf = append(buf, enc[:]...)
			}
		}
	}

	halt, _ := g.encodeInstr(Instr{Mnemonic: "HALT"})
	buf = append(buf, halt[:]...)
	return buf, nil
}

func (g *CodeGen) emitDirective(buf []trit.Tryte, d Directive) ([]trit.Tryte, error) {
	switch d.Kind {
	case DirOrg:
		if d.Number < len(buf) {
			return nil, newParseError(d.Line, "", "address already emitted past this point", ErrOrgBacktrack)
		}
		for len(buf) < d.Number {
			buf = append(buf, trit.TryteFromInt(0))
		}
		return buf, nil

	case DirDb, DirDw:
		return append(buf, trit.TryteFromInt(d.Number)), nil

	case DirDs:
		for _, c := range []byte(d.Str) {
			buf = append(buf, trit.TryteFromInt(int(c)))
		}
		return buf, nil
	}
	return buf, nil
}

// encodeInstr packs one basic instruction (mnemonic already resolved,
// operands already parsed) into its 3-tryte wire form.
func (g *CodeGen) encodeInstr(inst Instr) ([3]trit.Tryte, error) {
	info := mnemonics[inst.Mnemonic]

	mode := isa.Immediate
	if len(inst.Operands) > 0 {
		mode = inst.Operands[0].Mode
	}
	opcode := isa.MakeOpcode(mode, info.Opcode)

	var op1, op2 trit.Tryte
	if len(inst.Operands) > 0 {
		v, err := g.resolveOperand(inst.Operands[0])
		if err != nil {
			return [3]trit.Tryte{}, err
		}
		op1 = v
	}
	if len(inst.Operands) > 1 {
		v, err := g.resolveOperand(inst.Operands[1])
		if err != nil {
			return [3]trit.Tryte{}, err
		}
		op2 = v
	}

	return [3]trit.Tryte{opcode, op1, op2}, nil
}

func (g *CodeGen) resolveOperand(op Operand) (trit.Tryte, error) {
	switch op.Kind {
	case OperandNumber, OperandChar:
		return trit.TryteFromInt(op.Number), nil
	case OperandRegister:
		return trit.TryteFromInt(op.Register), nil
	case OperandIdentifier:
		addr, ok := g.symbols.Lookup(op.Name)
		if !ok {
			return trit.Tryte{}, newParseError(op.Line, op.Name, "unknown label", ErrUnknownLabel)
		}
		return trit.TryteFromInt(addr), nil
	}
	return trit.Tryte{}, newParseError(op.Line, "", "invalid operand", ErrSyntax)
}
