package trias

import "github.com/jenissimo/zarya/pkg/isa"

// ExpandPseudo lowers one pseudo-instruction into the sequence of basic
// instructions it stands for. Both the code generator's layout pass and
// its emit pass call this: layout only needs len(result) (to size the
// address cursor correctly for forward references), emit re-derives the
// same sequence and encodes it. Grounded on the original's
// trias_instructions.c expansions.
func ExpandPseudo(mnemonic string, operands []Operand, line int) ([]Instr, error) {
	switch mnemonic {
	case "MOV":
		dst, src := operands[0], operands[1]
		return []Instr{
			basic("PUSH", line, src),
			basic("POP", line, dst),
		}, nil

	case "INC":
		r := operands[0]
		return []Instr{
			basic("PUSH", line, r),
			basic("PUSH", line, numberOperand(1, line)),
			basic("ADD", line),
			basic("POP", line, r),
		}, nil

	case "DEC":
		r := operands[0]
		return []Instr{
			basic("PUSH", line, r),
			basic("PUSH", line, numberOperand(1, line)),
			basic("SUB", line),
			basic("POP", line, r),
		}, nil

	case "PUSHR":
		return []Instr{basic("PUSH", line, operands[0])}, nil

	case "POPR":
		return []Instr{basic("POP", line, operands[0])}, nil

	case "CLEAR":
		count := operands[0]
		if count.Kind != OperandNumber {
			return nil, newParseError(line, "", "CLEAR count must be an immediate literal", ErrClearCountLiteral)
		}
		if count.Number < 0 {
			return nil, newParseError(line, "", "CLEAR count must not be negative", ErrClearCountLiteral)
		}
		result := make([]Instr, count.Number)
		for i := range result {
			result[i] = basic("DROP", line)
		}
		return result, nil

	case "CMP":
		a, b := operands[0], operands[1]
		return []Instr{
			basic("PUSH", line, a),
			basic("PUSH", line, b),
			basic("SUB", line),
		}, nil

	case "TEST":
		return []Instr{basic("PUSH", line, operands[0])}, nil
	}

	return nil, newParseError(line, mnemonic, "unknown pseudo-instruction", ErrUnknownMnemonic)
}

func basic(mnemonic string, line int, operands ...Operand) Instr {
	return Instr{Mnemonic: mnemonic, Operands: operands, Line: line}
}

func numberOperand(n, line int) Operand {
	return Operand{Kind: OperandNumber, Mode: isa.Immediate, Number: n, Line: line}
}
