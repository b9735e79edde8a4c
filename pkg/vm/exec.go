package vm

import (
	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/trit"
)

// Fetch reads the instruction at PC without advancing it. Bounds are
// checked the same way Step checks them.
func (vm *VM) Fetch() (isa.Instruction, error) {
	pc := vm.PC.Value
	if pc < 0 || pc+2 >= MemorySize {
		return isa.Instruction{}, wrapErr(KindInvalidAddress, ErrInvalidAddress)
	}
	return isa.Instruction{
		Opcode:   vm.Memory[pc],
		Operand1: vm.Memory[pc+1],
		Operand2: vm.Memory[pc+2],
	}, nil
}

// resolveOperand returns the value denoted by operand under the given
// addressing mode.
func (vm *VM) resolveOperand(operand trit.Tryte, mode isa.AddrMode) (trit.Tryte, error) {
	switch mode {
	case isa.Immediate:
		return operand, nil
	case isa.Register:
		idx := operand.Value
		if idx < 0 || idx >= NumRegisters {
			return trit.Tryte{}, wrapErr(KindInvalidRegister, ErrInvalidRegister)
		}
		return vm.Registers[idx], nil
	case isa.Indirect:
		idx := operand.Value
		if idx < 0 || idx >= NumRegisters {
			return trit.Tryte{}, wrapErr(KindInvalidRegister, ErrInvalidRegister)
		}
		addr := vm.Registers[idx].Value
		if addr < 0 || addr >= MemorySize {
			return trit.Tryte{}, wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		return vm.Memory[addr], nil
	default:
		return trit.Tryte{}, wrapErr(KindInvalidAddressMode, ErrInvalidAddressMode)
	}
}

// Step executes one fetch-decode-execute cycle: fetch the instruction at
// PC, reject unknown base opcodes, dispatch to the group handler, and
// advance PC by 3 unless the handler changed it.
func (vm *VM) Step() error {
	inst, err := vm.Fetch()
	if err != nil {
		return err
	}
	info, ok := isa.Table[inst.BaseOpcode()]
	if !ok {
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
	oldPC := vm.PC
	if err := vm.dispatch(info.Group, inst); err != nil {
		return err
	}
	if vm.PC == oldPC {
		vm.PC = trit.TryteFromInt(vm.PC.Value + InstructionSize)
	}
	if vm.PC.Value >= MemorySize {
		return wrapErr(KindInvalidAddress, ErrInvalidAddress)
	}
	return nil
}

// Run steps until HALT or a non-recoverable error. HALT is treated as
// clean termination and does not propagate as an error.
func (vm *VM) Run() error {
	for {
		if err := vm.Step(); err != nil {
			if err == ErrHalted || unwrapIs(err, ErrHalted) {
				return nil
			}
			return err
		}
	}
}

func unwrapIs(err, target error) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func (vm *VM) dispatch(group isa.Group, inst isa.Instruction) error {
	switch group {
	case isa.GroupStack:
		return vm.execStack(inst)
	case isa.GroupArithmetic:
		return vm.execArithmetic(inst)
	case isa.GroupLogic:
		return vm.execLogic(inst)
	case isa.GroupCompare:
		return vm.execCompare(inst)
	case isa.GroupControl:
		return vm.execControl(inst)
	case isa.GroupMemory:
		return vm.execMemory(inst)
	case isa.GroupInterrupt:
		return vm.execInterrupt(inst)
	case isa.GroupIO:
		return vm.execIO(inst)
	case isa.GroupSystem:
		return nil // NOP
	default:
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
}

func (vm *VM) execStack(inst isa.Instruction) error {
	mode := inst.AddrMode()
	switch inst.BaseOpcode() {
	case isa.PUSH:
		value, err := vm.resolveOperand(inst.Operand1, mode)
		if err != nil {
			return err
		}
		return vm.Push(value)

	case isa.POP:
		if mode != isa.Register && mode != isa.Indirect {
			return wrapErr(KindInvalidAddressMode, ErrInvalidAddressMode)
		}
		value, err := vm.Pop()
		if err != nil {
			return err
		}
		idx := inst.Operand1.Value
		if idx < 0 || idx >= NumRegisters {
			vm.Push(value) // restore: operand was consumed
			return wrapErr(KindInvalidRegister, ErrInvalidRegister)
		}
		if mode == isa.Register {
			vm.Registers[idx] = value
			return nil
		}
		addr := vm.Registers[idx].Value
		if addr < 0 || addr >= MemorySize {
			vm.Push(value)
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		vm.Memory[addr] = value
		return nil

	case isa.DUP:
		if mode != isa.Immediate {
			return wrapErr(KindInvalidAddressMode, ErrInvalidAddressMode)
		}
		return vm.Dup()

	case isa.SWAP:
		if mode != isa.Immediate {
			return wrapErr(KindInvalidAddressMode, ErrInvalidAddressMode)
		}
		return vm.Swap()

	case isa.DROP:
		if mode != isa.Immediate {
			return wrapErr(KindInvalidAddressMode, ErrInvalidAddressMode)
		}
		_, err := vm.Pop()
		return err

	case isa.OVER:
		if mode != isa.Immediate {
			return wrapErr(KindInvalidAddressMode, ErrInvalidAddressMode)
		}
		top, err := vm.Pop()
		if err != nil {
			return err
		}
		second, err := vm.Pop()
		if err != nil {
			vm.Push(top)
			return err
		}
		vm.Push(second)
		vm.Push(top)
		return vm.Push(second)

	default:
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
}

func (vm *VM) execArithmetic(inst isa.Instruction) error {
	op1, err := vm.Pop()
	if err != nil {
		return err
	}
	op2, err := vm.Pop()
	if err != nil {
		vm.Push(op1)
		return err
	}
	var result trit.Tryte
	switch inst.BaseOpcode() {
	case isa.ADD:
		result = trit.Add(op2, op1)
	case isa.SUB:
		result = trit.Sub(op2, op1)
	case isa.MUL:
		result = trit.Mul(op2, op1)
	case isa.DIV:
		if op1.Value == 0 {
			vm.Push(op2)
			vm.Push(op1)
			return wrapErr(KindDivisionByZero, ErrDivisionByZero)
		}
		result = trit.Div(op2, op1)
	default:
		vm.Push(op2)
		vm.Push(op1)
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
	return vm.Push(result)
}

func (vm *VM) execLogic(inst isa.Instruction) error {
	if inst.BaseOpcode() == isa.NOT {
		a, err := vm.Pop()
		if err != nil {
			return err
		}
		return vm.Push(trit.Not(a))
	}
	b, err := vm.Pop()
	if err != nil {
		return err
	}
	a, err := vm.Pop()
	if err != nil {
		vm.Push(b)
		return err
	}
	var result trit.Tryte
	switch inst.BaseOpcode() {
	case isa.AND:
		result = trit.And(a, b)
	case isa.OR:
		result = trit.Or(a, b)
	default:
		vm.Push(a)
		vm.Push(b)
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
	return vm.Push(result)
}

func (vm *VM) execCompare(inst isa.Instruction) error {
	op1, err := vm.Pop()
	if err != nil {
		return err
	}
	op2, err := vm.Pop()
	if err != nil {
		vm.Push(op1)
		return err
	}
	var ok bool
	switch inst.BaseOpcode() {
	case isa.EQ:
		ok = op2.Value == op1.Value
	case isa.NEQ:
		ok = op2.Value != op1.Value
	case isa.LT:
		ok = op2.Value < op1.Value
	case isa.GT:
		ok = op2.Value > op1.Value
	case isa.LE:
		ok = op2.Value <= op1.Value
	case isa.GE:
		ok = op2.Value >= op1.Value
	default:
		vm.Push(op2)
		vm.Push(op1)
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
	result := -1
	if ok {
		result = 1
	}
	return vm.Push(trit.TryteFromInt(result))
}

func (vm *VM) execControl(inst isa.Instruction) error {
	switch inst.BaseOpcode() {
	case isa.JMP:
		addr, err := vm.Pop()
		if err != nil {
			return err
		}
		if addr.Value < 0 || addr.Value >= MemorySize {
			vm.Push(addr)
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		vm.PC = addr
		return nil

	case isa.JZ, isa.JNZ:
		cond, err := vm.Pop()
		if err != nil {
			return err
		}
		addr, err := vm.Pop()
		if err != nil {
			vm.Push(cond)
			return err
		}
		if addr.Value < 0 || addr.Value >= MemorySize {
			vm.Push(addr)
			vm.Push(cond)
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		jump := cond.Value == 0
		if inst.BaseOpcode() == isa.JNZ {
			jump = !jump
		}
		if jump {
			vm.PC = addr
		}
		return nil

	case isa.CALL:
		target, err := vm.Pop()
		if err != nil {
			return err
		}
		if target.Value < 0 || target.Value >= MemorySize {
			vm.Push(target)
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		oldPC := vm.PC
		returnAddr := trit.TryteFromInt(vm.PC.Value + InstructionSize)
		vm.PC = target
		if err := vm.Push(returnAddr); err != nil {
			vm.PC = oldPC
			vm.Push(target)
			return err
		}
		return nil

	case isa.RET:
		addr, err := vm.Pop()
		if err != nil {
			return err
		}
		if addr.Value < 0 || addr.Value >= MemorySize {
			vm.Push(addr)
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		vm.PC = addr
		return nil

	case isa.HALT:
		return ErrHalted

	default:
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
}

func (vm *VM) execMemory(inst isa.Instruction) error {
	mode := inst.AddrMode()
	switch inst.BaseOpcode() {
	case isa.LOAD:
		var addr trit.Tryte
		var err error
		if mode == isa.Immediate {
			addr, err = vm.Pop()
		} else {
			addr, err = vm.resolveOperand(inst.Operand1, mode)
		}
		if err != nil {
			return err
		}
		if addr.Value < 0 || addr.Value >= MemorySize {
			if mode == isa.Immediate {
				vm.Push(addr)
			}
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		return vm.Push(vm.Memory[addr.Value])

	case isa.STORE:
		value, err := vm.Pop()
		if err != nil {
			return err
		}
		var addr trit.Tryte
		if mode == isa.Immediate {
			addr, err = vm.Pop()
		} else {
			addr, err = vm.resolveOperand(inst.Operand1, mode)
		}
		if err != nil {
			vm.Push(value)
			return err
		}
		if addr.Value < 0 || addr.Value >= MemorySize {
			if mode == isa.Immediate {
				vm.Push(addr)
			}
			vm.Push(value)
			return wrapErr(KindInvalidAddress, ErrInvalidAddress)
		}
		vm.Memory[addr.Value] = value
		return nil

	default:
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
}

func (vm *VM) execIO(inst isa.Instruction) error {
	// IN/OUT are reserved in the opcode table but have no VM-side
	// semantics of their own: I/O is performed through INT traps to the
	// emulator shell's named handlers (PUTCHAR, GETCHAR, ...). See
	// pkg/emulator.
	return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
}

func (vm *VM) execInterrupt(inst isa.Instruction) error {
	switch inst.BaseOpcode() {
	case isa.STI:
		vm.Flags = trit.TryteFromInt(vm.Flags.Value | FlagInterruptsEnabled)
		return nil

	case isa.CLI:
		vm.Flags = trit.TryteFromInt(vm.Flags.Value &^ FlagInterruptsEnabled)
		return nil

	case isa.INT:
		value, err := vm.resolveOperand(inst.Operand1, inst.AddrMode())
		if err != nil {
			return err
		}
		switch value.Value {
		case 1:
			vm.Flags = trit.TryteFromInt(vm.Flags.Value | FlagInterruptsEnabled)
			return nil
		case -1:
			vm.Flags = trit.TryteFromInt(vm.Flags.Value &^ FlagInterruptsEnabled)
			return nil
		case 0:
			return nil
		default:
			if !vm.InterruptsEnabled() {
				return wrapErr(KindInterruptsDisabled, ErrInterruptsDisabled)
			}
			if vm.handler == nil {
				return wrapErr(KindNoInterruptHandler, ErrNoInterruptHandler)
			}
			return vm.handler.HandleInterrupt(vm, value.Value)
		}

	default:
		return wrapErr(KindInvalidOpcode, ErrInvalidOpcode)
	}
}
