// Package vm implements the Zarya virtual machine: a stack-oriented
// balanced-ternary processor with a fixed-size tryte memory, four general
// purpose registers, and a trap-driven interrupt model.
//
// Memory model
//
// The VM has a flat memory of MemorySize trytes, addresses [0, 364]. The
// stack lives in the same memory and grows upward from address 0; SP = -1
// means the stack is empty. There is no separate data segment: code,
// stack, and any .db/.dw/.ds data assembled by TRIAS all share this one
// address space.
//
// Registers
//
// Four general purpose registers, R0..R3, plus the system registers PC
// (program counter), SP (stack pointer) and a flags tryte. The only flag
// currently defined is INTERRUPTS_ENABLED (bit 0).
//
// Instruction format
//
// Each instruction is one trit.Word: three concatenated trytes (opcode,
// operand1, operand2). The opcode tryte's high trit packs the addressing
// mode (immediate, register, indirect); the remaining five trits are the
// base opcode. See package isa for the full table.
//
// Fetch-decode-execute
//
// Step reads the three trytes at PC, decodes them, rejects unknown base
// opcodes, and dispatches to the group handler for the decoded opcode.
// Handlers that don't change PC themselves (i.e. anything but a jump,
// call, or ret) get it advanced by 3 automatically.
//
// Interrupts
//
// INT is a synchronous trap: the VM holds a single InterruptHandler
// reference (not a callback pointing back at the host), set once via
// SetInterruptHandler. Raising interrupt number N invokes
// handler.HandleInterrupt(vm, N) and runs it to completion before the next
// fetch; there is no asynchronous delivery.
package vm

import (
	"fmt"

	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/trit"
)

const (
	// MemorySize is the memory size in trytes: addresses [0, MemorySize).
	MemorySize = trit.MaxTryteValue + 1

	// NumRegisters is the number of general purpose registers, R0..R3.
	NumRegisters = isa.NumRegisters

	// InstructionSize is the number of trytes occupied by one instruction.
	InstructionSize = 3
)

// FlagInterruptsEnabled is the only bit currently defined in the flags
// tryte.
const FlagInterruptsEnabled = 1

// InterruptHandler is invoked synchronously by the INT opcode. It replaces
// the original design's opaque callback-plus-context pointing back at the
// emulator: the VM borrows a handler rather than holding a back-pointer
// into its own host, which breaks the cycle between "VM calls emulator"
// and "emulator steps VM".
type InterruptHandler interface {
	HandleInterrupt(vm *VM, number int) error
}

// VM is a Zarya virtual machine instance. Not goroutine safe; a single
// goroutine should drive a given instance.
type VM struct {
	Memory    [MemorySize]trit.Tryte
	Registers [NumRegisters]trit.Tryte
	PC        trit.Tryte
	SP        trit.Tryte
	Flags     trit.Tryte

	handler InterruptHandler
}

// New returns a freshly reset VM: zeroed memory and registers, PC = 0,
// SP = -1 (empty stack), flags = 0 (interrupts disabled).
func New() *VM {
	vm := new(VM)
	vm.Reset()
	return vm
}

// Reset restores the VM to its initial state without touching the
// registered interrupt handler.
func (vm *VM) Reset() {
	for i := range vm.Memory {
		vm.Memory[i] = trit.Tryte{}
	}
	for i := range vm.Registers {
		vm.Registers[i] = trit.Tryte{}
	}
	vm.PC = trit.Tryte{}
	vm.SP = trit.TryteFromInt(-1)
	vm.Flags = trit.Tryte{}
}

// SetInterruptHandler installs the handler invoked by the INT opcode.
func (vm *VM) SetInterruptHandler(h InterruptHandler) {
	vm.handler = h
}

// InterruptsEnabled reports whether FlagInterruptsEnabled is set.
func (vm *VM) InterruptsEnabled() bool {
	return vm.Flags.Value&FlagInterruptsEnabled != 0
}

// LoadProgram resets the VM and copies code into memory starting at
// address 0, then sets PC to 0. Use LoadProgramAt to load at a non-zero
// origin (e.g. a program assembled with .org).
func (vm *VM) LoadProgram(code []trit.Tryte) error {
	return vm.LoadProgramAt(0, code)
}

// LoadProgramAt resets the VM and copies code into memory starting at
// addr, then sets PC to addr.
func (vm *VM) LoadProgramAt(addr int, code []trit.Tryte) error {
	if addr < 0 || addr+len(code) > MemorySize {
		return fmt.Errorf("%w: program does not fit in memory", ErrInvalidAddress)
	}
	vm.Reset()
	copy(vm.Memory[addr:], code)
	vm.PC = trit.TryteFromInt(addr)
	return nil
}

// String renders the VM's register file for tracing.
func (vm *VM) String() string {
	return fmt.Sprintf("{PC:%d SP:%d Flags:%d Registers:%v}",
		vm.PC.Value, vm.SP.Value, vm.Flags.Value, registerValues(vm.Registers))
}

func registerValues(regs [NumRegisters]trit.Tryte) []int {
	out := make([]int, len(regs))
	for i, r := range regs {
		out[i] = r.Value
	}
	return out
}
