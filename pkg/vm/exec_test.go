package vm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/trit"
	"github.com/jenissimo/zarya/pkg/vm"
)

// inst packs one 3-tryte instruction: opcode (mode, base), operand1, operand2.
func inst(mode isa.AddrMode, base, op1, op2 int) []trit.Tryte {
	return []trit.Tryte{
		isa.MakeOpcode(mode, base),
		trit.TryteFromInt(op1),
		trit.TryteFromInt(op2),
	}
}

func program(insts ...[]trit.Tryte) []trit.Tryte {
	var out []trit.Tryte
	for _, i := range insts {
		out = append(out, i...)
	}
	return out
}

func TestStepPushAddHalt(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.PUSH, 2, 0),
		inst(isa.Immediate, isa.PUSH, 3, 0),
		inst(isa.Immediate, isa.ADD, 0, 0),
		inst(isa.Immediate, isa.HALT, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Run())
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, 5, top.Value)
}

func TestExecOverIsTwoValue(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.PUSH, 1, 0),
		inst(isa.Immediate, isa.PUSH, 2, 0),
		inst(isa.Immediate, isa.OVER, 0, 0),
		inst(isa.Immediate, isa.HALT, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Run())

	top, _ := m.Pop()
	mid, _ := m.Pop()
	bottom, _ := m.Pop()
	require.Equal(t, 1, top.Value)
	require.Equal(t, 2, mid.Value)
	require.Equal(t, 1, bottom.Value)
	require.True(t, m.StackEmpty())
}

func TestDivByZeroRestoresOperands(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.PUSH, 10, 0),
		inst(isa.Immediate, isa.PUSH, 0, 0),
		inst(isa.Immediate, isa.DIV, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	err := m.Step() // PUSH 10
	require.NoError(t, err)
	err = m.Step() // PUSH 0
	require.NoError(t, err)
	err = m.Step() // DIV
	require.True(t, errors.Is(err, vm.ErrDivisionByZero))

	divisor, perr := m.Pop()
	require.NoError(t, perr)
	require.Equal(t, 0, divisor.Value)
	dividend, perr := m.Pop()
	require.NoError(t, perr)
	require.Equal(t, 10, dividend.Value)
}

func TestInterruptsDisabledByDefault(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.INT, 5, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	err := m.Step()
	require.True(t, errors.Is(err, vm.ErrInterruptsDisabled))
}

type recordingHandler struct {
	number int
	called bool
}

func (h *recordingHandler) HandleInterrupt(v *vm.VM, number int) error {
	h.called = true
	h.number = number
	return nil
}

func TestInterruptHandlerInvokedAfterSTI(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.STI, 0, 0),
		inst(isa.Immediate, isa.INT, 5, 0),
	)
	m := vm.New()
	h := &recordingHandler{}
	m.SetInterruptHandler(h)
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step()) // STI
	require.True(t, m.InterruptsEnabled())
	require.NoError(t, m.Step()) // INT 5
	require.True(t, h.called)
	require.Equal(t, 5, h.number)
}

func TestCliDisablesInterrupts(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.STI, 0, 0),
		inst(isa.Immediate, isa.CLI, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step())
	require.NoError(t, m.Step())
	require.False(t, m.InterruptsEnabled())
}

func TestIntPlusOneEnablesWithoutHandler(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.INT, 1, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step())
	require.True(t, m.InterruptsEnabled())
}

func TestJzJumpsWhenConditionZero(t *testing.T) {
	// stack effect: push 9 (target addr), push 0 (cond), JZ -> PC=9
	code := program(
		inst(isa.Immediate, isa.PUSH, 9, 0), // addr pushed second-from-top
		inst(isa.Immediate, isa.PUSH, 0, 0), // cond pushed last (top)
		inst(isa.Immediate, isa.JZ, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step()) // PUSH 9
	require.NoError(t, m.Step()) // PUSH 0
	require.NoError(t, m.Step()) // JZ
	require.Equal(t, 9, m.PC.Value)
}

func TestCallPushesReturnAddressAndJumpsToTarget(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.PUSH, 6, 0), // target: address of instruction 2 (HALT)
		inst(isa.Immediate, isa.CALL, 0, 0), // at address 3, return addr = 6
		inst(isa.Immediate, isa.HALT, 0, 0), // address 6: never reached by fallthrough in this test
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step()) // PUSH 6
	require.NoError(t, m.Step()) // CALL -> PC = 6, pushes return addr 6
	require.Equal(t, 6, m.PC.Value)
	retAddr, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, 6, retAddr.Value)
}

func TestInvalidOpcodeRejected(t *testing.T) {
	m := vm.New()
	m.Memory[0] = isa.MakeOpcode(isa.Immediate, 99)
	err := m.Step()
	require.True(t, errors.Is(err, vm.ErrInvalidOpcode))
}

func TestFetchOutOfBoundsPC(t *testing.T) {
	m := vm.New()
	m.PC = trit.TryteFromInt(vm.MemorySize - 1)
	err := m.Step()
	require.True(t, errors.Is(err, vm.ErrInvalidAddress))
}

func TestLoadStoreRegisterAddressed(t *testing.T) {
	// R0 holds the target address (register mode): STORE value 77 at the
	// address in R0, then LOAD it back.
	code := program(
		inst(isa.Immediate, isa.PUSH, 77, 0),
		inst(isa.Register, isa.STORE, 0, 0), // register 0 holds the address
		inst(isa.Register, isa.LOAD, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	m.Registers[0] = trit.TryteFromInt(20)
	require.NoError(t, m.Step()) // PUSH 77
	require.NoError(t, m.Step()) // STORE register-addressed
	require.Equal(t, 77, m.Memory[20].Value)
	require.NoError(t, m.Step()) // LOAD register-addressed
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, 77, top.Value)
}

func TestStoreImmediateInvalidAddressRestoresBothOperands(t *testing.T) {
	// Immediate-mode STORE pops value then addr; an out-of-range addr must
	// roll both back so the step is atomic.
	code := program(
		inst(isa.Immediate, isa.PUSH, -1, 0),
		inst(isa.Immediate, isa.PUSH, 42, 0),
		inst(isa.Immediate, isa.STORE, 0, 0),
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step()) // PUSH -1
	require.NoError(t, m.Step()) // PUSH 42
	err := m.Step()              // STORE
	require.True(t, errors.Is(err, vm.ErrInvalidAddress))

	value, perr := m.Pop()
	require.NoError(t, perr)
	require.Equal(t, 42, value.Value)
	addr, perr := m.Pop()
	require.NoError(t, perr)
	require.Equal(t, -1, addr.Value)
	require.True(t, m.StackEmpty())
}

func TestPopIntoRegisterInvalidIndexRestoresStack(t *testing.T) {
	code := program(
		inst(isa.Immediate, isa.PUSH, 5, 0),
		inst(isa.Register, isa.POP, 9, 0), // register index 9 is out of range
	)
	m := vm.New()
	require.NoError(t, m.LoadProgram(code))
	require.NoError(t, m.Step())
	err := m.Step()
	require.True(t, errors.Is(err, vm.ErrInvalidRegister))
	top, perr := m.Pop()
	require.NoError(t, perr)
	require.Equal(t, 5, top.Value)
}
