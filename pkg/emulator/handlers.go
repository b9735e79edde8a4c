package emulator

import (
	"fmt"

	"github.com/jenissimo/zarya/pkg/trit"
	"github.com/jenissimo/zarya/pkg/vm"
)

// putchar pops one tryte and writes it as a byte. Grounded on emulator.c's
// handle_putchar.
func (e *Emulator) putchar(vmachine *vm.VM) error {
	c, err := vmachine.Pop()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "%c", byte(c.Value))
	return err
}

// getchar reads one byte and pushes it, or -1 on EOF/read error.
// Grounded on emulator.c's handle_getchar.
func (e *Emulator) getchar(vmachine *vm.VM) error {
	value := -1
	if b, err := e.in.ReadByte(); err == nil {
		value = int(b)
	}
	return vmachine.Push(trit.TryteFromInt(value))
}

// puts pops a string address and writes memory from there to the first
// zero tryte. Grounded on emulator.c's handle_puts.
func (e *Emulator) puts(vmachine *vm.VM) error {
	addrTryte, err := vmachine.Pop()
	if err != nil {
		return err
	}
	addr := addrTryte.Value
	if addr < 0 {
		return vm.ErrInvalidAddress
	}
	for addr < vm.MemorySize && vmachine.Memory[addr].Value != 0 {
		if _, err := fmt.Fprintf(e.Out, "%c", byte(vmachine.Memory[addr].Value)); err != nil {
			return err
		}
		addr++
	}
	return nil
}

// gets pops (maxlen, addr) — top of stack is maxlen — and reads a line
// into memory starting at addr, null-terminated. Grounded on emulator.c's
// handle_gets; unlike the original this bounds-checks addr+i against
// MemorySize, since a Go array indexes out of bounds panic instead of
// silently corrupting adjacent memory the way the C array would.
func (e *Emulator) gets(vmachine *vm.VM) error {
	maxlenTryte, err := vmachine.Pop()
	if err != nil {
		return err
	}
	addrTryte, err := vmachine.Pop()
	if err != nil {
		return err
	}
	maxlen := maxlenTryte.Value
	addr := addrTryte.Value
	if addr < 0 || maxlen <= 0 {
		return vm.ErrInvalidAddress
	}

	i := 0
	for i < maxlen-1 {
		b, err := e.in.ReadByte()
		if err != nil || b == '\n' {
			break
		}
		if addr+i >= vm.MemorySize {
			break
		}
		vmachine.Memory[addr+i] = trit.TryteFromInt(int(b))
		i++
	}
	if addr+i < vm.MemorySize {
		vmachine.Memory[addr+i] = trit.TryteFromInt(0)
	}
	return nil
}

// clear emits the ANSI clear-screen-and-home sequence. Grounded on
// emulator.c's handle_clear.
func (e *Emulator) clear(vmachine *vm.VM) error {
	_, err := fmt.Fprint(e.Out, "\033[2J\033[H")
	return err
}

// setpos pops (col, row) — top of stack is column — and moves the cursor.
// Grounded on emulator.c's handle_setpos.
func (e *Emulator) setpos(vmachine *vm.VM) error {
	col, err := vmachine.Pop()
	if err != nil {
		return err
	}
	row, err := vmachine.Pop()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "\033[%d;%dH", row.Value, col.Value)
	return err
}
