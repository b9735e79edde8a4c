// Package emulator is the host shell around pkg/vm: it owns the
// interrupt handler the VM calls synchronously out of the INT opcode,
// multiplexing to named device handlers (PUTCHAR, GETCHAR, PUTS, GETS,
// CLEAR, SETPOS, TIMER, KEYBOARD), and drives the step/run loop with
// optional execution tracing.
package emulator

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/jenissimo/zarya/pkg/vm"
)

// The named interrupt numbers an INT instruction may raise. zarya_config.h
// numbers these PUTCHAR=1..SETPOS=6, but INT's own operand reserves the
// value 1 as the STI shorthand (and -1/0 as CLI/no-op) — see execInterrupt
// in pkg/vm. A PUTCHAR raised as INT #1 would enable interrupts instead of
// reaching this package's handler, so every named number here is shifted up
// by one to stay clear of the {-1, 0, 1} control band.
const (
	IntPutchar  = 2
	IntGetchar  = 3
	IntPuts     = 4
	IntGets     = 5
	IntClear    = 6
	IntSetpos   = 7
	IntTimer    = 8
	IntKeyboard = 9
)

// Handler services one named interrupt, consuming/producing arguments on
// the VM's stack and memory per its own contract.
type Handler func(vmachine *vm.VM) error

// Emulator multiplexes the VM's single INT callback to named handlers and
// drives the fetch-decode-execute loop.
type Emulator struct {
	VM *vm.VM

	// Trace enables per-step execution tracing through glog; tracing is
	// also on whenever glog's V(1) is enabled.
	Trace bool
	// Stepping marks the emulator as running under single-step control (set
	// by the CLI's REPL; the VM itself has no notion of step mode).
	Stepping bool

	In  io.Reader
	Out io.Writer

	handlers map[int]Handler
	in       *bufio.Reader
}

// New returns an Emulator wrapping vmachine, with the six standard
// software interrupts registered plus TIMER/KEYBOARD stubs, and installs
// itself as vmachine's interrupt handler.
func New(vmachine *vm.VM) *Emulator {
	e := &Emulator{
		VM:       vmachine,
		In:       os.Stdin,
		Out:      os.Stdout,
		handlers: make(map[int]Handler, 8),
	}
	e.SetInput(e.In)
	e.RegisterHandler(IntPutchar, e.putchar)
	e.RegisterHandler(IntGetchar, e.getchar)
	e.RegisterHandler(IntPuts, e.puts)
	e.RegisterHandler(IntGets, e.gets)
	e.RegisterHandler(IntClear, e.clear)
	e.RegisterHandler(IntSetpos, e.setpos)
	e.RegisterHandler(IntTimer, stubHandler)
	e.RegisterHandler(IntKeyboard, stubHandler)
	vmachine.SetInterruptHandler(e)
	return e
}

// stubHandler backs TIMER/KEYBOARD until a host overrides them with
// RegisterHandler: the original never wires a device behind either, so
// the honest default is "no handler", not a silent no-op.
func stubHandler(*vm.VM) error {
	return vm.ErrNoInterruptHandler
}

// SetInput replaces the emulator's input source, resetting any buffered
// bytes left over from a previous reader. Tests use this to feed a
// fixed byte sequence to GETCHAR/GETS.
func (e *Emulator) SetInput(r io.Reader) {
	e.In = r
	e.in = bufio.NewReader(r)
}

// RegisterHandler installs (or replaces) the handler for number.
func (e *Emulator) RegisterHandler(number int, h Handler) {
	e.handlers[number] = h
}

// HandleInterrupt implements vm.InterruptHandler, dispatching to the
// registered handler for number.
func (e *Emulator) HandleInterrupt(vmachine *vm.VM, number int) error {
	h, ok := e.handlers[number]
	if !ok {
		return vm.ErrNoInterruptHandler
	}
	return h(vmachine)
}

// Step traces (if enabled) and executes a single VM instruction.
func (e *Emulator) Step() error {
	if e.Trace || bool(glog.V(1)) {
		if inst, err := e.VM.Fetch(); err == nil {
			glog.Infof("pc=%d %s sp=%d", e.VM.PC.Value, inst, e.VM.SP.Value)
		}
	}
	return e.VM.Step()
}

// Run executes instructions until HALT or an error, tracing each step
// when Trace is set. Returns nil on a clean HALT.
func (e *Emulator) Run() error {
	for {
		err := e.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, vm.ErrHalted) {
			return nil
		}
		return err
	}
}
