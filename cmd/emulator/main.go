// Command emulator loads a Zarya binary image and runs it, either to
// completion or under an interactive step/run/quit REPL.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/urfave/cli"

	"github.com/jenissimo/zarya/pkg/emulator"
	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/vm"
)

func main() {
	log.SetFlags(0)
	defer glog.Flush()

	app := cli.NewApp()
	app.Name = "emulator"
	app.Usage = "run a Zarya binary image"
	app.ArgsUsage = "<image>"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "q",
			Usage: "headless: run to completion instead of opening the REPL",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "trace every step (pc, decoded instruction, sp)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: emulator [-q] [-v] <image>", 1)
	}

	fp, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer fp.Close()

	code, err := isa.ReadImage(fp)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	machine := vm.New()
	if err := machine.LoadProgram(code); err != nil {
		return cli.NewExitError(err, 1)
	}

	e := emulator.New(machine)
	e.Trace = c.Bool("v")

	if c.Bool("q") {
		fmt.Println("initial state:")
		dump(e.VM)
		runErr := e.Run()
		fmt.Println("final state:")
		dump(e.VM)
		if runErr != nil {
			return cli.NewExitError(runErr, 1)
		}
		return nil
	}
	return repl(e)
}

// repl drives the emulator under chzyer/readline's step (s), run (r), and
// quit (q) commands, dumping the register file after every step.
func repl(e *emulator.Emulator) error {
	rl, err := readline.New("zarya> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	e.Stepping = true
	color.NoColor = color.NoColor || !isTerminal(os.Stdout)

	fmt.Println("zarya emulator: s(tep), r(un), d(ump), q(uit)")
	dump(e.VM)

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}

		switch line {
		case "s", "step":
			if err := e.Step(); err != nil {
				if errors.Is(err, vm.ErrHalted) {
					fmt.Println("halted")
					continue
				}
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			dump(e.VM)

		case "r", "run":
			if err := e.Run(); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			dump(e.VM)
			fmt.Println("halted")

		case "d", "dump":
			dump(e.VM)

		case "q", "quit":
			return nil

		case "":
			// repeat the last dump on a bare Enter, matching the
			// original's paused-on-every-step feel.
			dump(e.VM)

		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", line)
		}
	}
}

// dump prints PC, SP, flags, and R0..R3, highlighting the flags tryte
// when interrupts are enabled.
func dump(m *vm.VM) {
	flags := fmt.Sprintf("%d", m.Flags.Value)
	if m.InterruptsEnabled() {
		flags = color.GreenString(flags)
	}
	fmt.Printf("pc=%-4d sp=%-4d flags=%s regs=%v\n",
		m.PC.Value, m.SP.Value, flags, registerValues(m))
}

func registerValues(m *vm.VM) []int {
	out := make([]int, len(m.Registers))
	for i, r := range m.Registers {
		out[i] = r.Value
	}
	return out
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
