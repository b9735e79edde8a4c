package trias

import (
	"errors"
	"io"

	"github.com/jenissimo/zarya/pkg/trit"
)

// TryteOrError carries one assembled tryte, or the error that stopped
// assembly.
type TryteOrError struct {
	Tryte trit.Tryte
	Index int
	Error error
}

// Assemble runs the full lex/parse/codegen pipeline over source and
// returns the resulting tryte stream. Multiple syntax errors are joined
// into one via errors.Is-compatible errors.Join.
func Assemble(source string) ([]trit.Tryte, error) {
	prog, errs := NewParser(source).Parse()
	if errs != nil {
		return nil, errors.Join(errs...)
	}
	return NewCodeGen().Generate(prog)
}

// StartAssembler starts assembly in a background goroutine, streaming
// the resulting trytes (or a single terminal error) over the returned
// channel, mirroring the rest of this codebase's reader-to-channel
// pipelines.
func StartAssembler(r io.Reader) <-chan TryteOrError {
	out := make(chan TryteOrError)
	go AssemblerAsync(r, out)
	return out
}

// AssemblerAsync runs the assembler and writes its result to out,
// closing it when done.
func AssemblerAsync(r io.Reader, out chan<- TryteOrError) {
	defer close(out)

	source, err := io.ReadAll(r)
	if err != nil {
		out <- TryteOrError{Error: err}
		return
	}

	code, err := Assemble(string(source))
	if err != nil {
		out <- TryteOrError{Error: err}
		return
	}

	for i, t := range code {
		out <- TryteOrError{Tryte: t, Index: i}
	}
}
