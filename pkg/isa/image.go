package isa

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jenissimo/zarya/pkg/trit"
)

// WriteImage writes code as the on-disk binary image format: one
// little-endian int32 per tryte, three per instruction, image offset 0
// corresponding to VM address 0.
func WriteImage(w io.Writer, code []trit.Tryte) error {
	buf := make([]byte, 4)
	for _, t := range code {
		binary.LittleEndian.PutUint32(buf, uint32(int32(t.Value)))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("isa: write image: %w", err)
		}
	}
	return nil
}

// ReadImage reads an image previously written by WriteImage, reconstructing
// each tryte's trit sequence from its cached integer value.
func ReadImage(r io.Reader) ([]trit.Tryte, error) {
	var code []trit.Tryte
	buf := make([]byte, 4)
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return code, nil
		}
		if err != nil {
			return nil, fmt.Errorf("isa: read image: %w", err)
		}
		value := int32(binary.LittleEndian.Uint32(buf))
		code = append(code, trit.TryteFromInt(int(value)))
	}
}
