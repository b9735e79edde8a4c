package isa_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jenissimo/zarya/pkg/isa"
	"github.com/jenissimo/zarya/pkg/trit"
)

func TestWriteReadImageRoundTrip(t *testing.T) {
	code := []trit.Tryte{
		trit.TryteFromInt(0),
		trit.TryteFromInt(364),
		trit.TryteFromInt(-364),
		trit.TryteFromInt(42),
	}
	var buf bytes.Buffer
	require.NoError(t, isa.WriteImage(&buf, code))
	require.Equal(t, len(code)*4, buf.Len())

	got, err := isa.ReadImage(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(code))
	for i := range code {
		require.Equal(t, code[i].Value, got[i].Value)
		require.Equal(t, code[i].Trits, got[i].Trits)
	}
}

func TestReadImageEmpty(t *testing.T) {
	got, err := isa.ReadImage(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Nil(t, got)
}
