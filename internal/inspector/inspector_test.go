package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvm16/asm"
	"rvm16/vm"
)

func build(t *testing.T, src string) []byte {
	t.Helper()
	tokens, err := asm.Lex([]byte(src))
	require.NoError(t, err)
	out, err := asm.Assemble(tokens)
	require.NoError(t, err)
	return out
}

func TestPrintDoesNotPanicWithoutSymbols(t *testing.T) {
	v := vm.New(build(t, "HLT"), nil)
	assert.NotPanics(t, func() { Print(v, nil) })
}

func TestPrintDoesNotPanicWithSymbols(t *testing.T) {
	tokens, err := asm.Lex([]byte("HLT"))
	require.NoError(t, err)
	image, sym, err := asm.AssembleWithDebugInfo(tokens)
	require.NoError(t, err)
	v := vm.New(image, nil)
	assert.NotPanics(t, func() { Print(v, sym) })
}

func TestCurrentLineReturnsMinusOneWithoutSymbols(t *testing.T) {
	v := vm.New(build(t, "HLT"), nil)
	assert.Equal(t, -1, currentLine(v, nil))
}

func TestToggleBreakpointAddsAndRemoves(t *testing.T) {
	breaks := make(map[int]struct{})

	toggleBreakpoint(breaks, "b 3")
	_, ok := breaks[3]
	assert.True(t, ok)

	toggleBreakpoint(breaks, "break 3")
	_, ok = breaks[3]
	assert.False(t, ok)
}

func TestToggleBreakpointIgnoresGarbage(t *testing.T) {
	breaks := make(map[int]struct{})
	toggleBreakpoint(breaks, "b nonsense")
	assert.Empty(t, breaks)
}
