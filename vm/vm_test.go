package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvm16/asm"
	"rvm16/isa"
	"rvm16/vm"
)

type recordingSink struct {
	src, dest uint16
	calls     int
}

func (s *recordingSink) Emit(src, dest uint16) {
	s.src, s.dest, s.calls = src, dest, s.calls+1
}

func build(t *testing.T, src string) []byte {
	t.Helper()
	tokens, err := asm.Lex([]byte(src))
	require.NoError(t, err)
	out, err := asm.Assemble(tokens)
	require.NoError(t, err)
	return out
}

// Scenario 1 (spec.md §8): HLT halts after one step with PC=1.
func TestHltHaltsAfterOneStep(t *testing.T) {
	v := vm.New(build(t, "HLT"), nil)
	halted, err := v.Step()
	require.NoError(t, err)
	assert.True(t, halted)
	assert.Equal(t, uint16(1), v.Registers()[isa.PC])
}

// Scenario 3 (spec.md §8): two ADDs accumulate into A.
func TestAddAccumulates(t *testing.T) {
	v := vm.New(build(t, "ADD 0x0001 %a\nADD 0x0002 %a\nHLT"), nil)
	require.NoError(t, v.Run())
	assert.EqualValues(t, 3, v.Registers()[isa.A])
}

// Scenario 4 (spec.md §8): a label jumping to itself loops forever with A
// unchanged after each iteration; bounded here by a fixed step count.
func TestSelfJumpLoopsWithStableState(t *testing.T) {
	v := vm.New(build(t, "MOV 0x0001 %a\n.start MOV 0x0001 %a\nJMP .start"), nil)
	for i := 0; i < 50; i++ {
		halted, err := v.Step()
		require.NoError(t, err)
		require.False(t, halted)
	}
	assert.EqualValues(t, 1, v.Registers()[isa.A])
}

// Scenario 5 (spec.md §8), adapted to this implementation's src-first
// operand order: CMP 5,3 leaves FLGS=GREATER, so JLT is not taken and C
// ends up 1 via the fallthrough path. Exercises the flagged JLE/JGE
// open-question decision being irrelevant to this particular case (JLT is
// the unmodified condition).
func TestCmpAndConditionalJump(t *testing.T) {
	src := `
MOV 0x0005 %a
MOV 0x0003 %b
CMP %b %a
JLT .less
MOV 0x0001 %c
HLT
.less MOV 0x0002 %c
HLT
`
	v := vm.New(build(t, src), nil)
	require.NoError(t, v.Run())
	assert.EqualValues(t, 1, v.Registers()[isa.C])
}

// Scenario 6 (spec.md §8): push/pop round trip through an explicitly
// initialized stack pointer.
func TestPushPopRoundTrip(t *testing.T) {
	v := vm.New(build(t, "MOV 0x0100 %sp\nPUSH 0x00AB\nPOP %a\nHLT"), nil)
	require.NoError(t, v.Run())
	regs := v.Registers()
	assert.EqualValues(t, 0x00AB, regs[isa.A])
	assert.EqualValues(t, 0x0100, regs[isa.SP])
}

func TestJleJgeFireOnlyOnEquality(t *testing.T) {
	// dest=5, src=3 -> GREATER. JGE should NOT fire per the preserved
	// (flagged) source behavior, even though 5 >= 3.
	v := vm.New(build(t, "MOV 0x0005 %a\nMOV 0x0003 %b\nCMP %b %a\nJGE .taken\nMOV 0x0001 %c\nHLT\n.taken MOV 0x0002 %c\nHLT"), nil)
	require.NoError(t, v.Run())
	assert.EqualValues(t, 1, v.Registers()[isa.C])
}

func TestDivStoresQuotientAndRemainder(t *testing.T) {
	v := vm.New(build(t, "MOV 0x0003 %a\nMOV 0x000A %b\nDIV %a %b\nHLT"), nil)
	require.NoError(t, v.Run())
	regs := v.Registers()
	assert.EqualValues(t, 3, regs[isa.B])
	assert.EqualValues(t, 1, regs[isa.IM])
}

func TestDivisionByZeroIsFatal(t *testing.T) {
	v := vm.New(build(t, "MOV 0x0000 %a\nMOV 0x000A %b\nDIV %a %b\nHLT"), nil)
	err := v.Run()
	assert.Error(t, err)
}

func TestDualMemoryOperandIsFatal(t *testing.T) {
	// The assembler itself also rejects this; construct raw bytes to
	// exercise the emulator's own defense directly.
	out := []byte{
		byte(isa.MOV),
		byte(isa.Deref), 0x00, 0x10,
		byte(isa.Deref), 0x00, 0x20,
	}
	v := vm.New(out, nil)
	err := v.Run()
	assert.Error(t, err)
}

func TestOutEmitsWithoutMutatingRegisters(t *testing.T) {
	sink := &recordingSink{}
	v := vm.New(build(t, "MOV 0x002A %a\nOUT %a %a\nHLT"), sink)
	require.NoError(t, v.Run())
	assert.Equal(t, 1, sink.calls)
	assert.EqualValues(t, 0x002A, sink.src)
	assert.EqualValues(t, 0x002A, sink.dest)
	assert.EqualValues(t, 0x002A, v.Registers()[isa.A])
}

func TestOutOfRangeOpCodeIsFatal(t *testing.T) {
	v := vm.New([]byte{0xFE}, nil)
	_, err := v.Step()
	assert.Error(t, err)
}
