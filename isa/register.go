// Package isa is the single source of truth for opcode byte values, register
// indices, addressing-mode tags, and their textual mnemonics. Both the
// assembler and the emulator import it rather than each keeping their own
// copy of the encoding.
package isa

import "strings"

// Register identifies one of the machine's 16-bit register cells. Its value
// is the byte index used in the encoded instruction stream, fixed by
// declaration order below.
type Register uint8

const (
	PC Register = iota
	MAR
	MDR
	IM
	SP
	FLGS
	A
	B
	C
	D
	E
	F
	G
	H

	numRegisters = H + 1
)

// NumRegisters is the size of the register file.
const NumRegisters = int(numRegisters)

var registerNames = map[Register]string{
	PC:   "PC",
	MAR:  "MAR",
	MDR:  "MDR",
	IM:   "IM",
	SP:   "SP",
	FLGS: "FLGS",
	A:    "A",
	B:    "B",
	C:    "C",
	D:    "D",
	E:    "E",
	F:    "F",
	G:    "G",
	H:    "H",
}

var registerByName map[string]Register

func init() {
	registerByName = make(map[string]Register, len(registerNames))
	for r, name := range registerNames {
		registerByName[strings.ToUpper(name)] = r
	}
}

// String returns the canonical mnemonic for r, or "?" if r is out of range.
func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return "?"
}

// Valid reports whether r is a known register.
func (r Register) Valid() bool {
	return r < numRegisters
}

// ParseRegister resolves a register name (case-insensitive, no leading '%')
// to its Register value.
func ParseRegister(name string) (Register, bool) {
	r, ok := registerByName[strings.ToUpper(name)]
	return r, ok
}

// DecodeRegister validates b as a register index, failing on any byte past
// the last declared register rather than constructing an invalid enumerand.
func DecodeRegister(b byte) (Register, bool) {
	r := Register(b)
	return r, r.Valid()
}
