package isa

// AddrMode tags the kind of an operand. Its value is the encoded mode byte
// that precedes every operand's payload, fixed by declaration order.
type AddrMode uint8

const (
	// Reg addresses a register directly; payload is one byte, the
	// register index.
	Reg AddrMode = iota
	// DerefReg addresses memory at the address currently held in a
	// register; payload is one byte, the register index.
	DerefReg
	// Const is a literal 16-bit value; payload is two little-endian
	// bytes.
	Const
	// Deref addresses memory at a literal 16-bit address; payload is two
	// little-endian bytes.
	Deref

	numAddrModes
)

var addrModeNames = map[AddrMode]string{
	Reg:      "Reg",
	DerefReg: "DerefReg",
	Const:    "Const",
	Deref:    "Deref",
}

// String returns the tag name, or "?" if m is out of range.
func (m AddrMode) String() string {
	if name, ok := addrModeNames[m]; ok {
		return name
	}
	return "?"
}

// Valid reports whether m decodes to a known addressing mode.
func (m AddrMode) Valid() bool {
	return m < numAddrModes
}

// DecodeAddrMode validates b as an addressing-mode tag, failing on any byte
// past the last declared tag rather than constructing an invalid enumerand.
func DecodeAddrMode(b byte) (AddrMode, bool) {
	m := AddrMode(b)
	return m, m.Valid()
}

// IsMemory reports whether m addresses RAM rather than a register directly
// — the two deref modes. Instructions with two operands may have at most
// one operand for which this is true.
func (m AddrMode) IsMemory() bool {
	return m == DerefReg || m == Deref
}

// PayloadLen returns the number of payload bytes that follow the mode tag
// for an operand of kind m.
func (m AddrMode) PayloadLen() int {
	switch m {
	case Reg, DerefReg:
		return 1
	case Const, Deref:
		return 2
	default:
		return 0
	}
}
