package vm

import "github.com/pkg/errors"

// Fatal runtime sentinels (spec §7 "Runtime (emulator)"). All emulator
// failures are fatal and terminate execution. The sentinels are unexported:
// code outside this package sees them only as non-nil errors.
var (
	errOutOfBounds     = errors.New("out-of-bounds memory access")
	errDivByZero       = errors.New("division by zero")
	errDualMemory      = errors.New("both operands address memory")
	errStoreToConst    = errors.New("store to a constant operand")
	errBadOpCode       = errors.New("decode: out-of-range opcode byte")
	errBadAddrMode     = errors.New("decode: out-of-range addressing-mode byte")
	errBadRegister     = errors.New("decode: out-of-range register byte")
	errAlreadyHalted   = errors.New("step called after halt")
)
