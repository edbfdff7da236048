package vm

import "rvm16/isa"

// Flag values held in the FLGS register after CMP. Zero is the "undefined"
// fourth state before the first CMP.
const (
	flagsUndefined uint16 = 0
	flagsLess      uint16 = 0b001
	flagsEqual     uint16 = 0b010
	flagsGreater   uint16 = 0b100
)

// Step runs exactly one instruction. It returns (true, nil) once HLT has
// executed, (false, nil) on ordinary completion of a non-halting
// instruction, and a non-nil error — one of the fatal sentinels in
// errors.go — on any fatal condition. A step runs to completion; there are
// no suspension points inside it.
func (v *VM) Step() (bool, error) {
	if !v.running {
		return false, errAlreadyHalted
	}

	opByte := v.fetchByte()
	op, ok := isa.DecodeOpCode(opByte)
	if !ok {
		v.running = false
		return false, errBadOpCode
	}

	switch {
	case op == isa.HLT:
		v.running = false
		return true, nil

	case op == isa.RET:
		v.reg(isa.PC).Store(v.pop())
		return false, nil

	case isJump(op):
		target, err := v.resolveAndLoad()
		if err != nil {
			v.running = false
			return false, err
		}
		if v.jumpTaken(op) {
			v.reg(isa.PC).Store(target)
		}
		return false, nil

	case op == isa.CALL:
		target, err := v.resolveAndLoad()
		if err != nil {
			v.running = false
			return false, err
		}
		retAddr := v.reg(isa.PC).Load()
		v.push(retAddr)
		v.reg(isa.PC).Store(target)
		return false, nil

	case op == isa.PUSH:
		val, err := v.resolveAndLoad()
		if err != nil {
			v.running = false
			return false, err
		}
		v.push(val)
		return false, nil

	case op == isa.POP:
		dest, err := v.resolveOperand()
		if err != nil {
			v.running = false
			return false, err
		}
		val := v.pop()
		if err := v.store(dest, val); err != nil {
			v.running = false
			return false, err
		}
		return false, nil

	default:
		return false, v.stepBinary(op)
	}
}

// isJump reports whether op is JMP or one of the conditional Jcc family.
func isJump(op isa.OpCode) bool {
	switch op {
	case isa.JMP, isa.JEQ, isa.JNE, isa.JLT, isa.JLE, isa.JGT, isa.JGE:
		return true
	default:
		return false
	}
}

// jumpTaken evaluates op's condition against the current FLGS value. JLE
// and JGE fire only on exact equality, matching the source machine's
// behavior rather than the "more correct" LESS-or-EQUAL / GREATER-or-EQUAL
// reading; see the design notes.
func (v *VM) jumpTaken(op isa.OpCode) bool {
	flags := v.reg(isa.FLGS).Load()
	switch op {
	case isa.JMP:
		return true
	case isa.JEQ:
		return flags == flagsEqual
	case isa.JNE:
		return flags != flagsEqual
	case isa.JLT:
		return flags == flagsLess
	case isa.JLE:
		return flags == flagsEqual
	case isa.JGT:
		return flags == flagsGreater
	case isa.JGE:
		return flags == flagsEqual
	default:
		return false
	}
}

// resolveAndLoad resolves the single operand the jump/call/push family
// take and loads its value.
func (v *VM) resolveAndLoad() (uint16, error) {
	op, err := v.resolveOperand()
	if err != nil {
		return 0, err
	}
	return v.load(op)
}

// stepBinary handles CMP/ADD/SUB/MUL/DIV/MOV/OUT: resolve two operands in
// order src, dest; fatal if both address memory; compute with 16-bit
// wrapping arithmetic.
func (v *VM) stepBinary(op isa.OpCode) error {
	src, err := v.resolveOperand()
	if err != nil {
		v.running = false
		return err
	}
	dest, err := v.resolveOperand()
	if err != nil {
		v.running = false
		return err
	}
	if src.IsMemory() && dest.IsMemory() {
		v.running = false
		return errDualMemory
	}

	srcVal, err := v.load(src)
	if err != nil {
		v.running = false
		return err
	}
	destVal, err := v.load(dest)
	if err != nil {
		v.running = false
		return err
	}

	switch op {
	case isa.CMP:
		v.reg(isa.FLGS).Store(compareFlags(destVal, srcVal))
		return nil

	case isa.ADD:
		return v.storeChecked(dest, destVal+srcVal)

	case isa.SUB:
		return v.storeChecked(dest, destVal-srcVal)

	case isa.MUL:
		return v.storeChecked(dest, destVal*srcVal)

	case isa.DIV:
		if srcVal == 0 {
			v.running = false
			return errDivByZero
		}
		quotient := destVal / srcVal
		remainder := destVal % srcVal
		if err := v.storeChecked(dest, quotient); err != nil {
			return err
		}
		v.reg(isa.IM).Store(remainder)
		return nil

	case isa.MOV:
		return v.storeChecked(dest, srcVal)

	case isa.OUT:
		if v.out != nil {
			v.out.Emit(srcVal, destVal)
		}
		return nil

	default:
		v.running = false
		return errBadOpCode
	}
}

func (v *VM) storeChecked(dest Operand, val uint16) error {
	if err := v.store(dest, val); err != nil {
		v.running = false
		return err
	}
	return nil
}

func compareFlags(dest, src uint16) uint16 {
	switch {
	case dest < src:
		return flagsLess
	case dest == src:
		return flagsEqual
	default:
		return flagsGreater
	}
}
