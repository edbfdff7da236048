package vm

import "rvm16/isa"

// Operand is a resolved, kind-tagged value: spec.md §9's "tagged record"
// design note rather than a borrow of the register file. It is cheap to
// copy and only touches the register file again at load/store time.
type Operand struct {
	mode isa.AddrMode
	reg  isa.Register
	lit  uint16
}

// IsMemory reports whether this operand addresses RAM.
func (op Operand) IsMemory() bool {
	return op.mode.IsMemory()
}

// resolveOperand reads one operand starting at the byte MAR currently
// points at (MAR tracks PC throughout fetch/decode), advancing PC and MAR
// in lockstep by the payload width.
func (v *VM) resolveOperand() (Operand, error) {
	modeByte := v.fetchByte()
	mode, ok := isa.DecodeAddrMode(modeByte)
	if !ok {
		return Operand{}, errBadAddrMode
	}

	switch mode {
	case isa.Reg, isa.DerefReg:
		regByte := v.fetchByte()
		r, ok := isa.DecodeRegister(regByte)
		if !ok {
			return Operand{}, errBadRegister
		}
		return Operand{mode: mode, reg: r}, nil

	case isa.Const, isa.Deref:
		return Operand{mode: mode, lit: v.fetchWord()}, nil

	default:
		return Operand{}, errBadAddrMode
	}
}

// load returns the operand's current value: the register cell for Reg, the
// literal for Const, or a two-byte little-endian memory load mediated
// through MAR/MDR for the two memory modes.
func (v *VM) load(op Operand) (uint16, error) {
	switch op.mode {
	case isa.Reg:
		return v.reg(op.reg).Load(), nil
	case isa.Const:
		return op.lit, nil
	case isa.DerefReg:
		return v.loadWordViaMAR(v.reg(op.reg).Load()), nil
	case isa.Deref:
		return v.loadWordViaMAR(op.lit), nil
	default:
		return 0, errBadAddrMode
	}
}

// store writes val through the operand: a register directly, or two bytes
// little-endian through MAR/MDR for memory. Storing to a Const operand is
// fatal.
func (v *VM) store(op Operand, val uint16) error {
	switch op.mode {
	case isa.Reg:
		v.reg(op.reg).Store(val)
		return nil
	case isa.DerefReg:
		v.storeWordViaMAR(v.reg(op.reg).Load(), val)
		return nil
	case isa.Deref:
		v.storeWordViaMAR(op.lit, val)
		return nil
	case isa.Const:
		return errStoreToConst
	default:
		return errBadAddrMode
	}
}

func (v *VM) loadWordViaMAR(addr uint16) uint16 {
	mar, mdr := v.reg(isa.MAR), v.reg(isa.MDR)
	mar.Store(addr)
	val := v.loadWord(mar.Load())
	mdr.Store(val)
	return val
}

func (v *VM) storeWordViaMAR(addr, val uint16) {
	mar, mdr := v.reg(isa.MAR), v.reg(isa.MDR)
	mar.Store(addr)
	mdr.Store(val)
	v.storeWord(mar.Load(), mdr.Load())
}

// fetchByte loads the byte at PC through MAR/MDR and advances PC and MAR by
// one, matching the emulator's described MAR/MDR-mediated fetch.
func (v *VM) fetchByte() byte {
	pc, mar, mdr := v.reg(isa.PC), v.reg(isa.MAR), v.reg(isa.MDR)
	mar.Store(pc.Load())
	b := v.loadByte(mar.Load())
	mdr.Store(uint16(b))
	pc.Store(pc.Load() + 1)
	mar.Store(mar.Load() + 1)
	return b
}

// fetchWord reads a little-endian 16-bit payload, two fetchByte calls.
func (v *VM) fetchWord() uint16 {
	lo := v.fetchByte()
	hi := v.fetchByte()
	return uint16(lo) | uint16(hi)<<8
}

// push stores v.sp-2 through MAR/MDR and predecrements SP; the stack grows
// downward and wraps modulo 2^16.
func (v *VM) push(val uint16) {
	sp := v.reg(isa.SP)
	sp.Store(sp.Load() - 2)
	v.storeWordViaMAR(sp.Load(), val)
}

// pop loads through MAR/MDR at the current SP and post-increments SP.
func (v *VM) pop() uint16 {
	sp := v.reg(isa.SP)
	val := v.loadWordViaMAR(sp.Load())
	sp.Store(sp.Load() + 2)
	return val
}
