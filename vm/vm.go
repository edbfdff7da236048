// Package vm is the emulator: a fixed register file plus a 64 KiB RAM
// image, stepped one instruction at a time through fetch/decode/execute.
package vm

import (
	"sync/atomic"

	"rvm16/isa"
)

const ramSize = 1 << 16

// Register is a 16-bit, atomically-addressable cell. The machine this is
// modeled on backs every register with an atomic byte cell; Go has no
// atomic.Uint16, so Register wraps atomic.Uint32 and truncates on every
// store, giving an inspector sampling between steps the same lock-free-read
// guarantee.
type Register struct {
	v atomic.Uint32
}

// Load reads the current value.
func (r *Register) Load() uint16 { return uint16(r.v.Load()) }

// Store writes v, truncated to 16 bits.
func (r *Register) Store(v uint16) { r.v.Store(uint32(v)) }

// OutputSink receives one record per executed OUT instruction — the
// emulator's entire I/O surface.
type OutputSink interface {
	Emit(src, dest uint16)
}

// VM owns one emulator instance: its register file, RAM image, and running
// state. Reentry (nested VMs) is not supported; a VM's lifecycle matches
// one run.
type VM struct {
	regs    [isa.NumRegisters]Register
	ram     [ramSize]byte
	running bool
	out     OutputSink
}

// New allocates a VM with image copied into RAM at offset 0, all registers
// zeroed, and the running flag set, so PC starts at 0.
func New(image []byte, out OutputSink) *VM {
	v := &VM{running: true, out: out}
	copy(v.ram[:], image)
	return v
}

func (v *VM) reg(r isa.Register) *Register {
	return &v.regs[r]
}

// Registers returns a point-in-time snapshot of every named register, for
// the inspector. Each read is a single atomic load; no lock is held across
// the whole snapshot.
func (v *VM) Registers() map[isa.Register]uint16 {
	out := make(map[isa.Register]uint16, len(v.regs))
	for r := isa.PC; int(r) < isa.NumRegisters; r++ {
		out[r] = v.reg(r).Load()
	}
	return out
}

// Peek reads one RAM byte, for the inspector.
func (v *VM) Peek(addr uint16) byte {
	return v.ram[addr]
}

// Running reports whether the VM is still running: false once HLT has
// executed or a fatal error has stopped it.
func (v *VM) Running() bool {
	return v.running
}

func (v *VM) loadByte(addr uint16) byte {
	return v.ram[addr]
}

func (v *VM) storeByte(addr uint16, b byte) {
	v.ram[addr] = b
}

func (v *VM) loadWord(addr uint16) uint16 {
	lo := v.ram[addr]
	hi := v.ram[addr+1]
	return uint16(lo) | uint16(hi)<<8
}

func (v *VM) storeWord(addr uint16, val uint16) {
	v.ram[addr] = byte(val)
	v.ram[addr+1] = byte(val >> 8)
}
