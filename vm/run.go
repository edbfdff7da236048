package vm

import "runtime/debug"

// Run loops Step to completion: the non-interactive execution path. GC is
// disabled for the duration, since a single instruction never allocates and
// the tight fetch/decode/execute loop pays for every GC pass it hits; the
// interactive path in internal/inspector drives Step directly instead and
// leaves the collector alone.
func (v *VM) Run() error {
	restore := disableGC()
	defer restore()

	for {
		halted, err := v.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

// disableGC turns the collector off and returns a func that restores
// whatever GC percentage was previously in effect.
func disableGC() func() {
	prior := debug.SetGCPercent(-1)
	return func() { debug.SetGCPercent(prior) }
}
