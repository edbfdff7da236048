// Package inspector is the passive display collaborator spec.md places out
// of scope for the core: a textual view over register/RAM state, and a
// cooperative stepping loop that samples that state between instructions
// at a tunable pacing interval.
package inspector

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"rvm16/asm"
	"rvm16/isa"
	"rvm16/vm"
)

// displayOrder is the register print order; declaration order mirrors the
// ISA's byte-index order.
var displayOrder = []isa.Register{
	isa.PC, isa.MAR, isa.MDR, isa.IM, isa.SP, isa.FLGS,
	isa.A, isa.B, isa.C, isa.D, isa.E, isa.F, isa.G, isa.H,
}

// Print renders one-shot state: the next instruction's source line (if sym
// is available), every register's current value, and the eight RAM bytes
// starting at PC.
func Print(v *vm.VM, sym *asm.DebugSymbols) {
	regs := v.Registers()

	pc := int(regs[isa.PC])
	if sym != nil {
		if line, ok := sym.LineAt[pc]; ok {
			fmt.Printf("  next instruction> line %d (offset %d)\n", line, pc)
		}
	}

	fmt.Print("  registers>")
	for _, r := range displayOrder {
		fmt.Printf(" %s=0x%04X", r, regs[r])
	}
	fmt.Println()

	fmt.Print("  ram@pc>")
	for k := 0; k < 8; k++ {
		fmt.Printf(" %02X", v.Peek(uint16(pc+k)))
	}
	fmt.Println()
}

// RunInteractive drives v.Step() on a ticker, printing state each tick and
// honoring breakpoints on source line numbers. Commands read from stdin:
// n/next executes one instruction, r/run free-runs (still paced by
// stepDelay) until a breakpoint or halt, b/break <line> toggles a
// breakpoint.
func RunInteractive(v *vm.VM, sym *asm.DebugSymbols, stepDelay time.Duration) {
	fmt.Print("Commands:\n\tn or next: execute next instruction\n\tr or run: run program\n\tb or break <line>: toggle breakpoint on source line\n\n")
	Print(v, sym)

	reader := bufio.NewReader(os.Stdin)
	breakAtLines := make(map[int]struct{})
	lastBreakLine := -1
	waitForInput := true

	for {
		line := ""
		if waitForInput {
			fmt.Print("\n-> ")
			line, _ = reader.ReadString('\n')
			line = strings.ToLower(strings.TrimSpace(line))
		} else {
			srcLine := currentLine(v, sym)
			if _, ok := breakAtLines[srcLine]; ok && lastBreakLine != srcLine {
				fmt.Println("breakpoint")
				Print(v, sym)
				waitForInput = true
				lastBreakLine = srcLine
				continue
			}
			time.Sleep(stepDelay)
		}

		switch {
		case !waitForInput || line == "n" || line == "next":
			lastBreakLine = -1
			halted, err := v.Step()
			Print(v, sym)
			if err != nil {
				fmt.Println(err)
				return
			}
			if halted {
				return
			}

		case line == "r" || line == "run":
			waitForInput = false

		case strings.HasPrefix(line, "b"):
			toggleBreakpoint(breakAtLines, line)
		}
	}
}

func currentLine(v *vm.VM, sym *asm.DebugSymbols) int {
	if sym == nil {
		return -1
	}
	pc := int(v.Registers()[isa.PC])
	line, ok := sym.LineAt[pc]
	if !ok {
		return -1
	}
	return line
}

func toggleBreakpoint(breakAtLines map[int]struct{}, command string) {
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(command, "break"), "b"))
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("unknown line number:", err)
		return
	}
	if _, ok := breakAtLines[n]; ok {
		delete(breakAtLines, n)
	} else {
		breakAtLines[n] = struct{}{}
	}
}
